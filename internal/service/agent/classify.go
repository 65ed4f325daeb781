package agent

import "strings"

// Category is the user-facing bucket a turn failure falls into. It only
// selects wording, never retry behavior.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryRateLimited
	CategoryAuthConfig
	CategoryRemoteServiceAuth
)

// Keyword matching over error text is a deliberate, fragile boundary: the
// upstream failure types are externally defined and unstable, so their
// descriptions are the only stable surface. First match wins.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryRateLimited, []string{"quota", "429", "exhausted"}},
	{CategoryAuthConfig, []string{"api_key", "key invalid", "403"}},
	{CategoryRemoteServiceAuth, []string{"unauthorized", "invalid_grant", "calendar_id"}},
}

// Classify maps any error to exactly one category, with Unknown as the
// catch-all.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	text := strings.ToLower(err.Error())
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return CategoryUnknown
}

func (c Category) UserMessage() string {
	switch c {
	case CategoryRateLimited:
		return "API Limit Reached: my AI engine is receiving too many requests right now or has reached its daily capacity. Please try again later or tomorrow!"
	case CategoryAuthConfig:
		return "Configuration Error: my API key seems to be invalid or expired. Please check the system environment settings."
	case CategoryRemoteServiceAuth:
		return "Task Sync Error: I am having trouble accessing your task list. The authorization token might be expired or the list identifier is incorrect."
	default:
		return "System Error: my AI engine is currently unreachable or encountering an unexpected issue. Please try again in a moment!"
	}
}

func (c Category) String() string {
	switch c {
	case CategoryRateLimited:
		return "rate_limited"
	case CategoryAuthConfig:
		return "auth_config"
	case CategoryRemoteServiceAuth:
		return "remote_service_auth"
	default:
		return "unknown"
	}
}
