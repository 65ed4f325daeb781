package agent

import (
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/novatasks/internal/core"
)

var wib = time.FixedZone("UTC+7", 7*3600)

func TestAssembler_Build_Order(t *testing.T) {
	a := NewAssembler(wib, "@default")
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	history := []core.Turn{
		{Role: core.RoleUser, Text: "remind me to buy coffee"},
		{Role: core.RoleAssistant, Text: "For when?"},
	}

	msgs := a.Build(now, history, "tomorrow morning")

	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	if msgs[0].Role != core.RoleSystem {
		t.Errorf("first message role = %s, want system", msgs[0].Role)
	}
	if msgs[1].Content != "remind me to buy coffee" || msgs[2].Content != "For when?" {
		t.Error("history not carried verbatim in order")
	}
	last := msgs[len(msgs)-1]
	if last.Role != core.RoleUser || last.Content != "tomorrow morning" {
		t.Errorf("new input must come last, got %+v", last)
	}
}

func TestAssembler_Build_EmptyHistory(t *testing.T) {
	a := NewAssembler(wib, "@default")
	msgs := a.Build(time.Now(), nil, "Remind me to buy coffee tomorrow")

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want system + input", len(msgs))
	}
}

func TestAssembler_TimeAnchorRecomputed(t *testing.T) {
	a := NewAssembler(wib, "@default")

	day1 := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	p1 := a.Build(day1, nil, "x")[0].Content
	p2 := a.Build(day2, nil, "x")[0].Content
	if p1 == p2 {
		t.Error("system prompt identical across days; time anchor is being cached")
	}
}

func TestAssembler_TimezoneApplied(t *testing.T) {
	a := NewAssembler(wib, "@default")

	// 20:00 UTC is already the next day in UTC+7.
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	prompt := a.Build(now, nil, "x")[0].Content

	if !strings.Contains(prompt, "2026-03-15") {
		t.Errorf("prompt anchor not shifted into the configured zone:\n%s", prompt)
	}
}

func TestAssembler_RulesPresent(t *testing.T) {
	a := NewAssembler(wib, "@default")
	prompt := a.Build(time.Now(), nil, "x")[0].Content

	for _, want := range []string{"@default", CompletionMarker, "PLAIN TEXT", "task id"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestAssembler_CustomDefaultList(t *testing.T) {
	a := NewAssembler(wib, "groceries")
	prompt := a.Build(time.Now(), nil, "x")[0].Content
	if !strings.Contains(prompt, "'groceries'") {
		t.Error("configured default list not embedded in the rules")
	}
}
