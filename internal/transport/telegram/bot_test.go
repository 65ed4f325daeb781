package telegram

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sandevgo/novatasks/internal/core"
	"github.com/sandevgo/novatasks/internal/service/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

const testOwnerID int64 = 7

// stubContext overrides the few tele.Context methods the handlers touch.
type stubContext struct {
	tele.Context
	user     *tele.User
	text     string
	sent     []string
	notified []tele.ChatAction
}

func (c *stubContext) Get(string) interface{} { return context.Background() }
func (c *stubContext) Sender() *tele.User     { return c.user }
func (c *stubContext) Chat() *tele.Chat       { return &tele.Chat{ID: c.user.ID} }
func (c *stubContext) Text() string           { return c.text }

func (c *stubContext) Notify(action tele.ChatAction) error {
	c.notified = append(c.notified, action)
	return nil
}

func (c *stubContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

type sentMsg struct {
	to   tele.Recipient
	text string
}

type sendRecorder struct {
	msgs []sentMsg
}

func (r *sendRecorder) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	r.msgs = append(r.msgs, sentMsg{to: to, text: fmt.Sprint(what)})
	return &tele.Message{}, nil
}

type stubRunner struct {
	calls     int
	reply     string
	destroyed bool
	err       error
}

func (r *stubRunner) Run(_ context.Context, _, _ string) (string, bool, error) {
	r.calls++
	return r.reply, r.destroyed, r.err
}

type stubAudit struct {
	denied      []string
	completions []string
	denialCount int
}

func (a *stubAudit) RecordDenied(_ context.Context, userID int64, name, text string) error {
	a.denied = append(a.denied, fmt.Sprintf("%d/%s/%s", userID, name, text))
	return nil
}

func (a *stubAudit) RecordCompletion(_ context.Context, sessionID string) error {
	a.completions = append(a.completions, sessionID)
	return nil
}

func (a *stubAudit) CountDenials(context.Context, int64) (int, error) {
	return a.denialCount, nil
}

func newTestBot(rec *sendRecorder, runner *stubRunner, audit core.AuditRepository) *Bot {
	return &Bot{
		agent:   runner,
		gate:    NewGate(testOwnerID),
		audit:   audit,
		send:    newSender(rec),
		ownerID: testOwnerID,
	}
}

func TestBot_HandleText_DeniedSenderNeverReachesAgent(t *testing.T) {
	rec := &sendRecorder{}
	runner := &stubRunner{reply: "should never be produced"}
	audit := &stubAudit{denialCount: 3}
	bot := newTestBot(rec, runner, audit)

	c := &stubContext{user: &tele.User{ID: 555, FirstName: "Mallory"}, text: "show my tasks"}
	require.NoError(t, bot.handleText(c))

	assert.Zero(t, runner.calls)
	assert.Empty(t, c.notified)
	assert.Equal(t, []string{"555/Mallory/show my tasks"}, audit.denied)

	require.Len(t, rec.msgs, 2)
	assert.Equal(t, "555", rec.msgs[0].to.Recipient())
	assert.Contains(t, rec.msgs[0].text, "Access Denied!")
	assert.Equal(t, "7", rec.msgs[1].to.Recipient())
	assert.Contains(t, rec.msgs[1].text, "SECURITY ALERT")
	assert.Contains(t, rec.msgs[1].text, "Mallory")
	assert.Contains(t, rec.msgs[1].text, "Blocked attempts from this user: 3")
}

func TestBot_HandleText_DeniedSenderWithoutAudit(t *testing.T) {
	rec := &sendRecorder{}
	runner := &stubRunner{}
	bot := newTestBot(rec, runner, nil)

	c := &stubContext{user: &tele.User{ID: 555, FirstName: "Mallory"}, text: "hi"}
	require.NoError(t, bot.handleText(c))

	assert.Zero(t, runner.calls)
	require.Len(t, rec.msgs, 2)
	assert.NotContains(t, rec.msgs[1].text, "Blocked attempts")
}

func TestBot_HandleText_RateLimitedErrorSendsFixedMessage(t *testing.T) {
	rec := &sendRecorder{}
	runner := &stubRunner{err: errors.New("ai chat error: http 429: resource exhausted")}
	audit := &stubAudit{}
	bot := newTestBot(rec, runner, audit)

	c := &stubContext{user: &tele.User{ID: testOwnerID, FirstName: "Owner"}, text: "add milk"}
	require.NoError(t, bot.handleText(c))

	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, []tele.ChatAction{tele.Typing}, c.notified)

	// The raw error never reaches the chat, only the canned wording.
	assert.Equal(t, []string{agent.CategoryRateLimited.UserMessage()}, c.sent)
	assert.Empty(t, rec.msgs)
	assert.Empty(t, audit.completions)
}

func TestBot_HandleText_CompletionRecordedAndReplySent(t *testing.T) {
	rec := &sendRecorder{}
	runner := &stubRunner{reply: "All set.", destroyed: true}
	audit := &stubAudit{}
	bot := newTestBot(rec, runner, audit)

	c := &stubContext{user: &tele.User{ID: testOwnerID, FirstName: "Owner"}, text: "done with the report"}
	require.NoError(t, bot.handleText(c))

	assert.Equal(t, []string{"7"}, audit.completions)
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, "7", rec.msgs[0].to.Recipient())
	assert.Equal(t, "All set.", rec.msgs[0].text)
}
