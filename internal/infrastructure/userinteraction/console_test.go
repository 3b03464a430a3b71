package userinteraction

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"browser-automation/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(input string, opts ...Option) (*ConsoleUserInteraction, *bytes.Buffer) {
	out := &bytes.Buffer{}
	opts = append([]Option{WithIO(strings.NewReader(input), out)}, opts...)
	return NewConsoleUserInteraction(opts...), out
}

func TestAskQuestion(t *testing.T) {
	u, out := newTestConsole("  alice@example.com \nsecond\n")

	answer, err := u.AskQuestion(context.Background(), "Email")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", answer)
	assert.Contains(t, out.String(), "[USER INPUT REQUIRED] Email")

	answer, err = u.AskQuestion(context.Background(), "Next")
	require.NoError(t, err)
	assert.Equal(t, "second", answer)
}

func TestAskQuestion_LastLineWithoutNewline(t *testing.T) {
	u, _ := newTestConsole("123456")

	answer, err := u.AskQuestion(context.Background(), "Code")
	require.NoError(t, err)
	assert.Equal(t, "123456", answer)

	_, err = u.AskQuestion(context.Background(), "More")
	assert.Error(t, err)
}

func TestAskSecret_FallsBackToVisibleInput(t *testing.T) {
	u, out := newTestConsole("hunter2\n")

	secret, err := u.AskSecret(context.Background(), "Password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)
	assert.Contains(t, out.String(), "input will be visible")

	// Masking needs a terminal; a plain reader still works.
	u, out = newTestConsole("hunter2\n", WithMaskedSecrets(true))
	secret, err = u.AskSecret(context.Background(), "Password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)
	assert.NotContains(t, out.String(), "input will be visible")
}

func TestAskSecret_KeepsSurroundingSpaces(t *testing.T) {
	u, _ := newTestConsole("  pass phrase \r\n")

	secret, err := u.AskSecret(context.Background(), "Password")
	require.NoError(t, err)
	assert.Equal(t, "  pass phrase ", secret)
}

func TestAskQuestion_TrimsSpaces(t *testing.T) {
	u, _ := newTestConsole("  alice@example.com \r\n")

	answer, err := u.AskQuestion(context.Background(), "Email")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", answer)
}

func TestCanceledContext(t *testing.T) {
	u, _ := newTestConsole("x\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := u.AskQuestion(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, u.WaitForUserAction(ctx, "m"), context.Canceled)
}

func TestWaitForUserAction(t *testing.T) {
	u, out := newTestConsole("\n")

	require.NoError(t, u.WaitForUserAction(context.Background(), "Look at the live view"))
	assert.Contains(t, out.String(), "Look at the live view")
	assert.Contains(t, out.String(), "Press Enter")
}

func TestShowDecision(t *testing.T) {
	u, out := newTestConsole("")

	u.ShowAttempt(context.Background(), 2, 6)
	u.ShowDecision(context.Background(), &entity.Decision{
		Interpretation: "Password step",
		RequiredInputs: []entity.InputRequest{{FieldSelector: "#pw", Prompt: "Password", Secret: true}},
	})
	u.ShowDecision(context.Background(), &entity.Decision{LoginSucceeded: true, Interpretation: "Dashboard"})
	u.ShowDecision(context.Background(), nil)
	u.ShowNotice(context.Background(), "Go log in, please!")

	text := out.String()
	assert.Contains(t, text, "Attempt 2/6")
	assert.Contains(t, text, "Password step")
	assert.Contains(t, text, "secret #pw (Password)")
	assert.Contains(t, text, "Logged in: Dashboard")
	assert.Contains(t, text, "Go log in, please!")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
