package userinteraction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

type ConsoleUserInteraction struct {
	reader      *bufio.Reader
	out         io.Writer
	fd          int
	maskSecrets bool
}

type Option func(*ConsoleUserInteraction)

// WithMaskedSecrets hides secret input when stdin is a terminal.
func WithMaskedSecrets(mask bool) Option {
	return func(u *ConsoleUserInteraction) {
		u.maskSecrets = mask
	}
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(u *ConsoleUserInteraction) {
		u.reader = bufio.NewReader(in)
		u.out = out
		u.fd = -1
		if f, ok := in.(*os.File); ok {
			u.fd = int(f.Fd())
		}
	}
}

func NewConsoleUserInteraction(opts ...Option) *ConsoleUserInteraction {
	u := &ConsoleUserInteraction{
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		fd:     int(os.Stdin.Fd()),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *ConsoleUserInteraction) AskQuestion(ctx context.Context, question string) (string, error) {
	answer, err := u.ask(ctx, question)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// AskSecret reads a credential. Input is echoed unless masking is enabled
// and stdin is a terminal.
func (u *ConsoleUserInteraction) AskSecret(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !u.maskSecrets || u.fd < 0 || !term.IsTerminal(u.fd) {
		if !u.maskSecrets {
			color.New(color.Faint).Fprintln(u.out, "\n(input will be visible)")
		}
		return u.ask(ctx, question)
	}

	fmt.Fprintf(u.out, "\n[USER INPUT REQUIRED] %s\n> ", question)
	secret, err := term.ReadPassword(u.fd)
	fmt.Fprintln(u.out)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimRight(string(secret), "\r\n"), nil
}

func (u *ConsoleUserInteraction) WaitForUserAction(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(u.out, "\n[USER ACTION REQUIRED] %s\n", message)
	fmt.Fprint(u.out, "Press Enter when done...")

	if _, err := u.readLine(); err != nil {
		return fmt.Errorf("failed to wait for user: %w", err)
	}

	return nil
}

func (u *ConsoleUserInteraction) ShowAttempt(ctx context.Context, attempt, maxAttempts int) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(u.out, "\n━━━ Attempt %d/%d ━━━\n", attempt, maxAttempts)
}

func (u *ConsoleUserInteraction) ShowDecision(ctx context.Context, d *entity.Decision) {
	if d == nil {
		return
	}

	if d.LoginSucceeded {
		color.New(color.FgGreen).Fprintf(u.out, "✓ Logged in: %s\n", truncate(d.Interpretation, 200))
		return
	}

	color.New(color.FgBlue).Fprint(u.out, "💭 Page: ")
	color.New(color.Faint).Fprintln(u.out, truncate(d.Interpretation, 200))

	for _, in := range d.RequiredInputs {
		kind := "field"
		if in.Secret {
			kind = "secret"
		}
		color.New(color.Faint).Fprintf(u.out, "   %s %s (%s)\n", kind, truncate(in.FieldSelector, 60), in.Prompt)
	}
}

func (u *ConsoleUserInteraction) ShowNotice(ctx context.Context, message string) {
	color.New(color.FgYellow, color.Bold).Fprintf(u.out, "%s\n", message)
}

// ask prompts and returns the line as typed, without its line ending.
func (u *ConsoleUserInteraction) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprintf(u.out, "\n[USER INPUT REQUIRED] %s\n> ", question)

	answer, err := u.readLine()
	if err != nil {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}
	return answer, nil
}

func (u *ConsoleUserInteraction) readLine() (string, error) {
	line, err := u.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
