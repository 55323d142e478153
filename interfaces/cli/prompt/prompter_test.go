package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCtx = context.Background()

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestPrompter_Ask(t *testing.T) {
	p, out := newTestPrompter("  value  \n\n")

	got, err := p.Ask(testCtx, "Token", "")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	got, err = p.Ask(testCtx, "Organization ID", "42")
	require.NoError(t, err)
	assert.Equal(t, "42", got, "empty answer selects the default")

	assert.Equal(t, "Token: Organization ID (42): ", out.String())
}

func TestPrompter_Ask_LastLineWithoutNewline(t *testing.T) {
	p, _ := newTestPrompter("tail")

	got, err := p.Ask(testCtx, "URL", "")
	require.NoError(t, err)
	assert.Equal(t, "tail", got)

	_, err = p.Ask(testCtx, "URL", "")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_AskChoice(t *testing.T) {
	p, out := newTestPrompter("7\nx\n2\n")

	got, err := p.AskChoice(testCtx, "Your choice", []string{"1", "2", "3"}, "1")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Equal(t, 2, strings.Count(out.String(), "Please select one of the available options"))
	assert.Contains(t, out.String(), "Your choice [1/2/3] (1): ")
}

func TestPrompter_AskChoice_Default(t *testing.T) {
	p, _ := newTestPrompter("\n")

	got, err := p.AskChoice(testCtx, "Your choice", []string{"1", "2", "3"}, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		def      bool
		expected bool
	}{
		{name: "default yes", input: "\n", def: true, expected: true},
		{name: "default no", input: "\n", def: false, expected: false},
		{name: "explicit yes", input: "YES\n", def: false, expected: true},
		{name: "explicit no", input: "n\n", def: true, expected: false},
		{name: "retry after garbage", input: "maybe\ny\n", def: false, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			got, err := p.Confirm(testCtx, "Continue?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPrompter_Confirm_EOF(t *testing.T) {
	p, _ := newTestPrompter("maybe\n")

	_, err := p.Confirm(testCtx, "Continue?", true)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_AskSecret_NonTerminal(t *testing.T) {
	p, out := newTestPrompter("y0_secret\n")

	got, err := p.AskSecret(testCtx, "Token")
	require.NoError(t, err)
	assert.Equal(t, "y0_secret", got)
	assert.Equal(t, "Token: ", out.String())

	_, err = p.AskSecret(testCtx, "Token")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_CancelledWhileWaiting(t *testing.T) {
	in, writer := io.Pipe()
	t.Cleanup(func() { writer.Close() })
	var out bytes.Buffer
	p := New(in, &out)

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Ask(waitCtx, "URL", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// the read that was in flight still delivers the next line
	go func() { _, _ = writer.Write([]byte("late answer\n")) }()
	got, err := p.Ask(context.Background(), "URL", "")
	require.NoError(t, err)
	assert.Equal(t, "late answer", got)
}
