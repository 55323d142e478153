package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

// Prompter reads operator answers line by line. Every method returns io.EOF
// once the input is closed and ctx.Err() once ctx is done.
type Prompter struct {
	reader   *bufio.Reader
	out      io.Writer
	terminal *os.File

	// pending carries a read that outlived a cancelled prompt.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// New creates a prompter. When in is a terminal, secrets are read without echo.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.terminal = f
	}
	return p
}

// Ask prints label and returns the trimmed answer, or def for an empty line.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s (%s): ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// AskChoice repeats the question until the answer is one of choices.
func (p *Prompter) AskChoice(ctx context.Context, label string, choices []string, def string) (string, error) {
	question := fmt.Sprintf("%s [%s]", label, strings.Join(choices, "/"))
	for {
		answer, err := p.Ask(ctx, question, def)
		if err != nil {
			return "", err
		}
		if slices.Contains(choices, answer) {
			return answer, nil
		}
		fmt.Fprintln(p.out, "Please select one of the available options")
	}
}

// Confirm asks a yes/no question. An empty answer selects def.
func (p *Prompter) Confirm(ctx context.Context, label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "%s [%s]: ", label, hint)
		line, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please enter Y or N")
	}
}

// AskSecret reads a value without echo on a terminal and as a plain line otherwise.
func (p *Prompter) AskSecret(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if p.terminal == nil {
		return p.readLine(ctx)
	}
	return p.readSecret(ctx)
}

// readLine returns the next trimmed line. A final line without a newline is
// still returned; io.EOF is reported on the following call.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if p.pending == nil {
		p.pending = make(chan readResult, 1)
		go func(ch chan<- readResult) {
			line, err := p.reader.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}(p.pending)
	}

	var res readResult
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case res = <-p.pending:
		p.pending = nil
	}

	if res.err != nil {
		if !errors.Is(res.err, io.EOF) {
			return "", fmt.Errorf("read input: %w", res.err)
		}
		if res.line == "" {
			return "", io.EOF
		}
	}
	return strings.TrimSpace(res.line), nil
}

// readSecret restores the terminal itself when ctx ends mid-read, since the
// blocked read never gets to.
func (p *Prompter) readSecret(ctx context.Context) (string, error) {
	fd := int(p.terminal.Fd())
	state, err := term.GetState(fd)
	if err != nil {
		return "", fmt.Errorf("read terminal state: %w", err)
	}

	done := make(chan readResult, 1)
	go func() {
		secret, err := term.ReadPassword(fd)
		done <- readResult{line: string(secret), err: err}
	}()

	select {
	case <-ctx.Done():
		_ = term.Restore(fd, state)
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case res := <-done:
		fmt.Fprintln(p.out)
		if res.err != nil {
			return "", fmt.Errorf("read secret: %w", res.err)
		}
		return strings.TrimSpace(res.line), nil
	}
}
