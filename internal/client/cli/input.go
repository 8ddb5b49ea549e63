package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for the x/term calls.
var (
	isTerminal  = term.IsTerminal
	makeRaw     = term.MakeRaw
	restoreTerm = term.Restore
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// terminalConfirmer asks yes/no questions. On a real terminal a single key
// answers; otherwise a whole line is read. Anything but y/yes means no.
type terminalConfirmer struct {
	reader *bufio.Reader
	out    io.Writer
	fd     int
}

func (c *terminalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c.fd >= 0 && isTerminal(c.fd) {
		if ok, handled, err := c.confirmKey(prompt); handled {
			return ok, err
		}
	}

	answer, err := GetSimpleText(c.reader, prompt+" [y/N]", c.out)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return isYes(answer), nil
}

// confirmKey reads one key in raw mode. handled is false when the terminal
// cannot be switched to raw mode.
func (c *terminalConfirmer) confirmKey(prompt string) (ok, handled bool, err error) {
	state, err := makeRaw(c.fd)
	if err != nil {
		return false, false, nil
	}
	fmt.Fprint(c.out, prompt+" [y/N] ")
	b, err := c.reader.ReadByte()
	_ = restoreTerm(c.fd, state)
	fmt.Fprintln(c.out)

	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, true, nil
		}
		return false, true, err
	}
	return b == 'y' || b == 'Y', true, nil
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
