// Package prompt asks the user for input on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrCancelled is returned when input ends (eg, ctrl-D) before an answer is given.
var ErrCancelled = errors.New("cancelled")

// Prompter writes prompts to Out and reads answers from In, one line each.
type Prompter struct {
	In  io.Reader
	Out io.Writer
	// File descriptor of In, if In is a terminal. Used to read passwords without echo. -1 if none.
	Fd int

	r *bufio.Reader
}

// Stdio returns a Prompter on the process stdin, with prompts written to stderr.
func Stdio() *Prompter {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return &Prompter{In: os.Stdin, Out: os.Stderr, Fd: fd}
}

func (p *Prompter) reader() *bufio.Reader {
	if p.r == nil {
		p.r = bufio.NewReader(p.In)
	}
	return p.r
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader().ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", ErrCancelled
			}
		} else {
			return "", fmt.Errorf("reading input: %w", err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Line prints label and returns the line typed in reply, without the line ending.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.Out, "%s ", label)
	return p.readLine()
}

// Confirm asks a yes/no question. An empty answer returns def.
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.Out, "%s (%s) ", label, hint)
		ans, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(ans)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.Out, "please answer y or n")
	}
}

// Password reads a secret. On a terminal the input is not echoed; otherwise (eg, piped input) it is read as a plain line.
func (p *Prompter) Password(label string) (string, error) {
	if p.Fd < 0 || !term.IsTerminal(p.Fd) {
		return p.Line(label)
	}

	fmt.Fprintf(p.Out, "%s ", label)
	b, err := term.ReadPassword(p.Fd)
	fmt.Fprintln(p.Out)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}
