// Package clipboard reads the system clipboard by running the platform's paste tool.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrUnsupported means no clipboard tool is known for this platform, or none is installed.
var ErrUnsupported = errors.New("reading the clipboard is not supported on this platform")

// Reader runs the first of Commands which is found on $PATH, and returns its output as the clipboard content.
type Reader struct {
	Commands [][]string
}

// Default returns a Reader for the current platform.
func Default() Reader {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return Reader{Commands: [][]string{
			{"wl-paste", "--no-newline"},
			{"xclip", "-selection", "clipboard", "-o"},
		}}
	case "darwin":
		return Reader{Commands: [][]string{{"pbpaste"}}}
	default:
		return Reader{}
	}
}

func (r Reader) command() ([]string, error) {
	for _, args := range r.Commands {
		if len(args) == 0 {
			continue
		}
		if _, err := exec.LookPath(args[0]); err == nil {
			return args, nil
		}
	}
	return nil, ErrUnsupported
}

// Read returns the raw clipboard bytes. An empty clipboard is an error.
func (r Reader) Read(ctx context.Context) ([]byte, error) {
	args, err := r.command()
	if err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("reading clipboard with %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("reading clipboard with %s: %w", args[0], err)
	}
	if len(out) == 0 {
		return nil, errors.New("clipboard is empty")
	}
	return out, nil
}
