package buildx

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// readBufferSize bounds a single Write to the output. Longer lines are
// forwarded in pieces of this size.
const readBufferSize = 64 * 1024

// Command is a single external process invocation.
type Command struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Output io.Writer // receives combined stdout and stderr, line by line
}

// Runner runs external processes.
//
// A non-zero exit code is not an error: Run returns it and the caller
// decides. The error is reserved for processes that could not be started
// or were interrupted by ctx.
type Runner interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// ExecRunner runs commands as child processes of the current process.
type ExecRunner struct {
	// WaitDelay bounds how long Run waits for output after the process exits.
	WaitDelay time.Duration
}

// Run starts the command, streams its combined output and waits for it.
func (r ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = c.Stdin
	cmd.WaitDelay = r.WaitDelay

	out := c.Output
	if out == nil {
		out = io.Discard
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return 0, fmt.Errorf("failed to start %s: %w", c.Name, err)
	}

	copied := make(chan struct{})
	go func() {
		copyLines(out, pr)
		close(copied)
	}()

	waitErr := cmd.Wait()
	pw.Close()
	<-copied

	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("%s interrupted: %w", c.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, fmt.Errorf("%s failed: %w", c.Name, waitErr)
	}
	return 0, nil
}

// copyLines forwards r to w one line at a time as lines arrive. Lines
// longer than the read buffer are forwarded in several writes. A final line
// without a newline gets one.
//
// Once a write fails, the rest of r is still read and discarded so the
// child process is never blocked on a full pipe.
func copyLines(w io.Writer, r io.Reader) {
	br := bufio.NewReaderSize(r, readBufferSize)
	failed := false
	for {
		chunk, err := br.ReadSlice('\n')
		if len(chunk) > 0 && !failed {
			if err != nil && !errors.Is(err, bufio.ErrBufferFull) && chunk[len(chunk)-1] != '\n' {
				chunk = append(chunk[:len(chunk):len(chunk)], '\n')
			}
			if _, werr := w.Write(chunk); werr != nil {
				failed = true
			}
		}
		if err != nil && !errors.Is(err, bufio.ErrBufferFull) {
			return
		}
	}
}
