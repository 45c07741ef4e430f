// Package runner executes external tools such as pdftoppm and tesseract.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one invocation of an external program
type Command struct {
	Name  string
	Args  []string
	Env   []string // appended to the current environment
	Stdin io.Reader
	Dir   string
}

// String renders the command line for logs
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner runs a command and returns its captured output
type Runner interface {
	Run(ctx context.Context, cmd Command) (stdout, stderr []byte, err error)
}

// ExitError reports a command that ran but exited unsuccessfully
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exec runs commands with os/exec
type Exec struct{}

// New returns the default runner
func New() Runner {
	return Exec{}
}

// Run starts cmd and waits for it. A cancelled context kills the process.
func (Exec) Run(ctx context.Context, cmd Command) ([]byte, []byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin
	c.Dir = cmd.Dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("%s: %w", cmd.Name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), stderr.Bytes(), &ExitError{
				Command: cmd.Name,
				Code:    exitErr.ExitCode(),
				Stderr:  strings.TrimSpace(stderr.String()),
				Err:     err,
			}
		}
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("running %s: %w", cmd.Name, err)
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

// Available reports whether name resolves to an executable
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
