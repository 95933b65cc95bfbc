package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Status classifies the outcome of an external command.
type Status int

const (
	// OK means the command ran and exited zero.
	OK Status = iota
	// Failed means the command ran but exited non-zero, timed out, or was cancelled.
	Failed
	// NotFound means the binary is not installed or not on PATH.
	NotFound
)

// Outcome is the tri-state result of running an external command. Handlers
// react uniformly: OK proceeds, Failed apologizes, NotFound names the tool.
type Outcome struct {
	Status Status
	Stdout string
	Stderr string
	Err    error
}

// Run executes name with args, bounded by timeout when it is positive.
func Run(ctx context.Context, timeout time.Duration, name string, args ...string) Outcome {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Outcome{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Err:    err,
	}
	switch {
	case err == nil:
		out.Status = OK
	case errors.Is(err, exec.ErrNotFound):
		out.Status = NotFound
	default:
		out.Status = Failed
	}
	return out
}

// Message renders a short human-readable failure description.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	msg := strings.TrimSpace(o.Stderr)
	if msg == "" {
		msg = o.Err.Error()
	}
	return msg
}
