package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

//go:generate mockgen -source=runner.go -destination=mocks/runner.go -package=mocks

// Result is the captured outcome of one subprocess invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes an external tool. It is the only seam between the
// adapter and the operating system, so tests can substitute a mock and
// assert on the exact command lines without any binaries installed.
//
// A non-zero tool exit is not an error: it comes back in Result.ExitCode
// with err nil. err is reserved for failures to run at all (missing
// binary, cancelled context).
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs tools via os/exec, capturing stdout and stderr
// separately. Subprocesses are started through exec.CommandContext so a
// cancelled run terminates them.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("running %s: %w", name, err)
}

// ToolError wraps a non-zero tool exit so callers can surface the exit
// code and diagnostic output in the job's outcome.
type ToolError struct {
	Tool   string
	Result Result
}

func (e *ToolError) Error() string {
	detail := e.Result.Stderr
	if detail == "" {
		detail = e.Result.Stdout
	}
	if detail == "" {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.Result.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.Result.ExitCode, snippet(detail))
}

// snippet trims tool output to a report-friendly size.
func snippet(s string) string {
	const max = 400
	s = string(bytes.TrimSpace([]byte(s)))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// runChecked executes a tool and converts a non-zero exit into a ToolError.
func runChecked(ctx context.Context, r Runner, name string, args ...string) (Result, error) {
	res, err := r.Run(ctx, name, args...)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		return res, &ToolError{Tool: name, Result: res}
	}
	return res, nil
}
