// Package cmdexec runs external vendor tools without a shell and reports
// their outcome as plain values. Expected failures (non-zero exit, timeout,
// missing binary) never surface as Go errors; callers branch on Result.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Result captures one finished command invocation. ExitCode is -1 when the
// process could not be started or was killed by the timeout; in the timeout
// case Stderr is exactly "Timeout".
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the command exited zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Runner executes one command synchronously. Implementations never use a
// shell and never panic; every outcome is encoded in the Result.
type Runner interface {
	Run(argv []string, timeout time.Duration) Result
}

// ExecRunner is the default Runner backed by os/exec.
type ExecRunner struct{}

// Run executes argv[0] with the remaining elements as arguments, waiting at
// most timeout (no limit when timeout <= 0).
func (ExecRunner) Run(argv []string, timeout time.Duration) Result {
	if len(argv) == 0 {
		return Result{ExitCode: -1, Stderr: "empty command"}
	}
	ctx := context.Background()
	cancel := func() {}
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if err == nil {
		return res
	}
	if ctx.Err() == context.DeadlineExceeded {
		log.Warn().Str("cmd", strings.Join(argv, " ")).Dur("timeout", timeout).Msg("command timed out")
		res.ExitCode = -1
		res.Stderr = "Timeout"
		return res
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res
	}
	// Spawn failure (binary missing, permission denied).
	res.ExitCode = -1
	res.Stderr = err.Error()
	return res
}
