package service

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/samber/oops"
)

// CommandRunner abstracts the external media tools (extractor, prober,
// muxer/encoder) as black-box processes so resolution logic can be tested
// without the binaries installed.
type CommandRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) error
	Output(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error)
}

// ExecRunner implements CommandRunner using os/exec
type ExecRunner struct{}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) error {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return oops.With("command", name, "timeout", timeout.String(), "context", "external tool timed out").Wrap(runCtx.Err())
		}
		return oops.With("command", name, "stderr", truncateOutput(stderr.String()), "context", "external tool failed").Wrap(err)
	}

	return nil
}

func (ExecRunner) Output(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return "", oops.With("command", name, "timeout", timeout.String(), "context", "external tool timed out").Wrap(runCtx.Err())
		}
		return "", oops.With("command", name, "stderr", truncateOutput(stderr.String()), "context", "external tool failed").Wrap(err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

func truncateOutput(s string) string {
	const limit = 512
	s = strings.TrimSpace(s)
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
