package harness

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// Invoker runs one benchmark invocation and returns its textual report.
type Invoker interface {
	Run(ctx context.Context, params Params) (string, error)
}

// Runner launches a single benchmark binary from a fixed working
// directory.
type Runner struct {
	Name       string
	BinaryPath string
	Dir        string
	Logger     *slog.Logger
}

// NewRunner creates a Runner for the named benchmark. The binary is
// executed with dir as its working directory.
func NewRunner(
	name, binaryPath, dir string,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		Name:       name,
		BinaryPath: binaryPath,
		Dir:        dir,
		Logger:     logger.With(slog.String("bench", name)),
	}
}

// Run executes the binary with params and returns its standard output.
// A non-zero exit status is an error carrying the captured standard
// error; no partial output is returned in that case. Run applies no
// timeout of its own.
func (r *Runner) Run(ctx context.Context, params Params) (string, error) {
	cmd := exec.CommandContext(ctx, r.BinaryPath, params.Args()...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.InfoContext(ctx, "starting benchmark",
		slog.String("params", params.String()),
	)

	start := time.Now()

	if err := cmd.Run(); err != nil {
		r.Logger.ErrorContext(ctx, "benchmark failed",
			slog.String("params", params.String()),
			slog.String("stderr", stderr.String()),
		)

		return "", fmt.Errorf(
			"benchmark %s %q failed: %w\nstderr: %s",
			r.Name, params.String(), err, stderr.String(),
		)
	}

	r.Logger.InfoContext(ctx, "benchmark finished",
		slog.Duration("wall_time", time.Since(start)),
	)

	return stdout.String(), nil
}
