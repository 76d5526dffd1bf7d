package runner

import (
	"log/slog"
	"time"
)

// Option configures a Runner.
type Option func(r *Runner)

// WithTimeout bounds every invocation. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithWorkDir sets the directory the program is started in.
func WithWorkDir(dir string) Option {
	return func(r *Runner) {
		r.workDir = dir
	}
}

// WithEnviron adds variables to the child process environment on top of the
// current process environment.
func WithEnviron(vars map[string]string) Option {
	return func(r *Runner) {
		for k, v := range vars {
			r.environ = append(r.environ, k+"="+v)
		}
	}
}

// WithBaseArgs prepends args to every invocation.
func WithBaseArgs(args ...string) Option {
	return func(r *Runner) {
		r.baseArgs = append(r.baseArgs, args...)
	}
}

// WithLogger sets a logger that takes precedence over the one in the context.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}
