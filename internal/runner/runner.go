package runner

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/specialistvlad/picharness/internal/ctxlog"
	"github.com/specialistvlad/picharness/internal/env"
)

// Placeholders expanded inside arguments.
const (
	InFileVar  = "$INFILE"
	OutFileVar = "$OUTFILE"
)

// ErrProgramNotFound is returned when the program cannot be located.
var ErrProgramNotFound = errors.New("program not found")

// Result is the outcome of one invocation.
type Result struct {
	Args     []string
	Stdout   []byte
	Stderr   []byte
	Output   []byte // content of env.OutputFile, nil when absent
	ExitCode int
	Start    time.Time
	Duration time.Duration
}

// Runner starts the program described by an env.Env.
type Runner struct {
	env      env.Env
	progPath string // env.ProgPath, made absolute when it names a file
	timeout  time.Duration
	workDir  string
	environ  []string
	baseArgs []string
	logger   *slog.Logger
}

// New creates a Runner for e.
func New(e env.Env, opts ...Option) *Runner {
	r := &Runner{env: e, progPath: absProgPath(e.ProgPath)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// absProgPath anchors a path containing a separator to the current directory
// so that it keeps naming the same file when the program runs elsewhere. Bare
// names are left for PATH lookup.
func absProgPath(p string) string {
	if p == "" || filepath.IsAbs(p) || !strings.ContainsAny(p, `/`+string(filepath.Separator)) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// Env returns the descriptor the runner was built for.
func (r *Runner) Env() env.Env {
	return r.env
}

// WithEnv returns a copy of r that runs against e. Options are shared.
func (r *Runner) WithEnv(e env.Env) *Runner {
	c := *r
	c.env = e
	c.progPath = absProgPath(e.ProgPath)
	c.environ = append([]string(nil), r.environ...)
	c.baseArgs = append([]string(nil), r.baseArgs...)
	return &c
}

// Available reports whether the program can be found, either at its path or
// on PATH for a bare name.
func (r *Runner) Available() error {
	if r.progPath == "" {
		return errors.Wrap(ErrProgramNotFound, "empty program path")
	}
	if _, err := exec.LookPath(r.progPath); err != nil {
		return errors.Wrapf(ErrProgramNotFound, "%s: %v", r.env.ProgPath, err)
	}
	return nil
}

// Run starts the program with the base args followed by args and waits for
// it to exit.
func (r *Runner) Run(ctx context.Context, stdin io.Reader, args ...string) (*Result, error) {
	logger := r.log(ctx)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := r.expand(append(append([]string(nil), r.baseArgs...), args...))
	cmd := exec.CommandContext(ctx, r.progPath, argv...)
	cmd.Dir = r.workDir
	if len(r.environ) > 0 {
		cmd.Env = append(os.Environ(), r.environ...)
	}
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Starting program.", "prog_path", r.progPath, "args", argv)
	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Args:     argv,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Start:    start,
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, errors.Wrapf(ctxErr, "running %s", r.env.ProgPath)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
				return nil, errors.Wrapf(ErrProgramNotFound, "%s: %v", r.env.ProgPath, err)
			}
			return nil, errors.Wrapf(err, "starting %s", r.env.ProgPath)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	if r.env.OutputFile != nil {
		out, readErr := os.ReadFile(*r.env.OutputFile)
		switch {
		case readErr == nil:
			res.Output = out
		case !errors.Is(readErr, os.ErrNotExist):
			return res, errors.Wrap(readErr, "reading output file")
		}
	}

	logger.Debug("Program finished.", "exit_code", res.ExitCode, "duration", res.Duration)
	return res, nil
}

func (r *Runner) expand(args []string) []string {
	var pairs []string
	if r.env.InputFile != nil {
		pairs = append(pairs, InFileVar, *r.env.InputFile)
	}
	if r.env.OutputFile != nil {
		pairs = append(pairs, OutFileVar, *r.env.OutputFile)
	}
	if len(pairs) == 0 {
		return args
	}
	rep := strings.NewReplacer(pairs...)
	for i, a := range args {
		args[i] = rep.Replace(a)
	}
	return args
}

func (r *Runner) log(ctx context.Context) *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return ctxlog.FromContext(ctx)
}
