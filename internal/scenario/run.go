package scenario

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/specialistvlad/picharness/internal/ctxlog"
	"github.com/specialistvlad/picharness/internal/runner"
	"golang.org/x/sync/errgroup"
)

// WorkVar replaces the per-scenario temporary directory in captured output.
const WorkVar = "$WORK"

// Diff is a mismatch in one section.
type Diff struct {
	Section string
	Text    string
}

// Outcome is the result of running one scenario.
type Outcome struct {
	Scenario *Scenario
	Result   *runner.Result
	Diffs    []Diff
	Err      error // the invocation failed, e.g. it timed out

	stdout, stderr, outfile string
}

// Passed reports whether the invocation succeeded and matched.
func (o *Outcome) Passed() bool {
	return o.Err == nil && len(o.Diffs) == 0
}

// Run executes sc with r. Temporary files are created under workDir, or the
// system temp directory when workDir is empty, and removed afterwards.
//
// The returned error is reserved for failures that make every other scenario
// pointless too, such as a missing program; anything specific to sc is
// reported through the Outcome.
func Run(ctx context.Context, r *runner.Runner, sc *Scenario, workDir string) (*Outcome, error) {
	logger := ctxlog.FromContext(ctx).With("scenario", sc.Name)

	dir, err := os.MkdirTemp(workDir, "scenario-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating scenario directory")
	}
	defer os.RemoveAll(dir)

	var in string
	if sc.InFile != nil {
		in = filepath.Join(dir, "infile")
		if err := os.WriteFile(in, sc.InFile, 0o644); err != nil {
			return nil, errors.Wrap(err, "writing scenario infile")
		}
	}
	out := filepath.Join(dir, "outfile")

	rr := r.WithEnv(r.Env().WithFiles(in, out))
	res, err := rr.Run(ctx, bytes.NewReader(sc.Stdin), sc.Args...)
	if errors.Is(err, runner.ErrProgramNotFound) {
		return nil, err
	}

	o := &Outcome{Scenario: sc, Result: res, Err: err}
	if err != nil {
		logger.Debug("Scenario invocation failed.", "error", err)
		return o, nil
	}

	o.stdout = normalize(res.Stdout, dir)
	o.stderr = normalize(res.Stderr, dir)
	o.outfile = normalize(res.Output, dir)

	if res.ExitCode != sc.WantExit {
		o.Diffs = append(o.Diffs, Diff{
			Section: SectionExit,
			Text:    cmp.Diff(strconv.Itoa(sc.WantExit), strconv.Itoa(res.ExitCode)),
		})
	}
	o.compare(SectionStdout, sc.WantStdout, o.stdout)
	o.compare(SectionStderr, sc.WantStderr, o.stderr)
	if sc.WantOutFile != nil && res.Output == nil {
		o.Diffs = append(o.Diffs, Diff{Section: SectionOutFile, Text: "program did not write " + runner.OutFileVar})
	} else {
		o.compare(SectionOutFile, sc.WantOutFile, o.outfile)
	}

	logger.Debug("Scenario finished.", "passed", o.Passed(), "exit_code", res.ExitCode)
	return o, nil
}

func (o *Outcome) compare(section string, want *string, got string) {
	if want == nil {
		return
	}
	if diff := cmp.Diff(*want, got); diff != "" {
		o.Diffs = append(o.Diffs, Diff{Section: section, Text: diff})
	}
}

// normalize replaces dir with WorkVar and terminates non-empty text with a
// newline, as txtar does for every section it stores.
func normalize(b []byte, dir string) string {
	s := strings.ReplaceAll(string(b), dir, WorkVar)
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// RunAll runs scenarios with at most workers running at once. Outcomes are
// returned in input order.
func RunAll(ctx context.Context, r *runner.Runner, scs []*Scenario, workDir string, workers int) ([]*Outcome, error) {
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]*Outcome, len(scs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sc := range scs {
		g.Go(func() error {
			o, err := Run(gctx, r, sc, workDir)
			if err != nil {
				return errors.Wrapf(err, "scenario %s", sc.Name)
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Update returns a copy of sc whose expectations are replaced by what the
// program actually did. Sections that were absent stay absent unless the
// program produced output for them.
func Update(sc *Scenario, o *Outcome) *Scenario {
	c := *sc
	if o.Err != nil || o.Result == nil {
		return &c
	}
	c.WantExit = o.Result.ExitCode
	c.WantStdout = updated(sc.WantStdout, o.stdout)
	c.WantStderr = updated(sc.WantStderr, o.stderr)
	if o.Result.Output != nil || sc.WantOutFile != nil {
		s := o.outfile
		c.WantOutFile = &s
	}
	return &c
}

func updated(prev *string, got string) *string {
	if prev == nil && got == "" {
		return nil
	}
	return &got
}
