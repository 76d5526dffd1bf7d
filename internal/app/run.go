package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/specialistvlad/picharness/internal/config"
	"github.com/specialistvlad/picharness/internal/ctxlog"
	"github.com/specialistvlad/picharness/internal/env"
	"github.com/specialistvlad/picharness/internal/fsutil"
	"github.com/specialistvlad/picharness/internal/runner"
	"github.com/specialistvlad/picharness/internal/scenario"
)

const scenarioExt = ".txtar"

// Run executes one harness session: it resolves the environment, loads the
// harness file and scenarios, runs them and prints a report.
func (a *App) Run(ctx context.Context) error {
	ctx = a.session.Context(ctxlog.WithLogger(ctx, a.logger))
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")
	defer func() {
		if err := a.session.Close(ctx); err != nil {
			logger.Error("Closing session failed.", "error", err)
		}
	}()

	e, err := a.session.Env(ctx)
	if err != nil {
		return err
	}

	if a.config.PrintEnv {
		return a.printEnv(e)
	}

	file, err := config.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return invalidConfig(err)
	}

	scs, err := a.loadScenarios(ctx, file)
	if err != nil {
		return err
	}

	timeout := file.Timeout
	if a.config.Timeout > 0 {
		timeout = a.config.Timeout
	}
	r := runner.New(e,
		runner.WithTimeout(timeout),
		runner.WithWorkDir(a.fromConfigDir(file.WorkDir)),
		runner.WithEnviron(file.Environment),
		runner.WithBaseArgs(file.BaseArgs...),
	)
	if err := r.Available(); err != nil {
		return err
	}

	logger.Info("Running scenarios.", "count", len(scs), "prog_path", e.ProgPath, "workers", a.config.Workers)
	outcomes, err := scenario.RunAll(ctx, r, scs, "", a.config.Workers)
	if err != nil {
		return err
	}

	failed, err := a.report(outcomes)
	if err != nil {
		return err
	}
	logger.Debug("App.Run method finished.", "failed", failed)
	if failed > 0 {
		return errors.Wrapf(ErrScenariosFailed, "%d of %d", failed, len(outcomes))
	}
	return nil
}

func (a *App) printEnv(e env.Env) error {
	view := struct {
		env.Env
		InFile *string `json:"infile"`
	}{Env: e}
	if in, ok := a.config.Options.InFile.Get(); ok {
		view.InFile = &in
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// fromConfigDir resolves a relative path from the harness file against the
// file's directory.
func (a *App) fromConfigDir(p string) string {
	if p == "" || filepath.IsAbs(p) || a.config.ConfigPath == "" {
		return p
	}
	return filepath.Join(filepath.Dir(a.config.ConfigPath), p)
}

// loadScenarios resolves the scenario paths from the command line, falling
// back to the harness file. Paths from the file are relative to the file.
func (a *App) loadScenarios(ctx context.Context, file *config.File) ([]*scenario.Scenario, error) {
	paths := a.config.Scenarios
	if len(paths) == 0 && file.Scenarios != "" {
		paths = []string{a.fromConfigDir(file.Scenarios)}
	}
	if len(paths) == 0 {
		return nil, invalidConfigf("no scenario paths given")
	}

	files, err := fsutil.Collect(paths, scenarioExt)
	if err != nil {
		return nil, invalidConfig(err)
	}
	if len(files) == 0 {
		return nil, invalidConfigf("no %s files found", scenarioExt)
	}
	ctxlog.FromContext(ctx).Debug("Discovered scenario files.", "count", len(files))

	scs := make([]*scenario.Scenario, 0, len(files))
	for _, f := range files {
		sc, err := scenario.ParseFile(f)
		if err != nil {
			return nil, invalidConfig(err)
		}
		scs = append(scs, sc)
	}
	return scs, nil
}

// report prints one line per outcome plus diffs and returns how many failed.
// In update mode failing scenarios are rewritten instead.
func (a *App) report(outcomes []*scenario.Outcome) (int, error) {
	failed := 0
	for _, o := range outcomes {
		sc := o.Scenario
		switch {
		case o.Passed():
			fmt.Fprintf(a.outW, "PASS %s (%s)\n", sc.Name, o.Result.Duration)
		case a.config.Update && o.Err == nil:
			if err := os.WriteFile(sc.Path, scenario.Update(sc, o).Format(), 0o644); err != nil {
				return failed, errors.Wrapf(err, "updating %s", sc.Path)
			}
			fmt.Fprintf(a.outW, "UPDATED %s\n", sc.Name)
		default:
			failed++
			fmt.Fprintf(a.outW, "FAIL %s\n", sc.Name)
			if o.Err != nil {
				fmt.Fprintf(a.outW, "    error: %v\n", o.Err)
			}
			for _, d := range o.Diffs {
				fmt.Fprintf(a.outW, "    %s (-want +got):\n%s", d.Section, d.Text)
			}
		}
	}
	fmt.Fprintf(a.outW, "%d passed, %d failed\n", len(outcomes)-failed, failed)
	return failed, nil
}
