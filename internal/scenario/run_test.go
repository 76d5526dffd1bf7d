package scenario

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/picharness/internal/env"
	"github.com/specialistvlad/picharness/internal/runner"
	"github.com/specialistvlad/picharness/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestHelperProcess(t *testing.T) {
	testutil.HelperProcess()
}

func helperRunner() *runner.Runner {
	return runner.New(
		env.Env{ProgPath: testutil.HelperProgram()},
		runner.WithEnviron(testutil.HelperEnviron()),
		runner.WithBaseArgs(testutil.HelperBaseArgs()...),
	)
}

func mustParse(t *testing.T, data string) *Scenario {
	t.Helper()
	sc, err := Parse(t.Name(), []byte(data))
	require.NoError(t, err)
	return sc
}

func TestRun(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		data         string
		wantPassed   bool
		wantSections []string
	}{
		{
			name:       "Matching stdout",
			data:       "-- args --\necho\nhello\n-- stdout --\nhello\n",
			wantPassed: true,
		},
		{
			name:         "Mismatching stdout",
			data:         "-- args --\necho\nhello\n-- stdout --\ngoodbye\n",
			wantSections: []string{SectionStdout},
		},
		{
			name:       "Stdout ignored when absent",
			data:       "-- args --\necho\nanything\n",
			wantPassed: true,
		},
		{
			name:       "Stdin is fed",
			data:       "-- args --\ncat\n-- stdin --\nline\n-- stdout --\nline\n",
			wantPassed: true,
		},
		{
			name:       "Expected exit code",
			data:       "-- args --\nexit\n4\n-- exit --\n4\n",
			wantPassed: true,
		},
		{
			name:         "Unexpected exit code and stderr",
			data:         "-- args --\nexit\n1\n-- stderr --\nnope\n",
			wantSections: []string{SectionExit, SectionStderr},
		},
		{
			name:       "Infile is copied to outfile",
			data:       "-- args --\ncopy\n$INFILE\n$OUTFILE\n-- infile --\n:00000001FF\n-- outfile --\n:00000001FF\n",
			wantPassed: true,
		},
		{
			name:         "Outfile never written",
			data:         "-- args --\necho\n-- outfile --\nx\n",
			wantSections: []string{SectionOutFile},
		},
		{
			name:       "Temp paths are normalized",
			data:       "-- args --\necho\n$INFILE\n-- infile --\nx\n-- stdout --\n$WORK/infile\n",
			wantPassed: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			o, err := Run(context.Background(), helperRunner(), mustParse(t, tc.data), t.TempDir())
			require.NoError(t, err)
			require.NoError(t, o.Err)
			require.Equal(t, tc.wantPassed, o.Passed(), "diffs: %+v", o.Diffs)

			var sections []string
			for _, d := range o.Diffs {
				sections = append(sections, d.Section)
			}
			require.Equal(t, tc.wantSections, sections)
		})
	}
}

func TestRun_InvocationErrorIsRecorded(t *testing.T) {
	t.Parallel()

	r := runner.New(
		env.Env{ProgPath: testutil.HelperProgram()},
		runner.WithEnviron(testutil.HelperEnviron()),
		runner.WithBaseArgs(testutil.HelperBaseArgs()...),
		runner.WithTimeout(50*time.Millisecond),
	)
	o, err := Run(context.Background(), r, mustParse(t, "-- args --\nsleep\n10s\n"), "")
	require.NoError(t, err)
	require.Error(t, o.Err)
	require.ErrorIs(t, o.Err, context.DeadlineExceeded)
	require.False(t, o.Passed())
}

func TestRun_MissingProgramAborts(t *testing.T) {
	t.Parallel()

	r := runner.New(env.Env{ProgPath: "picprogrammer-does-not-exist"})
	_, err := Run(context.Background(), r, mustParse(t, "-- args --\n--help\n"), "")
	require.ErrorIs(t, err, runner.ErrProgramNotFound)
}

func TestRunAll(t *testing.T) {
	t.Parallel()

	scs := []*Scenario{
		mustParse(t, "-- args --\necho\none\n-- stdout --\none\n"),
		mustParse(t, "-- args --\necho\ntwo\n-- stdout --\nTWO\n"),
		mustParse(t, "-- args --\nexit\n0\n"),
	}

	outcomes, err := RunAll(context.Background(), helperRunner(), scs, t.TempDir(), 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for i, o := range outcomes {
		require.Same(t, scs[i], o.Scenario, "outcomes must keep input order")
	}
	require.True(t, outcomes[0].Passed())
	require.False(t, outcomes[1].Passed())
	require.True(t, outcomes[2].Passed())
}

func TestRunAll_MissingProgram(t *testing.T) {
	t.Parallel()

	r := runner.New(env.Env{ProgPath: "picprogrammer-does-not-exist"})
	scs := []*Scenario{mustParse(t, "-- args --\n-i\n"), mustParse(t, "-- args --\n-d\n")}
	_, err := RunAll(context.Background(), r, scs, "", 0)
	require.ErrorIs(t, err, runner.ErrProgramNotFound)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	sc := mustParse(t, "-- args --\necho\nfresh\n-- stdout --\nstale\n-- exit --\n2\n")
	o, err := Run(context.Background(), helperRunner(), sc, t.TempDir())
	require.NoError(t, err)
	require.False(t, o.Passed())

	updated := Update(sc, o)
	require.Equal(t, "fresh\n", *updated.WantStdout)
	require.Equal(t, 0, updated.WantExit)
	require.Nil(t, updated.WantStderr, "absent sections with no output stay absent")
	require.Nil(t, updated.WantOutFile)
	require.Equal(t, "stale\n", *sc.WantStdout, "the original is not modified")

	again, err := Run(context.Background(), helperRunner(), updated, t.TempDir())
	require.NoError(t, err)
	require.True(t, again.Passed(), "diffs: %+v", again.Diffs)
}

func TestUpdate_RoundTripsThroughFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data string
	}{
		{
			name: "Stderr without trailing newline",
			data: "-- args --\nstderr\noops\n-- stderr --\nstale\n",
		},
		{
			name: "Stdout without trailing newline",
			data: "-- args --\npwd\n-- stdout --\nstale\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sc := mustParse(t, tc.data)
			o, err := Run(context.Background(), helperRunner(), sc, t.TempDir())
			require.NoError(t, err)
			require.False(t, o.Passed())

			rewritten, err := Parse(sc.Name, Update(sc, o).Format())
			require.NoError(t, err)

			again, err := Run(context.Background(), helperRunner(), rewritten, t.TempDir())
			require.NoError(t, err)
			require.True(t, again.Passed(), "diffs: %+v", again.Diffs)
		})
	}
}

func TestRun_MissingTrailingNewlineMatches(t *testing.T) {
	t.Parallel()

	o, err := Run(context.Background(), helperRunner(), mustParse(t, "-- args --\nstderr\noops\n-- stderr --\noops\n"), t.TempDir())
	require.NoError(t, err)
	require.True(t, o.Passed(), "diffs: %+v", o.Diffs)
}

func TestRunAll_RespectsWorkerLimit(t *testing.T) {
	t.Parallel()

	var scs []*Scenario
	for i := 0; i < 6; i++ {
		scs = append(scs, mustParse(t, "-- args --\nsleep\n50ms\n"))
	}

	outcomes, err := RunAll(context.Background(), helperRunner(), scs, t.TempDir(), 2)
	require.NoError(t, err)

	records := make([]testutil.ExecutionRecord, 0, len(outcomes))
	for _, o := range outcomes {
		require.True(t, o.Passed(), "diffs: %+v err: %v", o.Diffs, o.Err)
		records = append(records, testutil.ExecutionRecord{
			Start: o.Result.Start,
			End:   o.Result.Start.Add(o.Result.Duration),
		})
	}
	require.LessOrEqual(t, testutil.MaxConcurrent(records), 2)
}
