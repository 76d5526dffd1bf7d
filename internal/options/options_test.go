package options

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *Options {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := Register(fs)
	require.NoError(t, fs.Parse(args))
	return opts
}

func TestRegister(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		args       []string
		wantBin    string
		wantBinSet bool
		wantIn     string
		wantInSet  bool
	}{
		{name: "Nothing supplied"},
		{
			name:       "Double dash binpath",
			args:       []string{"--binpath", "/usr/local/bin/prog"},
			wantBin:    "/usr/local/bin/prog",
			wantBinSet: true,
		},
		{
			name:      "Single dash infile with equals",
			args:      []string{"-infile=fw.hex"},
			wantIn:    "fw.hex",
			wantInSet: true,
		},
		{
			name:       "Empty value is still supplied",
			args:       []string{"--binpath="},
			wantBinSet: true,
		},
		{
			name:       "Both",
			args:       []string{"--infile", "a.hex", "--binpath", "./picprogrammer"},
			wantBin:    "./picprogrammer",
			wantBinSet: true,
			wantIn:     "a.hex",
			wantInSet:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			opts := parse(t, tc.args...)

			bin, ok := opts.BinPath.Get()
			require.Equal(t, tc.wantBin, bin)
			require.Equal(t, tc.wantBinSet, ok)

			in, ok := opts.InFile.Get()
			require.Equal(t, tc.wantIn, in)
			require.Equal(t, tc.wantInSet, ok)
		})
	}
}

func TestRegister_UndeclaredOptionIsRejected(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	Register(fs)

	err := fs.Parse([]string{"--env", "prod"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -env")
	require.Nil(t, fs.Lookup("env"))
}

func TestString_NilReceiver(t *testing.T) {
	t.Parallel()

	var s *String
	v, ok := s.Get()
	require.Empty(t, v)
	require.False(t, ok)
	require.Empty(t, s.String())
}
