package integration_tests

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCLI_ResolvesProgramPath checks program-path resolution end to end,
// from raw arguments to the printed environment descriptor.
func TestCLI_ResolvesProgramPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		args     []string
		wantPath string
	}{
		{
			name:     "Supplied binpath",
			args:     []string{"--binpath", "/usr/local/bin/prog"},
			wantPath: "/usr/local/bin/prog",
		},
		{
			name:     "No options",
			wantPath: "picprogrammer",
		},
		{
			name:     "Empty binpath",
			args:     []string{"--binpath="},
			wantPath: "picprogrammer",
		},
		{
			name:     "Infile only",
			args:     []string{"--infile", "fw.hex"},
			wantPath: "picprogrammer",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			out, err := runCLI(t, append(tc.args, "-print-env")...)

			// --- Assert ---
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			require.Equal(t, tc.wantPath, got["prog_path"])
			require.Nil(t, got["input_file"], "input_file is never populated by resolution")
			require.Nil(t, got["output_file"], "output_file is never populated by resolution")
		})
	}
}
