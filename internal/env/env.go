// Package env defines the environment descriptor shared by every test in a
// harness session and the rules for resolving the program under test.
package env

import "github.com/specialistvlad/picharness/internal/options"

// DefaultProgName is used when no binary path was supplied. It is looked up
// on PATH by the runner.
const DefaultProgName = "picprogrammer"

// Env describes the program under test. A zero InputFile or OutputFile means
// the path is absent.
type Env struct {
	ProgPath   string  `json:"prog_path"`
	InputFile  *string `json:"input_file"`
	OutputFile *string `json:"output_file"`
}

// WithFiles returns a copy of e carrying the given file paths. Empty paths
// stay absent.
func (e Env) WithFiles(in, out string) Env {
	c := Env{ProgPath: e.ProgPath}
	if in != "" {
		c.InputFile = &in
	}
	if out != "" {
		c.OutputFile = &out
	}
	return c
}

// ResolveProgPath returns the supplied binpath verbatim, or DefaultProgName
// when binpath was omitted or empty.
func ResolveProgPath(opts *options.Options) string {
	if opts == nil {
		return DefaultProgName
	}
	if path, ok := opts.BinPath.Get(); ok && path != "" {
		return path
	}
	return DefaultProgName
}

// Resolve builds the session descriptor from parsed options. Only the program
// path is resolved; file paths are left absent.
func Resolve(opts *options.Options) Env {
	return Env{ProgPath: ResolveProgPath(opts)}
}
