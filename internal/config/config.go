package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/specialistvlad/picharness/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// File is the decoded harness file.
type File struct {
	Timeout     time.Duration
	WorkDir     string
	Environment map[string]string
	BaseArgs    []string
	Scenarios   string
}

// hclFile mirrors File for gohcl decoding.
type hclFile struct {
	Timeout     *string           `hcl:"timeout,optional"`
	WorkDir     *string           `hcl:"workdir,optional"`
	Environment map[string]string `hcl:"environment,optional"`
	BaseArgs    []string          `hcl:"base_args,optional"`
	Scenarios   *string           `hcl:"scenarios,optional"`
}

// Load reads the harness file at path. An empty path yields an empty File.
func Load(ctx context.Context, path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading harness file")
	}
	return Decode(ctx, path, src, os.Environ())
}

// Decode parses src as HCL. environ is a list of KEY=VALUE pairs exposed to
// expressions as the `env` object.
func Decode(ctx context.Context, filename string, src []byte, environ []string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding harness file.", "file", filename)

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to parse harness file %s", filename)
	}

	var raw hclFile
	diags = gohcl.DecodeBody(f.Body, evalContext(environ), &raw)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to decode harness file %s", filename)
	}

	out := &File{
		Environment: raw.Environment,
		BaseArgs:    raw.BaseArgs,
	}
	if raw.WorkDir != nil {
		out.WorkDir = *raw.WorkDir
	}
	if raw.Scenarios != nil {
		out.Scenarios = *raw.Scenarios
	}
	if raw.Timeout != nil {
		d, err := time.ParseDuration(*raw.Timeout)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: invalid timeout", filename)
		}
		if d < 0 {
			return nil, errors.Errorf("%s: timeout must not be negative", filename)
		}
		out.Timeout = d
	}

	logger.Debug("Harness file decoded.", "file", filename, "timeout", out.Timeout, "base_args", len(out.BaseArgs))
	return out, nil
}

func evalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"format":    stdlib.FormatFunc,
			"join":      stdlib.JoinFunc,
		},
	}
}
