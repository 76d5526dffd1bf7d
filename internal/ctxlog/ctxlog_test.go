package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext_Fallback(t *testing.T) {
	t.Parallel()
	require.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWith_AddsAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := With(WithLogger(context.Background(), logger), "session", "abc")

	FromContext(ctx).Info("hello")
	require.Contains(t, buf.String(), "session=abc")
	require.Contains(t, buf.String(), "msg=hello")
}
