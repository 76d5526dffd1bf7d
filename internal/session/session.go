// Package session owns the values computed once per harness run. A Session
// resolves the environment descriptor on first use and hands out the same
// value until it is closed.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/specialistvlad/picharness/internal/ctxlog"
	"github.com/specialistvlad/picharness/internal/env"
	"github.com/specialistvlad/picharness/internal/options"
)

// ErrClosed is returned by Env once the session has been closed.
var ErrClosed = errors.New("session closed")

// Session is safe for concurrent use.
type Session struct {
	id   string
	opts *options.Options

	mu       sync.Mutex
	resolved bool
	closed   bool
	env      env.Env
}

// New creates a session bound to the given parsed options. Nothing is
// resolved until Env is first called.
func New(opts *options.Options) *Session {
	return &Session{
		id:   uuid.NewString(),
		opts: opts,
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Context returns ctx with the session ID attached to its logger.
func (s *Session) Context(ctx context.Context) context.Context {
	return ctxlog.With(ctx, "session", s.id)
}

// Env returns the session's environment descriptor, resolving it on the
// first call.
func (s *Session) Env(ctx context.Context) (env.Env, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return env.Env{}, ErrClosed
	}
	if !s.resolved {
		s.env = env.Resolve(s.opts)
		s.resolved = true
		ctxlog.FromContext(ctx).Debug("Environment resolved.", "session", s.id, "prog_path", s.env.ProgPath)
	}
	return s.env, nil
}

// Close discards the resolved descriptor. Calling Close more than once is
// harmless.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.env = env.Env{}
	ctxlog.FromContext(ctx).Debug("Session closed.", "session", s.id)
	return nil
}
