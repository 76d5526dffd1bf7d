// Package testenv lets Go test binaries target a real picprogrammer build.
//
// Importing the package registers -infile and -binpath on the test binary's
// command line:
//
//	go test ./internal/integration_tests/... -args -binpath=/path/to/picprogrammer
//
// A package opts in with a TestMain that calls Main, after which every test
// shares one session and therefore one resolved environment.
package testenv

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/picharness/internal/ctxlog"
	"github.com/specialistvlad/picharness/internal/env"
	"github.com/specialistvlad/picharness/internal/options"
	"github.com/specialistvlad/picharness/internal/runner"
	"github.com/specialistvlad/picharness/internal/session"
)

var flags = options.Register(flag.CommandLine)

var (
	mu      sync.Mutex
	current *session.Session
)

// Main parses flags, opens the session, runs the tests and closes the
// session again. Use it as
//
//	func TestMain(m *testing.M) { os.Exit(testenv.Main(m)) }
func Main(m *testing.M) int {
	if !flag.Parsed() {
		flag.Parse()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	s := session.New(flags)
	mu.Lock()
	current = s
	mu.Unlock()

	code := m.Run()

	mu.Lock()
	current = nil
	mu.Unlock()
	if err := s.Close(ctx); err != nil {
		logger.Error("Closing session failed.", "error", err)
	}
	return code
}

func logLevel() slog.Level {
	if testing.Verbose() {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// Env returns the session's environment descriptor. It fails the test when
// called outside Main.
func Env(t testing.TB) env.Env {
	t.Helper()

	mu.Lock()
	s := current
	mu.Unlock()
	if s == nil {
		t.Fatal("testenv: no session; call testenv.Main from TestMain")
	}

	e, err := s.Env(context.Background())
	if err != nil {
		t.Fatalf("testenv: %v", err)
	}
	return e
}

// InFile returns the -infile value and whether it was given.
func InFile() (string, bool) {
	return flags.InFile.Get()
}

// Runner returns a runner for the session's program. The test is skipped when
// the program cannot be found.
func Runner(t testing.TB, opts ...runner.Option) *runner.Runner {
	t.Helper()

	r := runner.New(Env(t), opts...)
	if err := r.Available(); err != nil {
		t.Skipf("testenv: %v (pass -binpath to point at a build)", err)
	}
	return r
}
