package app

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/specialistvlad/picharness/internal/session"
)

var (
	// ErrInvalidConfig marks failures caused by the harness file or the
	// scenario files rather than by the program under test.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrScenariosFailed is returned when at least one scenario did not pass.
	ErrScenariosFailed = errors.New("scenarios failed")
)

func invalidConfig(err error) error {
	return errors.Wrap(ErrInvalidConfig, err.Error())
}

func invalidConfigf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	session *session.Session
}

// NewApp wires an App. Reports go to outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	s := session.New(cfg.Options)
	logger.Debug("Session created.", "session", s.ID())

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		session: s,
	}
}

// Session returns the application's session. This is primarily for testing.
func (a *App) Session() *session.Session {
	return a.session
}
