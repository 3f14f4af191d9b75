package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/crm/internal/logger"
	"github.com/tgienger/crm/internal/session"
	"github.com/tgienger/crm/internal/ui"
)

// runTUI starts the terminal UI. Logs go to a file because the alternate
// screen owns the terminal.
func runTUI(opts *RootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	path := cfg.Log.File
	if path == "" {
		if path, err = logger.DefaultFile(); err != nil {
			return WrapExitError(ExitFailure, "resolve log file", err)
		}
	}
	logFile, err := logger.OpenFile(path)
	if err != nil {
		return WrapExitError(ExitFailure, "open log file", err)
	}
	defer logFile.Close()

	e, err := newEnv(opts, cfg, logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.seedDemo(); err != nil {
		return WrapExitError(ExitFailure, "seed demo data", err)
	}

	// Any credentials are accepted, so the TUI signs in on first start
	user, ok := e.session.Current()
	if !ok {
		user = session.DemoUser
		if err := e.session.Login(user); err != nil {
			e.log.Warn().Err(err).Msg("sign in")
		}
	}

	app := ui.NewApp(ui.Options{
		Store:    e.store,
		Settings: e.backend,
		User:     &user,
		Logger:   e.log.Zerolog(),
	})
	e.log.Info().Str("user", user.Email).Msg("starting terminal UI")

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return WrapExitError(ExitFailure, "run terminal UI", err)
	}
	return nil
}
