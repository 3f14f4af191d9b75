package cli

import (
	"fmt"
	"io"

	"github.com/tgienger/crm/internal/config"
	"github.com/tgienger/crm/internal/db"
	"github.com/tgienger/crm/internal/kv"
	"github.com/tgienger/crm/internal/logger"
	"github.com/tgienger/crm/internal/session"
	"github.com/tgienger/crm/internal/store"
)

// env is everything a command needs, opened from the configuration.
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	backend kv.Store
	store   *store.Store
	session *session.Session
	closers []func() error
}

// openEnv loads the configuration and opens the storage backend. Logs go
// to logOut; --verbose lowers the level to debug.
func openEnv(opts *RootOptions, logOut io.Writer) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return newEnv(opts, cfg, logOut)
}

func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	return cfg, nil
}

// newEnv opens the storage backend cfg selects.
func newEnv(opts *RootOptions, cfg *config.Config, logOut io.Writer) (*env, error) {
	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Output: logOut})

	e := &env{cfg: cfg, log: log}
	if opts.backend != nil {
		e.backend = opts.backend
	} else {
		backend, closer, err := openBackend(cfg)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "open storage", err)
		}
		e.backend = backend
		e.closers = append(e.closers, closer)
	}
	log.Debug().Str("driver", cfg.Storage.Driver).Msg("storage opened")

	e.store = store.New(e.backend, store.Options{Clock: opts.clock, Logger: log.Zerolog()})
	e.session = session.New(e.backend, log.Zerolog())
	return e, nil
}

// openBackend opens the key-value backend cfg selects.
func openBackend(cfg *config.Config) (kv.Store, func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		var d *db.DB
		var err error
		if cfg.Storage.Path == "" {
			d, err = db.New()
		} else {
			d, err = db.Open(cfg.Storage.Path)
		}
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil

	case config.DriverRedis:
		r, err := kv.OpenRedis(kv.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil

	case config.DriverMemory:
		return kv.NewMemory(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// seedDemo seeds an empty workspace when the configuration asks for it.
func (e *env) seedDemo() error {
	if !e.cfg.Seed.Demo {
		return nil
	}
	seed, err := store.DemoSeed()
	if err != nil {
		return err
	}
	_, err = e.store.Seed(seed)
	return err
}

func (e *env) Close() error {
	var firstErr error
	for _, c := range e.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
