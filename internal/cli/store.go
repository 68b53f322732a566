package cli

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AndreAle94/moneywallet-sub005/internal/config"
	"github.com/AndreAle94/moneywallet-sub005/internal/database"
	"github.com/AndreAle94/moneywallet-sub005/internal/integrity"
	"github.com/AndreAle94/moneywallet-sub005/internal/service"
)

// store is the opened database every command works on.
type store struct {
	cfg    config.Config
	db     *sql.DB
	engine *integrity.Engine
	log    *slog.Logger
}

func newLogger(w io.Writer, opts *RootOptions, cfg config.Config) *slog.Logger {
	level := cfg.Level()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "config", err)
	}
	return cfg, nil
}

// openStore loads the config, migrates and seeds the database and wraps it
// in an engine.
func openStore(cmd *cobra.Command, opts *RootOptions) (*store, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log := newLogger(cmd.ErrOrStderr(), opts, cfg)

	path := cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "mkdir db dir", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "migrate", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open db", err)
	}
	if err := database.SeedDefaults(cmd.Context(), db); err != nil {
		_ = db.Close()
		return nil, WrapExitError(ExitCommandError, "seed defaults", err)
	}
	log.Debug("store opened", "path", path)
	return &store{
		cfg:    cfg,
		db:     db,
		engine: integrity.New(db, integrity.WithLogger(log)),
		log:    log,
	}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) backups() *service.BackupService {
	return &service.BackupService{
		Engine: s.engine,
		Dir:    s.cfg.Backup.Dir,
		Keep:   s.cfg.Backup.Keep,
		Log:    s.log,
	}
}

func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}
