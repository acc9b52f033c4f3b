package sqldb

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	"estancia-digital/internal/platform/logger"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedMigrations embed.FS

// goose guarda FS, dialecto y logger en globales.
var gooseMu sync.Mutex

func (d Dialect) gooseDialect() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

func (d Dialect) migrationsDir() string {
	return "migrations/" + string(d)
}

func setupGoose(d Dialect, log logger.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(d.gooseDialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// Migrate aplica las migraciones pendientes del dialecto.
func Migrate(ctx context.Context, db *DB, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setupGoose(db.dialect, log); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.sql, db.dialect.migrationsDir()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

type MigrationStatus struct {
	Current int64
	Latest  int64
}

func (s MigrationStatus) Pending() int64 {
	if s.Latest <= s.Current {
		return 0
	}
	return s.Latest - s.Current
}

// Status devuelve la versión aplicada y la última embebida.
func Status(ctx context.Context, db *DB) (MigrationStatus, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setupGoose(db.dialect, logger.Nop()); err != nil {
		return MigrationStatus{}, err
	}

	current, err := goose.GetDBVersionContext(ctx, db.sql)
	if err != nil {
		return MigrationStatus{}, mapErr(err)
	}

	all, err := goose.CollectMigrations(db.dialect.migrationsDir(), 0, goose.MaxVersion)
	if err != nil {
		return MigrationStatus{}, err
	}
	var latest int64
	if last, err := all.Last(); err == nil {
		latest = last.Version
	}

	return MigrationStatus{Current: current, Latest: latest}, nil
}

// gooseLogger adapta goose.Logger al logger de la app.
type gooseLogger struct {
	log logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]any{"component": "migrations"})
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]any{"component": "migrations"})
}
