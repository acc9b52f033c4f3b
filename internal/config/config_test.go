package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBDriver != DriverMemory || !cfg.MetricsEnabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if loc, _ := cfg.Location(); loc != time.Local {
		t.Fatalf("expected local timezone")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/hato.db")
	t.Setenv("REFRESH_TIMEZONE", "America/Argentina/Buenos_Aires")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Addr() != ":9090" || cfg.DBDriver != DriverSQLite || cfg.DSN() != "/tmp/hato.db" || cfg.MetricsEnabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("APP_NAME=tambo\nLOG_FORMAT=json\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.AppName != "tambo" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{DBDriver: DriverMemory}, false},
		{"postgres sin dsn", Config{DBDriver: DriverPostgres}, true},
		{"postgres", Config{DBDriver: DriverPostgres, DBDSN: "postgres://x"}, false},
		{"sqlite por path", Config{DBDriver: DriverSQLite, SQLitePath: "a.db"}, false},
		{"sqlite vacío", Config{DBDriver: DriverSQLite}, true},
		{"driver raro", Config{DBDriver: "mongo"}, true},
		{"zona inválida", Config{DBDriver: DriverMemory, RefreshTimezone: "Marte/Olympus"}, true},
		{"conexiones negativas", Config{DBDriver: DriverMemory, DBMaxOpenConns: -1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
