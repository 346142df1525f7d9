package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/iliyamo/event-records/internal/config"
	"github.com/iliyamo/event-records/internal/repository"
)

func TestDSN(t *testing.T) {
	cases := []struct {
		cfg    config.Config
		driver string
		want   string
	}{
		{
			cfg:    config.Config{DBDriver: "mysql", DBUser: "u", DBPass: "p", DBHost: "h", DBPort: "3306", DBName: "ev"},
			driver: "mysql",
			want:   "u:p@tcp(h:3306)/ev?charset=utf8mb4&parseTime=true&loc=UTC",
		},
		{
			cfg:    config.Config{DBDriver: "postgres", DBUser: "u", DBHost: "h", DBPort: "5432", DBName: "ev"},
			driver: "pgx",
			want:   "postgres://u@h:5432/ev?sslmode=disable",
		},
		{
			cfg:    config.Config{DBDriver: "postgres", DBDSN: "postgres://x@y/z"},
			driver: "pgx",
			want:   "postgres://x@y/z",
		},
		{
			cfg:    config.Config{DBDriver: "sqlite", DBPath: "events.db"},
			driver: "sqlite",
			want:   "file:events.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
	}
	for _, tc := range cases {
		driver, dsn := DSN(tc.cfg)
		if driver != tc.driver || dsn != tc.want {
			t.Errorf("DSN(%s) = %s %q, want %s %q", tc.cfg.DBDriver, driver, dsn, tc.driver, tc.want)
		}
	}
}

func TestOpenSQLiteFile(t *testing.T) {
	cfg := config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "events.db")}
	db, dialect, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if dialect != repository.SQLite {
		t.Fatalf("dialect = %+v", dialect)
	}
	if _, _, err := Open(config.Config{DBDriver: "oracle"}); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("oracle: err = %v", err)
	}
}
