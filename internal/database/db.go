// Package database opens the SQL connection pool selected by DB_DRIVER.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/event-records/internal/config"
	"github.com/iliyamo/event-records/internal/repository"
)

// Open connects to the configured database and verifies the connection.
func Open(cfg config.Config) (*sql.DB, repository.Dialect, error) {
	dialect, err := repository.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, repository.Dialect{}, err
	}
	driver, dsn := DSN(cfg)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, dialect, err
	}

	// Pool settings
	if dialect == repository.SQLite {
		// One writer at a time; extra connections only add SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(cfg.DBMaxConn)
		db.SetMaxIdleConns(cfg.DBMaxConn)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dialect, err
	}
	return db, dialect, nil
}

// DSN returns the database/sql driver name and data source for cfg.
func DSN(cfg config.Config) (driver, dsn string) {
	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBDSN != "" {
			return "pgx", cfg.DBDSN
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.DBUser, cfg.DBPass),
			Host:     cfg.DBHost + ":" + cfg.DBPort,
			Path:     "/" + cfg.DBName,
			RawQuery: "sslmode=disable",
		}
		if cfg.DBPass == "" {
			u.User = url.User(cfg.DBUser)
		}
		return "pgx", u.String()
	case "sqlite":
		if cfg.DBDSN != "" {
			return "sqlite", cfg.DBDSN
		}
		return "sqlite", "file:" + cfg.DBPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	if cfg.DBDSN != "" {
		return "mysql", cfg.DBDSN
	}
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	// parseTime=true -> DATE -> time.Time | loc=UTC keeps dates consistent
	return "mysql", fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
