package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/ToluGIT/loop/core"
	appfs "github.com/ToluGIT/loop/fs"
)

const driverName = "postgres"

// URL builds the postgres connection URL for dbName.
func URL(dbName string, conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func open(dbName string, conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, URL(dbName, conf))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if conf.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(conf.Database.MaxOpenConns)
		db.SetMaxIdleConns(conf.Database.MaxOpenConns)
	}
	return db, nil
}

// Open connects to the application database and waits until it answers.
func Open(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	db, err := open(conf.Database.Name, conf)
	if err != nil {
		return nil, err
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

type pinger interface {
	PingContext(ctx context.Context) error
}

var pingMaxAttempts = 30

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db pinger) error {
	var err error
	for attempts := 1; attempts <= pingMaxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping cancelled")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

func exists(ctx context.Context, db core.DBExecutor, query string, args ...interface{}) (bool, error) {
	var found bool
	err := db.QueryRowxContext(ctx, query, args...).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return found, err
}

// CreateIfNotExist creates the application database, connecting through the default postgres database.
func CreateIfNotExist(ctx context.Context, conf *core.Config) error {
	db, err := open("postgres", conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err = ping(ctx, db); err != nil {
		return errors.Wrap(err, "pinging database")
	}

	found, err := exists(ctx, db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		// identifiers cannot be bound as parameters
		q := fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(conf.Database.Name))
		if _, err = db.ExecContext(ctx, q); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

func init() {
	goose.SetBaseFS(appfs.FS)
	_ = goose.SetDialect(driverName)
}

// MigrationsDir is the directory of appfs.FS holding the migrations.
const MigrationsDir = "migrations"

// Migrate runs a goose command ("up", "down", "status", "version", ...) against db.
func Migrate(db *sql.DB, command string, args ...string) error {
	if err := goose.Run(command, db, MigrationsDir, args...); err != nil {
		return errors.Wrapf(err, "running migration %q", command)
	}
	return nil
}
