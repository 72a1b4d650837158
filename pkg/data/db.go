package data

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DataFileName string = "data.db"

	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")

	// ErrNotFound is returned when a requested plan has no data.
	ErrNotFound = errors.New("not found")

	dataTables = []string{"score", "assignment", "vote", "unit_attribute", "unit", "election"}
)

// Init creates the schema if needed. dsn is either a sqlite file path or a
// postgres:// connection URL.
func Init(dsn string) error {
	if dsn == "" {
		return errors.New("dsn not specified")
	}

	db, err := GetDB(dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	b, err := f.ReadFile("sql/ddl.sql")
	if err != nil {
		return fmt.Errorf("reading the schema creation file: %w", err)
	}
	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("creating database schema: %w", err)
	}
	slog.Debug("db schema ready", "driver", driverName(dsn))
	return nil
}

// GetDB opens the database; the driver is picked from the dsn.
func GetDB(dsn string) (*sql.DB, error) {
	conn, err := sql.Open(driverName(dsn), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return conn, nil
}

// Reset deletes every imported plan, unit, vote and score.
func Reset(db *sql.DB) error {
	if db == nil {
		return errDBNotInitialized
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, t := range dataTables {
		if _, err := tx.Exec("DELETE FROM " + t); err != nil {
			return fmt.Errorf("deleting %s: %w", t, err)
		}
	}
	return tx.Commit()
}

func driverName(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return driverPostgres
	}
	return driverSQLite
}

func isPostgres(db *sql.DB) bool {
	_, ok := db.Driver().(*pq.Driver)
	return ok
}

// rebind rewrites ? placeholders into $n for postgres.
func rebind(postgres bool, query string) string {
	if !postgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
