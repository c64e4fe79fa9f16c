// Package db stores kanjifile and wordfile datasets in SQLite.
package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations.sql
var migrationsSQL string

// Open opens (creating if needed) the SQLite database at path and runs migrations.
func Open(path string) (*sql.DB, error) {
	dbConn, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps writes serialized and lets ":memory:" behave as one database.
	dbConn.SetMaxOpenConns(1)
	if err := InitDB(dbConn); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return dbConn, nil
}

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" || isComment(s) {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// isComment reports whether every line of the statement is an SQL comment.
func isComment(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}
