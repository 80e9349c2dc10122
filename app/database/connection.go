package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the primary connection pool plus an optional elevated-role pool.
// The elevated pool backs the privileged write tier of the batch writer; it
// is nil unless admin credentials are configured.
type DB struct {
	*sql.DB
	admin *sql.DB
}

func NewConnection(host, port, user, password, dbname string) (*DB, error) {
	pool, err := open(host, port, user, password, dbname)
	if err != nil {
		return nil, err
	}

	return &DB{DB: pool}, nil
}

// OpenAdmin attaches an elevated-role pool to the same database.
func (db *DB) OpenAdmin(host, port, user, password, dbname string) error {
	pool, err := open(host, port, user, password, dbname)
	if err != nil {
		return fmt.Errorf("failed to open admin connection: %w", err)
	}

	db.admin = pool
	return nil
}

// HasAdmin reports whether an elevated-role pool is available.
func (db *DB) HasAdmin() bool {
	return db.admin != nil
}

// Admin returns the elevated-role pool. Callers must check HasAdmin first.
func (db *DB) Admin() *sql.DB {
	return db.admin
}

func (db *DB) Close() error {
	if db.admin != nil {
		if err := db.admin.Close(); err != nil {
			return err
		}
	}
	return db.DB.Close()
}

func open(host, port, user, password, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(5 * time.Minute)

	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
