package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	Pool *sql.DB
}

// defaultBusyTimeout is how long a connection waits on another writer's
// lock before surfacing the busy error. Read paths and vacuum use it as-is;
// the writer takes its own value from config.
const defaultBusyTimeout = 5 * time.Second

func Open(path string) (*DB, error) {
	return OpenTimeout(path, defaultBusyTimeout)
}

// OpenTimeout opens the store file with an explicit lock wait. The driver
// carries the wait as a busy_timeout pragma in the DSN, in milliseconds.
func OpenTimeout(path string, busy time.Duration) (*DB, error) {
	if busy <= 0 {
		busy = defaultBusyTimeout
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, busy.Milliseconds())

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite wants a single writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

// Vacuum reclaims space after the replace-update churn. Opens its own
// short-lived connection like every other write path.
func Vacuum(path string) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Pool.Exec(`VACUUM;`)
	return err
}
