package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"vacsift-engine/internal/config"

	"github.com/gofrs/flock"
)

// deleteChunk bounds the IN-list size of one batched delete.
const deleteChunk = 400

// journalPolls bounds the courtesy wait for another writer's journal
// sidecar. The wait is best-effort only; the real contention signal is the
// busy error from the store itself.
const journalPolls = 20

var errLockHeld = errors.New("store: writer lock held by another writer")

// Writer applies idempotent replace-updates (delete matching keys, then
// bulk-insert) against the shared store file. Every attempt opens a fresh
// connection and closes it before the next; contention is retried up to the
// attempt cap with a fixed delay.
type Writer struct {
	Path         string
	Attempts     int
	RetryDelay   time.Duration
	PollInterval time.Duration
	BusyTimeout  time.Duration
}

func NewWriter(path string, cfg config.Writer) *Writer {
	return &Writer{
		Path:         path,
		Attempts:     cfg.Attempts,
		RetryDelay:   time.Duration(cfg.RetryDelayMS) * time.Millisecond,
		PollInterval: time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		BusyTimeout:  time.Duration(cfg.BusyTimeoutMS) * time.Millisecond,
	}
}

// Replace deletes every row whose key appears in the new row set, then
// appends the new rows. Applying the same row set twice leaves the table
// unchanged.
func (w *Writer) Replace(ctx context.Context, t Table) error {
	return w.write(ctx, t, true)
}

// Append inserts rows without a delete phase.
func (w *Writer) Append(ctx context.Context, t Table) error {
	return w.write(ctx, t, false)
}

func (w *Writer) write(ctx context.Context, t Table, replace bool) error {
	attempts := w.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := w.waitJournal(ctx); err != nil {
			return err
		}

		err := w.writeOnce(ctx, t, replace)
		if err == nil {
			log.Printf("[store] table=%s rows=%d written (attempt %d/%d)", t.Name, len(t.Rows), attempt, attempts)
			return nil
		}
		lastErr = err
		log.Printf("[store] table=%s write failed: %v (attempt %d/%d)", t.Name, err, attempt, attempts)

		if attempt < attempts {
			if serr := sleepCtx(ctx, w.RetryDelay); serr != nil {
				return serr
			}
		}
	}
	return fmt.Errorf("store: table %s not written after %d attempts: %w", t.Name, attempts, lastErr)
}

func (w *Writer) writeOnce(ctx context.Context, t Table, replace bool) error {
	lk := flock.New(w.Path + ".lock")
	locked, err := lk.TryLock()
	if err != nil {
		return fmt.Errorf("writer lock: %w", err)
	}
	if !locked {
		return errLockHeld
	}
	defer lk.Unlock()

	db, err := OpenTimeout(w.Path, w.BusyTimeout)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if err := w.deleteKeys(ctx, tx, t); err != nil {
			return err
		}
	}
	if err := w.insertRows(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

func (w *Writer) deleteKeys(ctx context.Context, tx *sql.Tx, t Table) error {
	keys := t.Keys()
	stmt := t.DeleteSQL
	if stmt == "" {
		stmt = fmt.Sprintf("DELETE FROM %s WHERE %s IN (%%s);", t.Name, t.Key)
	}

	for start := 0; start < len(keys); start += deleteChunk {
		end := start + deleteChunk
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(stmt, placeholders), chunk...); err != nil {
			return fmt.Errorf("delete phase: %w", err)
		}
	}
	return nil
}

func (w *Writer) insertRows(ctx context.Context, tx *sql.Tx, t Table) error {
	if len(t.Rows) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(t.Columns)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s);",
		t.Name, strings.Join(t.Columns, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert phase: %w", err)
		}
	}
	return nil
}

// waitJournal polls for the journal sidecar left by a mid-transaction
// writer to disappear before an attempt. Bounded and best-effort: if the
// sidecar never clears we proceed and let the busy error drive the retry.
func (w *Writer) waitJournal(ctx context.Context) error {
	for i := 0; i < journalPolls; i++ {
		if _, err := os.Stat(w.Path + "-journal"); errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err := sleepCtx(ctx, w.PollInterval); err != nil {
			return err
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
