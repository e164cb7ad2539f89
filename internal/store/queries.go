package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// Query loads named statement text from the sql directory. The text is
// treated as opaque; parameter slots stay untouched.
func Query(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("load query %s: %w", name, err)
	}
	return string(b), nil
}

// ExecScript runs statement text, possibly multi-statement, inside one
// transaction.
func ExecScript(db *sql.DB, text string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(text); err != nil {
		return err
	}
	return tx.Commit()
}
