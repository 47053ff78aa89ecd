package dictionary

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS entries (
	headword TEXT PRIMARY KEY,
	jyutping TEXT NOT NULL
)`

// ReadSQLite loads every row of the entries table.
func ReadSQLite(ctx context.Context, path string) (*Dictionary, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT headword, jyutping FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	defer rows.Close()

	b := NewBuilder()
	for rows.Next() {
		var headword, reading string
		if err := rows.Scan(&headword, &reading); err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		if _, err := b.Add(headword, reading); err != nil {
			return nil, fmt.Errorf("%s: %q: %w", path, headword, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return b.Build(path), nil
}

// WriteSQLite stores the dictionary at path, creating the database if
// needed. Existing rows with the same headword are replaced.
func WriteSQLite(ctx context.Context, path string, d *Dictionary) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO entries (headword, jyutping) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	err = d.Each(func(headword, reading string) error {
		_, err := stmt.ExecContext(ctx, headword, reading)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	return tx.Commit()
}
