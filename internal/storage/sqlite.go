package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"remindme/internal/reminder"
)

// SQLite keeps the collection in a reminders table. Save replaces every
// row inside one transaction.
type SQLite struct {
	db   *sql.DB
	path string
}

func OpenSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: db path is empty", reminder.ErrPersistence)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: %w", reminder.ErrPersistence, err)
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", reminder.ErrPersistence, dbPath, err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, path: dbPath}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate %s: %w", reminder.ErrPersistence, dbPath, err)
	}
	return s, nil
}

func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	due_at TEXT NOT NULL,
	recurrence TEXT NOT NULL DEFAULT 'none',
	notified INTEGER NOT NULL DEFAULT 0
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureColumns()
}

// ensureColumns adds columns introduced after the first schema.
func (s *SQLite) ensureColumns() error {
	required := map[string]string{
		"position": "ALTER TABLE reminders ADD COLUMN position INTEGER NOT NULL DEFAULT 0;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(reminders);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Load() ([]reminder.Reminder, error) {
	rows, err := s.db.Query(`SELECT id, text, due_at, recurrence, notified FROM reminders ORDER BY position, id;`)
	if err != nil {
		return nil, fmt.Errorf("%w: query reminders: %w", reminder.ErrPersistence, err)
	}
	defer rows.Close()

	var out []reminder.Reminder
	for rows.Next() {
		var rec record
		var recurrence string
		var notified int
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.DueAt, &recurrence, &notified); err != nil {
			return nil, fmt.Errorf("%w: scan reminder: %w", reminder.ErrPersistence, err)
		}
		if err := rec.Recurrence.UnmarshalText([]byte(recurrence)); err != nil {
			return nil, fmt.Errorf("%w: reminder %s: %w", reminder.ErrPersistence, rec.ID, err)
		}
		rec.Notified = notified == 1
		r, err := rec.reminder()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", reminder.ErrPersistence, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", reminder.ErrPersistence, err)
	}
	return out, nil
}

func (s *SQLite) Save(rs []reminder.Reminder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %w", reminder.ErrPersistence, err)
	}
	if _, err := tx.Exec(`DELETE FROM reminders;`); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: clear reminders: %w", reminder.ErrPersistence, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO reminders (id, text, due_at, recurrence, notified, position) VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: prepare insert: %w", reminder.ErrPersistence, err)
	}
	defer stmt.Close()

	for i, r := range rs {
		rec := toRecord(r)
		notified := 0
		if rec.Notified {
			notified = 1
		}
		if _, err := stmt.Exec(rec.ID, rec.Text, rec.DueAt, rec.Recurrence.String(), notified, i); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: insert %s: %w", reminder.ErrPersistence, rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", reminder.ErrPersistence, err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
