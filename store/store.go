// Package store persists compiled quizzes in SQLite: one row per quiz with
// its exported JSON payload, plus the extracted image blobs keyed by
// filename. The server and CLI use it as the archive of compilation results.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a quiz ID does not exist.
var ErrNotFound = errors.New("store: quiz not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS quizzes (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	quiz_type      TEXT NOT NULL,
	question_count INTEGER NOT NULL,
	payload        TEXT NOT NULL,
	created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS quiz_images (
	quiz_id  TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
	filename TEXT NOT NULL,
	data     BLOB NOT NULL,
	PRIMARY KEY (quiz_id, filename)
);

CREATE INDEX IF NOT EXISTS idx_quizzes_created ON quizzes(created_at);
`

// Record is one archived quiz. Payload is the canonical quiz.json document.
type Record struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuizType      string `json:"quiz_type"`
	QuestionCount int    `json:"question_count"`
	Payload       []byte `json:"payload,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Store wraps the SQLite database for quiz persistence.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the archive database at path and initialises the
// schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives a compiled quiz and its images in one transaction, returning
// the generated quiz ID.
func (s *Store) Save(ctx context.Context, name, quizType string, questionCount int, payload []byte, images map[string][]byte) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO quizzes (id, name, quiz_type, question_count, payload)
		VALUES (?, ?, ?, ?, ?)
	`, id, name, quizType, questionCount, string(payload)); err != nil {
		return "", fmt.Errorf("inserting quiz: %w", err)
	}

	for filename, data := range images {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO quiz_images (quiz_id, filename, data) VALUES (?, ?, ?)
		`, id, filename, data); err != nil {
			return "", fmt.Errorf("inserting image %s: %w", filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return id, nil
}

// Get retrieves one archived quiz including its JSON payload.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	rec := &Record{}
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, quiz_type, question_count, payload, created_at
		FROM quizzes WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Name, &rec.QuizType, &rec.QuestionCount, &payload, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Payload = []byte(payload)
	return rec, nil
}

// GetImages returns the image mapping of an archived quiz. A quiz with no
// images yields an empty map.
func (s *Store) GetImages(ctx context.Context, id string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, data FROM quiz_images WHERE quiz_id = ? ORDER BY filename
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make(map[string][]byte)
	for rows.Next() {
		var filename string
		var data []byte
		if err := rows.Scan(&filename, &data); err != nil {
			return nil, err
		}
		images[filename] = data
	}
	return images, rows.Err()
}

// GetImage returns one image blob of an archived quiz.
func (s *Store) GetImage(ctx context.Context, id, filename string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM quiz_images WHERE quiz_id = ? AND filename = ?
	`, id, filename).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// List returns all archived quizzes, newest first, without payloads.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, quiz_type, question_count, created_at
		FROM quizzes ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.QuizType, &rec.QuestionCount, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes an archived quiz and its images.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
