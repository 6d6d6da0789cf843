package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zjrosen/diffscope/internal/review"
)

// Repository stores per-session viewed state rows.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a Repository over an open connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Save replaces all stored rows for sessionID with the given states.
func (r *Repository) Save(sessionID string, states map[string]review.ViewedState) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reviews WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear session rows: %w", err)
	}

	updatedAt := r.now().Unix()
	for key, state := range states {
		viewed := 0
		if state.Viewed {
			viewed = 1
		}
		_, err := tx.Exec(
			`INSERT INTO reviews (session_id, file_key, viewed, content_hash, updated_at) VALUES (?, ?, ?, ?, ?)`,
			sessionID, key, viewed, state.ContentHash, updatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert review row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review rows: %w", err)
	}
	return nil
}

// Load returns the stored states for sessionID. A session with no rows
// yields an empty map, not an error.
func (r *Repository) Load(sessionID string) (map[string]review.ViewedState, error) {
	rows, err := r.db.Query(
		`SELECT file_key, viewed, content_hash FROM reviews WHERE session_id = ?`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query review rows: %w", err)
	}
	defer rows.Close()

	states := make(map[string]review.ViewedState)
	for rows.Next() {
		var key, hash string
		var viewed int
		if err := rows.Scan(&key, &viewed, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		states[key] = review.ViewedState{Viewed: viewed != 0, ContentHash: hash}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review rows: %w", err)
	}
	return states, nil
}

// DeleteSession drops all rows for sessionID. Called when the owning
// session closes.
func (r *Repository) DeleteSession(sessionID string) error {
	if _, err := r.db.Exec(`DELETE FROM reviews WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session rows: %w", err)
	}
	return nil
}
