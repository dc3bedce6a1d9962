// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection enforces foreign keys.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateEvent persists a new event and its initial participants.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range event.Participants {
		p := &event.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.EventID = event.ID
		if p.CreatedAt == 0 {
			p.CreatedAt = event.CreatedAt
		}
		if p.Role == models.RoleOrganizer && event.OrganizerID == "" {
			event.OrganizerID = p.ID
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, name, event_date, description, image_ref, organizer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Name, event.Date.Unix(), event.Description, event.ImageRef, event.OrganizerID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	for i := range event.Participants {
		if err := insertParticipant(ctx, tx, &event.Participants[i], i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetEvent retrieves an event with its participants and expenses.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	var date int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, event_date, description, image_ref, organizer_id, created_at
		 FROM events WHERE id = ?`,
		eventID,
	).Scan(&event.ID, &event.Name, &date, &event.Description, &event.ImageRef, &event.OrganizerID, &event.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	event.Date = time.Unix(date, 0).UTC()

	if event.Participants, err = s.listParticipants(ctx, eventID); err != nil {
		return nil, err
	}
	if event.Expenses, err = s.listExpenses(ctx, eventID); err != nil {
		return nil, err
	}
	return event, nil
}

// eventExists reports whether the event row is present.
func eventExists(ctx context.Context, tx *sql.Tx, eventID string) error {
	var exists int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id = ?", eventID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check event existence: %w", err)
	}
	return nil
}

// nextPosition returns the next free ordering slot in table for the event.
func nextPosition(ctx context.Context, tx *sql.Tx, table, eventID string) (int, error) {
	var pos int
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM "+table+" WHERE event_id = ?",
		eventID,
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s position: %w", table, err)
	}
	return pos, nil
}
