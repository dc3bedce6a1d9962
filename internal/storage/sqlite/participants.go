package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

// AddParticipant attaches a participant to an existing event, after the current ones.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	if participant.CreatedAt == 0 {
		participant.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := eventExists(ctx, tx, participant.EventID); err != nil {
		return err
	}
	pos, err := nextPosition(ctx, tx, "participants", participant.EventID)
	if err != nil {
		return err
	}
	if err := insertParticipant(ctx, tx, participant, pos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveParticipant deletes a participant that no expense refers to.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, eventID, participantID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var organizerID string
	err = tx.QueryRowContext(ctx,
		`SELECT e.organizer_id FROM participants p JOIN events e ON e.id = p.event_id
		 WHERE p.id = ? AND p.event_id = ?`,
		participantID, eventID,
	).Scan(&organizerID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check participant existence: %w", err)
	}
	if organizerID == participantID {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrOrganizerRemoval)
	}

	var referenced bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM expenses WHERE payer_id = ?)
		     OR EXISTS (SELECT 1 FROM expense_shares WHERE participant_id = ?)
		     OR EXISTS (SELECT 1 FROM expense_involved WHERE participant_id = ?)`,
		participantID, participantID, participantID,
	).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("failed to check participant references: %w", err)
	}
	if referenced {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrParticipantReferenced)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", participantID); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertParticipant(ctx context.Context, tx *sql.Tx, p *models.Participant, pos int) error {
	var wallet, bank, qr interface{}
	if pm := p.PaymentMethod; !pm.IsZero() {
		wallet, bank, qr = nullable(pm.WalletNumber), nullable(pm.BankTransferID), nullable(pm.QRCodeRef)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO participants (id, event_id, position, name, contact, role, wallet_number, bank_transfer_id, qr_code_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.EventID, pos, p.Name, p.Contact, string(p.Role), wallet, bank, qr, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listParticipants(ctx context.Context, eventID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, name, contact, role, wallet_number, bank_transfer_id, qr_code_ref, created_at
		 FROM participants WHERE event_id = ? ORDER BY position`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		var role string
		var wallet, bank, qr sql.NullString
		if err := rows.Scan(&p.ID, &p.EventID, &p.Name, &p.Contact, &role, &wallet, &bank, &qr, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Role = models.Role(role)
		if wallet.Valid || bank.Valid || qr.Valid {
			p.PaymentMethod = &models.PaymentMethod{
				WalletNumber:   wallet.String,
				BankTransferID: bank.String,
				QRCodeRef:      qr.String,
			}
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
