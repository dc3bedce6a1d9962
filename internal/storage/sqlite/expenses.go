package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/models"
)

// CreateExpense records an expense, its shares and its involved participants.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date.IsZero() {
		expense.Date = time.Unix(expense.CreatedAt, 0).UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := eventExists(ctx, tx, expense.EventID); err != nil {
		return err
	}
	pos, err := nextPosition(ctx, tx, "expenses", expense.EventID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, event_id, position, description, amount, category, payer_id, split_mode, incurred_at, receipt_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.EventID, pos, expense.Description, expense.Amount, expense.Category,
		expense.PayerID, string(expense.SplitMode), expense.Date.Unix(), expense.ReceiptRef, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, id := range expense.Shares.IDs() {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, participant_id, amount) VALUES (?, ?, ?)",
			expense.ID, id, expense.Shares[id],
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	for i, id := range expense.Involved {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_involved (expense_id, participant_id, position) VALUES (?, ?, ?)",
			expense.ID, id, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert involved participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listExpenses(ctx context.Context, eventID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, description, amount, category, payer_id, split_mode, incurred_at, receipt_ref, created_at
		 FROM expenses WHERE event_id = ? ORDER BY position`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	byID := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		var mode string
		var incurred int64
		if err := rows.Scan(&e.ID, &e.EventID, &e.Description, &e.Amount, &e.Category, &e.PayerID,
			&mode, &incurred, &e.ReceiptRef, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.SplitMode = models.SplitMode(mode)
		e.Date = time.Unix(incurred, 0).UTC()
		e.Shares = models.Shares{}
		byID[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	shareRows, err := s.db.QueryContext(ctx,
		`SELECT s.expense_id, s.participant_id, s.amount
		 FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.event_id = ?`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID, participantID string
		var amount decimal.Decimal
		if err := shareRows.Scan(&expenseID, &participantID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if i, ok := byID[expenseID]; ok {
			expenses[i].Shares[participantID] = amount
		}
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	involvedRows, err := s.db.QueryContext(ctx,
		`SELECT i.expense_id, i.participant_id
		 FROM expense_involved i JOIN expenses e ON e.id = i.expense_id
		 WHERE e.event_id = ? ORDER BY e.position, i.position`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list involved participants: %w", err)
	}
	defer involvedRows.Close()

	for involvedRows.Next() {
		var expenseID, participantID string
		if err := involvedRows.Scan(&expenseID, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan involved participant: %w", err)
		}
		if i, ok := byID[expenseID]; ok {
			expenses[i].Involved = append(expenses[i].Involved, participantID)
		}
	}
	if err := involvedRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate involved participants: %w", err)
	}

	return expenses, nil
}
