package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "eventsplit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestEvent(t *testing.T, store *SQLiteStore, names ...string) *models.Event {
	t.Helper()

	event := &models.Event{
		Name: "Beach Trip",
		Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	for i, name := range names {
		role := models.RoleParticipant
		if i == 0 {
			role = models.RoleOrganizer
		}
		event.Participants = append(event.Participants, models.Participant{Name: name, Role: role})
	}
	if err := store.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return event
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateEvent generates IDs and organizer", func(t *testing.T) {
		event := newTestEvent(t, store, "Alice", "Bob")

		if event.ID == "" {
			t.Error("Expected event ID to be generated")
		}
		if event.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		for _, p := range event.Participants {
			if p.ID == "" {
				t.Errorf("Expected participant %s to get an ID", p.Name)
			}
			if p.EventID != event.ID {
				t.Errorf("Participant %s EventID = %q, want %q", p.Name, p.EventID, event.ID)
			}
		}
		if event.OrganizerID != event.Participants[0].ID {
			t.Errorf("OrganizerID = %q, want %q", event.OrganizerID, event.Participants[0].ID)
		}
	})

	t.Run("GetEvent retrieves complete snapshot", func(t *testing.T) {
		original := newTestEvent(t, store, "Charlie", "Diana", "Eve")

		wallet := &models.Participant{
			EventID:       original.ID,
			Name:          "Frank",
			Contact:       "+60123456789",
			Role:          models.RoleParticipant,
			PaymentMethod: &models.PaymentMethod{WalletNumber: "0123456789", QRCodeRef: "qr/frank.png"},
		}
		if err := store.AddParticipant(ctx, wallet); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}

		charlie, diana, eve := original.Participants[0].ID, original.Participants[1].ID, original.Participants[2].ID
		expense := &models.Expense{
			EventID:     original.ID,
			Description: "Dinner",
			Amount:      decimal.RequireFromString("100"),
			Category:    models.CategoryFood,
			PayerID:     charlie,
			SplitMode:   models.SplitEqual,
			Shares: models.Shares{
				charlie: decimal.RequireFromString("33.34"),
				diana:   decimal.RequireFromString("33.33"),
				eve:     decimal.RequireFromString("33.33"),
			},
			Involved:   []string{charlie, diana, eve},
			Date:       time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC),
			ReceiptRef: "receipts/dinner.jpg",
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		retrieved, err := store.GetEvent(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}

		if retrieved.Name != original.Name {
			t.Errorf("Name mismatch: got %s, want %s", retrieved.Name, original.Name)
		}
		if !retrieved.Date.Equal(original.Date) {
			t.Errorf("Date mismatch: got %v, want %v", retrieved.Date, original.Date)
		}
		if len(retrieved.Participants) != 4 {
			t.Fatalf("Participants count mismatch: got %d, want 4", len(retrieved.Participants))
		}
		wantOrder := []string{"Charlie", "Diana", "Eve", "Frank"}
		for i, p := range retrieved.Participants {
			if p.Name != wantOrder[i] {
				t.Errorf("Participant %d = %s, want %s", i, p.Name, wantOrder[i])
			}
		}
		if retrieved.Participants[1].PaymentMethod != nil {
			t.Errorf("Expected no payment method for Diana, got %+v", retrieved.Participants[1].PaymentMethod)
		}
		frank := retrieved.Participants[3]
		if frank.PaymentMethod == nil || frank.PaymentMethod.WalletNumber != "0123456789" || frank.PaymentMethod.QRCodeRef != "qr/frank.png" {
			t.Errorf("Frank payment method not persisted: %+v", frank.PaymentMethod)
		}
		if frank.Contact != "+60123456789" {
			t.Errorf("Frank contact = %q", frank.Contact)
		}

		if len(retrieved.Expenses) != 1 {
			t.Fatalf("Expenses count mismatch: got %d, want 1", len(retrieved.Expenses))
		}
		got := retrieved.Expenses[0]
		if !got.Amount.Equal(expense.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", got.Amount, expense.Amount)
		}
		if got.SplitMode != models.SplitEqual {
			t.Errorf("SplitMode = %s, want equal", got.SplitMode)
		}
		if !got.Date.Equal(expense.Date) {
			t.Errorf("Date mismatch: got %v, want %v", got.Date, expense.Date)
		}
		if got.ReceiptRef != expense.ReceiptRef {
			t.Errorf("ReceiptRef = %q, want %q", got.ReceiptRef, expense.ReceiptRef)
		}
		for id, want := range expense.Shares {
			if !got.Shares[id].Equal(want) {
				t.Errorf("Share for %s = %s, want %s", id, got.Shares[id], want)
			}
		}
		if !got.Shares.Total().Equal(got.Amount) {
			t.Errorf("Shares sum to %s, want %s", got.Shares.Total(), got.Amount)
		}
		for i, id := range expense.Involved {
			if got.Involved[i] != id {
				t.Errorf("Involved[%d] = %s, want %s", i, got.Involved[i], id)
			}
		}
	})

	t.Run("GetEvent returns ErrNotFound for nonexistent event", func(t *testing.T) {
		_, err := store.GetEvent(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AddParticipant to nonexistent event", func(t *testing.T) {
		err := store.AddParticipant(ctx, &models.Participant{EventID: "nonexistent-id", Name: "Ghost", Role: models.RoleParticipant})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateExpense for nonexistent event", func(t *testing.T) {
		err := store.CreateExpense(ctx, &models.Expense{
			EventID: "nonexistent-id",
			Amount:  decimal.RequireFromString("10"),
			PayerID: "someone",
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateExpense rejects unknown payer", func(t *testing.T) {
		event := newTestEvent(t, store, "Gina")
		err := store.CreateExpense(ctx, &models.Expense{
			EventID:   event.ID,
			Amount:    decimal.RequireFromString("10"),
			PayerID:   "not-a-participant",
			SplitMode: models.SplitEqual,
		})
		if err == nil {
			t.Error("Expected foreign key error for unknown payer")
		}
	})

	t.Run("RemoveParticipant without expenses", func(t *testing.T) {
		event := newTestEvent(t, store, "Hana", "Ivan")
		if err := store.RemoveParticipant(ctx, event.ID, event.Participants[1].ID); err != nil {
			t.Fatalf("RemoveParticipant failed: %v", err)
		}
		retrieved, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if len(retrieved.Participants) != 1 {
			t.Errorf("Expected 1 participant after removal, got %d", len(retrieved.Participants))
		}
	})

	t.Run("RemoveParticipant referenced by expense", func(t *testing.T) {
		event := newTestEvent(t, store, "Jack", "Kim", "Lee", "Moe")
		kim, lee, moe := event.Participants[1].ID, event.Participants[2].ID, event.Participants[3].ID
		err := store.CreateExpense(ctx, &models.Expense{
			EventID:   event.ID,
			Amount:    decimal.RequireFromString("20"),
			PayerID:   kim,
			SplitMode: models.SplitSelective,
			Shares:    models.Shares{lee: decimal.RequireFromString("20")},
			Involved:  []string{lee},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		for _, id := range []string{kim, lee} {
			err := store.RemoveParticipant(ctx, event.ID, id)
			if !errors.Is(err, storage.ErrParticipantReferenced) {
				t.Errorf("Expected ErrParticipantReferenced for %s, got %v", id, err)
			}
		}
		if err := store.RemoveParticipant(ctx, event.ID, moe); err != nil {
			t.Errorf("Expected unreferenced participant removal to succeed, got %v", err)
		}
	})

	t.Run("RemoveParticipant refuses the organizer", func(t *testing.T) {
		event := newTestEvent(t, store, "Nina", "Otto")
		err := store.RemoveParticipant(ctx, event.ID, event.OrganizerID)
		if !errors.Is(err, storage.ErrOrganizerRemoval) {
			t.Fatalf("Expected ErrOrganizerRemoval, got %v", err)
		}

		retrieved, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if _, ok := retrieved.Participant(retrieved.OrganizerID); !ok {
			t.Errorf("Organizer %s no longer in participants", retrieved.OrganizerID)
		}
	})

	t.Run("RemoveParticipant from another event", func(t *testing.T) {
		first := newTestEvent(t, store, "Mia")
		second := newTestEvent(t, store, "Noor")
		err := store.RemoveParticipant(ctx, second.ID, first.Participants[0].ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Expenses keep entry order", func(t *testing.T) {
		event := newTestEvent(t, store, "Omar", "Pia")
		omar, pia := event.Participants[0].ID, event.Participants[1].ID
		for _, desc := range []string{"Taxi", "Lunch", "Tickets"} {
			err := store.CreateExpense(ctx, &models.Expense{
				EventID:     event.ID,
				Description: desc,
				Amount:      decimal.RequireFromString("10"),
				PayerID:     omar,
				SplitMode:   models.SplitEqual,
				Shares:      models.Shares{omar: decimal.RequireFromString("5"), pia: decimal.RequireFromString("5")},
				Involved:    []string{omar, pia},
			})
			if err != nil {
				t.Fatalf("CreateExpense failed: %v", err)
			}
		}

		retrieved, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		for i, want := range []string{"Taxi", "Lunch", "Tickets"} {
			if retrieved.Expenses[i].Description != want {
				t.Errorf("Expense %d = %s, want %s", i, retrieved.Expenses[i].Description, want)
			}
		}
	})
}
