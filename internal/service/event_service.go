package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/metrics"
	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/notify"
	"github.com/mmynk/eventsplit/internal/storage"
)

// EventService implements eventsplit.v1.EventService.
type EventService struct {
	store    storage.Store
	notifier notify.Notifier
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// Option configures an EventService.
type Option func(*EventService)

// WithNotifier publishes a change after every successful mutation.
func WithNotifier(n notify.Notifier) Option {
	return func(s *EventService) { s.notifier = n }
}

// WithMetrics records summary computations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *EventService) { s.metrics = m }
}

// NewEventService creates a new EventService with the given storage backend.
func NewEventService(store storage.Store, opts ...Option) *EventService {
	s := &EventService{
		store:    store,
		notifier: notify.Nop{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEvent creates an event whose organizer becomes its first participant.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error) {
	slog.Info("CreateEvent request received", "name", req.Msg.Name)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	organizer := req.Msg.Organizer
	event := &models.Event{
		Name:        req.Msg.Name,
		Date:        req.Msg.Date,
		Description: req.Msg.Description,
		ImageRef:    req.Msg.ImageRef,
		Participants: []models.Participant{{
			Name:          organizer.Name,
			Contact:       organizer.Contact,
			Role:          models.RoleOrganizer,
			PaymentMethod: fromPaymentMethod(organizer.PaymentMethod),
		}},
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("CreateEvent failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Event created", "event_id", event.ID, "organizer_id", event.OrganizerID)
	s.publish(ctx, notify.NewChange(event.ID, notify.EventCreated, event.ID))

	return connect.NewResponse(&CreateEventResponse{Event: toEvent(event)}), nil
}

// GetEvent retrieves an event with its participants and expenses.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error) {
	slog.Info("GetEvent request received", "event_id", req.Msg.EventID)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("GetEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetEvent successful",
		"event_id", event.ID,
		"participants_count", len(event.Participants),
		"expenses_count", len(event.Expenses),
	)

	return connect.NewResponse(&GetEventResponse{Event: toEvent(event)}), nil
}

// AddParticipant attaches a participant to an event.
func (s *EventService) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	slog.Info("AddParticipant request received",
		"event_id", req.Msg.EventID,
		"name", req.Msg.Participant.Name,
	)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	in := req.Msg.Participant
	role := models.Role(in.Role)
	if role == "" {
		role = models.RoleParticipant
	}
	participant := &models.Participant{
		EventID:       req.Msg.EventID,
		Name:          in.Name,
		Contact:       in.Contact,
		Role:          role,
		PaymentMethod: fromPaymentMethod(in.PaymentMethod),
	}

	if err := s.store.AddParticipant(ctx, participant); err != nil {
		slog.Error("AddParticipant failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant added", "event_id", participant.EventID, "participant_id", participant.ID)
	s.publish(ctx, notify.NewChange(participant.EventID, notify.ParticipantAdded, participant.ID))

	return connect.NewResponse(&AddParticipantResponse{Participant: toParticipant(*participant)}), nil
}

// RemoveParticipant detaches a participant no expense refers to.
func (s *EventService) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	slog.Info("RemoveParticipant request received",
		"event_id", req.Msg.EventID,
		"participant_id", req.Msg.ParticipantID,
	)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.RemoveParticipant(ctx, req.Msg.EventID, req.Msg.ParticipantID); err != nil {
		slog.Warn("RemoveParticipant failed",
			"event_id", req.Msg.EventID,
			"participant_id", req.Msg.ParticipantID,
			"error", err,
		)
		return nil, toConnectError(err)
	}

	slog.Info("Participant removed", "event_id", req.Msg.EventID, "participant_id", req.Msg.ParticipantID)
	s.publish(ctx, notify.NewChange(req.Msg.EventID, notify.ParticipantRemoved, req.Msg.ParticipantID))

	return connect.NewResponse(&RemoveParticipantResponse{}), nil
}

// PreviewShares computes shares without recording anything.
func (s *EventService) PreviewShares(ctx context.Context, req *connect.Request[PreviewSharesRequest]) (*connect.Response[PreviewSharesResponse], error) {
	slog.Info("PreviewShares request received",
		"amount", req.Msg.Amount.String(),
		"split_mode", req.Msg.SplitMode,
		"involved_count", len(req.Msg.Involved),
	)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	shares, err := calculator.ComputeShares(req.Msg.Amount, models.SplitMode(req.Msg.SplitMode), req.Msg.Involved, fromShareMap(req.Msg.CustomShares))
	if err != nil {
		slog.Warn("PreviewShares rejected", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&PreviewSharesResponse{
		Shares: toShareMap(shares),
		Total:  shares.Total(),
	}), nil
}

// AddExpense splits an expense among the event's participants and records it.
func (s *EventService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"event_id", req.Msg.EventID,
		"amount", req.Msg.Amount.String(),
		"split_mode", req.Msg.SplitMode,
		"payer_id", req.Msg.PayerID,
	)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("AddExpense failed to load event", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	if _, ok := event.Participant(req.Msg.PayerID); !ok {
		return nil, toConnectError(fmt.Errorf("%w: payer %q is not in event", calculator.ErrInvalidParticipant, req.Msg.PayerID))
	}

	mode := models.SplitMode(req.Msg.SplitMode)
	custom := fromShareMap(req.Msg.CustomShares)
	involved, err := resolveInvolved(event, mode, req.Msg.Involved, custom)
	if err != nil {
		return nil, toConnectError(err)
	}

	shares, err := calculator.ComputeShares(req.Msg.Amount, mode, involved, custom)
	if err != nil {
		slog.Warn("AddExpense rejected", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}

	date := req.Msg.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	expense := &models.Expense{
		EventID:     event.ID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Category:    req.Msg.Category,
		PayerID:     req.Msg.PayerID,
		SplitMode:   mode,
		Shares:      shares,
		Involved:    dedupe(involved),
		Date:        date,
		ReceiptRef:  req.Msg.ReceiptRef,
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added",
		"event_id", event.ID,
		"expense_id", expense.ID,
		"shares_count", len(expense.Shares),
	)
	s.publish(ctx, notify.NewChange(event.ID, notify.ExpenseAdded, expense.ID))

	return connect.NewResponse(&AddExpenseResponse{Expense: toExpense(*expense)}), nil
}

// GetSummary computes balances, suggested settlements and spending totals for an event.
func (s *EventService) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	slog.Info("GetSummary request received", "event_id", req.Msg.EventID)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("GetSummary failed to load event", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	summary, err := calculator.CalculateEventBalances(event.Participants, event.Expenses)
	if err != nil {
		s.metrics.ObserveSummary(0, err)
		slog.Error("GetSummary failed", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ObserveSummary(len(summary.Settlements), nil)

	slog.Info("GetSummary successful",
		"event_id", event.ID,
		"total_spent", summary.TotalSpent.String(),
		"settlements_count", len(summary.Settlements),
	)

	return connect.NewResponse(toSummary(event, summary)), nil
}

// publish sends a change notification. Failures are logged and never fail the request.
func (s *EventService) publish(ctx context.Context, c *notify.Change) {
	if err := s.notifier.Notify(ctx, c); err != nil {
		slog.Warn("Failed to publish change",
			"event_id", c.EventID,
			"kind", c.Kind,
			"error", err,
		)
	}
}

// resolveInvolved fills in the default involved list for the mode and checks that every
// referenced ID belongs to the event.
func resolveInvolved(event *models.Event, mode models.SplitMode, involved []string, custom models.Shares) ([]string, error) {
	if len(involved) == 0 {
		switch mode {
		case models.SplitEqual:
			involved = event.ParticipantIDs()
		case models.SplitCustom:
			for _, id := range event.ParticipantIDs() {
				if _, ok := custom[id]; ok {
					involved = append(involved, id)
				}
			}
		}
	}

	for _, id := range involved {
		if _, ok := event.Participant(id); !ok {
			return nil, fmt.Errorf("%w: %q is not in event", calculator.ErrInvalidParticipant, id)
		}
	}
	for _, id := range custom.IDs() {
		if _, ok := event.Participant(id); !ok {
			return nil, fmt.Errorf("%w: %q is not in event", calculator.ErrInvalidParticipant, id)
		}
	}
	return involved, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
