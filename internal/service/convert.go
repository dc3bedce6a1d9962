package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/models"
)

func toPaymentMethod(pm *models.PaymentMethod) *PaymentMethod {
	if pm.IsZero() {
		return nil
	}
	return &PaymentMethod{
		WalletNumber:   pm.WalletNumber,
		BankTransferID: pm.BankTransferID,
		QRCodeRef:      pm.QRCodeRef,
	}
}

func fromPaymentMethod(pm *PaymentMethod) *models.PaymentMethod {
	if pm == nil {
		return nil
	}
	m := &models.PaymentMethod{
		WalletNumber:   pm.WalletNumber,
		BankTransferID: pm.BankTransferID,
		QRCodeRef:      pm.QRCodeRef,
	}
	if m.IsZero() {
		return nil
	}
	return m
}

func toParticipant(p models.Participant) Participant {
	return Participant{
		ID:            p.ID,
		Name:          p.Name,
		Contact:       p.Contact,
		Role:          string(p.Role),
		PaymentMethod: toPaymentMethod(p.PaymentMethod),
		CreatedAt:     p.CreatedAt,
	}
}

func toExpense(e models.Expense) Expense {
	involved := e.Involved
	if involved == nil {
		involved = []string{}
	}
	return Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		PayerID:     e.PayerID,
		SplitMode:   string(e.SplitMode),
		Shares:      toShareMap(e.Shares),
		Involved:    involved,
		Date:        e.Date,
		ReceiptRef:  e.ReceiptRef,
		CreatedAt:   e.CreatedAt,
	}
}

func toEvent(e *models.Event) Event {
	participants := make([]Participant, len(e.Participants))
	for i, p := range e.Participants {
		participants[i] = toParticipant(p)
	}
	expenses := make([]Expense, len(e.Expenses))
	for i, exp := range e.Expenses {
		expenses[i] = toExpense(exp)
	}
	return Event{
		ID:           e.ID,
		Name:         e.Name,
		Date:         e.Date,
		Description:  e.Description,
		ImageRef:     e.ImageRef,
		OrganizerID:  e.OrganizerID,
		Participants: participants,
		Expenses:     expenses,
		CreatedAt:    e.CreatedAt,
	}
}

func toShareMap(s models.Shares) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s))
	for id, amount := range s {
		out[id] = amount
	}
	return out
}

func fromShareMap(m map[string]decimal.Decimal) models.Shares {
	if m == nil {
		return nil
	}
	s := make(models.Shares, len(m))
	for id, amount := range m {
		s[id] = amount
	}
	return s
}

func toSummary(event *models.Event, summary *calculator.Summary) *GetSummaryResponse {
	names := make(map[string]string, len(event.Participants))
	for _, p := range event.Participants {
		names[p.ID] = p.Name
	}

	balances := make([]Balance, len(summary.Balances))
	for i, b := range summary.Balances {
		balances[i] = Balance{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			TotalPaid:     b.TotalPaid,
			TotalOwed:     b.TotalOwed,
			Net:           b.Net,
			Settled:       b.Settled,
		}
	}

	settlements := make([]Settlement, len(summary.Settlements))
	for i, s := range summary.Settlements {
		settlements[i] = Settlement{
			FromID:        s.From,
			FromName:      names[s.From],
			ToID:          s.To,
			ToName:        names[s.To],
			Amount:        s.Amount,
			PaymentMethod: toPaymentMethod(s.PaymentMethod),
		}
	}

	categories := make([]CategoryTotal, len(summary.CategoryTotals))
	for i, c := range summary.CategoryTotals {
		categories[i] = CategoryTotal{Category: c.Category, Total: c.Total}
	}

	settled := summary.SettledParticipants()
	if settled == nil {
		settled = []string{}
	}

	return &GetSummaryResponse{
		Balances:            balances,
		Settlements:         settlements,
		CategoryTotals:      categories,
		TotalSpent:          summary.TotalSpent,
		PerPersonAverage:    summary.PerPersonAverage,
		SettledIDs:          settled,
		SuggestedCategories: append([]string(nil), models.SuggestedCategories...),
	}
}
