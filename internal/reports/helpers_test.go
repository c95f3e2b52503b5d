package reports

import (
	"github.com/shopspring/decimal"

	"branhox/internal/models"
)

type entryOpt func(*models.Entry)

var nextID uint

func entry(date string, cat models.EntryCategory, amount int64, opts ...entryOpt) models.Entry {
	nextID++
	e := models.Entry{
		ID:            nextID,
		BusinessID:    "biz-1",
		Date:          date,
		AgentName:     "Alice",
		Category:      cat,
		PageName:      "Gaming Slots",
		Platform:      "Juwa",
		PaymentMethod: "CashApp",
		PlayerHistory: "New Paid",
		Username:      "player1",
		Amount:        decimal.NewFromInt(amount),
		Source:        models.SourceReferral,
		ReferralCode:  "FR2K",
		RedeemType:    models.RedeemNewPaid,
	}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func withAgent(name string) entryOpt {
	return func(e *models.Entry) { e.AgentName = name }
}

func withPage(p string) entryOpt {
	return func(e *models.Entry) { e.PageName = p }
}

func withPlatform(p string) entryOpt {
	return func(e *models.Entry) { e.Platform = p }
}

func withPayment(p string) entryOpt {
	return func(e *models.Entry) { e.PaymentMethod = p }
}

func withUser(u string) entryOpt {
	return func(e *models.Entry) { e.Username = u }
}

func withPoints(p int64) entryOpt {
	return func(e *models.Entry) { e.PointsLoad = p }
}

func withRedeem(r models.RedeemType) entryOpt {
	return func(e *models.Entry) { e.RedeemType = r }
}

func withCode(code string) entryOpt {
	return func(e *models.Entry) {
		e.ReferralCode = code
		e.Source = models.SourceForReferralCode(code)
	}
}

func withSource(s models.EntrySource) entryOpt {
	return func(e *models.Entry) { e.Source = s }
}

func agent(id, name string) models.Agent {
	a := models.Agent{AgentName: name, Username: name, Status: models.AgentStatusActive}
	a.ID = id
	return a
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
