package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "branhox/internal/errors"
	"branhox/internal/logger"
	"branhox/internal/models"
	"branhox/internal/tenant"
	"branhox/internal/validator"
)

// DefaultRecentLimit is how many of an agent's own entries the submit page shows.
const DefaultRecentLimit = 5

// EntryDraft is the user-supplied part of an entry. A nil Amount means the
// field was left blank.
type EntryDraft struct {
	Date          string           `json:"date" binding:"omitempty,iso_date"`
	AgentName     string           `json:"agent_name"`
	Category      string           `json:"category" binding:"required,entry_category"`
	PageName      string           `json:"page_name"`
	Platform      string           `json:"platform"`
	PaymentMethod string           `json:"payment_method"`
	PlayerHistory string           `json:"player_history"`
	Username      string           `json:"username"`
	Amount        *decimal.Decimal `json:"amount"`
	PointsLoad    int64            `json:"points_load" binding:"min=0"`
	Source        string           `json:"source"`
	ReferralCode  string           `json:"referral_code" binding:"required,referral_code"`
	RedeemType    string           `json:"redeem_type" binding:"required,redeem_type"`
}

// EntryChangeListener is told about every entry mutation of a tenant.
type EntryChangeListener func(scope tenant.Scope)

// entryService handles entry-related business logic.
type entryService struct {
	db        *gorm.DB
	store     EntityStorer
	now       func() time.Time
	listeners []EntryChangeListener
}

// NewEntryService creates a new EntryServicer. Listeners run after each
// successful mutation.
func NewEntryService(db *gorm.DB, store EntityStorer, listeners ...EntryChangeListener) EntryServicer {
	return &entryService{db: db, store: store, now: time.Now, listeners: listeners}
}

func (s *entryService) changed(scope tenant.Scope) {
	for _, l := range s.listeners {
		l(scope)
	}
}

// SubmitEntry validates a draft against the tenant's option lists and records it.
func (s *entryService) SubmitEntry(scope tenant.Scope, agentName string, draft EntryDraft) (*models.Entry, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	settings, err := s.store.SettingsForTenant(scope)
	if err != nil {
		return nil, err
	}
	entry, err := s.prepare(scope, settings, agentName, draft)
	if err != nil {
		return nil, err
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.changed(scope)
	return entry, nil
}

// prepare turns a draft into an entry ready to insert.
func (s *entryService) prepare(scope tenant.Scope, settings *models.TenantSettings, agentName string, d EntryDraft) (*models.Entry, error) {
	username := strings.TrimSpace(d.Username)
	if username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Please fill out the Username.")
	}
	agentName = strings.TrimSpace(agentName)
	if agentName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "agent name is required")
	}

	date := strings.TrimSpace(d.Date)
	if date == "" {
		date = s.now().Format(time.DateOnly)
	}
	if !validator.IsISODate(date) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}

	category := models.EntryCategory(d.Category)
	if !category.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category")
	}
	if !models.IsReferralCode(d.ReferralCode) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid referral code")
	}
	redeemType := models.RedeemType(d.RedeemType)
	if !redeemType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid redeem type")
	}
	if d.PointsLoad < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "points load cannot be negative")
	}

	amount := decimal.Zero
	if category == models.CategoryRecharge {
		if d.Amount == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Please fill out the Amount.")
		}
		if d.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
		}
		amount = d.Amount.Round(2)
	}

	paymentMethod := d.PaymentMethod
	if category == models.CategoryFreeplay && paymentMethod == "" && len(settings.PaymentMethods) > 0 {
		paymentMethod = settings.PaymentMethods[0]
	}

	checks := []struct {
		key   models.SettingKey
		value string
		label string
	}{
		{models.SettingPageNames, d.PageName, "page name"},
		{models.SettingPlatforms, d.Platform, "platform"},
		{models.SettingPaymentMethods, paymentMethod, "payment method"},
		{models.SettingPlayerHistories, d.PlayerHistory, "player history"},
	}
	for _, c := range checks {
		if !settings.Contains(c.key, c.value) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown %s %q", c.label, c.value))
		}
	}

	return &models.Entry{
		BusinessID:    scope.BusinessID(),
		Date:          date,
		AgentName:     agentName,
		Category:      category,
		PageName:      d.PageName,
		Platform:      d.Platform,
		PaymentMethod: paymentMethod,
		PlayerHistory: d.PlayerHistory,
		Username:      username,
		Amount:        amount,
		PointsLoad:    d.PointsLoad,
		Source:        models.SourceForReferralCode(d.ReferralCode),
		ReferralCode:  d.ReferralCode,
		RedeemType:    redeemType,
	}, nil
}

// GetEntry retrieves an entry by id within the tenant.
func (s *entryService) GetEntry(scope tenant.Scope, id uint) (*models.Entry, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	var entry models.Entry
	if err := s.db.Where("id = ? AND business_id = ?", id, scope.BusinessID()).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// EditEntry replaces every editable field of an entry. Option-list
// membership is not re-checked so entries keep values that were later
// removed from the settings.
func (s *entryService) EditEntry(scope tenant.Scope, id uint, d EntryDraft) (*models.Entry, error) {
	entry, err := s.GetEntry(scope, id)
	if err != nil {
		return nil, err
	}

	if !validator.IsISODate(d.Date) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}
	category := models.EntryCategory(d.Category)
	if !category.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category")
	}
	if !models.IsReferralCode(d.ReferralCode) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid referral code")
	}
	redeemType := models.RedeemType(d.RedeemType)
	if !redeemType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid redeem type")
	}
	if strings.TrimSpace(d.Username) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username is required")
	}
	amount := decimal.Zero
	if d.Amount != nil {
		if d.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
		}
		amount = d.Amount.Round(2)
	}
	if d.PointsLoad < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "points load cannot be negative")
	}

	source := models.EntrySource(d.Source)
	if !source.Valid() {
		source = models.SourceForReferralCode(d.ReferralCode)
	}
	if name := strings.TrimSpace(d.AgentName); name != "" {
		entry.AgentName = name
	}

	entry.Date = d.Date
	entry.Category = category
	entry.PageName = d.PageName
	entry.Platform = d.Platform
	entry.PaymentMethod = d.PaymentMethod
	entry.PlayerHistory = d.PlayerHistory
	entry.Username = strings.TrimSpace(d.Username)
	entry.Amount = amount
	entry.PointsLoad = d.PointsLoad
	entry.Source = source
	entry.ReferralCode = d.ReferralCode
	entry.RedeemType = redeemType

	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.changed(scope)
	return entry, nil
}

// DeleteEntry removes one entry of the tenant.
func (s *entryService) DeleteEntry(scope tenant.Scope, id uint) error {
	if !scope.Valid() {
		return apperrors.ErrUnauthorized
	}
	result := s.db.Where("id = ? AND business_id = ?", id, scope.BusinessID()).Delete(&models.Entry{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}
	s.changed(scope)
	return nil
}

// DeleteEntriesForMonth removes the tenant's entries dated within month
// (YYYY-MM) and returns how many were deleted. Other tenants are untouched.
func (s *entryService) DeleteEntriesForMonth(scope tenant.Scope, month string) (int64, error) {
	if !scope.Valid() {
		return 0, apperrors.ErrUnauthorized
	}
	if !validator.IsYearMonth(month) {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be YYYY-MM")
	}
	result := s.db.Where("business_id = ? AND date LIKE ?", scope.BusinessID(), month+"-%").Delete(&models.Entry{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected > 0 {
		s.changed(scope)
	}
	return result.RowsAffected, nil
}

// RecentSubmissions returns the agent's latest entries, newest first.
func (s *entryService) RecentSubmissions(scope tenant.Scope, agentName string, limit int) ([]models.Entry, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var entries []models.Entry
	if err := s.db.Where("business_id = ? AND agent_name = ?", scope.BusinessID(), agentName).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// importColumns maps CSV header names to draft fields.
var importColumns = map[string]func(d *EntryDraft, v string) error{
	"date":           func(d *EntryDraft, v string) error { d.Date = v; return nil },
	"agent_name":     func(d *EntryDraft, v string) error { d.AgentName = v; return nil },
	"category":       func(d *EntryDraft, v string) error { d.Category = v; return nil },
	"page_name":      func(d *EntryDraft, v string) error { d.PageName = v; return nil },
	"platform":       func(d *EntryDraft, v string) error { d.Platform = v; return nil },
	"payment_method": func(d *EntryDraft, v string) error { d.PaymentMethod = v; return nil },
	"player_history": func(d *EntryDraft, v string) error { d.PlayerHistory = v; return nil },
	"username":       func(d *EntryDraft, v string) error { d.Username = v; return nil },
	"referral_code":  func(d *EntryDraft, v string) error { d.ReferralCode = v; return nil },
	"redeem_type":    func(d *EntryDraft, v string) error { d.RedeemType = v; return nil },
	"amount": func(d *EntryDraft, v string) error {
		if v == "" {
			return nil
		}
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		d.Amount = &amount
		return nil
	},
	"points_load": func(d *EntryDraft, v string) error {
		if v == "" {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		d.PointsLoad = n
		return nil
	},
}

// ImportEntries records every row of a CSV file whose header names entry
// fields. Rows are validated like SubmitEntry and written in one
// transaction, so a single bad row rejects the whole file.
func (s *entryService) ImportEntries(scope tenant.Scope, agentName string, r io.Reader) (int, error) {
	if !scope.Valid() {
		return 0, apperrors.ErrUnauthorized
	}
	settings, err := s.store.SettingsForTenant(scope)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is empty")
	}
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid CSV: "+err.Error())
	}
	for i, name := range header {
		header[i] = strings.ToLower(strings.TrimSpace(name))
		if _, ok := importColumns[header[i]]; !ok {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown column %q", name))
		}
	}

	var entries []*models.Entry
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid CSV: "+err.Error())
		}

		var draft EntryDraft
		for i, value := range record {
			if err := importColumns[header[i]](&draft, strings.TrimSpace(value)); err != nil {
				return 0, apperrors.WithMessage(apperrors.ErrInvalidInput,
					fmt.Sprintf("line %d: invalid %s", line, header[i]))
			}
		}
		rowAgent := agentName
		if draft.AgentName != "" {
			rowAgent = draft.AgentName
		}
		entry, err := s.prepare(scope, settings, rowAgent, draft)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				return 0, apperrors.WithMessage(appErr, fmt.Sprintf("line %d: %s", line, appErr.Message))
			}
			return 0, err
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "file has no entries")
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(entries, 100).Error
	}); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	logger.ForBusiness(scope.BusinessID()).Infow("entries imported", "count", len(entries), "agent", agentName)
	s.changed(scope)
	return len(entries), nil
}
