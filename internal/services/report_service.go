package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "branhox/internal/errors"
	"branhox/internal/models"
	"branhox/internal/reports"
	"branhox/internal/tenant"
)

// reportService loads a tenant's entries and runs the report engine over them.
type reportService struct {
	db    *gorm.DB
	store EntityStorer
	now   func() time.Time
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, store EntityStorer) ReportServicer {
	return &reportService{db: db, store: store, now: time.Now}
}

// Daily builds the daily report. An empty date covers every day.
func (s *reportService) Daily(scope tenant.Scope, f reports.DailyFilter) (*reports.DailyReport, error) {
	entries, err := s.store.EntriesForTenant(scope)
	if err != nil {
		return nil, err
	}
	return reports.Daily(entries, f), nil
}

// Monthly builds the monthly report, defaulting to the current month.
func (s *reportService) Monthly(scope tenant.Scope, f reports.MonthlyFilter) (*reports.MonthlyReport, error) {
	if f.Month == "" {
		f.Month = s.now().Format("2006-01")
	}
	entries, err := s.store.EntriesForTenant(scope)
	if err != nil {
		return nil, err
	}
	return reports.Monthly(entries, f), nil
}

// Referral builds the referral report, defaulting to the first referral code.
func (s *reportService) Referral(scope tenant.Scope, f reports.ReferralFilter) (*reports.ReferralReport, error) {
	if f.Code == "" {
		f.Code = models.ReferralCodes[0]
	}
	entries, err := s.store.EntriesForTenant(scope)
	if err != nil {
		return nil, err
	}
	return reports.Referral(entries, f), nil
}

// Progress builds the agent leaderboard for the resolved date range.
func (s *reportService) Progress(scope tenant.Scope, f reports.ProgressFilter, search string) (*reports.ProgressReport, error) {
	f = f.Resolved(s.now())
	if f.StartDate != "" && f.EndDate != "" && f.StartDate > f.EndDate {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date must not be after end date")
	}
	entries, err := s.store.EntriesForTenant(scope)
	if err != nil {
		return nil, err
	}
	agents, err := s.store.AgentsForTenant(scope)
	if err != nil {
		return nil, err
	}
	return reports.Progress(entries, agents, f, search), nil
}

// MonthlyPDF renders the monthly report as a PDF under the business name.
func (s *reportService) MonthlyPDF(scope tenant.Scope, f reports.MonthlyFilter) ([]byte, error) {
	report, err := s.Monthly(scope, f)
	if err != nil {
		return nil, err
	}
	if len(report.AllEntries) == 0 {
		return nil, apperrors.ErrNoDataToExport
	}

	var business models.Business
	if err := s.db.Select("business_name").Where("id = ?", scope.BusinessID()).First(&business).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	data, err := reports.MonthlyPDF(business.BusinessName, report, s.now())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}
