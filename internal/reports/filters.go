package reports

import (
	"time"

	"branhox/internal/pagination"
)

// DailyFilter narrows the daily report. Empty fields match everything.
type DailyFilter struct {
	Date          string `form:"date" json:"date" binding:"omitempty,iso_date"`
	Agent         string `form:"agent" json:"agent"`
	Platform      string `form:"platform" json:"platform"`
	PageName      string `form:"page_name" json:"page_name"`
	PaymentMethod string `form:"payment_method" json:"payment_method"`
	Category      string `form:"category" json:"category" binding:"omitempty,entry_category"`
}

// Cleared resets every filter and pins the date to today.
func (DailyFilter) Cleared(today time.Time) DailyFilter {
	return DailyFilter{Date: today.Format(time.DateOnly)}
}

// MonthlyFilter selects a month and a page of its entries.
type MonthlyFilter struct {
	Month       string `form:"month" json:"month" binding:"omitempty,year_month"`
	Page        int    `form:"page" json:"page" binding:"omitempty,min=1"`
	RowsPerPage int    `form:"rows_per_page" json:"rows_per_page" binding:"omitempty,rows_per_page"`
}

// WithMonth selects another month and returns to the first page.
func (f MonthlyFilter) WithMonth(month string) MonthlyFilter {
	f.Month = month
	f.Page = 1
	return f
}

// WithRowsPerPage changes the page size and returns to the first page.
func (f MonthlyFilter) WithRowsPerPage(rows int) MonthlyFilter {
	f.RowsPerPage = rows
	f.Page = 1
	return f
}

// WithPage moves to page.
func (f MonthlyFilter) WithPage(page int) MonthlyFilter {
	f.Page = page
	return f
}

func (f MonthlyFilter) pageRequest() pagination.PageRequest {
	return pagination.PageRequest{Page: f.Page, PageSize: f.RowsPerPage}
}

// ReferralFilter selects a referral code, an optional code to compare
// against, an inclusive date range and a page of the detailed log.
type ReferralFilter struct {
	Code        string `form:"code" json:"code" binding:"omitempty,referral_code"`
	CompareCode string `form:"compare_code" json:"compare_code" binding:"omitempty,referral_code"`
	StartDate   string `form:"start_date" json:"start_date" binding:"omitempty,iso_date"`
	EndDate     string `form:"end_date" json:"end_date" binding:"omitempty,iso_date"`
	Page        int    `form:"page" json:"page" binding:"omitempty,min=1"`
	RowsPerPage int    `form:"rows_per_page" json:"rows_per_page" binding:"omitempty,rows_per_page"`
}

// WithCode selects the primary code. A code equal to the compare code
// clears the comparison. The page resets to 1.
func (f ReferralFilter) WithCode(code string) ReferralFilter {
	f.Code = code
	if f.CompareCode == code {
		f.CompareCode = ""
	}
	f.Page = 1
	return f
}

// WithCompareCode selects the comparison code and returns to the first
// page. Choosing the primary code clears the comparison instead.
func (f ReferralFilter) WithCompareCode(code string) ReferralFilter {
	if code == f.Code {
		code = ""
	}
	f.CompareCode = code
	f.Page = 1
	return f
}

// WithRowsPerPage changes the log page size and returns to the first page.
func (f ReferralFilter) WithRowsPerPage(rows int) ReferralFilter {
	f.RowsPerPage = rows
	f.Page = 1
	return f
}

// WithRange changes the date range and returns to the first page.
func (f ReferralFilter) WithRange(start, end string) ReferralFilter {
	f.StartDate = start
	f.EndDate = end
	f.Page = 1
	return f
}

// Normalized applies the compare-code rule to a filter built directly from
// request parameters.
func (f ReferralFilter) Normalized() ReferralFilter {
	if f.CompareCode == f.Code {
		f.CompareCode = ""
	}
	return f
}

func (f ReferralFilter) pageRequest() pagination.PageRequest {
	return pagination.PageRequest{Page: f.Page, PageSize: f.RowsPerPage}
}

// ProgressMode selects how the agent progress date range is derived.
type ProgressMode string

const (
	ModeLast7Days  ProgressMode = "7days"
	ModeLast15Days ProgressMode = "15days"
	ModeThisMonth  ProgressMode = "month"
	ModeCustom     ProgressMode = "custom"
)

// ProgressFilter is the agent progress date range.
type ProgressFilter struct {
	Mode      ProgressMode `form:"mode" json:"mode" binding:"omitempty,progress_mode"`
	StartDate string       `form:"start_date" json:"start_date" binding:"omitempty,iso_date"`
	EndDate   string       `form:"end_date" json:"end_date" binding:"omitempty,iso_date"`
}

// WithMode switches the mode. Preset modes recompute the range ending today;
// custom keeps the current dates.
func (f ProgressFilter) WithMode(mode ProgressMode, today time.Time) ProgressFilter {
	f.Mode = mode
	end := today.Format(time.DateOnly)
	switch mode {
	case ModeLast7Days:
		f.StartDate, f.EndDate = today.AddDate(0, 0, -6).Format(time.DateOnly), end
	case ModeLast15Days:
		f.StartDate, f.EndDate = today.AddDate(0, 0, -14).Format(time.DateOnly), end
	case ModeThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		f.StartDate, f.EndDate = first.Format(time.DateOnly), end
	}
	return f
}

// WithStartDate edits the start date, switching to custom mode.
func (f ProgressFilter) WithStartDate(date string) ProgressFilter {
	f.StartDate = date
	f.Mode = ModeCustom
	return f
}

// WithEndDate edits the end date, switching to custom mode.
func (f ProgressFilter) WithEndDate(date string) ProgressFilter {
	f.EndDate = date
	f.Mode = ModeCustom
	return f
}

// Resolved fills in the range for preset modes and defaults an empty mode to
// the last seven days.
func (f ProgressFilter) Resolved(today time.Time) ProgressFilter {
	switch f.Mode {
	case "":
		return f.WithMode(ModeThisMonth, today)
	case ModeCustom:
		return f
	default:
		return f.WithMode(f.Mode, today)
	}
}
