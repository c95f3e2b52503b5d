package reports

import (
	"branhox/internal/models"
)

const dailyTopN = 7

// DailyReport summarises the entries matching a DailyFilter.
type DailyReport struct {
	Filter           DailyFilter    `json:"filter"`
	Totals           Totals         `json:"totals"`
	EntryCount       int            `json:"entry_count"`
	TopPages         []Bucket       `json:"top_pages"`
	TopReferralCodes []Bucket       `json:"top_referral_codes"`
	TopPlatforms     []Bucket       `json:"top_platforms"`
	Entries          []models.Entry `json:"entries"`
}

// Match reports whether e passes every non-empty field of the filter.
func (f DailyFilter) Match(e models.Entry) bool {
	return (f.Date == "" || e.Date == f.Date) &&
		(f.Agent == "" || e.AgentName == f.Agent) &&
		(f.Platform == "" || e.Platform == f.Platform) &&
		(f.PageName == "" || e.PageName == f.PageName) &&
		(f.PaymentMethod == "" || e.PaymentMethod == f.PaymentMethod) &&
		(f.Category == "" || string(e.Category) == f.Category)
}

// Daily builds the daily report. Breakdowns only count Recharge entries with
// a positive amount.
func Daily(entries []models.Entry, f DailyFilter) *DailyReport {
	matched := SortNewestFirst(Where(entries, f.Match))
	paid := Where(matched, func(e models.Entry) bool {
		return e.Category == models.CategoryRecharge && e.Amount.IsPositive()
	})

	return &DailyReport{
		Filter:           f,
		Totals:           SumByCategory(matched),
		EntryCount:       len(matched),
		TopPages:         GroupSum(paid, ByPageName, dailyTopN),
		TopReferralCodes: GroupSum(paid, ByReferralCode, dailyTopN),
		TopPlatforms:     GroupSum(paid, ByPlatform, dailyTopN),
		Entries:          matched,
	}
}
