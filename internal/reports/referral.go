package reports

import (
	"github.com/shopspring/decimal"

	"branhox/internal/models"
	"branhox/internal/pagination"
)

const referralPlatformTopN = 2

// DailyAmount is one point of a day-bucketed series.
type DailyAmount struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// ReferralStats are the figures computed for one referral code.
type ReferralStats struct {
	Code              string                    `json:"code"`
	TotalRecharge     decimal.Decimal           `json:"total_recharge"`
	TotalFreeplay     decimal.Decimal           `json:"total_freeplay"`
	NewPaidCount      int                       `json:"new_paid_count"`
	AlreadyPaidCount  int                       `json:"already_paid_count"`
	EntryCount        int                       `json:"entry_count"`
	AverageRecharge   decimal.Decimal           `json:"average_recharge"`
	TopPlatforms      []string                  `json:"top_platforms"`
	DailyRecharge     []DailyAmount             `json:"daily_recharge"`
	PagePlatformUsage map[string]map[string]int `json:"page_platform_usage"`
}

// ReferralReport is the referral intelligence view.
type ReferralReport struct {
	Filter      ReferralFilter                        `json:"filter"`
	Primary     *ReferralStats                        `json:"primary"`
	Compare     *ReferralStats                        `json:"compare,omitempty"`
	DetailedLog pagination.PageResponse[models.Entry] `json:"detailed_log"`
	AllLog      []models.Entry                        `json:"-"`
}

// SourceMatchesCode reports whether an entry's stored source agrees with the
// selected code. Entries whose source went stale are left out of the log.
func SourceMatchesCode(e models.Entry, code string) bool {
	return e.Source == models.SourceForReferralCode(code)
}

func referralSet(entries []models.Entry, code, start, end string) []models.Entry {
	return Where(entries, func(e models.Entry) bool {
		return e.ReferralCode == code && InDateRange(e.Date, start, end)
	})
}

// Referral builds the report for f.Code within [f.StartDate, f.EndDate],
// plus the comparison code when one is set and differs from the primary.
func Referral(entries []models.Entry, f ReferralFilter) *ReferralReport {
	f = f.Normalized()
	primary := SortNewestFirst(referralSet(entries, f.Code, f.StartDate, f.EndDate))

	log := Where(primary, func(e models.Entry) bool { return SourceMatchesCode(e, f.Code) })
	r := &ReferralReport{
		Filter:      f,
		Primary:     ReferralStatsFor(f.Code, primary),
		DetailedLog: pagination.Slice(log, f.pageRequest()),
		AllLog:      log,
	}
	if f.CompareCode != "" {
		r.Compare = ReferralStatsFor(f.CompareCode, referralSet(entries, f.CompareCode, f.StartDate, f.EndDate))
	}
	return r
}

// ReferralStatsFor computes the stats of an already filtered entry set.
func ReferralStatsFor(code string, entries []models.Entry) *ReferralStats {
	totals := SumByCategory(entries)
	s := &ReferralStats{
		Code:              code,
		TotalRecharge:     totals.Recharge,
		TotalFreeplay:     totals.Freeplay,
		EntryCount:        len(entries),
		AverageRecharge:   decimal.Zero,
		TopPlatforms:      []string{},
		PagePlatformUsage: make(map[string]map[string]int),
	}
	for _, e := range entries {
		switch e.RedeemType {
		case models.RedeemNewPaid:
			s.NewPaidCount++
		case models.RedeemAlreadyPaid:
			s.AlreadyPaidCount++
		}
		usage, ok := s.PagePlatformUsage[e.PageName]
		if !ok {
			usage = make(map[string]int)
			s.PagePlatformUsage[e.PageName] = usage
		}
		usage[e.Platform]++
	}
	if s.EntryCount > 0 {
		s.AverageRecharge = totals.Recharge.Div(decimal.NewFromInt(int64(s.EntryCount))).Round(2)
	}
	for _, b := range GroupCount(entries, ByPlatform, referralPlatformTopN) {
		s.TopPlatforms = append(s.TopPlatforms, b.Key)
	}
	s.DailyRecharge = dailySeries(Where(entries, IsCategory(models.CategoryRecharge)))
	return s
}

// dailySeries sums amounts per date in chronological order.
func dailySeries(entries []models.Entry) []DailyAmount {
	buckets := group(entries, ByDate)
	sortBucketsByKey(buckets)
	out := make([]DailyAmount, len(buckets))
	for i, b := range buckets {
		out[i] = DailyAmount{Date: b.Key, Amount: b.Amount}
	}
	return out
}
