package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"branhox/internal/models"
	"branhox/internal/pagination"
)

const monthlyPlatformTopN = 10

// PaymentStat is the Recharge volume of one payment method.
type PaymentStat struct {
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TransactionCount int             `json:"transactionCount"`
}

// PlatformPoints is the points loaded on one platform.
type PlatformPoints struct {
	Platform string `json:"platform"`
	Points   int64  `json:"points"`
}

// MonthlyReport summarises one calendar month.
type MonthlyReport struct {
	Month              string                                `json:"month"`
	TotalRecharge      decimal.Decimal                       `json:"total_recharge"`
	TotalFreeplay      decimal.Decimal                       `json:"total_freeplay"`
	CoinUsed           int64                                 `json:"coin_used"`
	PaymentMethodStats map[string]PaymentStat                `json:"payment_method_stats"`
	TopPaymentMethod   string                                `json:"top_payment_method"`
	TopPaymentShare    decimal.Decimal                       `json:"top_payment_share"`
	FreeplayRatio      decimal.Decimal                       `json:"freeplay_ratio"`
	PlatformPoints     []PlatformPoints                      `json:"platform_points"`
	Entries            pagination.PageResponse[models.Entry] `json:"entries"`
	AllEntries         []models.Entry                        `json:"-"`
}

// InMonth reports whether e is dated within month (YYYY-MM).
func InMonth(e models.Entry, month string) bool {
	return strings.HasPrefix(e.Date, month+"-")
}

// Monthly builds the report for f.Month. The top payment method is the one
// with the highest Recharge amount; ties go to the smallest name.
func Monthly(entries []models.Entry, f MonthlyFilter) *MonthlyReport {
	inMonth := SortNewestFirst(Where(entries, func(e models.Entry) bool { return InMonth(e, f.Month) }))
	totals := SumByCategory(inMonth)

	r := &MonthlyReport{
		Month:              f.Month,
		TotalRecharge:      totals.Recharge,
		TotalFreeplay:      totals.Freeplay,
		CoinUsed:           totals.Points,
		PaymentMethodStats: make(map[string]PaymentStat),
		FreeplayRatio:      Percent(totals.Freeplay, totals.Recharge),
		TopPaymentShare:    decimal.Zero,
		Entries:            pagination.Slice(inMonth, f.pageRequest()),
		AllEntries:         inMonth,
	}

	byMethod := GroupSum(Where(inMonth, IsCategory(models.CategoryRecharge)), ByPaymentMethod, 0)
	for _, b := range byMethod {
		r.PaymentMethodStats[b.Key] = PaymentStat{TotalAmount: b.Amount, TransactionCount: b.Count}
	}
	if len(byMethod) > 0 {
		r.TopPaymentMethod = byMethod[0].Key
		r.TopPaymentShare = Percent(byMethod[0].Amount, totals.Recharge)
	}

	r.PlatformPoints = platformPoints(inMonth, monthlyPlatformTopN)
	return r
}

func platformPoints(entries []models.Entry, topN int) []PlatformPoints {
	idx := make(map[string]int)
	var out []PlatformPoints
	for _, e := range entries {
		i, ok := idx[e.Platform]
		if !ok {
			i = len(out)
			idx[e.Platform] = i
			out = append(out, PlatformPoints{Platform: e.Platform})
		}
		out[i].Points += e.PointsLoad
	}
	sortPlatformPoints(out)
	if len(out) > topN {
		out = out[:topN]
	}
	if out == nil {
		out = []PlatformPoints{}
	}
	return out
}
