// Package reports turns a tenant's entries and agents into report view-models.
// Everything here is a pure function of its inputs: no database access, no
// clock reads (callers pass "today"), and no mutation of the given slices.
package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"branhox/internal/models"
)

// NotAvailable is the label reported when a most-frequent lookup has no input.
const NotAvailable = "N/A"

// Bucket is one row of a breakdown: the group key, the summed amount and
// the number of entries that fell into it.
type Bucket struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// KeyFunc selects the dimension an entry is grouped by.
type KeyFunc func(e models.Entry) string

// Common dimensions.
var (
	ByPageName      KeyFunc = func(e models.Entry) string { return e.PageName }
	ByPlatform      KeyFunc = func(e models.Entry) string { return e.Platform }
	ByPaymentMethod KeyFunc = func(e models.Entry) string { return e.PaymentMethod }
	ByReferralCode  KeyFunc = func(e models.Entry) string { return e.ReferralCode }
	ByDate          KeyFunc = func(e models.Entry) string { return e.Date }
)

// Totals are the category sums shared by every report.
type Totals struct {
	Recharge decimal.Decimal `json:"total_recharge"`
	Freeplay decimal.Decimal `json:"total_freeplay"`
	Points   int64           `json:"total_points"`
}

// SumByCategory sums Recharge and Freeplay amounts and all points.
func SumByCategory(entries []models.Entry) Totals {
	t := Totals{Recharge: decimal.Zero, Freeplay: decimal.Zero}
	for _, e := range entries {
		switch e.Category {
		case models.CategoryRecharge:
			t.Recharge = t.Recharge.Add(e.Amount)
		case models.CategoryFreeplay:
			t.Freeplay = t.Freeplay.Add(e.Amount)
		}
		t.Points += e.PointsLoad
	}
	return t
}

// Where returns the entries matching keep, in their original order.
func Where(entries []models.Entry, keep func(models.Entry) bool) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// IsCategory matches entries of category c.
func IsCategory(c models.EntryCategory) func(models.Entry) bool {
	return func(e models.Entry) bool { return e.Category == c }
}

// InDateRange reports whether date lies in [start, end]. ISO dates compare
// correctly as strings; an empty bound is open.
func InDateRange(date, start, end string) bool {
	if start != "" && date < start {
		return false
	}
	if end != "" && date > end {
		return false
	}
	return true
}

func group(entries []models.Entry, key KeyFunc) []Bucket {
	idx := make(map[string]int)
	var out []Bucket
	for _, e := range entries {
		k := key(e)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Bucket{Key: k, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
		out[i].Count++
	}
	return out
}

func truncate(b []Bucket, topN int) []Bucket {
	if topN > 0 && len(b) > topN {
		return b[:topN]
	}
	if b == nil {
		return []Bucket{}
	}
	return b
}

// GroupSum groups entries by key and orders buckets by summed amount,
// highest first. Equal amounts are ordered by key. topN <= 0 keeps all.
func GroupSum(entries []models.Entry, key KeyFunc, topN int) []Bucket {
	b := group(entries, key)
	sort.Slice(b, func(i, j int) bool {
		if c := b[i].Amount.Cmp(b[j].Amount); c != 0 {
			return c > 0
		}
		return b[i].Key < b[j].Key
	})
	return truncate(b, topN)
}

// GroupCount groups entries by key and orders buckets by entry count,
// highest first. Equal counts are ordered by key. topN <= 0 keeps all.
func GroupCount(entries []models.Entry, key KeyFunc, topN int) []Bucket {
	b := group(entries, key)
	sort.Slice(b, func(i, j int) bool {
		if b[i].Count != b[j].Count {
			return b[i].Count > b[j].Count
		}
		return b[i].Key < b[j].Key
	})
	return truncate(b, topN)
}

// MostFrequent returns the value that occurs most often, or NotAvailable for
// empty input. Ties go to the lexicographically smallest value.
func MostFrequent(values []string) string {
	if len(values) == 0 {
		return NotAvailable
	}
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := "", 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

// Values projects entries onto one dimension.
func Values(entries []models.Entry, key KeyFunc) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = key(e)
	}
	return out
}

// DistinctCount counts distinct values of key.
func DistinctCount(entries []models.Entry, key KeyFunc) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[key(e)] = struct{}{}
	}
	return len(seen)
}

// Percent returns part/whole*100 rounded to two places, or 0 when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}

// SortNewestFirst orders entries by date then id, newest first, in a copy.
func SortNewestFirst(entries []models.Entry) []models.Entry {
	out := append([]models.Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func sortPlatformPoints(p []PlatformPoints) {
	sort.Slice(p, func(i, j int) bool {
		if p[i].Points != p[j].Points {
			return p[i].Points > p[j].Points
		}
		return p[i].Platform < p[j].Platform
	})
}

func sortBucketsByKey(b []Bucket) {
	sort.Slice(b, func(i, j int) bool { return b[i].Key < b[j].Key })
}
