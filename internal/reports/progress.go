package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"branhox/internal/models"
)

// ReferralBreakdown is an agent's Recharge volume under one referral code.
type ReferralBreakdown struct {
	ReferralCode  string          `json:"referral_code"`
	PlayerCount   int             `json:"player_count"`
	TotalRecharge decimal.Decimal `json:"total_recharge"`
}

// AgentStats is one leaderboard row. Rank is the position in the full
// ranking and Highlight marks the top three agents that recharged anything.
type AgentStats struct {
	AgentID                 string              `json:"agent_id" csv:"-"`
	AgentName               string              `json:"agent_name" csv:"Agent Name"`
	TotalRecharge           decimal.Decimal     `json:"total_recharge" csv:"Total Recharge"`
	FreeplayGiven           decimal.Decimal     `json:"freeplay_given" csv:"Freeplay Given"`
	TopPlatform             string              `json:"top_platform" csv:"Platform"`
	RechargeCount           int                 `json:"recharge_count" csv:"Recharge Count"`
	FreeplayCount           int                 `json:"freeplay_count" csv:"Freeplay Count"`
	PlayersServed           int                 `json:"players_served" csv:"Total Players Served"`
	TopReferralCode         string              `json:"top_referral_code" csv:"Referral Code Used"`
	TopPageName             string              `json:"top_page_name" csv:"Page Name / Source"`
	PointsLoaded            int64               `json:"points_loaded" csv:"-"`
	Rank                    int                 `json:"rank" csv:"-"`
	Highlight               int                 `json:"highlight,omitempty" csv:"-"`
	RechargeByPage          []Bucket            `json:"recharge_by_page" csv:"-"`
	RechargeCountByPlatform []Bucket            `json:"recharge_count_by_platform" csv:"-"`
	ReferralBreakdown       []ReferralBreakdown `json:"referral_breakdown" csv:"-"`
}

// PaymentShare is one payment method's share of Recharge transactions.
type PaymentShare struct {
	Method  string          `json:"method"`
	Count   int             `json:"count"`
	Percent decimal.Decimal `json:"percent"`
}

// ProgressReport is the agent leaderboard for a date range.
type ProgressReport struct {
	Filter       ProgressFilter `json:"filter"`
	Search       string         `json:"search,omitempty"`
	EntryCount   int            `json:"entry_count"`
	TopPerformer *AgentStats    `json:"top_performer"`
	Agents       []AgentStats   `json:"agents"`
	PaymentShare []PaymentShare `json:"payment_share"`
}

// Progress ranks every agent of the tenant by Recharge within the filter's
// range. The filter must already be resolved to concrete dates. search is a
// case-insensitive substring of the agent name; it narrows the rows but not
// the ranking, so Rank and Highlight refer to the full leaderboard.
func Progress(entries []models.Entry, agents []models.Agent, f ProgressFilter, search string) *ProgressReport {
	inRange := Where(entries, func(e models.Entry) bool { return InDateRange(e.Date, f.StartDate, f.EndDate) })

	byAgent := make(map[string][]models.Entry)
	for _, e := range inRange {
		byAgent[e.AgentName] = append(byAgent[e.AgentName], e)
	}

	ranked := make([]AgentStats, len(agents))
	for i, a := range agents {
		ranked[i] = agentStats(a, byAgent[a.AgentName])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalRecharge.GreaterThan(ranked[j].TotalRecharge)
	})
	for i := range ranked {
		ranked[i].Rank = i
		if i < 3 && ranked[i].TotalRecharge.IsPositive() {
			ranked[i].Highlight = i + 1
		}
	}

	r := &ProgressReport{
		Filter:       f,
		Search:       search,
		EntryCount:   len(inRange),
		Agents:       filterAgents(ranked, search),
		PaymentShare: paymentShare(inRange),
	}
	if len(ranked) > 0 && ranked[0].TotalRecharge.IsPositive() {
		top := ranked[0]
		r.TopPerformer = &top
	}
	return r
}

func agentStats(a models.Agent, entries []models.Entry) AgentStats {
	recharges := Where(entries, IsCategory(models.CategoryRecharge))
	freeplays := Where(entries, IsCategory(models.CategoryFreeplay))
	totals := SumByCategory(entries)

	return AgentStats{
		AgentID:                 a.ID,
		AgentName:               a.AgentName,
		TotalRecharge:           totals.Recharge,
		FreeplayGiven:           totals.Freeplay,
		TopPlatform:             MostFrequent(Values(entries, ByPlatform)),
		RechargeCount:           len(recharges),
		FreeplayCount:           len(freeplays),
		PlayersServed:           DistinctCount(entries, func(e models.Entry) string { return e.Username }),
		TopReferralCode:         MostFrequent(Values(entries, ByReferralCode)),
		TopPageName:             MostFrequent(Values(entries, ByPageName)),
		PointsLoaded:            totals.Points,
		RechargeByPage:          GroupSum(recharges, ByPageName, 0),
		RechargeCountByPlatform: GroupCount(recharges, ByPlatform, 0),
		ReferralBreakdown:       referralBreakdown(recharges),
	}
}

func referralBreakdown(recharges []models.Entry) []ReferralBreakdown {
	byCode := make(map[string][]models.Entry)
	for _, e := range recharges {
		byCode[e.ReferralCode] = append(byCode[e.ReferralCode], e)
	}
	out := make([]ReferralBreakdown, 0, len(byCode))
	for code, es := range byCode {
		out = append(out, ReferralBreakdown{
			ReferralCode:  code,
			PlayerCount:   DistinctCount(es, func(e models.Entry) string { return e.Username }),
			TotalRecharge: SumByCategory(es).Recharge,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalRecharge.Cmp(out[j].TotalRecharge); c != 0 {
			return c > 0
		}
		return out[i].ReferralCode < out[j].ReferralCode
	})
	return out
}

func filterAgents(ranked []AgentStats, search string) []AgentStats {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return ranked
	}
	out := make([]AgentStats, 0, len(ranked))
	for _, a := range ranked {
		if strings.Contains(strings.ToLower(a.AgentName), q) {
			out = append(out, a)
		}
	}
	return out
}

func paymentShare(entries []models.Entry) []PaymentShare {
	recharges := Where(entries, IsCategory(models.CategoryRecharge))
	total := decimal.NewFromInt(int64(len(recharges)))
	buckets := GroupCount(recharges, ByPaymentMethod, 0)
	out := make([]PaymentShare, len(buckets))
	for i, b := range buckets {
		out[i] = PaymentShare{
			Method:  b.Key,
			Count:   b.Count,
			Percent: Percent(decimal.NewFromInt(int64(b.Count)), total),
		}
	}
	return out
}
