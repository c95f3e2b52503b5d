package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"branhox/internal/models"
	"branhox/internal/reports"
	"branhox/internal/testutil"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
}

func TestReportService(t *testing.T) {
	t.Run("monthly_defaults_to_current_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		business := testutil.CreateTestBusiness(t, db)
		svc := &reportService{db: db, store: NewEntityStore(db), now: fixedClock}

		testutil.CreateTestEntry(t, db, business.ID, "2024-05-01", models.CategoryRecharge, 20)
		testutil.CreateTestEntry(t, db, business.ID, "2024-05-02", models.CategoryRecharge, 30)
		testutil.CreateTestEntry(t, db, business.ID, "2024-04-30", models.CategoryRecharge, 99)

		report, err := svc.Monthly(testutil.ScopeOf(business), reports.MonthlyFilter{})
		testutil.AssertNoError(t, err)
		if report.Month != "2024-05" {
			t.Errorf("expected month 2024-05, got %s", report.Month)
		}
		testutil.AssertAmount(t, report.TotalRecharge, "50")
	})

	t.Run("daily_only_sees_own_tenant", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		a := testutil.CreateTestBusiness(t, db)
		b := testutil.CreateTestBusiness(t, db)
		svc := NewReportService(db, NewEntityStore(db))

		testutil.CreateTestEntry(t, db, a.ID, "2024-05-20", models.CategoryRecharge, 20)
		testutil.CreateTestEntry(t, db, b.ID, "2024-05-20", models.CategoryRecharge, 500)

		report, err := svc.Daily(testutil.ScopeOf(a), reports.DailyFilter{Date: "2024-05-20"})
		testutil.AssertNoError(t, err)
		if report.EntryCount != 1 || !report.Totals.Recharge.Equal(decimal.NewFromInt(20)) {
			t.Errorf("expected only tenant A's entry, got count %d total %s", report.EntryCount, report.Totals.Recharge)
		}
	})

	t.Run("referral_defaults_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		business := testutil.CreateTestBusiness(t, db)
		svc := NewReportService(db, NewEntityStore(db))

		testutil.CreateTestEntry(t, db, business.ID, "2024-05-20", models.CategoryRecharge, 20)

		report, err := svc.Referral(testutil.ScopeOf(business), reports.ReferralFilter{})
		testutil.AssertNoError(t, err)
		if report.Filter.Code != "FR2K" {
			t.Errorf("expected default code FR2K, got %s", report.Filter.Code)
		}
		if report.Primary.EntryCount != 1 {
			t.Errorf("expected 1 referral entry, got %d", report.Primary.EntryCount)
		}
	})

	t.Run("progress_lists_every_agent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		business := testutil.CreateTestBusiness(t, db)
		svc := &reportService{db: db, store: NewEntityStore(db), now: fixedClock}

		testutil.CreateTestAgent(t, db, business.ID, "Agent")
		testutil.CreateTestAgent(t, db, business.ID, "Idle")
		testutil.CreateTestEntry(t, db, business.ID, "2024-05-19", models.CategoryRecharge, 40)

		report, err := svc.Progress(testutil.ScopeOf(business), reports.ProgressFilter{Mode: reports.ModeLast7Days}, "")
		testutil.AssertNoError(t, err)
		if len(report.Agents) != 2 {
			t.Fatalf("expected 2 agents, got %d", len(report.Agents))
		}
		if report.TopPerformer == nil || report.TopPerformer.AgentName != "Agent" {
			t.Errorf("expected Agent as top performer, got %+v", report.TopPerformer)
		}
		if report.Filter.StartDate != "2024-05-14" || report.Filter.EndDate != "2024-05-20" {
			t.Errorf("unexpected resolved range %s..%s", report.Filter.StartDate, report.Filter.EndDate)
		}
	})

	t.Run("progress_rejects_inverted_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		business := testutil.CreateTestBusiness(t, db)
		svc := NewReportService(db, NewEntityStore(db))

		f := reports.ProgressFilter{Mode: reports.ModeCustom, StartDate: "2024-05-10", EndDate: "2024-05-01"}
		_, err := svc.Progress(testutil.ScopeOf(business), f, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("monthly_pdf", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		business := testutil.CreateTestBusiness(t, db)
		svc := &reportService{db: db, store: NewEntityStore(db), now: fixedClock}

		_, err := svc.MonthlyPDF(testutil.ScopeOf(business), reports.MonthlyFilter{})
		testutil.AssertAppError(t, err, "NO_DATA_TO_EXPORT")

		testutil.CreateTestEntry(t, db, business.ID, "2024-05-01", models.CategoryRecharge, 20)
		data, err := svc.MonthlyPDF(testutil.ScopeOf(business), reports.MonthlyFilter{})
		testutil.AssertNoError(t, err)
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Error("expected PDF output")
		}
	})
}
