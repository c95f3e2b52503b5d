package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"branhox/internal/models"
	"branhox/internal/tenant"
	"branhox/internal/testutil"
)

func amountPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func validDraft() EntryDraft {
	return EntryDraft{
		Date:          "2024-05-10",
		Category:      string(models.CategoryRecharge),
		PageName:      "Gaming Slots",
		Platform:      "Juwa",
		PaymentMethod: "CashApp",
		PlayerHistory: "New Paid",
		Username:      "player1",
		Amount:        amountPtr("20"),
		PointsLoad:    100,
		ReferralCode:  "FR2K",
		RedeemType:    string(models.RedeemNewPaid),
	}
}

func newEntryService(t *testing.T) (EntryServicer, tenant.Scope, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	business := testutil.CreateTestBusiness(t, db)
	svc := NewEntryService(db, NewEntityStore(db))
	return svc, testutil.ScopeOf(business), func() { testutil.TeardownTestDB(t, db) }
}

func TestSubmitEntry(t *testing.T) {
	t.Run("valid_recharge", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		entry, err := svc.SubmitEntry(scope, "Alice", validDraft())
		testutil.AssertNoError(t, err)

		if entry.ID == 0 {
			t.Fatal("expected database-assigned id")
		}
		if entry.BusinessID != scope.BusinessID() {
			t.Errorf("expected business %s, got %s", scope.BusinessID(), entry.BusinessID)
		}
		if entry.AgentName != "Alice" {
			t.Errorf("expected agent Alice, got %s", entry.AgentName)
		}
		testutil.AssertAmount(t, entry.Amount, "20")
		if entry.Source != models.SourceReferral {
			t.Errorf("expected source Referral, got %s", entry.Source)
		}
	})

	t.Run("freeplay_and_redeem_force_zero_amount", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		for _, category := range []models.EntryCategory{models.CategoryFreeplay, models.CategoryRedeem} {
			draft := validDraft()
			draft.Category = string(category)
			draft.Amount = amountPtr("500")

			entry, err := svc.SubmitEntry(scope, "Alice", draft)
			testutil.AssertNoError(t, err)
			if !entry.Amount.IsZero() {
				t.Errorf("%s: expected amount 0, got %s", category, entry.Amount)
			}
		}
	})

	t.Run("source_derived_from_code", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		cases := map[string]models.EntrySource{
			"ADS":    models.SourceAds,
			"Random": models.SourceRandom,
			"UM303":  models.SourceReferral,
		}
		for code, want := range cases {
			draft := validDraft()
			draft.ReferralCode = code
			draft.Source = string(models.SourceRandom)

			entry, err := svc.SubmitEntry(scope, "Alice", draft)
			testutil.AssertNoError(t, err)
			if entry.Source != want {
				t.Errorf("code %s: expected source %s, got %s", code, want, entry.Source)
			}
		}
	})

	t.Run("freeplay_defaults_payment_method", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		draft := validDraft()
		draft.Category = string(models.CategoryFreeplay)
		draft.PaymentMethod = ""

		entry, err := svc.SubmitEntry(scope, "Alice", draft)
		testutil.AssertNoError(t, err)
		if entry.PaymentMethod != "Chime" {
			t.Errorf("expected first configured payment method Chime, got %q", entry.PaymentMethod)
		}
	})

	t.Run("missing_username", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		draft := validDraft()
		draft.Username = "   "
		_, err := svc.SubmitEntry(scope, "Alice", draft)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("recharge_requires_amount", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		draft := validDraft()
		draft.Amount = nil
		_, err := svc.SubmitEntry(scope, "Alice", draft)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_amount", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		draft := validDraft()
		draft.Amount = amountPtr("-1")
		_, err := svc.SubmitEntry(scope, "Alice", draft)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_option_values", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		mutations := []func(d *EntryDraft){
			func(d *EntryDraft) { d.PageName = "Nope" },
			func(d *EntryDraft) { d.Platform = "Nope" },
			func(d *EntryDraft) { d.PaymentMethod = "Nope" },
			func(d *EntryDraft) { d.PlayerHistory = "Nope" },
			func(d *EntryDraft) { d.ReferralCode = "XYZ" },
			func(d *EntryDraft) { d.RedeemType = "Maybe" },
			func(d *EntryDraft) { d.Category = "Deposit" },
			func(d *EntryDraft) { d.Date = "10/05/2024" },
		}
		for i, mutate := range mutations {
			draft := validDraft()
			mutate(&draft)
			if _, err := svc.SubmitEntry(scope, "Alice", draft); err == nil {
				t.Errorf("mutation %d: expected error", i)
			} else {
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			}
		}
	})

	t.Run("invalid_scope", func(t *testing.T) {
		svc, _, done := newEntryService(t)
		defer done()

		_, err := svc.SubmitEntry(tenant.Scope{}, "Alice", validDraft())
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})

	t.Run("notifies_listeners", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		scope := testutil.ScopeOf(testutil.CreateTestBusiness(t, db))

		var notified []string
		svc := NewEntryService(db, NewEntityStore(db), func(s tenant.Scope) {
			notified = append(notified, s.BusinessID())
		})
		_, err := svc.SubmitEntry(scope, "Alice", validDraft())
		testutil.AssertNoError(t, err)

		if len(notified) != 1 || notified[0] != scope.BusinessID() {
			t.Errorf("expected one notification for %s, got %v", scope.BusinessID(), notified)
		}
	})
}

func TestEditEntry(t *testing.T) {
	t.Run("full_replace", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		entry, err := svc.SubmitEntry(scope, "Alice", validDraft())
		testutil.AssertNoError(t, err)

		draft := validDraft()
		draft.Date = "2024-05-11"
		draft.Username = "player2"
		draft.Amount = amountPtr("35.50")
		draft.ReferralCode = "ADS"
		draft.Source = "bogus"
		draft.AgentName = "Bob"

		updated, err := svc.EditEntry(scope, entry.ID, draft)
		testutil.AssertNoError(t, err)

		if updated.ID != entry.ID {
			t.Errorf("expected id %d to be kept, got %d", entry.ID, updated.ID)
		}
		if updated.Date != "2024-05-11" || updated.Username != "player2" || updated.AgentName != "Bob" {
			t.Errorf("fields not replaced: %+v", updated)
		}
		testutil.AssertAmount(t, updated.Amount, "35.5")
		if updated.Source != models.SourceAds {
			t.Errorf("expected invalid source to be derived as Ads, got %s", updated.Source)
		}

		reloaded, err := svc.GetEntry(scope, entry.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Username != "player2" {
			t.Errorf("expected persisted username player2, got %s", reloaded.Username)
		}
	})

	t.Run("keeps_valid_source", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		entry, err := svc.SubmitEntry(scope, "Alice", validDraft())
		testutil.AssertNoError(t, err)

		draft := validDraft()
		draft.Source = string(models.SourceRandom)
		updated, err := svc.EditEntry(scope, entry.ID, draft)
		testutil.AssertNoError(t, err)
		if updated.Source != models.SourceRandom {
			t.Errorf("expected source Random to be kept, got %s", updated.Source)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		_, err := svc.EditEntry(scope, 9999, validDraft())
		testutil.AssertAppError(t, err, "ENTRY_NOT_FOUND")
	})

	t.Run("other_tenant", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEntryService(db, NewEntityStore(db))
		owner := testutil.CreateTestBusiness(t, db)
		other := testutil.CreateTestBusiness(t, db)

		entry, err := svc.SubmitEntry(testutil.ScopeOf(owner), "Alice", validDraft())
		testutil.AssertNoError(t, err)

		_, err = svc.EditEntry(testutil.ScopeOf(other), entry.ID, validDraft())
		testutil.AssertAppError(t, err, "ENTRY_NOT_FOUND")
	})

	t.Run("negative_amount", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		entry, err := svc.SubmitEntry(scope, "Alice", validDraft())
		testutil.AssertNoError(t, err)

		draft := validDraft()
		draft.Amount = amountPtr("-5")
		_, err = svc.EditEntry(scope, entry.ID, draft)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteEntry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		entry, err := svc.SubmitEntry(scope, "Alice", validDraft())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteEntry(scope, entry.ID))
		_, err = svc.GetEntry(scope, entry.ID)
		testutil.AssertAppError(t, err, "ENTRY_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		testutil.AssertAppError(t, svc.DeleteEntry(scope, 12345), "ENTRY_NOT_FOUND")
	})
}

func TestDeleteEntriesForMonth(t *testing.T) {
	t.Run("tenant_isolation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEntryService(db, NewEntityStore(db))
		a := testutil.CreateTestBusiness(t, db)
		b := testutil.CreateTestBusiness(t, db)

		testutil.CreateTestEntry(t, db, a.ID, "2024-05-01", models.CategoryRecharge, 10)
		testutil.CreateTestEntry(t, db, a.ID, "2024-05-31", models.CategoryRecharge, 10)
		testutil.CreateTestEntry(t, db, a.ID, "2024-06-01", models.CategoryRecharge, 10)
		testutil.CreateTestEntry(t, db, b.ID, "2024-05-15", models.CategoryRecharge, 10)

		deleted, err := svc.DeleteEntriesForMonth(testutil.ScopeOf(a), "2024-05")
		testutil.AssertNoError(t, err)
		if deleted != 2 {
			t.Errorf("expected 2 deleted, got %d", deleted)
		}

		var remainingA, remainingB int64
		db.Model(&models.Entry{}).Where("business_id = ?", a.ID).Count(&remainingA)
		db.Model(&models.Entry{}).Where("business_id = ?", b.ID).Count(&remainingB)
		if remainingA != 1 {
			t.Errorf("expected 1 entry left for tenant A, got %d", remainingA)
		}
		if remainingB != 1 {
			t.Errorf("expected tenant B untouched, got %d entries", remainingB)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		_, err := svc.DeleteEntriesForMonth(scope, "2024-5")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestRecentSubmissions(t *testing.T) {
	svc, scope, done := newEntryService(t)
	defer done()

	for i := 0; i < 7; i++ {
		_, err := svc.SubmitEntry(scope, "Alice", validDraft())
		testutil.AssertNoError(t, err)
	}
	_, err := svc.SubmitEntry(scope, "Bob", validDraft())
	testutil.AssertNoError(t, err)

	recent, err := svc.RecentSubmissions(scope, "Alice", 0)
	testutil.AssertNoError(t, err)
	if len(recent) != DefaultRecentLimit {
		t.Fatalf("expected %d entries, got %d", DefaultRecentLimit, len(recent))
	}
	for i, e := range recent {
		if e.AgentName != "Alice" {
			t.Errorf("expected only Alice's entries, got %s", e.AgentName)
		}
		if i > 0 && e.ID > recent[i-1].ID {
			t.Errorf("expected newest first, got id %d after %d", e.ID, recent[i-1].ID)
		}
	}
}

func TestImportEntries(t *testing.T) {
	const header = "date,category,page_name,platform,payment_method,player_history,username,amount,points_load,referral_code,redeem_type\n"

	t.Run("valid", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		csv := header +
			"2024-05-01,Recharge,Gaming Slots,Juwa,CashApp,New Paid,p1,20,100,FR2K,New Paid\n" +
			"2024-05-02,Freeplay,BetHub,Yolo,,Null,p2,,50,ADS,Already Paid\n"

		n, err := svc.ImportEntries(scope, "Alice", strings.NewReader(csv))
		testutil.AssertNoError(t, err)
		if n != 2 {
			t.Fatalf("expected 2 imported, got %d", n)
		}

		recent, err := svc.RecentSubmissions(scope, "Alice", 10)
		testutil.AssertNoError(t, err)
		if len(recent) != 2 {
			t.Fatalf("expected 2 stored entries, got %d", len(recent))
		}
		freeplay := recent[0]
		if freeplay.PaymentMethod != "Chime" || freeplay.Source != models.SourceAds {
			t.Errorf("expected defaulted payment method and Ads source, got %+v", freeplay)
		}
	})

	t.Run("bad_row_rejects_file", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		csv := header +
			"2024-05-01,Recharge,Gaming Slots,Juwa,CashApp,New Paid,p1,20,100,FR2K,New Paid\n" +
			"2024-05-02,Recharge,Gaming Slots,Juwa,CashApp,New Paid,p2,20,100,NOPE,New Paid\n"

		_, err := svc.ImportEntries(scope, "Alice", strings.NewReader(csv))
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		recent, err := svc.RecentSubmissions(scope, "Alice", 10)
		testutil.AssertNoError(t, err)
		if len(recent) != 0 {
			t.Errorf("expected nothing imported, got %d entries", len(recent))
		}
	})

	t.Run("unknown_column", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		_, err := svc.ImportEntries(scope, "Alice", strings.NewReader("date,colour\n2024-05-01,red\n"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_file", func(t *testing.T) {
		svc, scope, done := newEntryService(t)
		defer done()

		_, err := svc.ImportEntries(scope, "Alice", strings.NewReader(""))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
