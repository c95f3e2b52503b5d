package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"branhox/internal/models"
	"branhox/internal/tenant"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext behind every fixture password hash.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

func hash(t *testing.T) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(h)
}

// CreateTestBusiness creates a business with a unique email and the default option lists.
func CreateTestBusiness(t *testing.T, db *gorm.DB) *models.Business {
	t.Helper()

	n := nextID()
	business := &models.Business{
		BusinessName: fmt.Sprintf("Test Business %d", n),
		OwnerName:    "Owner",
		Email:        fmt.Sprintf("owner%d@test.com", n),
	}
	if err := db.Create(business).Error; err != nil {
		t.Fatalf("failed to create test business: %v", err)
	}
	if err := db.Create(models.DefaultSettings(business.ID)).Error; err != nil {
		t.Fatalf("failed to create test settings: %v", err)
	}
	return business
}

// ScopeOf returns the tenant scope of a fixture business.
func ScopeOf(b *models.Business) tenant.Scope {
	return tenant.MustNew(b.ID)
}

// CreateTestAgent creates an active agent whose password is TestPassword.
func CreateTestAgent(t *testing.T, db *gorm.DB, businessID, agentName string) *models.Agent {
	t.Helper()

	agent := &models.Agent{
		BusinessID:   businessID,
		AgentName:    agentName,
		Username:     fmt.Sprintf("agent%d", nextID()),
		PasswordHash: hash(t),
		Role:         models.AgentRoleEditor,
		Status:       models.AgentStatusActive,
	}
	if err := db.Create(agent).Error; err != nil {
		t.Fatalf("failed to create test agent: %v", err)
	}
	return agent
}

// CreateTestEntry creates an entry with default option values and the given date, category and amount.
func CreateTestEntry(t *testing.T, db *gorm.DB, businessID, date string, category models.EntryCategory, amount int64) *models.Entry {
	t.Helper()

	entry := &models.Entry{
		BusinessID:    businessID,
		Date:          date,
		AgentName:     "Agent",
		Category:      category,
		PageName:      "Gaming Slots",
		Platform:      "Juwa",
		PaymentMethod: "CashApp",
		PlayerHistory: "New Paid",
		Username:      fmt.Sprintf("player%d", nextID()),
		Amount:        decimal.NewFromInt(amount),
		Source:        models.SourceReferral,
		ReferralCode:  "FR2K",
		RedeemType:    models.RedeemNewPaid,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}
