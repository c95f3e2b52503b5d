package services

import (
	"context"
	"io"

	"branhox/internal/auth"
	"branhox/internal/models"
	"branhox/internal/reports"
	"branhox/internal/tenant"
)

// EntityStorer defines the tenant-scoped read side shared by the report and mutation services.
type EntityStorer interface {
	EntriesForTenant(scope tenant.Scope) ([]models.Entry, error)
	AgentsForTenant(scope tenant.Scope) ([]models.Agent, error)
	SettingsForTenant(scope tenant.Scope) (*models.TenantSettings, error)
	NextEntryID() (uint, error)
}

// EntryServicer defines the contract for recording and correcting entries.
type EntryServicer interface {
	SubmitEntry(scope tenant.Scope, agentName string, draft EntryDraft) (*models.Entry, error)
	GetEntry(scope tenant.Scope, id uint) (*models.Entry, error)
	EditEntry(scope tenant.Scope, id uint, draft EntryDraft) (*models.Entry, error)
	DeleteEntry(scope tenant.Scope, id uint) error
	DeleteEntriesForMonth(scope tenant.Scope, month string) (int64, error)
	RecentSubmissions(scope tenant.Scope, agentName string, limit int) ([]models.Entry, error)
	ImportEntries(scope tenant.Scope, agentName string, r io.Reader) (int, error)
}

// AgentServicer defines the contract for managing a business's agents.
type AgentServicer interface {
	RegisterAgent(scope tenant.Scope, draft AgentDraft) (*models.Agent, error)
	ListAgents(scope tenant.Scope) ([]models.Agent, error)
	GetAgent(scope tenant.Scope, id string) (*models.Agent, error)
	UpdateAgent(scope tenant.Scope, id, agentName, username string, role models.AgentRole) (*models.Agent, error)
	SetAgentStatus(scope tenant.Scope, id string, active bool) (*models.Agent, error)
	ResetAgentPassword(scope tenant.Scope, id, password string) error
	DeleteAgent(scope tenant.Scope, id string) error
	AuthenticateAgent(scope tenant.Scope, id, password string) (*models.Agent, error)
}

// SettingsServicer defines the contract for a business's option lists.
type SettingsServicer interface {
	GetSettings(scope tenant.Scope) (*models.TenantSettings, error)
	AddSettingValue(scope tenant.Scope, key models.SettingKey, value string) (*models.TenantSettings, error)
	EditSettingValue(scope tenant.Scope, key models.SettingKey, index int, value string) (*models.TenantSettings, error)
	DeleteSettingValue(scope tenant.Scope, key models.SettingKey, index int) (*models.TenantSettings, error)
}

// BusinessServicer defines the contract for tenant registration, owner sessions and the business profile.
type BusinessServicer interface {
	Register(ctx context.Context, input RegisterInput) (*models.Business, error)
	Login(ctx context.Context, email, password string) (*models.Business, *auth.Session, error)
	Logout(ctx context.Context, scope tenant.Scope, providerToken string) error
	StartAgentSession(scope tenant.Scope, agentID, password string) (*models.Agent, error)
	FindBusinessByEmail(email string) (*models.Business, error)
	GetBusiness(scope tenant.Scope) (*models.Business, error)
	UpdateBusiness(scope tenant.Scope, input ProfileUpdate) (*models.Business, error)
	OnAuthStateChange(listener AuthListener) (unsubscribe func())
}

// ReportServicer defines the contract for the read-only reports.
type ReportServicer interface {
	Daily(scope tenant.Scope, f reports.DailyFilter) (*reports.DailyReport, error)
	Monthly(scope tenant.Scope, f reports.MonthlyFilter) (*reports.MonthlyReport, error)
	Referral(scope tenant.Scope, f reports.ReferralFilter) (*reports.ReferralReport, error)
	Progress(scope tenant.Scope, f reports.ProgressFilter, search string) (*reports.ProgressReport, error)
	MonthlyPDF(scope tenant.Scope, f reports.MonthlyFilter) ([]byte, error)
}

// InsightServicer defines the contract for AI summaries of report pages.
type InsightServicer interface {
	Summarize(ctx context.Context, scope tenant.Scope, report string, params string, reportData any) (*Insight, error)
	Invalidate(scope tenant.Scope)
	Available() bool
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(businessID, actor, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
