package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"branhox/internal/auth"
	"branhox/internal/middleware"
	"branhox/internal/models"
	"branhox/internal/reports"
	"branhox/internal/services"
	"branhox/internal/tenant"
	"branhox/internal/validator"
)

const testBusinessID = "biz-1"

// --- mock services ---

type mockBusinessService struct {
	registerFn          func(input services.RegisterInput) (*models.Business, error)
	loginFn             func(email, password string) (*models.Business, *auth.Session, error)
	logoutFn            func(scope tenant.Scope, providerToken string) error
	startAgentSessionFn func(scope tenant.Scope, agentID, password string) (*models.Agent, error)
	getBusinessFn       func(scope tenant.Scope) (*models.Business, error)
	updateBusinessFn    func(scope tenant.Scope, input services.ProfileUpdate) (*models.Business, error)
}

var _ services.BusinessServicer = (*mockBusinessService)(nil)

func (m *mockBusinessService) Register(_ context.Context, input services.RegisterInput) (*models.Business, error) {
	if m.registerFn != nil {
		return m.registerFn(input)
	}
	return &models.Business{}, nil
}

func (m *mockBusinessService) Login(_ context.Context, email, password string) (*models.Business, *auth.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(email, password)
	}
	return &models.Business{}, &auth.Session{}, nil
}

func (m *mockBusinessService) Logout(_ context.Context, scope tenant.Scope, providerToken string) error {
	if m.logoutFn != nil {
		return m.logoutFn(scope, providerToken)
	}
	return nil
}

func (m *mockBusinessService) StartAgentSession(scope tenant.Scope, agentID, password string) (*models.Agent, error) {
	if m.startAgentSessionFn != nil {
		return m.startAgentSessionFn(scope, agentID, password)
	}
	return &models.Agent{}, nil
}

func (m *mockBusinessService) FindBusinessByEmail(_ string) (*models.Business, error) {
	return &models.Business{}, nil
}

func (m *mockBusinessService) GetBusiness(scope tenant.Scope) (*models.Business, error) {
	if m.getBusinessFn != nil {
		return m.getBusinessFn(scope)
	}
	return &models.Business{}, nil
}

func (m *mockBusinessService) UpdateBusiness(scope tenant.Scope, input services.ProfileUpdate) (*models.Business, error) {
	if m.updateBusinessFn != nil {
		return m.updateBusinessFn(scope, input)
	}
	return &models.Business{}, nil
}

func (m *mockBusinessService) OnAuthStateChange(_ services.AuthListener) func() {
	return func() {}
}

type mockEntryService struct {
	submitEntryFn   func(scope tenant.Scope, agentName string, draft services.EntryDraft) (*models.Entry, error)
	editEntryFn     func(scope tenant.Scope, id uint, draft services.EntryDraft) (*models.Entry, error)
	deleteEntryFn   func(scope tenant.Scope, id uint) error
	deleteMonthFn   func(scope tenant.Scope, month string) (int64, error)
	recentFn        func(scope tenant.Scope, agentName string, limit int) ([]models.Entry, error)
	importEntriesFn func(scope tenant.Scope, agentName string, r io.Reader) (int, error)
}

var _ services.EntryServicer = (*mockEntryService)(nil)

func (m *mockEntryService) SubmitEntry(scope tenant.Scope, agentName string, draft services.EntryDraft) (*models.Entry, error) {
	if m.submitEntryFn != nil {
		return m.submitEntryFn(scope, agentName, draft)
	}
	return &models.Entry{}, nil
}

func (m *mockEntryService) GetEntry(_ tenant.Scope, id uint) (*models.Entry, error) {
	return &models.Entry{ID: id}, nil
}

func (m *mockEntryService) EditEntry(scope tenant.Scope, id uint, draft services.EntryDraft) (*models.Entry, error) {
	if m.editEntryFn != nil {
		return m.editEntryFn(scope, id, draft)
	}
	return &models.Entry{ID: id}, nil
}

func (m *mockEntryService) DeleteEntry(scope tenant.Scope, id uint) error {
	if m.deleteEntryFn != nil {
		return m.deleteEntryFn(scope, id)
	}
	return nil
}

func (m *mockEntryService) DeleteEntriesForMonth(scope tenant.Scope, month string) (int64, error) {
	if m.deleteMonthFn != nil {
		return m.deleteMonthFn(scope, month)
	}
	return 0, nil
}

func (m *mockEntryService) RecentSubmissions(scope tenant.Scope, agentName string, limit int) ([]models.Entry, error) {
	if m.recentFn != nil {
		return m.recentFn(scope, agentName, limit)
	}
	return []models.Entry{}, nil
}

func (m *mockEntryService) ImportEntries(scope tenant.Scope, agentName string, r io.Reader) (int, error) {
	if m.importEntriesFn != nil {
		return m.importEntriesFn(scope, agentName, r)
	}
	return 0, nil
}

type mockStore struct {
	nextID uint
}

var _ services.EntityStorer = (*mockStore)(nil)

func (m *mockStore) EntriesForTenant(_ tenant.Scope) ([]models.Entry, error) { return nil, nil }
func (m *mockStore) AgentsForTenant(_ tenant.Scope) ([]models.Agent, error) { return nil, nil }
func (m *mockStore) SettingsForTenant(scope tenant.Scope) (*models.TenantSettings, error) {
	return models.DefaultSettings(scope.BusinessID()), nil
}
func (m *mockStore) NextEntryID() (uint, error) { return m.nextID, nil }

type mockAgentService struct {
	registerAgentFn func(scope tenant.Scope, draft services.AgentDraft) (*models.Agent, error)
	listAgentsFn    func(scope tenant.Scope) ([]models.Agent, error)
	updateAgentFn   func(scope tenant.Scope, id, agentName, username string, role models.AgentRole) (*models.Agent, error)
	setStatusFn     func(scope tenant.Scope, id string, active bool) (*models.Agent, error)
	resetPasswordFn func(scope tenant.Scope, id, password string) error
	deleteAgentFn   func(scope tenant.Scope, id string) error
}

var _ services.AgentServicer = (*mockAgentService)(nil)

func (m *mockAgentService) RegisterAgent(scope tenant.Scope, draft services.AgentDraft) (*models.Agent, error) {
	if m.registerAgentFn != nil {
		return m.registerAgentFn(scope, draft)
	}
	return &models.Agent{}, nil
}

func (m *mockAgentService) ListAgents(scope tenant.Scope) ([]models.Agent, error) {
	if m.listAgentsFn != nil {
		return m.listAgentsFn(scope)
	}
	return []models.Agent{}, nil
}

func (m *mockAgentService) GetAgent(_ tenant.Scope, id string) (*models.Agent, error) {
	return &models.Agent{Base: models.Base{ID: id}}, nil
}

func (m *mockAgentService) UpdateAgent(scope tenant.Scope, id, agentName, username string, role models.AgentRole) (*models.Agent, error) {
	if m.updateAgentFn != nil {
		return m.updateAgentFn(scope, id, agentName, username, role)
	}
	return &models.Agent{Base: models.Base{ID: id}}, nil
}

func (m *mockAgentService) SetAgentStatus(scope tenant.Scope, id string, active bool) (*models.Agent, error) {
	if m.setStatusFn != nil {
		return m.setStatusFn(scope, id, active)
	}
	return &models.Agent{Base: models.Base{ID: id}}, nil
}

func (m *mockAgentService) ResetAgentPassword(scope tenant.Scope, id, password string) error {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(scope, id, password)
	}
	return nil
}

func (m *mockAgentService) DeleteAgent(scope tenant.Scope, id string) error {
	if m.deleteAgentFn != nil {
		return m.deleteAgentFn(scope, id)
	}
	return nil
}

func (m *mockAgentService) AuthenticateAgent(_ tenant.Scope, id, _ string) (*models.Agent, error) {
	return &models.Agent{Base: models.Base{ID: id}}, nil
}

type mockSettingsService struct {
	addFn    func(scope tenant.Scope, key models.SettingKey, value string) (*models.TenantSettings, error)
	editFn   func(scope tenant.Scope, key models.SettingKey, index int, value string) (*models.TenantSettings, error)
	deleteFn func(scope tenant.Scope, key models.SettingKey, index int) (*models.TenantSettings, error)
}

var _ services.SettingsServicer = (*mockSettingsService)(nil)

func (m *mockSettingsService) GetSettings(scope tenant.Scope) (*models.TenantSettings, error) {
	return models.DefaultSettings(scope.BusinessID()), nil
}

func (m *mockSettingsService) AddSettingValue(scope tenant.Scope, key models.SettingKey, value string) (*models.TenantSettings, error) {
	if m.addFn != nil {
		return m.addFn(scope, key, value)
	}
	return models.DefaultSettings(scope.BusinessID()), nil
}

func (m *mockSettingsService) EditSettingValue(scope tenant.Scope, key models.SettingKey, index int, value string) (*models.TenantSettings, error) {
	if m.editFn != nil {
		return m.editFn(scope, key, index, value)
	}
	return models.DefaultSettings(scope.BusinessID()), nil
}

func (m *mockSettingsService) DeleteSettingValue(scope tenant.Scope, key models.SettingKey, index int) (*models.TenantSettings, error) {
	if m.deleteFn != nil {
		return m.deleteFn(scope, key, index)
	}
	return models.DefaultSettings(scope.BusinessID()), nil
}

type mockReportService struct {
	dailyFn      func(scope tenant.Scope, f reports.DailyFilter) (*reports.DailyReport, error)
	monthlyFn    func(scope tenant.Scope, f reports.MonthlyFilter) (*reports.MonthlyReport, error)
	referralFn   func(scope tenant.Scope, f reports.ReferralFilter) (*reports.ReferralReport, error)
	progressFn   func(scope tenant.Scope, f reports.ProgressFilter, search string) (*reports.ProgressReport, error)
	monthlyPDFFn func(scope tenant.Scope, f reports.MonthlyFilter) ([]byte, error)
}

var _ services.ReportServicer = (*mockReportService)(nil)

func (m *mockReportService) Daily(scope tenant.Scope, f reports.DailyFilter) (*reports.DailyReport, error) {
	if m.dailyFn != nil {
		return m.dailyFn(scope, f)
	}
	return &reports.DailyReport{Filter: f}, nil
}

func (m *mockReportService) Monthly(scope tenant.Scope, f reports.MonthlyFilter) (*reports.MonthlyReport, error) {
	if m.monthlyFn != nil {
		return m.monthlyFn(scope, f)
	}
	return &reports.MonthlyReport{Month: f.Month}, nil
}

func (m *mockReportService) Referral(scope tenant.Scope, f reports.ReferralFilter) (*reports.ReferralReport, error) {
	if m.referralFn != nil {
		return m.referralFn(scope, f)
	}
	return &reports.ReferralReport{Filter: f}, nil
}

func (m *mockReportService) Progress(scope tenant.Scope, f reports.ProgressFilter, search string) (*reports.ProgressReport, error) {
	if m.progressFn != nil {
		return m.progressFn(scope, f, search)
	}
	return &reports.ProgressReport{Filter: f, Search: search}, nil
}

func (m *mockReportService) MonthlyPDF(scope tenant.Scope, f reports.MonthlyFilter) ([]byte, error) {
	if m.monthlyPDFFn != nil {
		return m.monthlyPDFFn(scope, f)
	}
	return []byte("%PDF-1.3"), nil
}

type mockInsightService struct {
	summarizeFn func(scope tenant.Scope, report, params string, data any) (*services.Insight, error)
}

var _ services.InsightServicer = (*mockInsightService)(nil)

func (m *mockInsightService) Summarize(_ context.Context, scope tenant.Scope, report, params string, data any) (*services.Insight, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(scope, report, params, data)
	}
	return &services.Insight{Report: report, Available: false, Text: services.InsightUnavailableMessage}, nil
}

func (m *mockInsightService) Invalidate(_ tenant.Scope) {}
func (m *mockInsightService) Available() bool { return true }

type auditCall struct {
	businessID, actor, action, resourceType, resourceID string
}

type mockAuditService struct {
	calls []auditCall
}

var _ services.AuditServicer = (*mockAuditService)(nil)

func (m *mockAuditService) Log(businessID, actor, action, resourceType, resourceID, _ string, _ map[string]any) {
	m.calls = append(m.calls, auditCall{businessID, actor, action, resourceType, resourceID})
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// injectAdmin attaches an owner session for testBusinessID.
func injectAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.BusinessIDKey, testBusinessID)
		c.Set(middleware.EmailKey, "owner@test.com")
		c.Set(middleware.RoleKey, middleware.RoleAdmin)
		c.Next()
	}
}

// injectAgent attaches an agent session for testBusinessID.
func injectAgent(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.BusinessIDKey, testBusinessID)
		c.Set(middleware.EmailKey, "owner@test.com")
		c.Set(middleware.RoleKey, middleware.RoleAgent)
		c.Set(middleware.AgentIDKey, "agent-1")
		c.Set(middleware.AgentNameKey, name)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// doUpload posts a multipart form with one file field and optional text fields.
func doUpload(t *testing.T, r *gin.Engine, path, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
