package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"branhox/internal/auth"
	"branhox/internal/handlers"
	"branhox/internal/logger"
	"branhox/internal/middleware"
	"branhox/internal/services"
	"branhox/internal/testutil"
	"branhox/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(testutil.AllModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
// AI summaries are disabled.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	store := services.NewEntityStore(db)
	auditService := services.NewAuditService(db)
	insightService := services.NewInsightService(nil)
	agentService := services.NewAgentService(db)
	businessService := services.NewBusinessService(db, auth.NewLocalProvider(db), agentService)
	entryService := services.NewEntryService(db, store, insightService.Invalidate)
	settingsService := services.NewSettingsService(db, store)
	reportService := services.NewReportService(db, store)

	businessService.OnAuthStateChange(services.AuthAuditListener(auditService))

	// Handlers
	authHandler := handlers.NewAuthHandler(businessService)
	businessHandler := handlers.NewBusinessHandler(businessService, auditService)
	entryHandler := handlers.NewEntryHandler(entryService, store, auditService)
	agentHandler := handlers.NewAgentHandler(agentService, auditService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, insightService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	admin := middleware.RequireRole(middleware.RoleAdmin)
	agent := middleware.RequireRole(middleware.RoleAgent)

	protected.POST("/auth/logout", admin, authHandler.Logout)
	protected.POST("/session/agent", admin, authHandler.StartAgentSession)
	protected.GET("/business", businessHandler.GetBusiness)
	protected.PUT("/business", admin, businessHandler.UpdateBusiness)

	entries := protected.Group("/entries")
	entries.POST("", entryHandler.SubmitEntry)
	entries.GET("/recent", agent, entryHandler.RecentSubmissions)
	entries.GET("/next-id", entryHandler.NextEntryID)
	entries.POST("/import", admin, entryHandler.ImportEntries)
	entries.DELETE("/month/:month", admin, entryHandler.DeleteMonth)
	entries.PUT("/:id", admin, entryHandler.EditEntry)
	entries.DELETE("/:id", admin, entryHandler.DeleteEntry)

	agents := protected.Group("/agents", admin)
	agents.GET("", agentHandler.ListAgents)
	agents.POST("", agentHandler.RegisterAgent)
	agents.PUT("/:id", agentHandler.UpdateAgent)
	agents.DELETE("/:id", agentHandler.DeleteAgent)
	agents.PUT("/:id/status", agentHandler.SetAgentStatus)
	agents.PUT("/:id/password", agentHandler.ResetAgentPassword)

	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.POST("/:key", admin, settingsHandler.AddSettingValue)
	settings.PUT("/:key/:index", admin, settingsHandler.EditSettingValue)
	settings.DELETE("/:key/:index", admin, settingsHandler.DeleteSettingValue)

	reportRoutes := protected.Group("/reports", admin)
	reportRoutes.GET("/daily", reportHandler.Daily)
	reportRoutes.GET("/monthly", reportHandler.Monthly)
	reportRoutes.GET("/monthly/pdf", reportHandler.MonthlyPDF)
	reportRoutes.GET("/referral", reportHandler.Referral)
	reportRoutes.GET("/progress", reportHandler.Progress)
	reportRoutes.GET("/:report/export", reportHandler.Export)
	reportRoutes.POST("/:report/insight", reportHandler.Insight)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerBusiness registers a business and returns the admin token and business id.
func (app *testApp) registerBusiness(t *testing.T, email, name string) (token, businessID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","business_name":%q,"owner_name":"Owner"}`, email, name)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	business := result["business"].(map[string]interface{})
	return result["token"].(string), business["id"].(string)
}

// createAgent registers an agent under the admin token and returns its id.
func (app *testApp) createAgent(t *testing.T, adminToken, name, username string) string {
	t.Helper()
	body := fmt.Sprintf(`{"agent_name":%q,"username":%q,"password":"agentpass"}`, name, username)
	rec := app.request("POST", "/api/v1/agents", body, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create agent failed: %d %s", rec.Code, rec.Body.String())
	}
	agent := parseJSON(t, rec)["agent"].(map[string]interface{})
	return agent["id"].(string)
}

// agentSession starts an agent session and returns the agent token.
func (app *testApp) agentSession(t *testing.T, adminToken, agentID string) string {
	t.Helper()
	body := fmt.Sprintf(`{"agent_id":%q,"password":"agentpass"}`, agentID)
	rec := app.request("POST", "/api/v1/session/agent", body, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("agent session failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// submitEntry records an entry and returns its id.
func (app *testApp) submitEntry(t *testing.T, token, body string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/entries", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit entry failed: %d %s", rec.Code, rec.Body.String())
	}
	entry := parseJSON(t, rec)["entry"].(map[string]interface{})
	return entry["id"].(float64)
}

// rechargeBody builds a Recharge entry request body. Agent sessions ignore agent.
func rechargeBody(agent, date, username, amount, code string) string {
	return fmt.Sprintf(`{"agent_name":%q,"date":%q,"category":"Recharge","username":%q,"amount":%q,"referral_code":%q,"redeem_type":"New Paid","page_name":"Gaming Slots","platform":"Juwa","payment_method":"CashApp","player_history":"New Paid"}`,
		agent, date, username, amount, code)
}

func formatID(id float64) string {
	return strconv.FormatInt(int64(id), 10)
}
