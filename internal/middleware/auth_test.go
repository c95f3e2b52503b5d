package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	if len(roles) > 0 {
		r.Use(RequireRole(roles...))
	}
	r.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"business_id": c.GetString(BusinessIDKey),
			"agent_name":  c.GetString(AgentNameKey),
		})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func mustToken(t *testing.T, claims JWTClaims) string {
	t.Helper()
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	admin := mustToken(t, JWTClaims{BusinessID: "biz-1", Email: "owner@test.com", Role: RoleAdmin})
	agent := mustToken(t, JWTClaims{BusinessID: "biz-1", Role: RoleAgent, AgentID: "agent-1", AgentName: "Alice"})
	noTenant := mustToken(t, JWTClaims{Role: RoleAdmin})
	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{BusinessID: "biz-1", Role: RoleAdmin}).
		SignedString([]byte("some-other-secret"))

	tests := []struct {
		name          string
		roles         []string
		header        string
		wantStatus    int
		wantErrorCode string
		wantAgent     string
	}{
		{name: "valid_admin", header: "Bearer " + admin, wantStatus: http.StatusOK},
		{name: "valid_agent", header: "Bearer " + agent, wantStatus: http.StatusOK, wantAgent: "Alice"},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "wrong_scheme", header: "Token " + admin, wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "garbage_token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "foreign_signature", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "token_without_tenant", header: "Bearer " + noTenant, wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "admin_only_allows_admin", roles: []string{RoleAdmin}, header: "Bearer " + admin, wantStatus: http.StatusOK},
		{name: "admin_only_rejects_agent", roles: []string{RoleAdmin}, header: "Bearer " + agent, wantStatus: http.StatusForbidden, wantErrorCode: "FORBIDDEN"},
		{name: "either_role", roles: []string{RoleAdmin, RoleAgent}, header: "Bearer " + agent, wantStatus: http.StatusOK, wantAgent: "Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(tt.roles...)
			rec := doRequest(router, tt.header)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			body := parseBody(t, rec)
			if tt.wantErrorCode != "" {
				errObj, ok := body["error"].(map[string]interface{})
				if !ok {
					t.Fatal("expected error object in response")
				}
				if code, _ := errObj["code"].(string); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
				return
			}

			if id, _ := body["business_id"].(string); id != "biz-1" {
				t.Errorf("business_id = %q, want biz-1", id)
			}
			if name, _ := body["agent_name"].(string); name != tt.wantAgent {
				t.Errorf("agent_name = %q, want %q", name, tt.wantAgent)
			}
		})
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	token := mustToken(t, JWTClaims{BusinessID: "biz-9", Email: "a@b.c", Role: RoleAdmin, ProviderToken: "cognito-access"})

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.ProviderToken != "cognito-access" {
		t.Errorf("provider token = %q", claims.ProviderToken)
	}
	if claims.Subject != "biz-9" {
		t.Errorf("subject = %q, want biz-9", claims.Subject)
	}
}
