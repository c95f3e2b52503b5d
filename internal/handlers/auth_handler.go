package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "branhox/internal/errors"
	"branhox/internal/middleware"
	"branhox/internal/models"
	"branhox/internal/services"
)

// AuthHandler handles owner sign-up, sign-in and agent sessions.
type AuthHandler struct {
	businessService services.BusinessServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(businessService services.BusinessServicer) *AuthHandler {
	return &AuthHandler{businessService: businessService}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AgentSessionRequest selects the agent to act as and proves their password.
type AgentSessionRequest struct {
	AgentID  string `json:"agent_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token    string          `json:"token"`
	Business models.Business `json:"business"`
}

// AgentSessionResponse is returned when an agent session starts.
type AgentSessionResponse struct {
	Token string       `json:"token"`
	Agent models.Agent `json:"agent"`
}

// Register handles business registration
// @Summary     Register a business
// @Description Sign the owner up and create the business with default settings
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body services.RegisterInput true "Business registration data"
// @Success     201 {object} AuthResponse "Business registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     502 {object} ErrorResponse "Auth provider error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	business, err := h.businessService.Register(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(middleware.JWTClaims{
		BusinessID: business.ID,
		Email:      business.Email,
		Role:       middleware.RoleAdmin,
	})
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, Business: *business})
}

// Login handles owner login
// @Summary     Login
// @Description Authenticate a business owner and get an admin token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Owner credentials"
// @Success     200 {object} AuthResponse "Owner authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     502 {object} ErrorResponse "Auth provider error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	business, session, err := h.businessService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(middleware.JWTClaims{
		BusinessID:    business.ID,
		Email:         business.Email,
		Role:          middleware.RoleAdmin,
		ProviderToken: session.ProviderToken,
	})
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, Business: *business})
}

// Logout ends the owner's provider session.
// @Summary     Logout
// @Description End the provider session behind the current token
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Logged out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Auth provider error"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.businessService.Logout(c.Request.Context(), scope, c.GetString(middleware.ProviderTokenKey)); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// StartAgentSession exchanges an admin token and an agent's password for an agent token.
// @Summary     Start agent session
// @Description Authenticate one of the business's agents from the admin session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AgentSessionRequest true "Agent credentials"
// @Success     200 {object} AgentSessionResponse "Agent authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid password"
// @Failure     403 {object} ErrorResponse "Agent inactive"
// @Failure     404 {object} ErrorResponse "Agent not found"
// @Router      /session/agent [post]
func (h *AuthHandler) StartAgentSession(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AgentSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	agent, err := h.businessService.StartAgentSession(scope, req.AgentID, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(middleware.JWTClaims{
		BusinessID: scope.BusinessID(),
		Email:      c.GetString(middleware.EmailKey),
		Role:       middleware.RoleAgent,
		AgentID:    agent.ID,
		AgentName:  agent.AgentName,
	})
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, AgentSessionResponse{Token: token, Agent: *agent})
}
