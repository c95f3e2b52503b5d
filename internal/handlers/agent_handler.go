package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"branhox/internal/models"
	"branhox/internal/services"
)

// AgentHandler handles agent management.
type AgentHandler struct {
	agentService services.AgentServicer
	auditService services.AuditServicer
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(agentService services.AgentServicer, auditService services.AuditServicer) *AgentHandler {
	return &AgentHandler{agentService: agentService, auditService: auditService}
}

// UpdateAgentRequest represents the request payload for editing an agent.
type UpdateAgentRequest struct {
	AgentName string           `json:"agent_name" binding:"required"`
	Username  string           `json:"username" binding:"required"`
	Role      models.AgentRole `json:"role" binding:"omitempty,agent_role"`
}

// SetStatusRequest activates or deactivates an agent.
type SetStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ResetPasswordRequest carries an agent's new password.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ListAgents lists the business's agents.
// @Summary     List agents
// @Tags        agents
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Agent "Agents in creation order"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /agents [get]
func (h *AgentHandler) ListAgents(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	agents, err := h.agentService.ListAgents(scope)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

// RegisterAgent creates an agent.
// @Summary     Register an agent
// @Description Create an agent login; usernames are unique per business, ignoring case
// @Tags        agents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.AgentDraft true "Agent details"
// @Success     201 {object} models.Agent "Agent created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Router      /agents [post]
func (h *AgentHandler) RegisterAgent(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.AgentDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	agent, err := h.agentService.RegisterAgent(scope, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "CREATE_AGENT", "agent", agent.ID, c.ClientIP(),
		map[string]interface{}{"agent_name": agent.AgentName, "username": agent.Username, "role": agent.Role})

	c.JSON(http.StatusCreated, gin.H{"agent": agent})
}

// UpdateAgent edits an agent.
// @Summary     Update an agent
// @Tags        agents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Agent ID"
// @Param       request body UpdateAgentRequest true "Agent details"
// @Success     200 {object} models.Agent "Updated agent"
// @Failure     404 {object} ErrorResponse "Agent not found"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Router      /agents/{id} [put]
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	agent, err := h.agentService.UpdateAgent(scope, c.Param("id"), req.AgentName, req.Username, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "UPDATE_AGENT", "agent", agent.ID, c.ClientIP(),
		map[string]interface{}{"agent_name": agent.AgentName, "username": agent.Username, "role": agent.Role})

	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

// SetAgentStatus activates or deactivates an agent.
// @Summary     Set agent status
// @Tags        agents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Agent ID"
// @Param       request body SetStatusRequest true "New status"
// @Success     200 {object} models.Agent "Updated agent"
// @Failure     404 {object} ErrorResponse "Agent not found"
// @Router      /agents/{id}/status [put]
func (h *AgentHandler) SetAgentStatus(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	agent, err := h.agentService.SetAgentStatus(scope, c.Param("id"), *req.Active)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "SET_AGENT_STATUS", "agent", agent.ID, c.ClientIP(),
		map[string]interface{}{"status": agent.Status})

	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

// ResetAgentPassword sets a new password for an agent.
// @Summary     Reset agent password
// @Tags        agents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Agent ID"
// @Param       request body ResetPasswordRequest true "New password"
// @Success     200 {object} map[string]string "Password reset"
// @Failure     400 {object} ErrorResponse "Password too short"
// @Failure     404 {object} ErrorResponse "Agent not found"
// @Router      /agents/{id}/password [put]
func (h *AgentHandler) ResetAgentPassword(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	id := c.Param("id")
	if err := h.agentService.ResetAgentPassword(scope, id, req.Password); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "RESET_AGENT_PASSWORD", "agent", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
}

// DeleteAgent removes an agent. Their entries are kept.
// @Summary     Delete an agent
// @Tags        agents
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Agent ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Agent not found"
// @Router      /agents/{id} [delete]
func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.agentService.DeleteAgent(scope, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "DELETE_AGENT", "agent", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Agent deleted"})
}
