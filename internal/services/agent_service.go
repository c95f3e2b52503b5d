package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"branhox/internal/auth"
	apperrors "branhox/internal/errors"
	"branhox/internal/models"
	"branhox/internal/tenant"
	"branhox/internal/uuid"
)

// AgentDraft is the input for registering an agent.
type AgentDraft struct {
	AgentName string           `json:"agent_name" binding:"required"`
	Username  string           `json:"username" binding:"required"`
	Password  string           `json:"password" binding:"required"`
	Role      models.AgentRole `json:"role" binding:"omitempty,agent_role"`
}

// agentService handles agent-related business logic.
type agentService struct {
	db *gorm.DB
}

// NewAgentService creates a new AgentServicer.
func NewAgentService(db *gorm.DB) AgentServicer {
	return &agentService{db: db}
}

// usernameTaken reports whether another agent of the tenant already uses
// username, compared case-insensitively. exceptID skips the agent being edited.
func (s *agentService) usernameTaken(scope tenant.Scope, username, exceptID string) (bool, error) {
	q := s.db.Model(&models.Agent{}).
		Where("business_id = ? AND LOWER(username) = ?", scope.BusinessID(), strings.ToLower(username))
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// RegisterAgent creates an active agent with a hashed password.
func (s *agentService) RegisterAgent(scope tenant.Scope, draft AgentDraft) (*models.Agent, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	name := strings.TrimSpace(draft.AgentName)
	username := strings.TrimSpace(draft.Username)
	if name == "" || username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "agent name and username are required")
	}
	if err := auth.ValidatePassword(draft.Password); err != nil {
		return nil, err
	}
	role := draft.Role
	if role == "" {
		role = models.AgentRoleViewer
	}

	taken, err := s.usernameTaken(scope, username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(draft.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	agent := &models.Agent{
		BusinessID:   scope.BusinessID(),
		AgentName:    name,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       models.AgentStatusActive,
	}
	if err := s.db.Create(agent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return agent, nil
}

// ListAgents returns the tenant's agents in creation order.
func (s *agentService) ListAgents(scope tenant.Scope) ([]models.Agent, error) {
	return NewEntityStore(s.db).AgentsForTenant(scope)
}

// GetAgent retrieves an agent by id within the tenant. Malformed ids are
// reported as not found.
func (s *agentService) GetAgent(scope tenant.Scope, id string) (*models.Agent, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	id, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrAgentNotFound
	}
	var agent models.Agent
	if err := s.db.Where("id = ? AND business_id = ?", id, scope.BusinessID()).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAgentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &agent, nil
}

// UpdateAgent changes an agent's name, username and role.
func (s *agentService) UpdateAgent(scope tenant.Scope, id, agentName, username string, role models.AgentRole) (*models.Agent, error) {
	agent, err := s.GetAgent(scope, id)
	if err != nil {
		return nil, err
	}
	agentName = strings.TrimSpace(agentName)
	username = strings.TrimSpace(username)
	if agentName == "" || username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "agent name and username are required")
	}

	taken, err := s.usernameTaken(scope, username, agent.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateUsername
	}

	agent.AgentName = agentName
	agent.Username = username
	if role != "" {
		agent.Role = role
	}
	if err := s.db.Save(agent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return agent, nil
}

// SetAgentStatus activates or deactivates an agent.
func (s *agentService) SetAgentStatus(scope tenant.Scope, id string, active bool) (*models.Agent, error) {
	agent, err := s.GetAgent(scope, id)
	if err != nil {
		return nil, err
	}
	agent.Status = models.AgentStatusInactive
	if active {
		agent.Status = models.AgentStatusActive
	}
	if err := s.db.Model(agent).Update("status", agent.Status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return agent, nil
}

// ResetAgentPassword replaces an agent's password hash.
func (s *agentService) ResetAgentPassword(scope tenant.Scope, id, password string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}
	agent, err := s.GetAgent(scope, id)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(agent).Update("password_hash", hash).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteAgent removes an agent. Entries recorded under the agent's name stay.
func (s *agentService) DeleteAgent(scope tenant.Scope, id string) error {
	if !scope.Valid() {
		return apperrors.ErrUnauthorized
	}
	if !uuid.IsValid(id) {
		return apperrors.ErrAgentNotFound
	}
	result := s.db.Where("id = ? AND business_id = ?", id, scope.BusinessID()).Delete(&models.Agent{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAgentNotFound
	}
	return nil
}

// AuthenticateAgent checks an agent's password. Inactive agents are refused
// before the password is looked at.
func (s *agentService) AuthenticateAgent(scope tenant.Scope, id, password string) (*models.Agent, error) {
	agent, err := s.GetAgent(scope, id)
	if err != nil {
		return nil, err
	}
	if !agent.IsActive() {
		return nil, apperrors.ErrAgentInactive
	}
	if !auth.CheckPassword(agent.PasswordHash, password) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidCredentials, "Invalid password")
	}
	return agent, nil
}
