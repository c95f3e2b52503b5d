package models

// AgentRole is informational only; it is shown to admins but not enforced.
type AgentRole string

const (
	AgentRoleViewer     AgentRole = "Viewer"
	AgentRoleEditor     AgentRole = "Editor"
	AgentRoleFullAccess AgentRole = "Full Access"
)

// AgentStatus controls whether an agent may open a session.
type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusInactive AgentStatus = "inactive"
)

// Agent is a tenant's staff member who submits entries.
type Agent struct {
	Base
	BusinessID   string      `gorm:"type:uuid;not null;index" json:"business_id"`
	AgentName    string      `gorm:"not null" json:"agent_name"`
	Username     string      `gorm:"not null" json:"username"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Role         AgentRole   `gorm:"type:varchar(20);not null;default:'Viewer'" json:"role"`
	Status       AgentStatus `gorm:"type:varchar(10);not null;default:'active'" json:"status"`
}

// IsActive reports whether the agent may authenticate.
func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}
