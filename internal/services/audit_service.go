package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"branhox/internal/logger"
	"branhox/internal/models"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(businessID, actor, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.ForBusiness(businessID).Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		BusinessID:   businessID,
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.ForBusiness(businessID).Errorw("failed to create audit log entry",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// AuthAuditListener records session changes in the audit log.
func AuthAuditListener(audit AuditServicer) AuthListener {
	return func(change AuthChange) {
		actor := change.Email
		resourceType, resourceID := "business", change.BusinessID
		if change.AgentID != "" {
			actor = change.AgentName
			resourceType, resourceID = "agent", change.AgentID
		}
		audit.Log(change.BusinessID, actor, string(change.Event), resourceType, resourceID, "", nil)
	}
}
