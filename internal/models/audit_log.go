package models

// AuditLog records sensitive tenant operations: agent management, bulk
// deletes, imports and sign-in events.
type AuditLog struct {
	Base
	BusinessID   string `gorm:"type:uuid;not null;index" json:"business_id"`
	Actor        string `gorm:"not null" json:"actor"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
