package models

// Business is a tenant: one customer account owning its agents, entries and settings.
type Business struct {
	Base
	BusinessName string `gorm:"not null" json:"business_name"`
	OwnerName    string `json:"owner_name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string `json:"phone"`
	LogoURL      string `json:"logo_url"`
	AuthUserID   string `gorm:"index" json:"-"`
}

// Credential is the password record kept by the local auth provider.
type Credential struct {
	Base
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}
