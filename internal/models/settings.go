package models

import (
	"time"

	"gorm.io/datatypes"
)

// SettingKey names one of the tenant's option lists.
type SettingKey string

const (
	SettingPageNames       SettingKey = "pageNames"
	SettingPlatforms       SettingKey = "platforms"
	SettingPaymentMethods  SettingKey = "paymentMethods"
	SettingPlayerHistories SettingKey = "playerHistories"
)

// Valid reports whether k names a known list.
func (k SettingKey) Valid() bool {
	switch k {
	case SettingPageNames, SettingPlatforms, SettingPaymentMethods, SettingPlayerHistories:
		return true
	}
	return false
}

// TenantSettings holds the selectable option lists of one business.
type TenantSettings struct {
	BusinessID      string                      `gorm:"type:uuid;primaryKey" json:"business_id"`
	PageNames       datatypes.JSONSlice[string] `gorm:"not null" json:"pageNames"`
	Platforms       datatypes.JSONSlice[string] `gorm:"not null" json:"platforms"`
	PaymentMethods  datatypes.JSONSlice[string] `gorm:"not null" json:"paymentMethods"`
	PlayerHistories datatypes.JSONSlice[string] `gorm:"not null" json:"playerHistories"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// List returns the list stored under key.
func (s *TenantSettings) List(key SettingKey) []string {
	switch key {
	case SettingPageNames:
		return s.PageNames
	case SettingPlatforms:
		return s.Platforms
	case SettingPaymentMethods:
		return s.PaymentMethods
	case SettingPlayerHistories:
		return s.PlayerHistories
	}
	return nil
}

// SetList replaces the list stored under key.
func (s *TenantSettings) SetList(key SettingKey, values []string) {
	switch key {
	case SettingPageNames:
		s.PageNames = values
	case SettingPlatforms:
		s.Platforms = values
	case SettingPaymentMethods:
		s.PaymentMethods = values
	case SettingPlayerHistories:
		s.PlayerHistories = values
	}
}

// Contains reports whether value is an exact member of the list under key.
func (s *TenantSettings) Contains(key SettingKey, value string) bool {
	for _, v := range s.List(key) {
		if v == value {
			return true
		}
	}
	return false
}

// DefaultSettings returns the option lists seeded for a new business.
func DefaultSettings(businessID string) *TenantSettings {
	return &TenantSettings{
		BusinessID: businessID,
		PageNames:  []string{"Gaming Slots", "Orion Era", "Jeetwin", "BetHub", "Nolimit Slots", "CashDock"},
		Platforms: []string{
			"Orion Star", "Juwa", "FireKirin", "Gamevault", "Ultra Panda", "Cash Machine",
			"Bigwinner", "Dragon Dynasty", "VB Link", "Game Room", "River Sweep", "Moolah",
			"Yolo", "Panda Master", "Mafia City", "Cameroom", "Milkyway", "Random",
		},
		PaymentMethods:  []string{"Chime", "CashApp", "Apple Pay", "PayPal"},
		PlayerHistories: []string{"Already Paid", "New Paid", "New Freeplay", "Null"},
	}
}
