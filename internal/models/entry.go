package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryCategory is the kind of player transaction an entry records.
type EntryCategory string

const (
	CategoryRecharge EntryCategory = "Recharge"
	CategoryFreeplay EntryCategory = "Freeplay"
	CategoryRedeem   EntryCategory = "Redeem"
)

// Valid reports whether c is a known category.
func (c EntryCategory) Valid() bool {
	switch c {
	case CategoryRecharge, CategoryFreeplay, CategoryRedeem:
		return true
	}
	return false
}

// EntrySource is the traffic source derived from an entry's referral code.
type EntrySource string

const (
	SourceReferral EntrySource = "Referral"
	SourceAds      EntrySource = "Ads"
	SourceRandom   EntrySource = "Random"
)

// Valid reports whether s is a known source.
func (s EntrySource) Valid() bool {
	switch s {
	case SourceReferral, SourceAds, SourceRandom:
		return true
	}
	return false
}

// RedeemType marks whether the player had already paid before.
type RedeemType string

const (
	RedeemAlreadyPaid RedeemType = "Already Paid"
	RedeemNewPaid     RedeemType = "New Paid"
)

// Valid reports whether r is a known redeem type.
func (r RedeemType) Valid() bool {
	return r == RedeemAlreadyPaid || r == RedeemNewPaid
}

// Entry is one recorded transaction. The ID comes from the database sequence
// and is unique across all tenants.
type Entry struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id" csv:"ID"`
	BusinessID    string          `gorm:"type:uuid;not null;index:idx_entries_business_date" json:"business_id" csv:"-"`
	Date          string          `gorm:"type:varchar(10);not null;index:idx_entries_business_date" json:"date" csv:"Date"`
	AgentName     string          `gorm:"not null" json:"agent_name" csv:"Agent"`
	Category      EntryCategory   `gorm:"type:varchar(10);not null" json:"category" csv:"Category"`
	PageName      string          `json:"page_name" csv:"Page Name"`
	Platform      string          `json:"platform" csv:"Platform"`
	PaymentMethod string          `json:"payment_method" csv:"Payment Method"`
	PlayerHistory string          `json:"player_history" csv:"Player History"`
	Username      string          `gorm:"not null" json:"username" csv:"Username"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount" csv:"Amount"`
	PointsLoad    int64           `gorm:"not null;default:0" json:"points_load" csv:"Points Load"`
	Source        EntrySource     `gorm:"type:varchar(10);not null" json:"source" csv:"Source"`
	ReferralCode  string          `gorm:"type:varchar(10);not null" json:"referral_code" csv:"Referral Code"`
	RedeemType    RedeemType      `gorm:"type:varchar(15);not null" json:"redeem_type" csv:"Redeem Type"`
	CreatedAt     time.Time       `json:"created_at" csv:"-"`
	UpdatedAt     time.Time       `json:"updated_at" csv:"-"`
}

// ReferralCodes is the fixed set of attribution codes an entry may carry.
var ReferralCodes = []string{
	"FR2K", "FR3L", "UM303", "HM303", "BN303", "AS303", "JF303", "HA303", "MZ303",
	"SH303", "2218", "786", "TP303", "AL303", "PT303", "ADS", "Random",
}

// IsReferralCode reports whether code is one of ReferralCodes.
func IsReferralCode(code string) bool {
	for _, c := range ReferralCodes {
		if c == code {
			return true
		}
	}
	return false
}

// SourceForReferralCode derives the traffic source: ADS is paid advertising,
// Random is unattributed, anything else is a referral.
func SourceForReferralCode(code string) EntrySource {
	switch code {
	case "ADS":
		return SourceAds
	case "Random":
		return SourceRandom
	default:
		return SourceReferral
	}
}
