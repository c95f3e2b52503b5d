// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"branhox/internal/models"
)

var yearMonthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom tags to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("entry_category", validateEntryCategory)
	_ = v.RegisterValidation("referral_code", validateReferralCode)
	_ = v.RegisterValidation("redeem_type", validateRedeemType)
	_ = v.RegisterValidation("agent_role", validateAgentRole)
	_ = v.RegisterValidation("setting_key", validateSettingKey)
	_ = v.RegisterValidation("year_month", validateYearMonth)
	_ = v.RegisterValidation("iso_date", validateISODate)
	_ = v.RegisterValidation("rows_per_page", validateRowsPerPage)
	_ = v.RegisterValidation("progress_mode", validateProgressMode)
}

// IsISODate reports whether s is a calendar date in YYYY-MM-DD form.
func IsISODate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// IsYearMonth reports whether s is a month in YYYY-MM form.
func IsYearMonth(s string) bool {
	return yearMonthRegex.MatchString(s)
}

func validateEntryCategory(fl validator.FieldLevel) bool {
	return models.EntryCategory(fl.Field().String()).Valid()
}

func validateReferralCode(fl validator.FieldLevel) bool {
	return models.IsReferralCode(fl.Field().String())
}

func validateRedeemType(fl validator.FieldLevel) bool {
	return models.RedeemType(fl.Field().String()).Valid()
}

func validateAgentRole(fl validator.FieldLevel) bool {
	switch models.AgentRole(fl.Field().String()) {
	case models.AgentRoleViewer, models.AgentRoleEditor, models.AgentRoleFullAccess:
		return true
	}
	return false
}

func validateSettingKey(fl validator.FieldLevel) bool {
	return models.SettingKey(fl.Field().String()).Valid()
}

func validateYearMonth(fl validator.FieldLevel) bool {
	return IsYearMonth(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	return IsISODate(fl.Field().String())
}

func validateRowsPerPage(fl validator.FieldLevel) bool {
	switch fl.Field().Int() {
	case 10, 25, 50:
		return true
	}
	return false
}

func validateProgressMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "7days", "15days", "month", "custom":
		return true
	}
	return false
}
