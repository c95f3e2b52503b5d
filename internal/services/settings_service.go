package services

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	apperrors "branhox/internal/errors"
	"branhox/internal/models"
	"branhox/internal/tenant"
)

// settingsService handles the tenant option lists.
type settingsService struct {
	db    *gorm.DB
	store EntityStorer

	// collate.Collator is not safe for concurrent use.
	mu       sync.Mutex
	collator *collate.Collator
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB, store EntityStorer) SettingsServicer {
	return &settingsService{
		db:       db,
		store:    store,
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// GetSettings returns the tenant's option lists.
func (s *settingsService) GetSettings(scope tenant.Scope) (*models.TenantSettings, error) {
	return s.store.SettingsForTenant(scope)
}

// AddSettingValue appends value to the list under key and re-sorts it.
// Edits and deletes keep the order of the remaining values.
func (s *settingsService) AddSettingValue(scope tenant.Scope, key models.SettingKey, value string) (*models.TenantSettings, error) {
	return s.modify(scope, key, func(list []string) ([]string, error) {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "value cannot be empty")
		}
		if indexOfFold(list, value, -1) >= 0 {
			return nil, apperrors.ErrDuplicateSetting
		}
		list = append(list, value)
		s.mu.Lock()
		s.collator.SortStrings(list)
		s.mu.Unlock()
		return list, nil
	})
}

// EditSettingValue replaces the value at index. The duplicate check ignores
// the value being replaced, so changing only its case is allowed.
func (s *settingsService) EditSettingValue(scope tenant.Scope, key models.SettingKey, index int, value string) (*models.TenantSettings, error) {
	return s.modify(scope, key, func(list []string) ([]string, error) {
		if index < 0 || index >= len(list) {
			return nil, apperrors.ErrSettingNotFound
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "value cannot be empty")
		}
		if indexOfFold(list, value, index) >= 0 {
			return nil, apperrors.ErrDuplicateSetting
		}
		list[index] = value
		return list, nil
	})
}

// DeleteSettingValue removes the value at index.
func (s *settingsService) DeleteSettingValue(scope tenant.Scope, key models.SettingKey, index int) (*models.TenantSettings, error) {
	return s.modify(scope, key, func(list []string) ([]string, error) {
		if index < 0 || index >= len(list) {
			return nil, apperrors.ErrSettingNotFound
		}
		return append(list[:index], list[index+1:]...), nil
	})
}

// modify loads the list under key, applies change to a copy and persists
// the result.
func (s *settingsService) modify(scope tenant.Scope, key models.SettingKey, change func([]string) ([]string, error)) (*models.TenantSettings, error) {
	if !key.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown setting key")
	}
	settings, err := s.store.SettingsForTenant(scope)
	if err != nil {
		return nil, err
	}

	list, err := change(append([]string(nil), settings.List(key)...))
	if err != nil {
		return nil, err
	}
	settings.SetList(key, list)

	if err := s.db.Save(settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}

// indexOfFold returns the index of the first case-insensitive match of value
// in list, skipping index skip, or -1.
func indexOfFold(list []string, value string, skip int) int {
	for i, v := range list {
		if i != skip && strings.EqualFold(v, value) {
			return i
		}
	}
	return -1
}
