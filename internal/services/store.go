package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "branhox/internal/errors"
	"branhox/internal/models"
	"branhox/internal/tenant"
)

// entityStore reads a tenant's entries, agents and settings.
type entityStore struct {
	db *gorm.DB
}

// NewEntityStore creates a new EntityStorer.
func NewEntityStore(db *gorm.DB) EntityStorer {
	return &entityStore{db: db}
}

// EntriesForTenant returns every entry of the tenant, newest date first.
func (s *entityStore) EntriesForTenant(scope tenant.Scope) ([]models.Entry, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	var entries []models.Entry
	if err := s.db.Where("business_id = ?", scope.BusinessID()).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// AgentsForTenant returns the tenant's agents in creation order.
func (s *entityStore) AgentsForTenant(scope tenant.Scope) ([]models.Agent, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	var agents []models.Agent
	if err := s.db.Where("business_id = ?", scope.BusinessID()).
		Order("created_at ASC, id ASC").
		Find(&agents).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return agents, nil
}

// SettingsForTenant returns the tenant's option lists, seeding the defaults
// for a business that has none yet.
func (s *entityStore) SettingsForTenant(scope tenant.Scope) (*models.TenantSettings, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	var settings models.TenantSettings
	err := s.db.Where("business_id = ?", scope.BusinessID()).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultSettings(scope.BusinessID())
		if err := s.db.Create(defaults).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return defaults, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// NextEntryID reports the id the next entry is expected to get. The database
// sequence makes the final assignment.
func (s *entityStore) NextEntryID() (uint, error) {
	var maxID uint
	if err := s.db.Model(&models.Entry{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return maxID + 1, nil
}
