package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gorm.io/gorm"

	"branhox/internal/auth"
	apperrors "branhox/internal/errors"
	"branhox/internal/logger"
	"branhox/internal/models"
	"branhox/internal/tenant"
)

// AuthEvent names a change of session state.
type AuthEvent string

const (
	EventSignedUp      AuthEvent = "SIGNED_UP"
	EventSignedIn      AuthEvent = "SIGNED_IN"
	EventSignedOut     AuthEvent = "SIGNED_OUT"
	EventAgentSignedIn AuthEvent = "AGENT_SIGNED_IN"
)

// AuthChange is delivered to auth listeners. AgentID is set for agent events.
type AuthChange struct {
	Event      AuthEvent
	BusinessID string
	Email      string
	AgentID    string
	AgentName  string
}

// AuthListener receives session changes synchronously.
type AuthListener func(change AuthChange)

// RegisterInput is the owner sign-up form.
type RegisterInput struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	BusinessName string `json:"business_name" binding:"required"`
	OwnerName    string `json:"owner_name" binding:"required"`
	Phone        string `json:"phone"`
}

// ProfileUpdate holds the editable business profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	BusinessName *string `json:"business_name"`
	OwnerName    *string `json:"owner_name"`
	Phone        *string `json:"phone"`
	LogoURL      *string `json:"logo_url"`
}

// businessService handles tenants and owner sessions.
type businessService struct {
	db       *gorm.DB
	provider auth.Provider
	agents   AgentServicer

	mu        sync.RWMutex
	nextID    int
	listeners map[int]AuthListener
}

// NewBusinessService creates a new BusinessServicer.
func NewBusinessService(db *gorm.DB, provider auth.Provider, agents AgentServicer) BusinessServicer {
	return &businessService{
		db:        db,
		provider:  provider,
		agents:    agents,
		listeners: make(map[int]AuthListener),
	}
}

// OnAuthStateChange subscribes listener to session changes.
func (s *businessService) OnAuthStateChange(listener AuthListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *businessService) emit(change AuthChange) {
	s.mu.RLock()
	listeners := make([]AuthListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(change)
	}
}

// Register signs the owner up with the auth provider, then creates the
// business and its default settings in one transaction.
func (s *businessService) Register(ctx context.Context, input RegisterInput) (*models.Business, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.BusinessName)
	if email == "" || name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and business name are required")
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Business{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	userID, err := s.provider.SignUp(ctx, email, input.Password, auth.Profile{
		BusinessName: name,
		OwnerName:    input.OwnerName,
		Phone:        input.Phone,
	})
	if err != nil {
		return nil, err
	}

	business := &models.Business{
		BusinessName: name,
		OwnerName:    strings.TrimSpace(input.OwnerName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		AuthUserID:   userID,
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(business).Error; err != nil {
			return err
		}
		return tx.Create(models.DefaultSettings(business.ID)).Error
	}); err != nil {
		logger.Get().Errorw("business creation failed after provider sign-up",
			"error", err,
			"email", email,
			"auth_user_id", userID,
		)
		s.removeProviderUser(ctx, userID, email)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.emit(AuthChange{Event: EventSignedUp, BusinessID: business.ID, Email: email})
	return business, nil
}

// removeProviderUser undoes a provider sign-up so the email can register
// again. Providers without UserRemover keep the account.
func (s *businessService) removeProviderUser(ctx context.Context, userID, email string) {
	remover, ok := s.provider.(auth.UserRemover)
	if !ok {
		logger.Get().Warnw("provider account left without a business", "email", email, "auth_user_id", userID)
		return
	}
	if err := remover.RemoveUser(ctx, userID); err != nil {
		logger.Get().Errorw("failed to remove provider account", "error", err, "email", email, "auth_user_id", userID)
	}
}

// Login signs the owner in and loads the business.
func (s *businessService) Login(ctx context.Context, email, password string) (*models.Business, *auth.Session, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	business, err := s.FindBusinessByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrBusinessNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	s.emit(AuthChange{Event: EventSignedIn, BusinessID: business.ID, Email: business.Email})
	return business, session, nil
}

// Logout ends the provider session.
func (s *businessService) Logout(ctx context.Context, scope tenant.Scope, providerToken string) error {
	if !scope.Valid() {
		return apperrors.ErrUnauthorized
	}
	if err := s.provider.SignOut(ctx, providerToken); err != nil {
		return err
	}
	s.emit(AuthChange{Event: EventSignedOut, BusinessID: scope.BusinessID()})
	return nil
}

// StartAgentSession authenticates an agent from within the owner's session.
func (s *businessService) StartAgentSession(scope tenant.Scope, agentID, password string) (*models.Agent, error) {
	agent, err := s.agents.AuthenticateAgent(scope, agentID, password)
	if err != nil {
		return nil, err
	}
	s.emit(AuthChange{
		Event:      EventAgentSignedIn,
		BusinessID: scope.BusinessID(),
		AgentID:    agent.ID,
		AgentName:  agent.AgentName,
	})
	return agent, nil
}

// FindBusinessByEmail looks a business up by its owner's email.
func (s *businessService) FindBusinessByEmail(email string) (*models.Business, error) {
	var business models.Business
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrBusinessNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &business, nil
}

// GetBusiness returns the scoped business.
func (s *businessService) GetBusiness(scope tenant.Scope) (*models.Business, error) {
	if !scope.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	var business models.Business
	err := s.db.Where("id = ?", scope.BusinessID()).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrBusinessNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &business, nil
}

// UpdateBusiness applies a profile update.
func (s *businessService) UpdateBusiness(scope tenant.Scope, input ProfileUpdate) (*models.Business, error) {
	business, err := s.GetBusiness(scope)
	if err != nil {
		return nil, err
	}
	if input.BusinessName != nil {
		name := strings.TrimSpace(*input.BusinessName)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "business name cannot be empty")
		}
		business.BusinessName = name
	}
	if input.OwnerName != nil {
		business.OwnerName = strings.TrimSpace(*input.OwnerName)
	}
	if input.Phone != nil {
		business.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.LogoURL != nil {
		business.LogoURL = strings.TrimSpace(*input.LogoURL)
	}
	if err := s.db.Save(business).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return business, nil
}
