package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "branhox/internal/errors"
	"branhox/internal/models"
)

// LocalProvider keeps bcrypt credentials in the application database.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a Provider backed by the credentials table.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{db: db}
}

// SignUp stores a hashed credential for email.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string, _ Profile) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Credential{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return "", apperrors.ErrDuplicateEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	cred := &models.Credential{Email: email, PasswordHash: hash}
	if err := p.db.WithContext(ctx).Create(cred).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return cred.ID, nil
}

// RemoveUser deletes the credential with id userID. A missing credential is
// not an error.
func (p *LocalProvider) RemoveUser(ctx context.Context, userID string) error {
	if err := p.db.WithContext(ctx).Where("id = ?", userID).Delete(&models.Credential{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SignIn verifies email and password against the stored hash.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var cred models.Credential
	err := p.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !CheckPassword(cred.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &Session{UserID: cred.ID}, nil
}

// SignOut is a no-op: local sessions live only in the issued JWT.
func (p *LocalProvider) SignOut(context.Context, string) error {
	return nil
}
