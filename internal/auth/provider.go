// Package auth holds the sign-up / sign-in providers for business owners and
// the password hashing shared with agent credentials.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	apperrors "branhox/internal/errors"
)

// Password length bounds apply to owner and agent passwords alike.
// bcrypt refuses input longer than MaxPasswordLength bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Profile is the owner information captured at sign-up.
type Profile struct {
	BusinessName string
	OwnerName    string
	Phone        string
}

// Session is what a provider returns on a successful sign-in.
// ProviderToken is opaque and only meaningful to the same provider's SignOut.
type Session struct {
	UserID        string
	ProviderToken string
}

// Provider authenticates business owners. Implementations return AppErrors:
// DUPLICATE_EMAIL, INVALID_CREDENTIALS, or AUTH_PROVIDER_ERROR for failures
// of the backing service.
type Provider interface {
	SignUp(ctx context.Context, email, password string, profile Profile) (userID string, err error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, providerToken string) error
}

// UserRemover is implemented by providers that can delete an account they
// created. Registration uses it to undo a sign-up whose business was never
// stored.
type UserRemover interface {
	RemoveUser(ctx context.Context, userID string) error
}

// ValidatePassword checks password against the length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return apperrors.ErrPasswordTooLong
	}
	return nil
}

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. bcrypt compares in constant time.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
