// Package tenant carries the business a request acts on. Every store read and
// mutation takes a Scope, so no entity list can be reached without one.
package tenant

import (
	"strings"

	apperrors "branhox/internal/errors"
)

// Scope identifies the business whose data an operation may touch.
// The zero value is invalid; build one with New.
type Scope struct {
	businessID string
}

// New returns a Scope for businessID, rejecting blank ids.
func New(businessID string) (Scope, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return Scope{}, apperrors.WithMessage(apperrors.ErrUnauthorized, "tenant scope is required")
	}
	return Scope{businessID: businessID}, nil
}

// MustNew is New for ids already validated elsewhere, such as test fixtures.
func MustNew(businessID string) Scope {
	s, err := New(businessID)
	if err != nil {
		panic(err)
	}
	return s
}

// BusinessID returns the scoped business id.
func (s Scope) BusinessID() string { return s.businessID }

// Valid reports whether the scope was built through New.
func (s Scope) Valid() bool { return s.businessID != "" }
