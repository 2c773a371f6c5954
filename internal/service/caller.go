package service

import (
	"context"
	"fmt"

	"retailing/internal/model"
	"retailing/internal/repository"
)

// Caller is the read-only identity of the party behind a request. It is
// resolved from the database on every request so a supplier's type is never
// served from a stale copy.
type Caller struct {
	UserID       uint
	Email        string
	IsActive     bool
	IsSuperuser  bool
	SupplierID   *uint
	SupplierType model.SupplierType
}

// Employed reports whether the caller works for a registered supplier.
func (c Caller) Employed() bool { return c.SupplierID != nil }

// Supplier returns the caller's supplier id, or 0 when unemployed.
func (c Caller) Supplier() uint {
	if c.SupplierID == nil {
		return 0
	}
	return *c.SupplierID
}

type IdentityService interface {
	Resolve(ctx context.Context, userID uint) (*Caller, error)
}

type identityService struct {
	users repository.UserRepository
}

func NewIdentityService(users repository.UserRepository) IdentityService {
	return &identityService{users: users}
}

func (s *identityService) Resolve(ctx context.Context, userID uint) (*Caller, error) {
	rec, err := s.users.FindCaller(ctx, userID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("user %d", userID))
	}
	c := &Caller{
		UserID:      rec.UserID,
		Email:       rec.Email,
		IsActive:    rec.IsActive,
		IsSuperuser: rec.IsSuperuser,
		SupplierID:  rec.SupplierID,
	}
	if rec.SupplierType != nil {
		c.SupplierType = model.SupplierType(*rec.SupplierType)
	}
	return c, nil
}
