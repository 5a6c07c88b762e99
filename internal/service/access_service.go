package service

import (
	"context"

	"github.com/tatami/academy-backend/internal/model"
)

// OwnerChecker derives the academy-owner flag of a resolved access.
type OwnerChecker interface {
	IsAcademyOwner(ctx context.Context, eff model.EffectiveAccess) bool
}

// AccessService describes the effective access of the caller.
type AccessService struct {
	owners OwnerChecker
}

// NewAccessService creates a new AccessService.
func NewAccessService(owners OwnerChecker) *AccessService {
	return &AccessService{owners: owners}
}

// Describe returns the caller's effective access along with the derived
// academy-owner flag. eff is the access already resolved for the request.
func (s *AccessService) Describe(ctx context.Context, id model.Identity, eff model.EffectiveAccess) model.AccessResponse {
	return model.AccessResponse{
		EffectiveAccess: eff,
		Email:           id.Email,
		IsAcademyOwner:  s.owners.IsAcademyOwner(ctx, eff),
	}
}
