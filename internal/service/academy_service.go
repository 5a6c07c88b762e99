package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/repository"
	"github.com/tatami/academy-backend/internal/response"
)

// AccessInvalidator drops memoized access for a user.
type AccessInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// AcademyService handles academy administration for platform admins.
type AcademyService struct {
	academyRepo *repository.AcademyRepository
	bindingRepo *repository.UserAcademyRepository
	invalidator AccessInvalidator
	log         zerolog.Logger
}

// NewAcademyService creates a new AcademyService.
func NewAcademyService(
	academyRepo *repository.AcademyRepository,
	bindingRepo *repository.UserAcademyRepository,
	invalidator AccessInvalidator,
	log zerolog.Logger,
) *AcademyService {
	return &AcademyService{
		academyRepo: academyRepo,
		bindingRepo: bindingRepo,
		invalidator: invalidator,
		log:         log.With().Str("component", "academy_service").Logger(),
	}
}

// List retrieves academies with pagination.
func (s *AcademyService) List(ctx context.Context, search string, page, perPage int) ([]model.Academy, *response.Pagination, error) {
	page, perPage, limit, offset := paginate(page, perPage)
	academies, total, err := s.academyRepo.ListPaginated(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return academies, newPagination(page, perPage, total), nil
}

// GetByID retrieves an academy.
func (s *AcademyService) GetByID(ctx context.Context, id string) (*model.Academy, error) {
	return s.academyRepo.GetByID(ctx, id)
}

// Members lists the tenancy bindings of an academy.
func (s *AcademyService) Members(ctx context.Context, id string) ([]model.UserAcademy, error) {
	if _, err := s.academyRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.bindingRepo.ListByAcademy(ctx, id)
}

// Create inserts an academy created by createdBy and binds its owner.
func (s *AcademyService) Create(ctx context.Context, createdBy string, req *model.AcademyRequest) (*model.Academy, error) {
	a := academyFromRequest(req)
	if createdBy != "" {
		a.CreatedBy = &createdBy
	}
	if err := s.academyRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	if a.UserID != nil {
		s.invalidator.Invalidate(ctx, *a.UserID)
	}
	s.log.Info().Str("academy_id", a.ID).Str("created_by", createdBy).Msg("academy created")
	return a, nil
}

// Update modifies an academy. Both the previous and the new owner have their
// memoized access dropped when ownership changes.
func (s *AcademyService) Update(ctx context.Context, id string, req *model.AcademyRequest) (*model.Academy, error) {
	a := academyFromRequest(req)
	a.ID = id
	previous, err := s.academyRepo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		s.invalidator.Invalidate(ctx, *previous)
	}
	if a.UserID != nil {
		s.invalidator.Invalidate(ctx, *a.UserID)
	}
	return a, nil
}

// Delete removes an academy and drops the memoized access of its members.
func (s *AcademyService) Delete(ctx context.Context, id string) error {
	userIDs, err := s.academyRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, uid := range userIDs {
		s.invalidator.Invalidate(ctx, uid)
	}
	s.log.Info().Str("academy_id", id).Int("members", len(userIDs)).Msg("academy deleted")
	return nil
}

// BindUser links userID to an academy with role.
func (s *AcademyService) BindUser(ctx context.Context, academyID, userID, role string) error {
	if _, err := s.academyRepo.GetByID(ctx, academyID); err != nil {
		return err
	}
	if err := s.bindingRepo.Bind(ctx, userID, academyID, role); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx, userID)
	return nil
}

// UnbindUser removes the link between userID and an academy.
func (s *AcademyService) UnbindUser(ctx context.Context, academyID, userID string) error {
	if err := s.bindingRepo.Unbind(ctx, userID, academyID); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx, userID)
	return nil
}

func academyFromRequest(req *model.AcademyRequest) *model.Academy {
	a := &model.Academy{
		Name:         strings.TrimSpace(req.Name),
		OwnerName:    strings.TrimSpace(req.OwnerName),
		CNPJ:         strings.TrimSpace(req.CNPJ),
		Street:       strings.TrimSpace(req.Street),
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		ZipCode:      strings.TrimSpace(req.ZipCode),
		Phone:        strings.TrimSpace(req.Phone),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if req.OwnerUserID != "" {
		owner := req.OwnerUserID
		a.UserID = &owner
	}
	return a
}
