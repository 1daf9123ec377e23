package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/app/repositories"
	"github.com/institut/vitrine/internal/metrics"
	"github.com/institut/vitrine/internal/pkg/apperrors"
	"github.com/institut/vitrine/internal/pkg/helpers"
	"github.com/institut/vitrine/internal/pkg/logger"
	"github.com/institut/vitrine/internal/pkg/validation"
)

const (
	msgFormationNotFound = "Formation non trouvée."
	msgInvalidFormation  = "Veuillez corriger les erreurs dans le formulaire."
	msgSlugTaken         = "Ce slug est déjà utilisé par une autre formation."
)

// FormationService implements the formation catalog operations
type FormationService struct {
	repo    repositories.FormationStore
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewFormationService creates a new formation service instance
func NewFormationService(repo repositories.FormationStore, m *metrics.Metrics) *FormationService {
	return &FormationService{
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

// SetClock replaces the clock used to evaluate promotions.
func (s *FormationService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *FormationService) mapRepoError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrFormationNotFound):
		return fmt.Errorf("%s: %w", op, apperrors.NewCustomError(apperrors.ErrFormationNotFound, msgFormationNotFound).WithCode("RES_001"))
	case errors.Is(err, repositories.ErrSlugTaken):
		return fmt.Errorf("%s: %w", op, apperrors.NewCustomError(apperrors.ErrSlugAlreadyExists, msgSlugTaken))
	case errors.Is(err, repositories.ErrConstraintViolation):
		return fmt.Errorf("%s: %w", op, apperrors.NewBadRequestError(msgInvalidFormation))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *FormationService) list(ctx context.Context, q repositories.FormationQuery) (dto.PageResponse[models.Formation], error) {
	formations, total, err := s.repo.List(ctx, q)
	if err != nil {
		return dto.PageResponse[models.Formation]{}, s.mapRepoError(err, "list formations")
	}
	return dto.NewPageResponse(formations, q.Page, q.Size, total), nil
}

func (s *FormationService) publicPage(ctx context.Context, q repositories.FormationQuery) (dto.PageResponse[dto.FormationListDto], error) {
	q.Visibility = models.VisibilityPublic
	page, err := s.list(ctx, q)
	if err != nil {
		return dto.PageResponse[dto.FormationListDto]{}, err
	}
	now := s.now()
	return dto.MapPage(page, func(f models.Formation) dto.FormationListDto {
		return dto.NewFormationListDto(&f, now)
	}), nil
}

// ListPublic returns a page of active formations; the "all" category means no filter
func (s *FormationService) ListPublic(ctx context.Context, req helpers.PageRequest, categorie string) (dto.PageResponse[dto.FormationListDto], error) {
	q := repositories.FormationQuery{Page: req.Page, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
	if !models.IsAllCategory(categorie) {
		q.Categorie = strings.TrimSpace(categorie)
	}
	return s.publicPage(ctx, q)
}

// Search matches nom or categorie; a blank query is exactly ListPublic
func (s *FormationService) Search(ctx context.Context, query string, req helpers.PageRequest) (dto.PageResponse[dto.FormationListDto], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListPublic(ctx, req, "")
	}
	s.metrics.RecordSearch("formation")
	return s.publicPage(ctx, repositories.FormationQuery{
		Page: req.Page, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder, Search: query,
	})
}

// ListAdmin returns every non-deleted formation matching the status filter
func (s *FormationService) ListAdmin(ctx context.Context, req helpers.PageRequest, status models.Visibility, query string) (dto.PageResponse[dto.FormationAdminDto], error) {
	if status == models.VisibilityPublic || status == "" {
		status = models.VisibilityAll
	}
	q := repositories.FormationQuery{
		Page: req.Page, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder,
		Search: strings.TrimSpace(query), Visibility: status,
	}
	page, err := s.list(ctx, q)
	if err != nil {
		return dto.PageResponse[dto.FormationAdminDto]{}, err
	}
	now := s.now()
	return dto.MapPage(page, func(f models.Formation) dto.FormationAdminDto {
		return dto.NewFormationAdminDto(&f, now)
	}), nil
}

// GetBySlug returns an active formation and counts the view
func (s *FormationService) GetBySlug(ctx context.Context, slug string) (*dto.FormationDetailDto, error) {
	f, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, s.mapRepoError(err, "get formation by slug")
	}
	if !f.Active {
		return nil, s.mapRepoError(repositories.ErrFormationNotFound, "get formation by slug")
	}

	if err := s.repo.IncrementViews(ctx, f.ID); err != nil {
		logger.Warn().Err(err).Int64("id", f.ID).Msg("Failed to count formation view")
	} else {
		f.NombreVues++
		s.metrics.RecordFormationView()
	}

	detail := dto.NewFormationDetailDto(f, s.now())
	return &detail, nil
}

// GetByID returns any non-deleted formation, active or not
func (s *FormationService) GetByID(ctx context.Context, id int64) (*dto.FormationDetailDto, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "get formation")
	}
	detail := dto.NewFormationDetailDto(f, s.now())
	return &detail, nil
}

func (s *FormationService) Selection(ctx context.Context) ([]dto.FormationSelectionDto, error) {
	refs, err := s.repo.Selection(ctx)
	if err != nil {
		return nil, s.mapRepoError(err, "formation selection")
	}
	return refs, nil
}

func (s *FormationService) slugExists(excludeID int64) helpers.SlugExistsFunc {
	return func(ctx context.Context, slug string) (bool, error) {
		return s.repo.SlugExists(ctx, slug, excludeID)
	}
}

// Create validates the payload, assigns a unique slug and stores the formation
func (s *FormationService) Create(ctx context.Context, req dto.FormationCreateDto, admin string) (*dto.FormationDetailDto, error) {
	if fields := validation.Struct(req); len(fields) > 0 {
		return nil, apperrors.NewValidationError(msgInvalidFormation, fields)
	}

	f := req.ToModel()
	if fields := f.CheckInvariants(); len(fields) > 0 {
		return nil, apperrors.NewValidationError(msgInvalidFormation, fields)
	}

	if strings.TrimSpace(req.Slug) != "" {
		f.Slug = helpers.Slugify(req.Slug, 0)
		taken, err := s.repo.SlugExists(ctx, f.Slug, 0)
		if err != nil {
			return nil, fmt.Errorf("create formation: %w", err)
		}
		if taken {
			return nil, s.mapRepoError(repositories.ErrSlugTaken, "create formation")
		}
	} else {
		slug, err := helpers.UniqueSlug(ctx, helpers.Slugify(f.Nom, 0), s.slugExists(0))
		if err != nil {
			return nil, fmt.Errorf("create formation: %w", err)
		}
		f.Slug = slug
	}

	f.AdminCreateur = admin
	f.AdminModificateur = admin
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, s.mapRepoError(err, "create formation")
	}

	s.metrics.RecordMutation("formation", "create")
	logger.Info().Int64("id", f.ID).Str("slug", f.Slug).Str("admin", admin).Msg("Formation created")

	detail := dto.NewFormationDetailDto(f, s.now())
	return &detail, nil
}

// Update applies only the provided fields; reactivation is an update of active alone
func (s *FormationService) Update(ctx context.Context, id int64, req dto.FormationUpdateDto, admin string) (*dto.FormationDetailDto, error) {
	if fields := validation.Struct(req); len(fields) > 0 {
		return nil, apperrors.NewValidationError(msgInvalidFormation, fields)
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "update formation")
	}

	req.ApplyTo(f)
	if req.Slug != nil {
		f.Slug = helpers.Slugify(*req.Slug, 0)
		taken, err := s.repo.SlugExists(ctx, f.Slug, f.ID)
		if err != nil {
			return nil, fmt.Errorf("update formation: %w", err)
		}
		if taken {
			return nil, s.mapRepoError(repositories.ErrSlugTaken, "update formation")
		}
	}
	if fields := f.CheckInvariants(); len(fields) > 0 {
		return nil, apperrors.NewValidationError(msgInvalidFormation, fields)
	}

	if admin != "" {
		f.AdminModificateur = admin
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, s.mapRepoError(err, "update formation")
	}

	s.metrics.RecordMutation("formation", "update")
	logger.Info().Int64("id", f.ID).Str("admin", admin).Msg("Formation updated")

	detail := dto.NewFormationDetailDto(f, s.now())
	return &detail, nil
}

// Delete logically deletes the formation
func (s *FormationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return s.mapRepoError(err, "delete formation")
	}
	s.metrics.RecordMutation("formation", "delete")
	logger.Info().Int64("id", id).Msg("Formation deleted")
	return nil
}
