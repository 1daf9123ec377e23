package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/app/repositories"
	"github.com/institut/vitrine/internal/metrics"
	"github.com/institut/vitrine/internal/pkg/apperrors"
	"github.com/institut/vitrine/internal/pkg/helpers"
	"github.com/institut/vitrine/internal/pkg/logger"
	"github.com/institut/vitrine/internal/pkg/validation"
)

// HomeImagesLimit is the number of images shown on the home page
const HomeImagesLimit = 9

const (
	msgImageNotFound         = "Image non trouvée."
	msgInvalidImage          = "Veuillez corriger les erreurs dans le formulaire."
	msgInvalidCategory       = "Catégorie invalide. Valeurs acceptées : FORMATION, EVENEMENT, INSTITUT."
	msgLinkedFormationAbsent = "La formation associée est introuvable."
)

// GalleryService handles gallery image operations
type GalleryService struct {
	repo       repositories.GalleryStore
	formations repositories.FormationStore
	metrics    *metrics.Metrics
}

// NewGalleryService creates a new gallery service instance
func NewGalleryService(repo repositories.GalleryStore, formations repositories.FormationStore, m *metrics.Metrics) *GalleryService {
	return &GalleryService{
		repo:       repo,
		formations: formations,
		metrics:    m,
	}
}

func (s *GalleryService) mapRepoError(err error, op string) error {
	if errors.Is(err, repositories.ErrGalleryImageNotFound) {
		return fmt.Errorf("%s: %w", op, apperrors.NewCustomError(apperrors.ErrGalleryImageNotFound, msgImageNotFound))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *GalleryService) page(ctx context.Context, q repositories.GalleryQuery) (dto.GalleryPageResponse, error) {
	images, total, err := s.repo.List(ctx, q)
	if err != nil {
		return dto.GalleryPageResponse{}, s.mapRepoError(err, "list gallery images")
	}
	page := dto.NewPageResponse(images, q.Page, q.Size, total)
	return dto.MapPage(page, func(img models.GalleryImage) dto.GalleryImageDto {
		return dto.NewGalleryImageDto(&img)
	}), nil
}

// HomeImages returns the latest public images
func (s *GalleryService) HomeImages(ctx context.Context) ([]dto.GalleryImageDto, error) {
	images, err := s.repo.Latest(ctx, HomeImagesLimit, true)
	if err != nil {
		return nil, s.mapRepoError(err, "home images")
	}
	items := make([]dto.GalleryImageDto, 0, len(images))
	for i := range images {
		items = append(items, dto.NewGalleryImageDto(&images[i]))
	}
	return items, nil
}

// ListPublic pages through public images only
func (s *GalleryService) ListPublic(ctx context.Context, req helpers.PageRequest) (dto.GalleryPageResponse, error) {
	return s.page(ctx, repositories.GalleryQuery{Page: req.Page, Size: req.Size, PublicOnly: true})
}

// ListAll pages through every image, public or not
func (s *GalleryService) ListAll(ctx context.Context, req helpers.PageRequest) (dto.GalleryPageResponse, error) {
	return s.page(ctx, repositories.GalleryQuery{Page: req.Page, Size: req.Size})
}

// ByFormationName filters public images on the linked formation name; a blank name lists everything public
func (s *GalleryService) ByFormationName(ctx context.Context, name string, req helpers.PageRequest) (dto.GalleryPageResponse, error) {
	return s.byFormationName(ctx, name, req, true)
}

// AdminByFormationName is ByFormationName over private images too
func (s *GalleryService) AdminByFormationName(ctx context.Context, name string, req helpers.PageRequest) (dto.GalleryPageResponse, error) {
	return s.byFormationName(ctx, name, req, false)
}

func (s *GalleryService) byFormationName(ctx context.Context, name string, req helpers.PageRequest, publicOnly bool) (dto.GalleryPageResponse, error) {
	q := repositories.GalleryQuery{Page: req.Page, Size: req.Size, PublicOnly: publicOnly}
	if name = strings.TrimSpace(name); name != "" {
		s.metrics.RecordSearch("gallery")
		q.FormationName = name
	}
	return s.page(ctx, q)
}

// ByCategory filters public images on one category; "all" lists everything public
func (s *GalleryService) ByCategory(ctx context.Context, category string, req helpers.PageRequest) (dto.GalleryPageResponse, error) {
	return s.byCategory(ctx, category, req, true)
}

// AdminByCategory is ByCategory over private images too
func (s *GalleryService) AdminByCategory(ctx context.Context, category string, req helpers.PageRequest) (dto.GalleryPageResponse, error) {
	return s.byCategory(ctx, category, req, false)
}

func (s *GalleryService) byCategory(ctx context.Context, category string, req helpers.PageRequest, publicOnly bool) (dto.GalleryPageResponse, error) {
	q := repositories.GalleryQuery{Page: req.Page, Size: req.Size, PublicOnly: publicOnly}
	if !models.IsAllCategory(category) {
		c, ok := models.ParseGalleryCategory(category)
		if !ok {
			return dto.GalleryPageResponse{}, apperrors.NewCustomError(apperrors.ErrInvalidCategory, msgInvalidCategory)
		}
		q.Category = c
	}
	return s.page(ctx, q)
}

func (s *GalleryService) Get(ctx context.Context, id int64) (*dto.GalleryImageDto, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "get gallery image")
	}
	out := dto.NewGalleryImageDto(img)
	return &out, nil
}

// validate normalizes the category casing before checking the payload
func (s *GalleryService) validate(ctx context.Context, req *dto.GalleryImageRequest) error {
	req.Categorie = strings.ToUpper(strings.TrimSpace(req.Categorie))
	if fields := validation.Struct(*req); len(fields) > 0 {
		return apperrors.NewValidationError(msgInvalidImage, fields)
	}
	if req.FormationID != nil {
		if _, err := s.formations.GetByID(ctx, *req.FormationID); err != nil {
			if errors.Is(err, repositories.ErrFormationNotFound) {
				return apperrors.NewValidationError(msgInvalidImage, []apperrors.FieldError{
					{Field: "formationId", Message: msgLinkedFormationAbsent},
				})
			}
			return fmt.Errorf("check linked formation: %w", err)
		}
	}
	return nil
}

// Create stores a new gallery image
func (s *GalleryService) Create(ctx context.Context, req dto.GalleryImageRequest) (*dto.GalleryImageDto, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	var img models.GalleryImage
	req.ApplyTo(&img)
	if err := s.repo.Create(ctx, &img); err != nil {
		return nil, s.mapRepoError(err, "create gallery image")
	}

	s.metrics.RecordMutation("gallery", "create")
	logger.Info().Int64("id", img.ID).Str("categorie", string(img.Categorie)).Msg("Gallery image created")
	return s.Get(ctx, img.ID)
}

// Update replaces every editable field of an image
func (s *GalleryService) Update(ctx context.Context, id int64, req dto.GalleryImageRequest) (*dto.GalleryImageDto, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "update gallery image")
	}
	req.ApplyTo(img)
	if err := s.repo.Update(ctx, img); err != nil {
		return nil, s.mapRepoError(err, "update gallery image")
	}

	s.metrics.RecordMutation("gallery", "update")
	logger.Info().Int64("id", id).Msg("Gallery image updated")
	return s.Get(ctx, id)
}

// Delete removes the image for good
func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, "delete gallery image")
	}
	s.metrics.RecordMutation("gallery", "delete")
	logger.Info().Int64("id", id).Msg("Gallery image deleted")
	return nil
}
