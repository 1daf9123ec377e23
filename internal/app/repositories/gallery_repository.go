package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/pkg/helpers"
	"github.com/institut/vitrine/internal/pkg/logger"
)

// GalleryRepository handles gallery image database operations
type GalleryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGalleryRepository creates a new GalleryRepository
func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepository {
	return &GalleryRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *GalleryRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"g.id", "g.titre", "g.description", "g.url", "g.filename", "g.categorie",
		"g.is_public", "g.formation_id", "g.date_creation",
		"f.nom", "f.slug",
	).
		From("gallery_images g").
		LeftJoin("formations f ON f.id = g.formation_id")
}

func scanGalleryImage(row pgx.Row) (*models.GalleryImage, error) {
	var img models.GalleryImage
	var description, filename, formationNom, formationSlug *string
	var categorie string
	err := row.Scan(
		&img.ID, &img.Titre, &description, &img.URL, &filename, &categorie,
		&img.IsPublic, &img.FormationID, &img.DateCreation,
		&formationNom, &formationSlug,
	)
	if err != nil {
		return nil, err
	}
	img.Description = helpers.Deref(description)
	img.Filename = helpers.Deref(filename)
	img.Categorie = models.GalleryCategory(categorie)
	if img.FormationID != nil && formationNom != nil {
		img.Formation = &models.FormationRef{ID: *img.FormationID, Nom: *formationNom, Slug: helpers.Deref(formationSlug)}
	}
	return &img, nil
}

func galleryWhere(q GalleryQuery) squirrel.And {
	where := squirrel.And{}
	if q.PublicOnly {
		where = append(where, squirrel.Eq{"g.is_public": true})
	}
	if q.Category != "" {
		where = append(where, squirrel.Eq{"g.categorie": string(q.Category)})
	}
	if name := strings.TrimSpace(q.FormationName); name != "" {
		where = append(where, squirrel.ILike{"f.nom": helpers.LikePattern(name)})
	}
	return where
}

func (r *GalleryRepository) queryImages(ctx context.Context, sb squirrel.SelectBuilder) ([]models.GalleryImage, error) {
	querySQL, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build gallery query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing gallery query")
		return nil, fmt.Errorf("failed to query gallery images: %w", err)
	}
	defer rows.Close()

	images := []models.GalleryImage{}
	for rows.Next() {
		img, err := scanGalleryImage(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning gallery image row")
			return nil, fmt.Errorf("failed to scan gallery image row: %w", err)
		}
		images = append(images, *img)
	}
	return images, rows.Err()
}

// List returns one page of images, newest first, and the total number of matches
func (r *GalleryRepository) List(ctx context.Context, q GalleryQuery) ([]models.GalleryImage, int64, error) {
	where := galleryWhere(q)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("gallery_images g").
		LeftJoin("formations f ON f.id = g.formation_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count gallery query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count gallery query")
		return nil, 0, fmt.Errorf("failed to count gallery images: %w", err)
	}
	if total == 0 || int64(q.Page)*int64(q.Size) >= total {
		return []models.GalleryImage{}, total, nil
	}

	images, err := r.queryImages(ctx, r.baseSelect().
		Where(where).
		OrderBy("g.date_creation DESC", "g.id DESC").
		Limit(uint64(q.Size)).
		Offset(uint64(q.Page)*uint64(q.Size)))
	if err != nil {
		return nil, 0, err
	}
	return images, total, nil
}

// Latest returns the most recent images
func (r *GalleryRepository) Latest(ctx context.Context, limit int, publicOnly bool) ([]models.GalleryImage, error) {
	return r.queryImages(ctx, r.baseSelect().
		Where(galleryWhere(GalleryQuery{PublicOnly: publicOnly})).
		OrderBy("g.date_creation DESC", "g.id DESC").
		Limit(uint64(limit)))
}

func (r *GalleryRepository) GetByID(ctx context.Context, id int64) (*models.GalleryImage, error) {
	querySQL, args, err := r.baseSelect().Where(squirrel.Eq{"g.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get gallery image query: %w", err)
	}

	img, err := scanGalleryImage(r.db.QueryRow(ctx, querySQL, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGalleryImageNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error executing get gallery image query")
		return nil, fmt.Errorf("failed to get gallery image: %w", err)
	}
	return img, nil
}

func (r *GalleryRepository) Create(ctx context.Context, img *models.GalleryImage) error {
	img.DateCreation = time.Now().UTC()

	querySQL, args, err := r.sb.Insert("gallery_images").
		Columns("titre", "description", "url", "filename", "categorie", "is_public", "formation_id", "date_creation").
		Values(img.Titre, helpers.NullIfBlank(img.Description), img.URL, helpers.NullIfBlank(img.Filename),
			string(img.Categorie), img.IsPublic, img.FormationID, img.DateCreation).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create gallery image query: %w", err)
	}

	if err := r.db.QueryRow(ctx, querySQL, args...).Scan(&img.ID); err != nil {
		logger.Error().Err(err).Msg("Error creating gallery image")
		return fmt.Errorf("failed to create gallery image: %w", err)
	}
	return nil
}

func (r *GalleryRepository) Update(ctx context.Context, img *models.GalleryImage) error {
	querySQL, args, err := r.sb.Update("gallery_images").
		SetMap(map[string]interface{}{
			"titre":        img.Titre,
			"description":  helpers.NullIfBlank(img.Description),
			"url":          img.URL,
			"filename":     helpers.NullIfBlank(img.Filename),
			"categorie":    string(img.Categorie),
			"is_public":    img.IsPublic,
			"formation_id": img.FormationID,
		}).
		Where(squirrel.Eq{"id": img.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update gallery image query: %w", err)
	}

	tag, err := r.db.Exec(ctx, querySQL, args...)
	if err != nil {
		logger.Error().Err(err).Int64("id", img.ID).Msg("Error updating gallery image")
		return fmt.Errorf("failed to update gallery image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGalleryImageNotFound
	}
	return nil
}

// Delete removes the image row for good
func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error deleting gallery image")
		return fmt.Errorf("failed to delete gallery image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGalleryImageNotFound
	}
	return nil
}
