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
	"github.com/institut/vitrine/internal/pkg/dberrors"
	"github.com/institut/vitrine/internal/pkg/helpers"
	"github.com/institut/vitrine/internal/pkg/logger"
)

const formationSlugConstraint = "formations_slug_key"

var formationColumns = []string{
	"id", "slug", "nom", "description", "duree", "categorie",
	"frais_inscription", "prix", "certificat_delivre", "nom_certificat",
	"programme", "objectifs", "materiel_fourni", "horaires", "frequence",
	"nombre_places", "nombre_inscrits_affiche", "social_proof_actif",
	"photo_principale", "photos_galerie",
	"en_promotion", "pourcentage_reduction", "date_debut_promo", "date_fin_promo",
	"meta_title", "meta_description", "active", "nombre_vues",
	"admin_createur", "admin_modificateur", "date_creation", "date_modification", "deleted_at",
}

// FormationRepository handles formation database operations
type FormationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFormationRepository creates a new FormationRepository
func NewFormationRepository(db *pgxpool.Pool) *FormationRepository {
	return &FormationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanFormation(row pgx.Row) (*models.Formation, error) {
	var f models.Formation
	var photo, createur, modificateur *string
	err := row.Scan(
		&f.ID, &f.Slug, &f.Nom, &f.Description, &f.Duree, &f.Categorie,
		&f.FraisInscription, &f.Prix, &f.CertificatDelivre, &f.NomCertificat,
		&f.Programme, &f.Objectifs, &f.MaterielFourni, &f.Horaires, &f.Frequence,
		&f.NombrePlaces, &f.NombreInscritsAffiche, &f.SocialProofActif,
		&photo, &f.PhotosGalerie,
		&f.EnPromotion, &f.PourcentageReduction, &f.DateDebutPromo, &f.DateFinPromo,
		&f.MetaTitle, &f.MetaDescription, &f.Active, &f.NombreVues,
		&createur, &modificateur, &f.DateCreation, &f.DateModification, &f.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	f.PhotoPrincipale = helpers.Deref(photo)
	f.AdminCreateur = helpers.Deref(createur)
	f.AdminModificateur = helpers.Deref(modificateur)
	return &f, nil
}

// formationWhere builds the filter shared by the page and count queries.
func formationWhere(q FormationQuery) squirrel.And {
	where := squirrel.And{squirrel.Eq{"deleted_at": nil}}

	switch q.Visibility {
	case models.VisibilityPublic, models.VisibilityActive:
		where = append(where, squirrel.Eq{"active": true})
	case models.VisibilityInactive:
		where = append(where, squirrel.Eq{"active": false})
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := helpers.LikePattern(s)
		where = append(where, squirrel.Or{
			squirrel.ILike{"nom": pattern},
			squirrel.ILike{"categorie": pattern},
		})
	}
	if c := strings.TrimSpace(q.Categorie); c != "" {
		where = append(where, squirrel.Expr("LOWER(categorie) = LOWER(?)", c))
	}
	return where
}

// mapFormationSortColumn whitelists the sortable fields
func mapFormationSortColumn(field string) string {
	switch field {
	case "nom":
		return "nom"
	case "prix":
		return "prix"
	case "categorie":
		return "categorie"
	case "nombreVues":
		return "nombre_vues"
	case "dateModification":
		return "date_modification"
	default:
		return "date_creation"
	}
}

// List returns one page of formations and the total number of matches
func (r *FormationRepository) List(ctx context.Context, q FormationQuery) ([]models.Formation, int64, error) {
	where := formationWhere(q)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("formations").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count formations query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count formations query")
		return nil, 0, fmt.Errorf("failed to count formations: %w", err)
	}
	if total == 0 || int64(q.Page)*int64(q.Size) >= total {
		return []models.Formation{}, total, nil
	}

	order := "DESC"
	if q.SortOrder == "asc" {
		order = "ASC"
	}

	querySQL, args, err := r.sb.Select(formationColumns...).
		From("formations").
		Where(where).
		OrderBy(fmt.Sprintf("%s %s", mapFormationSortColumn(q.SortBy), order), "id DESC").
		Limit(uint64(q.Size)).
		Offset(uint64(q.Page) * uint64(q.Size)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list formations query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list formations query")
		return nil, 0, fmt.Errorf("failed to query formations: %w", err)
	}
	defer rows.Close()

	formations := make([]models.Formation, 0, q.Size)
	for rows.Next() {
		f, err := scanFormation(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning formation row")
			return nil, 0, fmt.Errorf("failed to scan formation row: %w", err)
		}
		formations = append(formations, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating formation rows: %w", err)
	}

	return formations, total, nil
}

func (r *FormationRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Formation, error) {
	querySQL, args, err := r.sb.Select(formationColumns...).
		From("formations").
		Where(squirrel.And{where, squirrel.Eq{"deleted_at": nil}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get formation query: %w", err)
	}

	f, err := scanFormation(r.db.QueryRow(ctx, querySQL, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormationNotFound
		}
		logger.Error().Err(err).Msg("Error executing get formation query")
		return nil, fmt.Errorf("failed to get formation: %w", err)
	}
	return f, nil
}

// GetByID returns a non-deleted formation whatever its active flag
func (r *FormationRepository) GetByID(ctx context.Context, id int64) (*models.Formation, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySlug returns a non-deleted formation whatever its active flag
func (r *FormationRepository) GetBySlug(ctx context.Context, slug string) (*models.Formation, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

// SlugExists checks every row, deleted ones included, since slugs stay reserved
func (r *FormationRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM formations WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check formation slug: %w", err)
	}
	return exists, nil
}

// Create inserts the formation and fills its generated fields
func (r *FormationRepository) Create(ctx context.Context, f *models.Formation) error {
	now := time.Now().UTC()
	f.DateCreation, f.DateModification = now, now
	if f.PhotosGalerie == nil {
		f.PhotosGalerie = []string{}
	}

	querySQL, args, err := r.sb.Insert("formations").
		Columns(formationColumns[1:len(formationColumns)-1]...).
		Values(
			f.Slug, f.Nom, f.Description, f.Duree, f.Categorie,
			f.FraisInscription, f.Prix, f.CertificatDelivre, f.NomCertificat,
			f.Programme, f.Objectifs, f.MaterielFourni, f.Horaires, f.Frequence,
			f.NombrePlaces, f.NombreInscritsAffiche, f.SocialProofActif,
			helpers.NullIfBlank(f.PhotoPrincipale), f.PhotosGalerie,
			f.EnPromotion, f.PourcentageReduction, f.DateDebutPromo, f.DateFinPromo,
			f.MetaTitle, f.MetaDescription, f.Active, f.NombreVues,
			helpers.NullIfBlank(f.AdminCreateur), helpers.NullIfBlank(f.AdminModificateur),
			f.DateCreation, f.DateModification,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create formation query: %w", err)
	}

	if err := r.db.QueryRow(ctx, querySQL, args...).Scan(&f.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, formationSlugConstraint) {
			return ErrSlugTaken
		}
		if dberrors.IsCheckViolation(err) {
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		logger.Error().Err(err).Str("slug", f.Slug).Msg("Error creating formation")
		return fmt.Errorf("failed to create formation: %w", err)
	}
	return nil
}

// Update writes back every mutable column of a non-deleted formation
func (r *FormationRepository) Update(ctx context.Context, f *models.Formation) error {
	f.DateModification = time.Now().UTC()

	querySQL, args, err := r.sb.Update("formations").
		SetMap(map[string]interface{}{
			"slug":                    f.Slug,
			"nom":                     f.Nom,
			"description":             f.Description,
			"duree":                   f.Duree,
			"categorie":               f.Categorie,
			"frais_inscription":       f.FraisInscription,
			"prix":                    f.Prix,
			"certificat_delivre":      f.CertificatDelivre,
			"nom_certificat":          f.NomCertificat,
			"programme":               f.Programme,
			"objectifs":               f.Objectifs,
			"materiel_fourni":         f.MaterielFourni,
			"horaires":                f.Horaires,
			"frequence":               f.Frequence,
			"nombre_places":           f.NombrePlaces,
			"nombre_inscrits_affiche": f.NombreInscritsAffiche,
			"social_proof_actif":      f.SocialProofActif,
			"photo_principale":        helpers.NullIfBlank(f.PhotoPrincipale),
			"photos_galerie":          f.PhotosGalerie,
			"en_promotion":            f.EnPromotion,
			"pourcentage_reduction":   f.PourcentageReduction,
			"date_debut_promo":        f.DateDebutPromo,
			"date_fin_promo":          f.DateFinPromo,
			"meta_title":              f.MetaTitle,
			"meta_description":        f.MetaDescription,
			"active":                  f.Active,
			"admin_modificateur":      helpers.NullIfBlank(f.AdminModificateur),
			"date_modification":       f.DateModification,
		}).
		Where(squirrel.Eq{"id": f.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update formation query: %w", err)
	}

	tag, err := r.db.Exec(ctx, querySQL, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, formationSlugConstraint) {
			return ErrSlugTaken
		}
		if dberrors.IsCheckViolation(err) {
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		logger.Error().Err(err).Int64("id", f.ID).Msg("Error updating formation")
		return fmt.Errorf("failed to update formation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFormationNotFound
	}
	return nil
}

// SoftDelete marks the formation deleted; the row is kept
func (r *FormationRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE formations SET deleted_at = NOW(), date_modification = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error deleting formation")
		return fmt.Errorf("failed to delete formation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFormationNotFound
	}
	return nil
}

func (r *FormationRepository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE formations SET nombre_vues = nombre_vues + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment formation views: %w", err)
	}
	return nil
}

// Selection lists active formations by name for pick-lists
func (r *FormationRepository) Selection(ctx context.Context) ([]models.FormationRef, error) {
	querySQL, args, err := r.sb.Select("id", "nom", "slug").
		From("formations").
		Where(squirrel.Eq{"deleted_at": nil, "active": true}).
		OrderBy("nom ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build formation selection query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query formation selection: %w", err)
	}
	defer rows.Close()

	refs := []models.FormationRef{}
	for rows.Next() {
		var ref models.FormationRef
		if err := rows.Scan(&ref.ID, &ref.Nom, &ref.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan formation selection row: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
