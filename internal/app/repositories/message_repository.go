package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/pkg/dberrors"
	"github.com/institut/vitrine/internal/pkg/helpers"
	"github.com/institut/vitrine/internal/pkg/logger"
)

const newsletterEmailConstraint = "newsletter_subscribers_email_key"

// MessageRepository handles visitor message database operations
type MessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func messageWhere(q MessageQuery) squirrel.And {
	where := squirrel.And{}
	if q.Type != "" {
		where = append(where, squirrel.Eq{"type": string(q.Type)})
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := helpers.LikePattern(s)
		where = append(where, squirrel.Or{
			squirrel.ILike{"nom": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"sujet": pattern},
			squirrel.ILike{"formation_nom": pattern},
		})
	}
	return where
}

// Create stores a message and sets its ID and creation date
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	m.DateCreation = time.Now().UTC()

	querySQL, args, err := r.sb.Insert("messages").
		Columns("type", "nom", "email", "telephone", "ville", "sujet", "disponibilites", "contenu",
			"formation_id", "formation_nom", "source_visite", "adresse_ip", "user_agent", "date_creation").
		Values(string(m.Type), m.Nom, m.Email, helpers.NullIfBlank(m.Telephone), helpers.NullIfBlank(m.Ville),
			helpers.NullIfBlank(m.Sujet), helpers.NullIfBlank(m.Disponibilites), m.Contenu,
			m.FormationID, helpers.NullIfBlank(m.FormationNom), helpers.NullIfBlank(m.SourceVisite),
			helpers.NullIfBlank(m.AdresseIP), helpers.NullIfBlank(m.UserAgent), m.DateCreation).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create message query: %w", err)
	}

	if err := r.db.QueryRow(ctx, querySQL, args...).Scan(&m.ID); err != nil {
		if dberrors.IsCheckViolation(err) {
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		logger.Error().Err(err).Str("type", string(m.Type)).Msg("Error creating message")
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// List returns one page of messages, newest first, and the total number of matches
func (r *MessageRepository) List(ctx context.Context, q MessageQuery) ([]models.Message, int64, error) {
	where := messageWhere(q)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("messages").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count messages query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count messages query")
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}
	if total == 0 || int64(q.Page)*int64(q.Size) >= total {
		return []models.Message{}, total, nil
	}

	querySQL, args, err := r.sb.Select(
		"id", "type", "nom", "email", "telephone", "ville", "sujet", "disponibilites", "contenu",
		"formation_id", "formation_nom", "source_visite", "adresse_ip", "user_agent", "date_creation",
	).
		From("messages").
		Where(where).
		OrderBy("date_creation DESC", "id DESC").
		Limit(uint64(q.Size)).
		Offset(uint64(q.Page) * uint64(q.Size)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list messages query")
		return nil, 0, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var (
			m                                                models.Message
			msgType                                          string
			telephone, ville, sujet, disponibilites          *string
			formationNom, sourceVisite, adresseIP, userAgent *string
		)
		if err := rows.Scan(&m.ID, &msgType, &m.Nom, &m.Email, &telephone, &ville, &sujet, &disponibilites, &m.Contenu,
			&m.FormationID, &formationNom, &sourceVisite, &adresseIP, &userAgent, &m.DateCreation); err != nil {
			logger.Error().Err(err).Msg("Error scanning message row")
			return nil, 0, fmt.Errorf("failed to scan message row: %w", err)
		}
		m.Type = models.MessageType(msgType)
		m.Telephone = helpers.Deref(telephone)
		m.Ville = helpers.Deref(ville)
		m.Sujet = helpers.Deref(sujet)
		m.Disponibilites = helpers.Deref(disponibilites)
		m.FormationNom = helpers.Deref(formationNom)
		m.SourceVisite = helpers.Deref(sourceVisite)
		m.AdresseIP = helpers.Deref(adresseIP)
		m.UserAgent = helpers.Deref(userAgent)
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

// NewsletterRepository handles newsletter subscription database operations
type NewsletterRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNewsletterRepository creates a new NewsletterRepository
func NewNewsletterRepository(db *pgxpool.Pool) *NewsletterRepository {
	return &NewsletterRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Subscribe inserts the address; the unique constraint on email rejects a second subscription
func (r *NewsletterRepository) Subscribe(ctx context.Context, s *models.NewsletterSubscriber) error {
	s.DateInscription = time.Now().UTC()

	querySQL, args, err := r.sb.Insert("newsletter_subscribers").
		Columns("email", "nom", "date_inscription").
		Values(s.Email, helpers.NullIfBlank(s.Nom), s.DateInscription).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build subscribe query: %w", err)
	}

	if err := r.db.QueryRow(ctx, querySQL, args...).Scan(&s.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, newsletterEmailConstraint) {
			return ErrAlreadySubscribed
		}
		logger.Error().Err(err).Msg("Error creating newsletter subscription")
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

// Count returns the number of subscribed addresses
func (r *NewsletterRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM newsletter_subscribers`).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting newsletter subscribers")
		return 0, fmt.Errorf("failed to count newsletter subscribers: %w", err)
	}
	return total, nil
}
