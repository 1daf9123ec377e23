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
	"github.com/institut/vitrine/internal/pkg/email"
	"github.com/institut/vitrine/internal/pkg/helpers"
	"github.com/institut/vitrine/internal/pkg/logger"
	"github.com/institut/vitrine/internal/pkg/validation"
)

const (
	msgInvalidMessage       = "Veuillez corriger les erreurs dans le formulaire."
	msgUnknownMessageType   = "Type de message inconnu. Valeurs acceptées : PRE_INSCRIPTION, CONTACT."
	msgFormationUnavailable = "Cette formation n'est pas disponible."
)

// MessageService records visitor messages and notifies the institute
type MessageService struct {
	repo       repositories.MessageStore
	formations repositories.FormationStore
	notifier   email.Notifier
	metrics    *metrics.Metrics
}

// NewMessageService creates a new message service instance; notifier may be nil
func NewMessageService(repo repositories.MessageStore, formations repositories.FormationStore, notifier email.Notifier, m *metrics.Metrics) *MessageService {
	return &MessageService{
		repo:       repo,
		formations: formations,
		notifier:   notifier,
		metrics:    m,
	}
}

// PreInscription stores a pre-inscription to an active formation
func (s *MessageService) PreInscription(ctx context.Context, req dto.PreInscriptionRequest) (*dto.MessageDto, error) {
	if fields := validation.Struct(req); len(fields) > 0 {
		return nil, apperrors.NewValidationError(msgInvalidMessage, fields)
	}

	formation, err := s.activeFormation(ctx, req.FormationID)
	if err != nil {
		return nil, err
	}

	msg := req.ToModel()
	msg.FormationNom = formation.Nom
	return s.store(ctx, msg)
}

// Contact stores a contact message. A formation id, when given, must exist and names the formation.
func (s *MessageService) Contact(ctx context.Context, req dto.ContactRequest) (*dto.MessageDto, error) {
	if fields := validation.Struct(req); len(fields) > 0 {
		return nil, apperrors.NewValidationError(msgInvalidMessage, fields)
	}

	msg := req.ToModel()
	if req.FormationID != nil {
		formation, err := s.activeFormation(ctx, *req.FormationID)
		if err != nil {
			return nil, err
		}
		msg.FormationNom = formation.Nom
	}
	return s.store(ctx, msg)
}

func (s *MessageService) activeFormation(ctx context.Context, id int64) (*models.Formation, error) {
	formation, err := s.formations.GetByID(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrFormationNotFound):
		return nil, apperrors.NewValidationError(msgInvalidMessage, []apperrors.FieldError{
			{Field: "formationId", Message: msgFormationUnavailable},
		})
	case err != nil:
		return nil, fmt.Errorf("check formation: %w", err)
	case !formation.Active:
		return nil, apperrors.NewValidationError(msgInvalidMessage, []apperrors.FieldError{
			{Field: "formationId", Message: msgFormationUnavailable},
		})
	}
	return formation, nil
}

func (s *MessageService) store(ctx context.Context, msg *models.Message) (*dto.MessageDto, error) {
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.metrics.RecordMutation("message", "create")
	logger.Info().Int64("id", msg.ID).Str("type", string(msg.Type)).Msg("Message received")

	s.notify(ctx, msg)
	out := dto.NewMessageDto(msg)
	return &out, nil
}

// notify mails the institute; the message is already stored so failures are only logged
func (s *MessageService) notify(ctx context.Context, msg *models.Message) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.NotifyEnquiry(context.WithoutCancel(ctx), email.Enquiry{
		PreInscription: msg.Type == models.MessagePreInscription,
		Nom:            msg.Nom,
		Email:          msg.Email,
		Telephone:      msg.Telephone,
		Ville:          msg.Ville,
		Sujet:          msg.Sujet,
		Disponibilites: msg.Disponibilites,
		FormationNom:   msg.FormationNom,
		Message:        msg.Contenu,
	})
	s.metrics.RecordNotification("enquiry", notificationStatus(err))
	if err != nil && !errors.Is(err, email.ErrNotConfigured) {
		logger.Warn().Err(err).Int64("id", msg.ID).Msg("Enquiry notification failed")
	}
}

// List pages through messages, newest first. msgType is PRE_INSCRIPTION, CONTACT, "all" or blank.
func (s *MessageService) List(ctx context.Context, req helpers.PageRequest, msgType, search string) (dto.PageResponse[dto.MessageDto], error) {
	q := repositories.MessageQuery{Page: req.Page, Size: req.Size}
	if !models.IsAllCategory(msgType) {
		t, ok := models.ParseMessageType(msgType)
		if !ok {
			return dto.PageResponse[dto.MessageDto]{}, apperrors.NewBadRequestError(msgUnknownMessageType)
		}
		q.Type = t
	}
	if search = strings.TrimSpace(search); search != "" {
		s.metrics.RecordSearch("message")
		q.Search = search
	}

	messages, total, err := s.repo.List(ctx, q)
	if err != nil {
		return dto.PageResponse[dto.MessageDto]{}, fmt.Errorf("list messages: %w", err)
	}
	page := dto.NewPageResponse(messages, q.Page, q.Size, total)
	return dto.MapPage(page, func(m models.Message) dto.MessageDto {
		return dto.NewMessageDto(&m)
	}), nil
}

func notificationStatus(err error) string {
	switch {
	case err == nil:
		return "sent"
	case errors.Is(err, email.ErrNotConfigured):
		return "skipped"
	default:
		return "failure"
	}
}
