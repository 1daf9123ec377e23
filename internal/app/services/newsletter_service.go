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
	"github.com/institut/vitrine/internal/pkg/logger"
	"github.com/institut/vitrine/internal/pkg/validation"
)

const (
	MsgNewsletterSubscribed = "Merci pour votre inscription à la newsletter !"
	msgAlreadySubscribed    = "Cet email est déjà inscrit à la newsletter."
	msgInvalidSubscription  = "Veuillez saisir une adresse email valide."
)

// NewsletterService manages newsletter subscriptions
type NewsletterService struct {
	repo     repositories.NewsletterStore
	notifier email.Notifier
	metrics  *metrics.Metrics
}

// NewNewsletterService creates a new newsletter service instance; notifier may be nil
func NewNewsletterService(repo repositories.NewsletterStore, notifier email.Notifier, m *metrics.Metrics) *NewsletterService {
	return &NewsletterService{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
	}
}

// Subscribe adds the address to the list and sends a welcome mail
func (s *NewsletterService) Subscribe(ctx context.Context, req dto.NewsletterSubscribeRequest) (string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Nom = strings.TrimSpace(req.Nom)
	if fields := validation.Struct(req); len(fields) > 0 {
		return "", apperrors.NewValidationError(msgInvalidSubscription, fields)
	}

	sub := &models.NewsletterSubscriber{Email: req.Email, Nom: req.Nom}
	if err := s.repo.Subscribe(ctx, sub); err != nil {
		if errors.Is(err, repositories.ErrAlreadySubscribed) {
			return "", apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, msgAlreadySubscribed)
		}
		return "", fmt.Errorf("subscribe to newsletter: %w", err)
	}

	s.metrics.RecordMutation("newsletter", "create")
	logger.Info().Int64("id", sub.ID).Msg("Newsletter subscription added")

	if s.notifier != nil {
		err := s.notifier.SendNewsletterWelcome(context.WithoutCancel(ctx), sub.Email, sub.Nom)
		s.metrics.RecordNotification("newsletter", notificationStatus(err))
		if err != nil && !errors.Is(err, email.ErrNotConfigured) {
			logger.Warn().Err(err).Int64("id", sub.ID).Msg("Welcome mail failed")
		}
	}
	return MsgNewsletterSubscribed, nil
}

// Count returns the number of subscribers
func (s *NewsletterService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count newsletter subscribers: %w", err)
	}
	return n, nil
}
