package services

import (
	"github.com/institut/vitrine/internal/app/repositories"
	"github.com/institut/vitrine/internal/metrics"
	"github.com/institut/vitrine/internal/pkg/email"
)

// Services defined in this package:
// - FormationService: public catalog, admin listing and formation CRUD
// - GalleryService: public gallery, admin listing and image CRUD
// - MessageService: pre-inscriptions, contact messages and their admin listing
// - NewsletterService: newsletter subscriptions
type Services struct {
	FormationService  *FormationService
	GalleryService    *GalleryService
	MessageService    *MessageService
	NewsletterService *NewsletterService
}

// NewServices wires every service on top of the repositories
func NewServices(repos *repositories.Repositories, m *metrics.Metrics, notifier email.Notifier) *Services {
	return &Services{
		FormationService:  NewFormationService(repos.FormationRepository, m),
		GalleryService:    NewGalleryService(repos.GalleryRepository, repos.FormationRepository, m),
		MessageService:    NewMessageService(repos.MessageRepository, repos.FormationRepository, notifier, m),
		NewsletterService: NewNewsletterService(repos.NewsletterRepository, notifier, m),
	}
}
