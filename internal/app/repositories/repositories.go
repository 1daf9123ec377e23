package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/institut/vitrine/internal/app/models"
)

// Repository errors
var (
	ErrFormationNotFound    = errors.New("formation not found")
	ErrSlugTaken            = errors.New("formation slug already taken")
	ErrGalleryImageNotFound = errors.New("gallery image not found")
	ErrConstraintViolation  = errors.New("row violates a table constraint")
	ErrAlreadySubscribed    = errors.New("email already subscribed to the newsletter")
)

// FormationQuery selects one page of formations.
type FormationQuery struct {
	Page       int
	Size       int
	SortBy     string
	SortOrder  string
	Search     string // matched against nom and categorie
	Categorie  string // exact, case-insensitive; empty means any
	Visibility models.Visibility
}

// GalleryQuery selects one page of gallery images, newest first.
type GalleryQuery struct {
	Page          int
	Size          int
	PublicOnly    bool
	Category      models.GalleryCategory // empty means any
	FormationName string                 // partial, case-insensitive match on the linked formation
}

// MessageQuery selects one page of messages, newest first.
type MessageQuery struct {
	Page   int
	Size   int
	Type   models.MessageType // empty means any
	Search string             // matched against nom, email, sujet and formation name
}

// FormationStore persists formations. Logically deleted rows are invisible to every read.
type FormationStore interface {
	List(ctx context.Context, q FormationQuery) ([]models.Formation, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Formation, error)
	GetBySlug(ctx context.Context, slug string) (*models.Formation, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, f *models.Formation) error
	Update(ctx context.Context, f *models.Formation) error
	SoftDelete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	Selection(ctx context.Context) ([]models.FormationRef, error)
}

// GalleryStore persists gallery images.
type GalleryStore interface {
	List(ctx context.Context, q GalleryQuery) ([]models.GalleryImage, int64, error)
	Latest(ctx context.Context, limit int, publicOnly bool) ([]models.GalleryImage, error)
	GetByID(ctx context.Context, id int64) (*models.GalleryImage, error)
	Create(ctx context.Context, img *models.GalleryImage) error
	Update(ctx context.Context, img *models.GalleryImage) error
	Delete(ctx context.Context, id int64) error
}

// MessageStore persists visitor messages. They are never edited.
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	List(ctx context.Context, q MessageQuery) ([]models.Message, int64, error)
}

// NewsletterStore persists newsletter subscriptions; an address subscribes once.
type NewsletterStore interface {
	// Subscribe returns ErrAlreadySubscribed when the address is already listed.
	Subscribe(ctx context.Context, s *models.NewsletterSubscriber) error
	Count(ctx context.Context) (int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	FormationRepository  FormationStore
	GalleryRepository    GalleryStore
	MessageRepository    MessageStore
	NewsletterRepository NewsletterStore
}

// NewRepositories initializes the PostgreSQL-backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		FormationRepository:  NewFormationRepository(db),
		GalleryRepository:    NewGalleryRepository(db),
		MessageRepository:    NewMessageRepository(db),
		NewsletterRepository: NewNewsletterRepository(db),
	}
}
