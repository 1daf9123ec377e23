// Package memory keeps the catalog in process memory. It backs the "memory"
// database driver and the service and HTTP tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/app/repositories"
	"github.com/institut/vitrine/internal/pkg/helpers"
)

// Store holds the catalog behind one lock so gallery reads can resolve
// their formation reference.
type Store struct {
	mu            sync.RWMutex
	formations    map[int64]*models.Formation
	images        map[int64]*models.GalleryImage
	messages      []models.Message
	subscribers   map[string]models.NewsletterSubscriber
	nextFormID    int64
	nextImageID   int64
	nextMessageID int64
	nextSubID     int64
	now           func() time.Time
}

// New returns an empty store
func New() *Store {
	return &Store{
		formations:  map[int64]*models.Formation{},
		images:      map[int64]*models.GalleryImage{},
		subscribers: map[string]models.NewsletterSubscriber{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositories exposes the store through the repository container
func NewRepositories() *repositories.Repositories {
	s := New()
	return &repositories.Repositories{
		FormationRepository:  s.Formations(),
		GalleryRepository:    s.Gallery(),
		MessageRepository:    s.Messages(),
		NewsletterRepository: s.Newsletter(),
	}
}

// Formations returns the formation view of the store
func (s *Store) Formations() *FormationStore { return &FormationStore{s: s} }

// Gallery returns the gallery view of the store
func (s *Store) Gallery() *GalleryStore { return &GalleryStore{s: s} }

// Messages returns the visitor message view of the store
func (s *Store) Messages() *MessageStore { return &MessageStore{s: s} }

// Newsletter returns the newsletter view of the store
func (s *Store) Newsletter() *NewsletterStore { return &NewsletterStore{s: s} }

// SetClock replaces the clock used for generated timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func cloneFormation(f *models.Formation) models.Formation {
	c := *f
	c.PhotosGalerie = append([]string(nil), f.PhotosGalerie...)
	if c.PhotosGalerie == nil {
		c.PhotosGalerie = []string{}
	}
	return c
}

func page[T any](items []T, p, size int) []T {
	start, end := helpers.CalculateSliceIndices(p, size, len(items))
	return append([]T{}, items[start:end]...)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// FormationStore implements repositories.FormationStore
type FormationStore struct{ s *Store }

var _ repositories.FormationStore = (*FormationStore)(nil)

func (fs *FormationStore) matches(f *models.Formation, q repositories.FormationQuery) bool {
	if f.Deleted() {
		return false
	}
	switch q.Visibility {
	case models.VisibilityPublic, models.VisibilityActive:
		if !f.Active {
			return false
		}
	case models.VisibilityInactive:
		if f.Active {
			return false
		}
	}
	if s := strings.TrimSpace(q.Search); s != "" && !containsFold(f.Nom, s) && !containsFold(f.Categorie, s) {
		return false
	}
	if c := strings.TrimSpace(q.Categorie); c != "" && !strings.EqualFold(f.Categorie, c) {
		return false
	}
	return true
}

func formationLess(sortBy string, asc bool) func(a, b *models.Formation) bool {
	return func(a, b *models.Formation) bool {
		var less, equal bool
		switch sortBy {
		case "nom":
			less, equal = a.Nom < b.Nom, a.Nom == b.Nom
		case "prix":
			less, equal = a.Prix < b.Prix, a.Prix == b.Prix
		case "categorie":
			less, equal = a.Categorie < b.Categorie, a.Categorie == b.Categorie
		case "nombreVues":
			less, equal = a.NombreVues < b.NombreVues, a.NombreVues == b.NombreVues
		case "dateModification":
			less, equal = a.DateModification.Before(b.DateModification), a.DateModification.Equal(b.DateModification)
		default:
			less, equal = a.DateCreation.Before(b.DateCreation), a.DateCreation.Equal(b.DateCreation)
		}
		if equal {
			return a.ID > b.ID
		}
		if asc {
			return less
		}
		return !less
	}
}

func (fs *FormationStore) List(_ context.Context, q repositories.FormationQuery) ([]models.Formation, int64, error) {
	fs.s.mu.RLock()
	defer fs.s.mu.RUnlock()

	matched := make([]*models.Formation, 0, len(fs.s.formations))
	for _, f := range fs.s.formations {
		if fs.matches(f, q) {
			matched = append(matched, f)
		}
	}
	less := formationLess(q.SortBy, q.SortOrder == "asc")
	sort.Slice(matched, func(i, j int) bool { return less(matched[i], matched[j]) })

	out := make([]models.Formation, 0, q.Size)
	for _, f := range page(matched, q.Page, q.Size) {
		out = append(out, cloneFormation(f))
	}
	return out, int64(len(matched)), nil
}

func (fs *FormationStore) find(pred func(*models.Formation) bool) (*models.Formation, error) {
	fs.s.mu.RLock()
	defer fs.s.mu.RUnlock()
	for _, f := range fs.s.formations {
		if !f.Deleted() && pred(f) {
			c := cloneFormation(f)
			return &c, nil
		}
	}
	return nil, repositories.ErrFormationNotFound
}

func (fs *FormationStore) GetByID(_ context.Context, id int64) (*models.Formation, error) {
	return fs.find(func(f *models.Formation) bool { return f.ID == id })
}

func (fs *FormationStore) GetBySlug(_ context.Context, slug string) (*models.Formation, error) {
	return fs.find(func(f *models.Formation) bool { return f.Slug == slug })
}

func (fs *FormationStore) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	fs.s.mu.RLock()
	defer fs.s.mu.RUnlock()
	return fs.slugTaken(slug, excludeID), nil
}

func (fs *FormationStore) slugTaken(slug string, excludeID int64) bool {
	for _, f := range fs.s.formations {
		if f.Slug == slug && f.ID != excludeID {
			return true
		}
	}
	return false
}

func (fs *FormationStore) Create(_ context.Context, f *models.Formation) error {
	fs.s.mu.Lock()
	defer fs.s.mu.Unlock()

	if fs.slugTaken(f.Slug, 0) {
		return repositories.ErrSlugTaken
	}
	fs.s.nextFormID++
	now := fs.s.now()
	f.ID = fs.s.nextFormID
	f.DateCreation, f.DateModification = now, now
	if f.PhotosGalerie == nil {
		f.PhotosGalerie = []string{}
	}
	c := cloneFormation(f)
	fs.s.formations[f.ID] = &c
	return nil
}

func (fs *FormationStore) Update(_ context.Context, f *models.Formation) error {
	fs.s.mu.Lock()
	defer fs.s.mu.Unlock()

	current, ok := fs.s.formations[f.ID]
	if !ok || current.Deleted() {
		return repositories.ErrFormationNotFound
	}
	if fs.slugTaken(f.Slug, f.ID) {
		return repositories.ErrSlugTaken
	}
	f.DateModification = fs.s.now()
	c := cloneFormation(f)
	c.DateCreation = current.DateCreation
	c.AdminCreateur = current.AdminCreateur
	c.NombreVues = current.NombreVues
	fs.s.formations[f.ID] = &c
	return nil
}

func (fs *FormationStore) SoftDelete(_ context.Context, id int64) error {
	fs.s.mu.Lock()
	defer fs.s.mu.Unlock()

	f, ok := fs.s.formations[id]
	if !ok || f.Deleted() {
		return repositories.ErrFormationNotFound
	}
	now := fs.s.now()
	f.DeletedAt = &now
	f.DateModification = now
	return nil
}

func (fs *FormationStore) IncrementViews(_ context.Context, id int64) error {
	fs.s.mu.Lock()
	defer fs.s.mu.Unlock()
	if f, ok := fs.s.formations[id]; ok {
		f.NombreVues++
	}
	return nil
}

func (fs *FormationStore) Selection(_ context.Context) ([]models.FormationRef, error) {
	fs.s.mu.RLock()
	defer fs.s.mu.RUnlock()

	refs := []models.FormationRef{}
	for _, f := range fs.s.formations {
		if f.Active && !f.Deleted() {
			refs = append(refs, models.FormationRef{ID: f.ID, Nom: f.Nom, Slug: f.Slug})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Nom < refs[j].Nom })
	return refs, nil
}

// GalleryStore implements repositories.GalleryStore
type GalleryStore struct{ s *Store }

var _ repositories.GalleryStore = (*GalleryStore)(nil)

// resolve fills the formation reference the way the SQL left join does:
// a logically deleted formation still resolves.
func (gs *GalleryStore) resolve(img *models.GalleryImage) models.GalleryImage {
	c := *img
	c.Formation = nil
	if c.FormationID != nil {
		id := *c.FormationID
		c.FormationID = &id
		if f, ok := gs.s.formations[id]; ok {
			c.Formation = &models.FormationRef{ID: f.ID, Nom: f.Nom, Slug: f.Slug}
		}
	}
	return c
}

func (gs *GalleryStore) sorted(q repositories.GalleryQuery) []models.GalleryImage {
	out := []models.GalleryImage{}
	for _, img := range gs.s.images {
		if q.PublicOnly && !img.IsPublic {
			continue
		}
		if q.Category != "" && img.Categorie != q.Category {
			continue
		}
		r := gs.resolve(img)
		if name := strings.TrimSpace(q.FormationName); name != "" {
			if r.Formation == nil || !containsFold(r.Formation.Nom, name) {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateCreation.Equal(out[j].DateCreation) {
			return out[i].ID > out[j].ID
		}
		return out[i].DateCreation.After(out[j].DateCreation)
	})
	return out
}

func (gs *GalleryStore) List(_ context.Context, q repositories.GalleryQuery) ([]models.GalleryImage, int64, error) {
	gs.s.mu.RLock()
	defer gs.s.mu.RUnlock()
	all := gs.sorted(q)
	return page(all, q.Page, q.Size), int64(len(all)), nil
}

func (gs *GalleryStore) Latest(_ context.Context, limit int, publicOnly bool) ([]models.GalleryImage, error) {
	gs.s.mu.RLock()
	defer gs.s.mu.RUnlock()
	all := gs.sorted(repositories.GalleryQuery{PublicOnly: publicOnly})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (gs *GalleryStore) GetByID(_ context.Context, id int64) (*models.GalleryImage, error) {
	gs.s.mu.RLock()
	defer gs.s.mu.RUnlock()
	img, ok := gs.s.images[id]
	if !ok {
		return nil, repositories.ErrGalleryImageNotFound
	}
	r := gs.resolve(img)
	return &r, nil
}

func (gs *GalleryStore) Create(_ context.Context, img *models.GalleryImage) error {
	gs.s.mu.Lock()
	defer gs.s.mu.Unlock()
	gs.s.nextImageID++
	img.ID = gs.s.nextImageID
	img.DateCreation = gs.s.now()
	c := *img
	c.Formation = nil
	gs.s.images[img.ID] = &c
	return nil
}

func (gs *GalleryStore) Update(_ context.Context, img *models.GalleryImage) error {
	gs.s.mu.Lock()
	defer gs.s.mu.Unlock()
	current, ok := gs.s.images[img.ID]
	if !ok {
		return repositories.ErrGalleryImageNotFound
	}
	c := *img
	c.Formation = nil
	c.DateCreation = current.DateCreation
	gs.s.images[img.ID] = &c
	return nil
}

func (gs *GalleryStore) Delete(_ context.Context, id int64) error {
	gs.s.mu.Lock()
	defer gs.s.mu.Unlock()
	if _, ok := gs.s.images[id]; !ok {
		return repositories.ErrGalleryImageNotFound
	}
	delete(gs.s.images, id)
	return nil
}

// MessageStore implements repositories.MessageStore
type MessageStore struct{ s *Store }

var _ repositories.MessageStore = (*MessageStore)(nil)

func (ms *MessageStore) Create(_ context.Context, m *models.Message) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()
	ms.s.nextMessageID++
	m.ID = ms.s.nextMessageID
	m.DateCreation = ms.s.now()
	c := *m
	if m.FormationID != nil {
		id := *m.FormationID
		c.FormationID = &id
	}
	ms.s.messages = append(ms.s.messages, c)
	return nil
}

func (ms *MessageStore) List(_ context.Context, q repositories.MessageQuery) ([]models.Message, int64, error) {
	ms.s.mu.RLock()
	defer ms.s.mu.RUnlock()

	search := strings.TrimSpace(q.Search)
	matched := []models.Message{}
	// newest first: messages are appended in creation order
	for i := len(ms.s.messages) - 1; i >= 0; i-- {
		m := ms.s.messages[i]
		if q.Type != "" && m.Type != q.Type {
			continue
		}
		if search != "" && !containsFold(m.Nom, search) && !containsFold(m.Email, search) &&
			!containsFold(m.Sujet, search) && !containsFold(m.FormationNom, search) {
			continue
		}
		matched = append(matched, m)
	}
	return page(matched, q.Page, q.Size), int64(len(matched)), nil
}

// NewsletterStore implements repositories.NewsletterStore
type NewsletterStore struct{ s *Store }

var _ repositories.NewsletterStore = (*NewsletterStore)(nil)

func (ns *NewsletterStore) Subscribe(_ context.Context, sub *models.NewsletterSubscriber) error {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()
	if _, ok := ns.s.subscribers[sub.Email]; ok {
		return repositories.ErrAlreadySubscribed
	}
	ns.s.nextSubID++
	sub.ID = ns.s.nextSubID
	sub.DateInscription = ns.s.now()
	ns.s.subscribers[sub.Email] = *sub
	return nil
}

func (ns *NewsletterStore) Count(context.Context) (int64, error) {
	ns.s.mu.RLock()
	defer ns.s.mu.RUnlock()
	return int64(len(ns.s.subscribers)), nil
}
