package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/bootstrap"
	"github.com/institut/vitrine/internal/config"
)

// newCatalogServer runs the real router on the in-memory store.
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.Server.StoragePath = t.TempDir()
	cfg.Database.Driver = config.DriverMemory
	cfg.Database.Seed = false
	cfg.RateLimit.Enabled = false
	cfg.Metrics.Enabled = false

	ctx := context.Background()
	repos, database, err := bootstrap.SetupDatabase(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	deps, err := bootstrap.BuildDependencies(ctx, cfg, repos, database, zerolog.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(bootstrap.SetupRouter(cfg, deps, zerolog.Nop()))
	t.Cleanup(func() {
		srv.Close()
		deps.Close()
	})
	return srv
}

func newTestClient(t *testing.T) *Client {
	srv := newCatalogServer(t)
	return New(srv.URL+"/api/v1", WithAdminUser("awa"))
}

func draft(nom, categorie string) dto.FormationCreateDto {
	d := dto.NewFormationCreateDto()
	d.Nom = nom
	d.Description = "Une formation complète et pratique."
	d.Duree = "3 mois"
	d.FraisInscription = 5000
	d.Prix = 45000
	d.Categorie = categorie
	return d
}

func TestFormationsRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	f := c.Formations()

	created, err := f.Create(ctx, draft("Pâtisserie française", "Cuisine"))
	require.NoError(t, err)
	require.NotNil(t, created.Data)
	assert.Equal(t, "Formation créée avec succès !", created.Message)
	assert.Equal(t, "awa", created.Data.AdminCreateur)

	_, err = f.Create(ctx, draft("Coiffure afro", "Beauté"))
	require.NoError(t, err)

	page, err := f.ListPage(ctx, PageRequest{Page: 0, Size: 9})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)

	filtered, err := f.FilterByCategory(ctx, "Cuisine", PageRequest{Size: 9})
	require.NoError(t, err)
	require.Len(t, filtered.Content, 1)
	assert.Equal(t, "patisserie-francaise", filtered.Content[0].Slug)

	all, err := f.FilterByCategory(ctx, "ALL", PageRequest{Size: 9})
	require.NoError(t, err)
	assert.Len(t, all.Content, 2)

	found, err := f.SearchPage(ctx, "coiffure", PageRequest{Size: 9})
	require.NoError(t, err)
	require.Len(t, found.Content, 1)
	assert.Equal(t, "Coiffure afro", found.Content[0].Nom)

	blank, err := f.SearchPage(ctx, "   ", PageRequest{Size: 9})
	require.NoError(t, err)
	assert.Len(t, blank.Content, 2)

	detail, err := f.GetBySlug(ctx, "patisserie-francaise")
	require.NoError(t, err)
	assert.Equal(t, created.Data.ID, detail.ID)

	selection, err := f.Selection(ctx)
	require.NoError(t, err)
	assert.Len(t, selection, 2)
}

func TestFormationsPartialUpdateAndReactivate(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	f := c.Formations()

	created, err := f.Create(ctx, draft("Pâtisserie française", "Cuisine"))
	require.NoError(t, err)
	id := created.Data.ID

	prix := 39000.0
	updated, err := f.Update(ctx, id, dto.FormationUpdateDto{Prix: &prix, Active: dto.BoolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, prix, updated.Data.Prix)
	assert.Equal(t, created.Data.Description, updated.Data.Description)
	assert.False(t, updated.Data.Active)

	_, err = f.GetBySlug(ctx, "patisserie-francaise")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	inactive, err := c.AdminFormations().FilterByCategory(ctx, "inactive", PageRequest{Size: 20})
	require.NoError(t, err)
	require.Len(t, inactive.Content, 1)

	reactivated, err := f.Reactivate(ctx, id)
	require.NoError(t, err)
	assert.True(t, reactivated.Data.Active)
	assert.Equal(t, prix, reactivated.Data.Prix)

	_, err = f.Delete(ctx, id)
	require.NoError(t, err)
	_, err = f.GetByID(ctx, id)
	assert.True(t, IsNotFound(err))
}

func TestValidationFailureCarriesFields(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Formations().Create(context.Background(), dto.FormationCreateDto{Nom: "ab"})
	require.Error(t, err)

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, http.StatusBadRequest, tErr.StatusCode)
	assert.Equal(t, dto.ErrorCodeValidationFailed, tErr.Code)
	assert.NotEmpty(t, tErr.Message)
	assert.NotEmpty(t, FieldErrorsOf(err))
}

func TestGalleryNormalizesUnwrappedPages(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	g := c.Gallery()

	private := false
	_, err := g.Create(ctx, dto.GalleryImageRequest{Titre: "Gala", URL: "https://example.com/gala.jpg", Categorie: "EVENEMENT"})
	require.NoError(t, err)
	_, err = g.Create(ctx, dto.GalleryImageRequest{Titre: "Atelier", URL: "https://example.com/atelier.jpg", Categorie: "INSTITUT", IsPublic: &private})
	require.NoError(t, err)

	page, err := g.ListPage(ctx, PageRequest{Size: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalElements)
	assert.Equal(t, 1, page.NumberOfElements)

	admin, err := c.AdminGallery().ListPage(ctx, PageRequest{Size: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 2, admin.TotalElements)

	byCat, err := g.FilterByCategory(ctx, "evenement", PageRequest{Size: 12})
	require.NoError(t, err)
	require.Len(t, byCat.Content, 1)
	assert.Equal(t, "Gala", byCat.Content[0].Titre)

	none, err := g.SearchPage(ctx, "inexistante", PageRequest{Size: 12})
	require.NoError(t, err)
	assert.NotNil(t, none.Content)
	assert.True(t, none.Empty)
	assert.Equal(t, 0, none.TotalPages)

	home, err := g.HomeImages(ctx)
	require.NoError(t, err)
	assert.Len(t, home, 1)

	_, err = g.FilterByCategory(ctx, "bogus", PageRequest{Size: 12})
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, http.StatusBadRequest, tErr.StatusCode)
}

func TestAdminGallerySearchAndFilterKeepPrivateImages(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	formation, err := c.Formations().Create(ctx, draft("Couture moderne", "Mode"))
	require.NoError(t, err)

	private := false
	_, err = c.Gallery().Create(ctx, dto.GalleryImageRequest{
		Titre: "Atelier fermé", URL: "https://example.com/atelier.jpg", Categorie: "FORMATION",
		IsPublic: &private, FormationID: &formation.Data.ID,
	})
	require.NoError(t, err)

	public, err := c.Gallery().SearchPage(ctx, "couture", PageRequest{Size: 12})
	require.NoError(t, err)
	assert.True(t, public.Empty)

	found, err := c.AdminGallery().SearchPage(ctx, "couture", PageRequest{Size: 12})
	require.NoError(t, err)
	require.Len(t, found.Content, 1)
	assert.Equal(t, "Atelier fermé", found.Content[0].Titre)

	filtered, err := c.AdminGallery().FilterByCategory(ctx, "formation", PageRequest{Size: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 1, filtered.TotalElements)

	publicFiltered, err := c.Gallery().FilterByCategory(ctx, "formation", PageRequest{Size: 12})
	require.NoError(t, err)
	assert.True(t, publicFiltered.Empty)
}

func TestNetworkFailureHasStatusZero(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(base).Formations().ListPage(context.Background(), PageRequest{Size: 9})
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.True(t, tErr.IsNetwork())
	assert.False(t, IsNotFound(err))
}

func TestEnvelopeShapes(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admin", r.Header.Get(AdminUserHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithAdminUser("admin"))

	body = `{"success":false,"message":"Formation non trouvée.","error":"RES_001","statusCode":404}`
	_, err := c.Formations().ListPage(context.Background(), PageRequest{Size: 9})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Formation non trouvée.", apiErr.Message)
	assert.True(t, IsNotFound(err))

	body = `{"success":true,"message":"ok","statusCode":200}`
	page, err := c.Formations().ListPage(context.Background(), PageRequest{Size: 9})
	require.NoError(t, err)
	assert.Nil(t, page)

	body = `not json`
	_, err = c.Formations().ListPage(context.Background(), PageRequest{Size: 9})
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, http.StatusOK, tErr.StatusCode)

	body = `{"content":null,"totalPages":0,"totalElements":0,"size":12,"number":0}`
	gp, err := c.Gallery().ListPage(context.Background(), PageRequest{Size: 12})
	require.NoError(t, err)
	assert.Equal(t, []dto.GalleryImageDto{}, gp.Content)

	raw, _ := json.Marshal(dto.NewFormationCreateDto())
	assert.Contains(t, string(raw), `"active":true`)
}

func TestPublicFormsAndInbox(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	created, err := c.Formations().Create(ctx, draft("Pâtisserie française", "Cuisine"))
	require.NoError(t, err)

	pre, err := c.Messages().PreInscription(ctx, dto.PreInscriptionRequest{
		Nom:         "Awa Diop",
		Email:       "awa@example.com",
		Message:     "Je souhaite m'inscrire.",
		FormationID: created.Data.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Votre pré-inscription a bien été enregistrée !", pre.Message)
	assert.Equal(t, "Pâtisserie française", pre.Data.FormationNom)

	contact, err := c.Messages().Contact(ctx, dto.ContactRequest{
		Nom:     "Moussa",
		Email:   "moussa@example.com",
		Sujet:   "Tarifs",
		Message: "Proposez-vous des facilités de paiement ?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Votre message a bien été envoyé !", contact.Message)

	_, err = c.Messages().Contact(ctx, dto.ContactRequest{Nom: "Moussa", Email: "moussa@example.com", Message: "court"})
	require.Error(t, err)
	assert.Equal(t, "Veuillez corriger les erreurs dans le formulaire.", MessageOf(err))
	assert.NotEmpty(t, FieldErrorsOf(err))

	inbox := c.AdminMessages()
	page, err := inbox.ListPage(ctx, PageRequest{Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Moussa", page.Content[0].Nom)

	page, err = inbox.FilterByCategory(ctx, "PRE_INSCRIPTION", PageRequest{Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Awa Diop", page.Content[0].Nom)

	page, err = inbox.SearchPage(ctx, "tarifs", PageRequest{Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalElements)

	msg, err := c.Messages().SubscribeNewsletter(ctx, dto.NewsletterSubscribeRequest{Email: "Awa@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Merci pour votre inscription à la newsletter !", msg)

	_, err = c.Messages().SubscribeNewsletter(ctx, dto.NewsletterSubscribeRequest{Email: "awa@example.com"})
	require.Error(t, err)
	assert.Equal(t, "Cet email est déjà inscrit à la newsletter.", MessageOf(err))
}
