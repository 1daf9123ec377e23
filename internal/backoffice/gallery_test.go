package backoffice

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/bootstrap"
	"github.com/institut/vitrine/internal/browse"
	"github.com/institut/vitrine/internal/client"
	"github.com/institut/vitrine/internal/config"
	"github.com/institut/vitrine/internal/pkg/assethost"
)

type fakeGalleryAPI struct {
	image   *dto.GalleryImageDto
	created []dto.GalleryImageRequest
	updated map[int64]dto.GalleryImageRequest
	err     error
}

func (g *fakeGalleryAPI) Get(_ context.Context, id int64) (*dto.GalleryImageDto, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.image, nil
}

func (g *fakeGalleryAPI) Create(_ context.Context, req dto.GalleryImageRequest) (*dto.ApiResponse[dto.GalleryImageDto], error) {
	if g.err != nil {
		return nil, g.err
	}
	g.created = append(g.created, req)
	return &dto.ApiResponse[dto.GalleryImageDto]{Success: true}, nil
}

func (g *fakeGalleryAPI) Update(_ context.Context, id int64, req dto.GalleryImageRequest) (*dto.ApiResponse[dto.GalleryImageDto], error) {
	if g.err != nil {
		return nil, g.err
	}
	if g.updated == nil {
		g.updated = map[int64]dto.GalleryImageRequest{}
	}
	g.updated[id] = req
	return &dto.ApiResponse[dto.GalleryImageDto]{Success: true}, nil
}

func (g *fakeGalleryAPI) Delete(context.Context, int64) (*dto.ApiResponse[dto.Empty], error) {
	return &dto.ApiResponse[dto.Empty]{Success: true}, g.err
}

func TestGalleryCreateRequiresFile(t *testing.T) {
	api := &fakeGalleryAPI{}
	admin := NewGalleryAdmin(api, nil, nil, &fakeUploader{})

	form := NewGalleryForm()
	form.Titre = "Gala"
	_, err := admin.Submit(context.Background(), form)
	assert.Equal(t, MsgSelectImage, MessageOf(err))
	assert.Empty(t, api.created)
}

func TestGalleryCreateUploadsAndResets(t *testing.T) {
	api, up, list := &fakeGalleryAPI{}, &fakeUploader{}, &fakeLister{}
	admin := NewGalleryAdmin(api, list, nil, up)

	form := NewGalleryForm()
	form.Titre = "Gala"
	form.Categorie = "institut"
	f := file("gala.jpg")
	form.File = &f

	msg, err := admin.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "Image ajoutée à la galerie !", msg)

	require.Len(t, api.created, 1)
	sent := api.created[0]
	assert.Equal(t, "https://cdn.test/gala.jpg", sent.URL)
	assert.Equal(t, "institue/gala.jpg", sent.Filename)
	assert.Equal(t, "INSTITUT", sent.Categorie)
	assert.True(t, *sent.IsPublic)

	assert.Equal(t, NewGalleryForm(), form)
	assert.Equal(t, 1, list.refreshes)
}

func TestGalleryEditKeepsCurrentURL(t *testing.T) {
	formationID := int64(2)
	api := &fakeGalleryAPI{image: &dto.GalleryImageDto{
		ID: 9, Titre: "Atelier", URL: "https://cdn.test/atelier.jpg", Filename: "institue/atelier",
		Categorie: models.CategoryFormation, IsPublic: false,
		Formation: &models.FormationRef{ID: formationID, Nom: "Couture", Slug: "couture"},
	}}
	up := &fakeUploader{}
	admin := NewGalleryAdmin(api, nil, nil, up)

	form, err := admin.LoadForEdit(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, form.IsEdit())
	require.NotNil(t, form.FormationID)
	assert.Equal(t, formationID, *form.FormationID)

	form.Titre = "Atelier couture"
	msg, err := admin.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "Image modifiée avec succès !", msg)
	assert.Empty(t, up.names)

	sent := api.updated[9]
	assert.Equal(t, "https://cdn.test/atelier.jpg", sent.URL)
	assert.Equal(t, "institue/atelier", sent.Filename)
	assert.Equal(t, "Atelier couture", sent.Titre)
	assert.False(t, *sent.IsPublic)
}

func TestGalleryFailures(t *testing.T) {
	admin := NewGalleryAdmin(&fakeGalleryAPI{err: errors.New("down")}, nil, nil, nil)
	_, err := admin.LoadForEdit(context.Background(), 1)
	assert.Equal(t, "Impossible de charger l'image à modifier.", MessageOf(err))

	form := NewGalleryForm()
	form.Titre = ""
	form.Categorie = "SPORT"
	_, err = admin.Submit(context.Background(), form)
	var bErr *Error
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, MsgFormInvalid, bErr.Message)
	assert.Len(t, bErr.Fields, 2)

	api := &fakeGalleryAPI{err: &client.TransportError{StatusCode: 400, Message: "url est requis"}}
	admin = NewGalleryAdmin(api, nil, nil, &fakeUploader{})
	form = NewGalleryForm()
	form.Titre = "Gala"
	f := file("gala.jpg")
	form.File = &f
	_, err = admin.Submit(context.Background(), form)
	assert.Equal(t, "Erreur lors de la création: url est requis", MessageOf(err))
	assert.Equal(t, "Gala", form.Titre)

	api.err = &client.TransportError{Err: errors.New("refused")}
	form.EditID = 4
	_, err = admin.Submit(context.Background(), form)
	assert.Equal(t, "Erreur lors de la modification: Erreur serveur", MessageOf(err))

	admin = NewGalleryAdmin(&fakeGalleryAPI{}, nil, nil, &fakeUploader{failAt: 1})
	form = NewGalleryForm()
	form.Titre = "Gala"
	form.File = &f
	_, err = admin.Submit(context.Background(), form)
	assert.Equal(t, MsgUploadFailed, MessageOf(err))

	api = &fakeGalleryAPI{}
	admin = NewGalleryAdmin(api, nil, nil, &fixedUploader{asset: &assethost.Asset{}})
	form = NewGalleryForm()
	form.Titre = "Gala"
	form.File = &f
	_, err = admin.Submit(context.Background(), form)
	assert.Equal(t, MsgUploadFailed, MessageOf(err))
	assert.Empty(t, api.created)
}

// The whole admin loop against the real server: deleting the only formation
// of the last page brings the listing back to the previous page.
func TestDeleteLastItemOfLastPageAgainstServer(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.Server.StoragePath = t.TempDir()
	cfg.Database.Driver = config.DriverMemory
	cfg.Database.Seed = false
	cfg.RateLimit.Enabled = false

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

	api := client.New(srv.URL+"/api/v1", client.WithAdminUser("awa")).AdminFormations()
	list := browse.New[dto.FormationAdminDto](api, browse.Options[dto.FormationAdminDto]{PageSize: 2})
	confirm, _ := answer(true)
	admin := NewFormationAdmin(api, list, confirm, nil)

	for _, nom := range []string{"Couture", "Coiffure", "Cuisine"} {
		form := validForm()
		form.Draft.Nom = nom
		_, err := admin.Create(ctx, form)
		require.NoError(t, err)
	}

	list.Mount(ctx)
	require.Equal(t, 2, list.State().TotalPages)
	require.True(t, list.GoToPage(ctx, 1))
	last := list.State().Items
	require.Len(t, last, 1)

	deleted, err := admin.Delete(ctx, last[0].ID)
	require.NoError(t, err)
	require.True(t, deleted)

	s := list.State()
	assert.Equal(t, 0, s.PageNumber)
	assert.Equal(t, 1, s.TotalPages)
	assert.Len(t, s.Items, 2)

	require.NoError(t, admin.Reactivate(ctx, s.Items[0].ID))
	assert.True(t, admin.ToggleInactiveOnly(ctx))
	assert.Empty(t, list.State().Items)
}
