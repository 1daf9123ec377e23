package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/app/repositories/memory"
	"github.com/institut/vitrine/internal/pkg/apperrors"
	"github.com/institut/vitrine/internal/pkg/helpers"
)

type galleryFixture struct {
	gallery    *GalleryService
	formations *FormationService
}

func newGalleryFixture(t *testing.T) galleryFixture {
	t.Helper()
	store := memory.New()
	return galleryFixture{
		gallery:    NewGalleryService(store.Gallery(), store.Formations(), nil),
		formations: NewFormationService(store.Formations(), nil),
	}
}

func imagePayload(titre, categorie string, public bool) dto.GalleryImageRequest {
	req := dto.NewGalleryImageRequest()
	req.Titre = titre
	req.URL = "https://res.cloudinary.com/demo/image/upload/" + helpers.Slugify(titre, 0) + ".jpg"
	req.Categorie = categorie
	req.IsPublic = dto.BoolPtr(public)
	return req
}

func TestGalleryCreateNormalizesCategory(t *testing.T) {
	fx := newGalleryFixture(t)

	img, err := fx.gallery.Create(context.Background(), imagePayload("Gala", "evenement", true))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryEvenement, img.Categorie)
	assert.True(t, img.IsPublic)
	assert.NotZero(t, img.ID)

	_, err = fx.gallery.Create(context.Background(), imagePayload("Gala", "concert", true))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	missing := imagePayload("", "FORMATION", true)
	missing.URL = ""
	_, err = fx.gallery.Create(context.Background(), missing)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Len(t, apperrors.FieldsOf(err), 2)
}

func TestGalleryLinkedFormation(t *testing.T) {
	fx := newGalleryFixture(t)
	ctx := context.Background()

	formation, err := fx.formations.Create(ctx, newFormationPayload("Couture", "Mode"), "awa")
	require.NoError(t, err)

	req := imagePayload("Atelier", "FORMATION", true)
	req.FormationID = &formation.ID
	img, err := fx.gallery.Create(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, img.Formation)
	assert.Equal(t, "Couture", img.Formation.Nom)

	unknown := int64(999)
	req.FormationID = &unknown
	_, err = fx.gallery.Create(ctx, req)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "formationId", apperrors.FieldsOf(err)[0].Field)

	hidden := imagePayload("Coulisses", "FORMATION", false)
	hidden.FormationID = &formation.ID
	_, err = fx.gallery.Create(ctx, hidden)
	require.NoError(t, err)

	page, err := fx.gallery.ByFormationName(ctx, "cout", helpers.PageRequest{Page: 0, Size: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalElements)

	page, err = fx.gallery.AdminByFormationName(ctx, "cout", helpers.PageRequest{Page: 0, Size: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)
}

func TestGalleryPublicAndAdminListings(t *testing.T) {
	fx := newGalleryFixture(t)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		_, err := fx.gallery.Create(ctx, imagePayload(fmt.Sprintf("Photo %d", i), "INSTITUT", true))
		require.NoError(t, err)
	}
	_, err := fx.gallery.Create(ctx, imagePayload("Brouillon", "EVENEMENT", false))
	require.NoError(t, err)

	home, err := fx.gallery.HomeImages(ctx)
	require.NoError(t, err)
	assert.Len(t, home, HomeImagesLimit)
	assert.Equal(t, "Photo 10", home[0].Titre)

	public, err := fx.gallery.ListPublic(ctx, helpers.PageRequest{Page: 0, Size: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 11, public.TotalElements)

	admin, err := fx.gallery.ListAll(ctx, helpers.PageRequest{Page: 0, Size: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 12, admin.TotalElements)
	assert.Equal(t, "Brouillon", admin.Content[0].Titre)

	events, err := fx.gallery.ByCategory(ctx, "evenement", helpers.PageRequest{Page: 0, Size: 12})
	require.NoError(t, err)
	assert.True(t, events.Empty, "private images never appear in public filters")

	all, err := fx.gallery.ByCategory(ctx, "all", helpers.PageRequest{Page: 0, Size: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 11, all.TotalElements)

	_, err = fx.gallery.ByCategory(ctx, "concert", helpers.PageRequest{Page: 0, Size: 12})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCategory)

	adminEvents, err := fx.gallery.AdminByCategory(ctx, "evenement", helpers.PageRequest{Page: 0, Size: 12})
	require.NoError(t, err)
	require.Len(t, adminEvents.Content, 1)
	assert.Equal(t, "Brouillon", adminEvents.Content[0].Titre)

	adminAll, err := fx.gallery.AdminByCategory(ctx, "all", helpers.PageRequest{Page: 0, Size: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 12, adminAll.TotalElements)

	_, err = fx.gallery.AdminByCategory(ctx, "concert", helpers.PageRequest{Page: 0, Size: 12})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCategory)
}

func TestGalleryUpdateAndDelete(t *testing.T) {
	fx := newGalleryFixture(t)
	ctx := context.Background()

	img, err := fx.gallery.Create(ctx, imagePayload("Gala", "EVENEMENT", true))
	require.NoError(t, err)

	edit := imagePayload("Gala 2025", "INSTITUT", false)
	edit.URL = img.URL
	updated, err := fx.gallery.Update(ctx, img.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Gala 2025", updated.Titre)
	assert.Equal(t, models.CategoryInstitut, updated.Categorie)
	assert.False(t, updated.IsPublic)
	assert.Equal(t, img.URL, updated.URL)
	assert.Equal(t, img.DateCreation, updated.DateCreation)

	require.NoError(t, fx.gallery.Delete(ctx, img.ID))
	_, err = fx.gallery.Get(ctx, img.ID)
	assert.ErrorIs(t, err, apperrors.ErrGalleryImageNotFound)
	assert.ErrorIs(t, fx.gallery.Delete(ctx, img.ID), apperrors.ErrGalleryImageNotFound)

	_, err = fx.gallery.Update(ctx, img.ID, edit)
	assert.ErrorIs(t, err, apperrors.ErrGalleryImageNotFound)
}
