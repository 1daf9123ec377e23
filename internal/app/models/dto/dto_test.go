package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institut/vitrine/internal/app/models"
)

func TestNewPageResponse(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		page      int
		size      int
		total     int64
		wantPages int
		wantFirst bool
		wantLast  bool
	}{
		{"first of three", 9, 0, 9, 25, 3, true, false},
		{"last of three", 7, 2, 9, 25, 3, false, true},
		{"empty collection", 0, 0, 9, 0, 0, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageResponse(make([]int, tt.count), tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantFirst, p.First)
			assert.Equal(t, tt.wantLast, p.Last)
			assert.Equal(t, tt.count == 0, p.Empty)
			assert.LessOrEqual(t, len(p.Content), tt.size)
		})
	}
}

func TestEnvelopeShape(t *testing.T) {
	ok := NewSuccessResponse(http.StatusOK, "ok", []string{"a"})
	raw, err := json.Marshal(ok)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, true, m["success"])
	assert.Equal(t, "OK", m["status"])
	assert.EqualValues(t, 200, m["statusCode"])
	assert.Contains(t, m, "data")
	assert.Contains(t, m, "timestamp")

	failed := NewErrorResponse(http.StatusNotFound, ErrorCodeResourceNotFound, "Formation introuvable")
	raw, err = json.Marshal(failed)
	require.NoError(t, err)
	m = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, false, m["success"])
	assert.Equal(t, "NOT_FOUND", m["status"])
	assert.Equal(t, "RES_001", m["error"])
	assert.NotContains(t, m, "data")
}

func TestUpdateDtoAppliesOnlyProvidedFields(t *testing.T) {
	f := &models.Formation{Nom: "Couture", Prix: 10000, NombrePlaces: 15, Active: false, PhotosGalerie: []string{"a"}}
	active := true

	FormationUpdateDto{Active: &active}.ApplyTo(f)

	assert.True(t, f.Active)
	assert.Equal(t, "Couture", f.Nom)
	assert.Equal(t, 10000.0, f.Prix)
	assert.Equal(t, 15, f.NombrePlaces)
	assert.Equal(t, []string{"a"}, f.PhotosGalerie)
}

func TestUpdateDtoSerializesOnlySetFields(t *testing.T) {
	active := true
	raw, err := json.Marshal(FormationUpdateDto{Active: &active})
	require.NoError(t, err)
	assert.JSONEq(t, `{"active":true}`, string(raw))
	assert.True(t, FormationUpdateDto{}.IsEmpty())
}

func TestCreateDtoDefaults(t *testing.T) {
	d := NewFormationCreateDto()
	assert.True(t, d.CertificatDelivre)
	assert.Equal(t, 15, d.NombrePlaces)
	assert.False(t, d.EnPromotion)
	assert.True(t, d.ToModel().Active)

	d.Active = nil
	assert.True(t, d.ToModel().Active, "omitted active defaults to true")
}

func TestFormationDetailDtoDerivedFields(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := now.Add(72 * time.Hour)
	f := &models.Formation{
		ID: 1, Nom: "Couture", Prix: 15000, EnPromotion: true, PourcentageReduction: 20,
		DateFinPromo: &end, NombrePlaces: 10, NombreInscritsAffiche: 4,
	}

	d := NewFormationDetailDto(f, now)
	require.NotNil(t, d.PrixAvecReduction)
	assert.Equal(t, 12000.0, *d.PrixAvecReduction)
	assert.True(t, d.PromoActive)
	require.NotNil(t, d.JoursRestantsPromo)
	assert.Equal(t, 3, *d.JoursRestantsPromo)
	assert.Equal(t, 6, d.PlacesRestantes)
	assert.Equal(t, 40, d.TauxRemplissage)
	assert.NotNil(t, d.PhotosGalerie)
}

func TestGalleryRequestApplyTo(t *testing.T) {
	img := &models.GalleryImage{ID: 3, Formation: &models.FormationRef{ID: 1}}
	req := NewGalleryImageRequest()
	req.Titre = "Atelier"
	req.URL = "https://cdn.example/a.jpg"
	req.Categorie = "institut"

	req.ApplyTo(img)
	assert.Equal(t, models.CategoryInstitut, img.Categorie)
	assert.True(t, img.IsPublic)
	assert.Nil(t, img.Formation)
	assert.Equal(t, int64(3), img.ID)
}
