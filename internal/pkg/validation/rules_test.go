package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Nom       string   `json:"nom" validate:"required,min=3"`
	Prix      float64  `json:"prix" validate:"required,gt=0"`
	Categorie string   `json:"categorie" validate:"oneof=FORMATION EVENEMENT INSTITUT"`
	Places    *int     `json:"nombrePlaces" validate:"omitempty,min=1"`
	Photos    []string `json:"photosGalerie" validate:"dive,url"`
}

func TestStructReportsEveryFieldByJSONName(t *testing.T) {
	zero := 0
	errs := Struct(sample{Nom: "ab", Categorie: "SPORT", Places: &zero, Photos: []string{"not a url"}})

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Message
	}
	assert.Equal(t, "nom doit contenir au moins 3 caractères", byField["nom"])
	assert.Equal(t, "prix est requis", byField["prix"])
	assert.Contains(t, byField["categorie"], "FORMATION EVENEMENT INSTITUT")
	assert.Equal(t, "nombrePlaces doit être au moins 1", byField["nombrePlaces"])
	assert.Contains(t, byField["photosGalerie[0]"], "URL")
}

func TestStructValid(t *testing.T) {
	assert.Empty(t, Struct(sample{Nom: "Couture", Prix: 10, Categorie: "INSTITUT"}))
}

type contact struct {
	Email     string `json:"email" validate:"required,email"`
	Telephone string `json:"telephone" validate:"omitempty,phone"`
}

func TestEmailAndPhoneRules(t *testing.T) {
	errs := Struct(contact{Email: "awa@", Telephone: "77-12"})
	assert.Len(t, errs, 2)
	assert.Equal(t, "email doit être une adresse email valide", errs[0].Message)
	assert.Equal(t, "telephone doit être un numéro de téléphone valide", errs[1].Message)

	assert.Empty(t, Struct(contact{Email: "awa@example.com"}))
	assert.Empty(t, Struct(contact{Email: "awa@example.com", Telephone: "+221771234567"}))
	assert.True(t, IsPhone("(33) 821-45-67"))
	assert.False(t, IsPhone("+221 77 123 45 67 89"))
	assert.False(t, IsPhone("77a1234567"))
}
