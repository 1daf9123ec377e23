package dto

import (
	"time"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/pkg/helpers"
)

// FormationListDto is the card shown in public listings
type FormationListDto struct {
	ID                    int64    `json:"id" example:"12"`
	Slug                  string   `json:"slug" example:"patisserie-francaise"`
	Nom                   string   `json:"nom" example:"Pâtisserie française"`
	Description           string   `json:"description"`
	Duree                 string   `json:"duree" example:"3 mois"`
	Categorie             string   `json:"categorie" example:"Cuisine"`
	FraisInscription      float64  `json:"fraisInscription" example:"5000"`
	Prix                  float64  `json:"prix" example:"15000"`
	PrixAvecReduction     *float64 `json:"prixAvecReduction,omitempty" example:"12000"`
	PhotoPrincipale       string   `json:"photoPrincipale,omitempty"`
	NombrePlaces          int      `json:"nombrePlaces" example:"15"`
	NombreInscritsAffiche int      `json:"nombreInscritsAffiche" example:"12"`
	PlacesRestantes       int      `json:"placesRestantes" example:"3"`
	TauxRemplissage       int      `json:"tauxRemplissage" example:"80"`
	FormationComplete     bool     `json:"formationComplete"`
	MessageSocialProof    string   `json:"messageSocialProof,omitempty"`
	EnPromotion           bool     `json:"enPromotion"`
	PourcentageReduction  float64  `json:"pourcentageReduction"`
	PromoActive           bool     `json:"promoActive"`
	CertificatDelivre     bool     `json:"certificatDelivre"`
	Active                bool     `json:"active"`
	NombreVues            int64    `json:"nombreVues"`
}

// FormationAdminDto adds the audit trail to the list card
type FormationAdminDto struct {
	FormationListDto
	AdminCreateur     string    `json:"adminCreateur,omitempty"`
	AdminModificateur string    `json:"adminModificateur,omitempty"`
	DateCreation      time.Time `json:"dateCreation"`
	DateModification  time.Time `json:"dateModification"`
}

// FormationDetailDto is the full formation, used by the detail page and the edit form
type FormationDetailDto struct {
	FormationAdminDto
	NomCertificat      string     `json:"nomCertificat,omitempty"`
	Programme          string     `json:"programme,omitempty"`
	Objectifs          string     `json:"objectifs,omitempty"`
	MaterielFourni     string     `json:"materielFourni,omitempty"`
	Horaires           string     `json:"horaires,omitempty"`
	Frequence          string     `json:"frequence,omitempty"`
	SocialProofActif   bool       `json:"socialProofActif"`
	PhotosGalerie      []string   `json:"photosGalerie"`
	DateDebutPromo     *time.Time `json:"dateDebutPromo,omitempty"`
	DateFinPromo       *time.Time `json:"dateFinPromo,omitempty"`
	JoursRestantsPromo *int       `json:"joursRestantsPromo,omitempty"`
	MetaTitle          string     `json:"metaTitle,omitempty"`
	MetaDescription    string     `json:"metaDescription,omitempty"`
}

// FormationSelectionDto is one entry of the formation pick-list
type FormationSelectionDto = models.FormationRef

// FormationCreateDto is the payload of POST /formations
type FormationCreateDto struct {
	Nom                   string     `json:"nom" validate:"required,min=3,max=200"`
	Description           string     `json:"description" validate:"required,min=10"`
	Duree                 string     `json:"duree" validate:"required,max=100"`
	FraisInscription      float64    `json:"fraisInscription" validate:"required,gt=0"`
	Prix                  float64    `json:"prix" validate:"required,gt=0"`
	Categorie             string     `json:"categorie" validate:"required,max=100"`
	CertificatDelivre     bool       `json:"certificatDelivre"`
	NomCertificat         string     `json:"nomCertificat,omitempty" validate:"max=200"`
	Programme             string     `json:"programme,omitempty"`
	Objectifs             string     `json:"objectifs,omitempty"`
	MaterielFourni        string     `json:"materielFourni,omitempty"`
	Horaires              string     `json:"horaires,omitempty" validate:"max=200"`
	Frequence             string     `json:"frequence,omitempty" validate:"max=200"`
	NombrePlaces          int        `json:"nombrePlaces" validate:"min=1"`
	NombreInscritsAffiche int        `json:"nombreInscritsAffiche" validate:"min=0"`
	SocialProofActif      bool       `json:"socialProofActif"`
	PhotoPrincipale       string     `json:"photoPrincipale,omitempty" validate:"omitempty,url"`
	PhotosGalerie         []string   `json:"photosGalerie" validate:"dive,url"`
	EnPromotion           bool       `json:"enPromotion"`
	PourcentageReduction  float64    `json:"pourcentageReduction" validate:"min=0,max=100"`
	DateDebutPromo        *time.Time `json:"dateDebutPromo,omitempty"`
	DateFinPromo          *time.Time `json:"dateFinPromo,omitempty"`
	MetaTitle             string     `json:"metaTitle,omitempty" validate:"max=200"`
	MetaDescription       string     `json:"metaDescription,omitempty" validate:"max=400"`
	Slug                  string     `json:"slug,omitempty" validate:"max=120"`
	// Active defaults to true when omitted
	Active *bool `json:"active,omitempty"`
}

// NewFormationCreateDto returns a draft holding the creation form defaults.
func NewFormationCreateDto() FormationCreateDto {
	return FormationCreateDto{
		CertificatDelivre:     true,
		NombrePlaces:          15,
		NombreInscritsAffiche: 0,
		PhotosGalerie:         []string{},
		Active:                BoolPtr(true),
	}
}

// FormationUpdateDto is the payload of PUT /formations/{id}; only non-nil fields are applied.
type FormationUpdateDto struct {
	Nom                   *string    `json:"nom,omitempty" validate:"omitempty,min=3,max=200"`
	Description           *string    `json:"description,omitempty" validate:"omitempty,min=10"`
	Duree                 *string    `json:"duree,omitempty" validate:"omitempty,min=1,max=100"`
	FraisInscription      *float64   `json:"fraisInscription,omitempty" validate:"omitempty,gt=0"`
	Prix                  *float64   `json:"prix,omitempty" validate:"omitempty,gt=0"`
	Categorie             *string    `json:"categorie,omitempty" validate:"omitempty,min=1,max=100"`
	CertificatDelivre     *bool      `json:"certificatDelivre,omitempty"`
	NomCertificat         *string    `json:"nomCertificat,omitempty" validate:"omitempty,max=200"`
	Programme             *string    `json:"programme,omitempty"`
	Objectifs             *string    `json:"objectifs,omitempty"`
	MaterielFourni        *string    `json:"materielFourni,omitempty"`
	Horaires              *string    `json:"horaires,omitempty" validate:"omitempty,max=200"`
	Frequence             *string    `json:"frequence,omitempty" validate:"omitempty,max=200"`
	NombrePlaces          *int       `json:"nombrePlaces,omitempty" validate:"omitempty,min=1"`
	NombreInscritsAffiche *int       `json:"nombreInscritsAffiche,omitempty" validate:"omitempty,min=0"`
	SocialProofActif      *bool      `json:"socialProofActif,omitempty"`
	PhotoPrincipale       *string    `json:"photoPrincipale,omitempty" validate:"omitempty,url"`
	PhotosGalerie         *[]string  `json:"photosGalerie,omitempty" validate:"omitempty,dive,url"`
	EnPromotion           *bool      `json:"enPromotion,omitempty"`
	PourcentageReduction  *float64   `json:"pourcentageReduction,omitempty" validate:"omitempty,min=0,max=100"`
	DateDebutPromo        *time.Time `json:"dateDebutPromo,omitempty"`
	DateFinPromo          *time.Time `json:"dateFinPromo,omitempty"`
	MetaTitle             *string    `json:"metaTitle,omitempty" validate:"omitempty,max=200"`
	MetaDescription       *string    `json:"metaDescription,omitempty" validate:"omitempty,max=400"`
	Slug                  *string    `json:"slug,omitempty" validate:"omitempty,min=1,max=120"`
	Active                *bool      `json:"active,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u FormationUpdateDto) IsEmpty() bool {
	return u == FormationUpdateDto{}
}

// NewFormationListDto projects a formation onto its listing card at time now.
func NewFormationListDto(f *models.Formation, now time.Time) FormationListDto {
	return FormationListDto{
		ID:                    f.ID,
		Slug:                  f.Slug,
		Nom:                   f.Nom,
		Description:           f.Description,
		Duree:                 f.Duree,
		Categorie:             f.Categorie,
		FraisInscription:      f.FraisInscription,
		Prix:                  f.Prix,
		PrixAvecReduction:     f.PrixAvecReduction(now),
		PhotoPrincipale:       f.PhotoPrincipale,
		NombrePlaces:          f.NombrePlaces,
		NombreInscritsAffiche: f.NombreInscritsAffiche,
		PlacesRestantes:       f.PlacesRestantes(),
		TauxRemplissage:       f.TauxRemplissage(),
		FormationComplete:     f.Complete(),
		MessageSocialProof:    f.MessageSocialProof(),
		EnPromotion:           f.EnPromotion,
		PourcentageReduction:  f.PourcentageReduction,
		PromoActive:           f.PromoActive(now),
		CertificatDelivre:     f.CertificatDelivre,
		Active:                f.Active,
		NombreVues:            f.NombreVues,
	}
}

func NewFormationAdminDto(f *models.Formation, now time.Time) FormationAdminDto {
	return FormationAdminDto{
		FormationListDto:  NewFormationListDto(f, now),
		AdminCreateur:     f.AdminCreateur,
		AdminModificateur: f.AdminModificateur,
		DateCreation:      f.DateCreation,
		DateModification:  f.DateModification,
	}
}

func NewFormationDetailDto(f *models.Formation, now time.Time) FormationDetailDto {
	photos := f.PhotosGalerie
	if photos == nil {
		photos = []string{}
	}
	d := FormationDetailDto{
		FormationAdminDto: NewFormationAdminDto(f, now),
		NomCertificat:     f.NomCertificat,
		Programme:         f.Programme,
		Objectifs:         f.Objectifs,
		MaterielFourni:    f.MaterielFourni,
		Horaires:          f.Horaires,
		Frequence:         f.Frequence,
		SocialProofActif:  f.SocialProofActif,
		PhotosGalerie:     photos,
		DateDebutPromo:    f.DateDebutPromo,
		DateFinPromo:      f.DateFinPromo,
		MetaTitle:         f.MetaTitle,
		MetaDescription:   f.MetaDescription,
	}
	if f.PromoActive(now) && f.DateFinPromo != nil {
		days := helpers.DaysUntil(now, *f.DateFinPromo)
		d.JoursRestantsPromo = &days
	}
	return d
}

// ToModel builds a new formation from the creation payload.
func (c FormationCreateDto) ToModel() *models.Formation {
	photos := append([]string(nil), c.PhotosGalerie...)
	active := c.Active == nil || *c.Active
	return &models.Formation{
		Slug:                  c.Slug,
		Nom:                   c.Nom,
		Description:           c.Description,
		Duree:                 c.Duree,
		Categorie:             c.Categorie,
		FraisInscription:      c.FraisInscription,
		Prix:                  c.Prix,
		CertificatDelivre:     c.CertificatDelivre,
		NomCertificat:         c.NomCertificat,
		Programme:             c.Programme,
		Objectifs:             c.Objectifs,
		MaterielFourni:        c.MaterielFourni,
		Horaires:              c.Horaires,
		Frequence:             c.Frequence,
		NombrePlaces:          c.NombrePlaces,
		NombreInscritsAffiche: c.NombreInscritsAffiche,
		SocialProofActif:      c.SocialProofActif,
		PhotoPrincipale:       c.PhotoPrincipale,
		PhotosGalerie:         photos,
		EnPromotion:           c.EnPromotion,
		PourcentageReduction:  c.PourcentageReduction,
		DateDebutPromo:        c.DateDebutPromo,
		DateFinPromo:          c.DateFinPromo,
		MetaTitle:             c.MetaTitle,
		MetaDescription:       c.MetaDescription,
		Active:                active,
	}
}

// ApplyTo copies every provided field onto f and leaves the others untouched.
func (u FormationUpdateDto) ApplyTo(f *models.Formation) {
	setString(&f.Nom, u.Nom)
	setString(&f.Description, u.Description)
	setString(&f.Duree, u.Duree)
	setString(&f.Categorie, u.Categorie)
	setString(&f.NomCertificat, u.NomCertificat)
	setString(&f.Programme, u.Programme)
	setString(&f.Objectifs, u.Objectifs)
	setString(&f.MaterielFourni, u.MaterielFourni)
	setString(&f.Horaires, u.Horaires)
	setString(&f.Frequence, u.Frequence)
	setString(&f.PhotoPrincipale, u.PhotoPrincipale)
	setString(&f.MetaTitle, u.MetaTitle)
	setString(&f.MetaDescription, u.MetaDescription)
	setString(&f.Slug, u.Slug)

	if u.FraisInscription != nil {
		f.FraisInscription = *u.FraisInscription
	}
	if u.Prix != nil {
		f.Prix = *u.Prix
	}
	if u.PourcentageReduction != nil {
		f.PourcentageReduction = *u.PourcentageReduction
	}
	if u.NombrePlaces != nil {
		f.NombrePlaces = *u.NombrePlaces
	}
	if u.NombreInscritsAffiche != nil {
		f.NombreInscritsAffiche = *u.NombreInscritsAffiche
	}
	if u.CertificatDelivre != nil {
		f.CertificatDelivre = *u.CertificatDelivre
	}
	if u.SocialProofActif != nil {
		f.SocialProofActif = *u.SocialProofActif
	}
	if u.EnPromotion != nil {
		f.EnPromotion = *u.EnPromotion
	}
	if u.Active != nil {
		f.Active = *u.Active
	}
	if u.PhotosGalerie != nil {
		f.PhotosGalerie = append([]string(nil), (*u.PhotosGalerie)...)
	}
	if u.DateDebutPromo != nil {
		d := *u.DateDebutPromo
		f.DateDebutPromo = &d
	}
	if u.DateFinPromo != nil {
		d := *u.DateFinPromo
		f.DateFinPromo = &d
	}
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
