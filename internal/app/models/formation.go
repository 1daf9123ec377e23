package models

import (
	"fmt"
	"math"
	"time"

	"github.com/institut/vitrine/internal/pkg/apperrors"
	"github.com/institut/vitrine/internal/pkg/helpers"
)

// Formation is a course offered by the institute.
type Formation struct {
	ID          int64
	Slug        string
	Nom         string
	Description string
	Duree       string
	Categorie   string

	FraisInscription float64
	Prix             float64

	CertificatDelivre bool
	NomCertificat     string
	Programme         string
	Objectifs         string
	MaterielFourni    string
	Horaires          string
	Frequence         string

	NombrePlaces          int
	NombreInscritsAffiche int
	SocialProofActif      bool

	PhotoPrincipale string
	PhotosGalerie   []string

	EnPromotion          bool
	PourcentageReduction float64
	DateDebutPromo       *time.Time
	DateFinPromo         *time.Time

	MetaTitle       string
	MetaDescription string

	Active     bool
	NombreVues int64

	AdminCreateur     string
	AdminModificateur string
	DateCreation      time.Time
	DateModification  time.Time
	DeletedAt         *time.Time
}

// FormationRef is the short form used by pick-lists and gallery joins.
type FormationRef struct {
	ID   int64  `json:"id"`
	Nom  string `json:"nom"`
	Slug string `json:"slug,omitempty"`
}

// PromoActive reports whether the promotion applies at now.
func (f *Formation) PromoActive(now time.Time) bool {
	return f.EnPromotion && f.PourcentageReduction > 0 &&
		helpers.WithinWindow(now, f.DateDebutPromo, f.DateFinPromo)
}

// PrixAvecReduction returns the discounted price, or nil when no promotion applies.
func (f *Formation) PrixAvecReduction(now time.Time) *float64 {
	if !f.PromoActive(now) {
		return nil
	}
	p := helpers.Round2(f.Prix * (1 - f.PourcentageReduction/100))
	return &p
}

// PlacesRestantes is never negative.
func (f *Formation) PlacesRestantes() int {
	if left := f.NombrePlaces - f.NombreInscritsAffiche; left > 0 {
		return left
	}
	return 0
}

// TauxRemplissage is the fill rate in percent, capped at 100.
func (f *Formation) TauxRemplissage() int {
	if f.NombrePlaces <= 0 {
		return 0
	}
	rate := int(math.Round(100 * float64(f.NombreInscritsAffiche) / float64(f.NombrePlaces)))
	if rate > 100 {
		return 100
	}
	return rate
}

func (f *Formation) Complete() bool {
	return f.PlacesRestantes() == 0
}

// MessageSocialProof is empty unless social proof is enabled and someone enrolled.
func (f *Formation) MessageSocialProof() string {
	if !f.SocialProofActif || f.NombreInscritsAffiche <= 0 {
		return ""
	}
	if f.NombreInscritsAffiche == 1 {
		return "1 personne déjà inscrite"
	}
	return fmt.Sprintf("%d personnes déjà inscrites", f.NombreInscritsAffiche)
}

// Deleted reports whether the formation was logically deleted.
func (f *Formation) Deleted() bool {
	return f.DeletedAt != nil
}

// CheckInvariants returns the rule violations of a fully merged formation.
func (f *Formation) CheckInvariants() []apperrors.FieldError {
	var v []apperrors.FieldError
	if f.NombrePlaces < 1 {
		v = append(v, apperrors.FieldError{Field: "nombrePlaces", Message: "nombrePlaces must be at least 1"})
	}
	if f.NombreInscritsAffiche < 0 {
		v = append(v, apperrors.FieldError{Field: "nombreInscritsAffiche", Message: "nombreInscritsAffiche must not be negative"})
	}
	if f.PourcentageReduction < 0 || f.PourcentageReduction > 100 {
		v = append(v, apperrors.FieldError{Field: "pourcentageReduction", Message: "pourcentageReduction must be between 0 and 100"})
	}
	if f.DateDebutPromo != nil && f.DateFinPromo != nil && f.DateFinPromo.Before(*f.DateDebutPromo) {
		v = append(v, apperrors.FieldError{Field: "dateFinPromo", Message: "dateFinPromo must not precede dateDebutPromo"})
	}
	if f.Prix < 0 || f.FraisInscription < 0 {
		v = append(v, apperrors.FieldError{Field: "prix", Message: "prices must not be negative"})
	}
	return v
}
