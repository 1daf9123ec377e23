package dto

import (
	"time"

	"github.com/institut/vitrine/internal/app/models"
)

// GalleryImageDto is the wire form of a gallery image
type GalleryImageDto struct {
	ID           int64                  `json:"id" example:"4"`
	Titre        string                 `json:"titre" example:"Remise des diplômes"`
	Description  string                 `json:"description,omitempty"`
	URL          string                 `json:"url" example:"https://res.cloudinary.com/demo/image/upload/v1/galerie.jpg"`
	Filename     string                 `json:"filename,omitempty"`
	Categorie    models.GalleryCategory `json:"categorie" example:"EVENEMENT"`
	IsPublic     bool                   `json:"isPublic"`
	FormationID  *int64                 `json:"formationId,omitempty"`
	Formation    *models.FormationRef   `json:"formation,omitempty"`
	DateCreation time.Time              `json:"dateCreation"`
}

// GalleryPageResponse is returned unwrapped by the paged gallery endpoints
type GalleryPageResponse = PageResponse[GalleryImageDto]

// GalleryImageRequest is the payload of POST and PUT /gallery
type GalleryImageRequest struct {
	Titre       string `json:"titre" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	URL         string `json:"url" validate:"required,url"`
	Filename    string `json:"filename,omitempty" validate:"max=255"`
	Categorie   string `json:"categorie" validate:"required,oneof=FORMATION EVENEMENT INSTITUT"`
	// IsPublic defaults to true when omitted
	IsPublic    *bool  `json:"isPublic,omitempty"`
	FormationID *int64 `json:"formationId,omitempty" validate:"omitempty,gt=0"`
}

// NewGalleryImageRequest returns a draft holding the gallery form defaults.
func NewGalleryImageRequest() GalleryImageRequest {
	return GalleryImageRequest{
		Categorie: string(models.CategoryEvenement),
		IsPublic:  BoolPtr(true),
	}
}

func NewGalleryImageDto(img *models.GalleryImage) GalleryImageDto {
	return GalleryImageDto{
		ID:           img.ID,
		Titre:        img.Titre,
		Description:  img.Description,
		URL:          img.URL,
		Filename:     img.Filename,
		Categorie:    img.Categorie,
		IsPublic:     img.IsPublic,
		FormationID:  img.FormationID,
		Formation:    img.Formation,
		DateCreation: img.DateCreation,
	}
}

// ApplyTo replaces every editable field of img.
func (r GalleryImageRequest) ApplyTo(img *models.GalleryImage) {
	category, _ := models.ParseGalleryCategory(r.Categorie)
	img.Titre = r.Titre
	img.Description = r.Description
	img.URL = r.URL
	img.Filename = r.Filename
	img.Categorie = category
	img.IsPublic = r.IsPublic == nil || *r.IsPublic
	img.FormationID = r.FormationID
	img.Formation = nil
}
