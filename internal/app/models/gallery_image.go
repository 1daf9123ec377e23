package models

import (
	"strings"
	"time"
)

// GalleryCategory classifies a gallery image
type GalleryCategory string

const (
	CategoryFormation GalleryCategory = "FORMATION"
	CategoryEvenement GalleryCategory = "EVENEMENT"
	CategoryInstitut  GalleryCategory = "INSTITUT"
)

// GalleryCategories lists every valid category in display order.
var GalleryCategories = []GalleryCategory{CategoryFormation, CategoryEvenement, CategoryInstitut}

// ParseGalleryCategory accepts any casing; ok is false for unknown values.
func ParseGalleryCategory(s string) (GalleryCategory, bool) {
	c := GalleryCategory(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range GalleryCategories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// GalleryImage is a photo shown in the public gallery or kept private by admins.
// FormationID is a weak reference: deleting the formation leaves the image untouched.
type GalleryImage struct {
	ID           int64
	Titre        string
	Description  string
	URL          string
	Filename     string
	Categorie    GalleryCategory
	IsPublic     bool
	FormationID  *int64
	Formation    *FormationRef
	DateCreation time.Time
}
