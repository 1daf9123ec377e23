package backoffice

import (
	"context"
	"strings"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/pkg/assethost"
	"github.com/institut/vitrine/internal/pkg/logger"
	"github.com/institut/vitrine/internal/pkg/validation"
)

const (
	msgImageCreated     = "Image ajoutée à la galerie !"
	msgImageUpdated     = "Image modifiée avec succès !"
	msgImageLoadFailed  = "Impossible de charger l'image à modifier."
	prefixCreateFailure = "Erreur lors de la création: "
	prefixUpdateFailure = "Erreur lors de la modification: "
)

// GalleryAPI is the part of the catalog client the gallery screens use.
type GalleryAPI interface {
	Get(ctx context.Context, id int64) (*dto.GalleryImageDto, error)
	Create(ctx context.Context, req dto.GalleryImageRequest) (*dto.ApiResponse[dto.GalleryImageDto], error)
	Update(ctx context.Context, id int64, req dto.GalleryImageRequest) (*dto.ApiResponse[dto.GalleryImageDto], error)
	Delete(ctx context.Context, id int64) (*dto.ApiResponse[dto.Empty], error)
}

// GalleryForm is the image form, in create mode when EditID is zero.
type GalleryForm struct {
	Titre       string `json:"titre" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Categorie   string `json:"categorie" validate:"required,oneof=FORMATION EVENEMENT INSTITUT"`
	IsPublic    bool   `json:"isPublic"`
	FormationID *int64 `json:"formationId" validate:"omitempty,gt=0"`

	// File is the newly picked image, if any.
	File *assethost.File `json:"-"`

	EditID          int64  `json:"-"`
	CurrentURL      string `json:"-"`
	CurrentFilename string `json:"-"`
}

// NewGalleryForm returns a create form with its defaults.
func NewGalleryForm() *GalleryForm {
	return &GalleryForm{Categorie: string(models.CategoryEvenement), IsPublic: true}
}

// Reset returns the form to its create defaults.
func (f *GalleryForm) Reset() {
	*f = *NewGalleryForm()
}

// IsEdit reports whether the form edits an existing image.
func (f *GalleryForm) IsEdit() bool { return f.EditID > 0 }

// GalleryAdmin runs the admin actions of the gallery list and image form.
type GalleryAdmin struct {
	api      GalleryAPI
	list     Lister
	confirm  Confirmer
	uploader assethost.Uploader
}

func NewGalleryAdmin(api GalleryAPI, list Lister, confirm Confirmer, uploader assethost.Uploader) *GalleryAdmin {
	return &GalleryAdmin{api: api, list: list, confirm: confirm, uploader: uploader}
}

// Delete asks for confirmation, deletes the image and reloads the current page.
func (a *GalleryAdmin) Delete(ctx context.Context, id int64) (bool, error) {
	if a.confirm == nil || !a.confirm.Confirm(MsgConfirmImageDel) {
		return false, nil
	}
	if _, err := a.api.Delete(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("id", id).Msg("Gallery image delete failed")
		return false, &Error{Message: MsgDeleteFailed, Err: err}
	}
	if a.list != nil {
		a.list.Refresh(ctx)
	}
	return true, nil
}

// LoadForEdit fills an edit form from an existing image.
func (a *GalleryAdmin) LoadForEdit(ctx context.Context, id int64) (*GalleryForm, error) {
	img, err := a.api.Get(ctx, id)
	if err != nil {
		return nil, &Error{Message: msgImageLoadFailed, Err: err}
	}

	form := &GalleryForm{
		Titre:           img.Titre,
		Description:     img.Description,
		Categorie:       string(img.Categorie),
		IsPublic:        img.IsPublic,
		EditID:          img.ID,
		CurrentURL:      img.URL,
		CurrentFilename: img.Filename,
	}
	if img.Formation != nil {
		id := img.Formation.ID
		form.FormationID = &id
	} else if img.FormationID != nil {
		id := *img.FormationID
		form.FormationID = &id
	}
	return form, nil
}

// Submit validates the form, uploads the picked image if any and writes the
// image. In edit mode the current URL is kept when no new file was picked; in
// create mode a file is required.
func (a *GalleryAdmin) Submit(ctx context.Context, form *GalleryForm) (string, error) {
	form.Categorie = strings.ToUpper(strings.TrimSpace(form.Categorie))
	if errs := validation.Struct(form); len(errs) > 0 {
		return "", invalidForm(errs)
	}
	if !form.IsEdit() && form.File == nil {
		return "", &Error{Message: MsgSelectImage}
	}

	url, filename := form.CurrentURL, form.CurrentFilename
	if form.File != nil {
		assets, err := uploadAll(ctx, a.uploader, []assethost.File{*form.File})
		if err != nil {
			return "", err
		}
		url, filename = assets[0].SecureURL, assets[0].PublicID
	}

	req := dto.GalleryImageRequest{
		Titre:       strings.TrimSpace(form.Titre),
		Description: form.Description,
		URL:         url,
		Filename:    filename,
		Categorie:   form.Categorie,
		IsPublic:    dto.BoolPtr(form.IsPublic),
		FormationID: form.FormationID,
	}

	if form.IsEdit() {
		if _, err := a.api.Update(ctx, form.EditID, req); err != nil {
			logger.Warn().Err(err).Int64("id", form.EditID).Msg("Gallery image update failed")
			return "", prefixed(prefixUpdateFailure, err)
		}
		if a.list != nil {
			a.list.Refresh(ctx)
		}
		return msgImageUpdated, nil
	}

	if _, err := a.api.Create(ctx, req); err != nil {
		logger.Warn().Err(err).Str("titre", req.Titre).Msg("Gallery image creation failed")
		return "", prefixed(prefixCreateFailure, err)
	}
	form.Reset()
	if a.list != nil {
		a.list.Refresh(ctx)
	}
	return msgImageCreated, nil
}

func prefixed(prefix string, err error) *Error {
	out := writeFailure(err, MsgServerFallback)
	if out.Message == MsgCommunication {
		out.Message = MsgServerFallback
	}
	out.Message = prefix + out.Message
	return out
}
