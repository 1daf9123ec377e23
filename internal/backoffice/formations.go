package backoffice

import (
	"context"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/pkg/assethost"
	"github.com/institut/vitrine/internal/pkg/logger"
	"github.com/institut/vitrine/internal/pkg/validation"
)

const (
	msgFormationCreated      = "Formation créée avec succès !"
	msgFormationUpdated      = "Formation modifiée avec succès"
	msgFormationCreateFailed = "Erreur lors de la création de la formation."
	msgFormationUpdateFailed = "Erreur lors de la modification de la formation."
	msgFormationLoadFailed   = "Erreur lors du chargement de la formation."
	msgFormationUnchanged    = "Aucune modification à enregistrer."
)

// FormationAPI is the part of the catalog client the formation screens use.
type FormationAPI interface {
	GetByID(ctx context.Context, id int64) (*dto.FormationDetailDto, error)
	Create(ctx context.Context, draft dto.FormationCreateDto) (*dto.ApiResponse[dto.FormationDetailDto], error)
	Update(ctx context.Context, id int64, partial dto.FormationUpdateDto) (*dto.ApiResponse[dto.FormationDetailDto], error)
	Delete(ctx context.Context, id int64) (*dto.ApiResponse[dto.Empty], error)
}

// FormationForm is the creation form: the draft plus the images picked for it.
type FormationForm struct {
	Draft         dto.FormationCreateDto
	MainPhoto     *assethost.File
	GalleryPhotos []assethost.File
}

func NewFormationForm() *FormationForm {
	return &FormationForm{Draft: dto.NewFormationCreateDto()}
}

// Reset restores the creation defaults and forgets the selected images.
func (f *FormationForm) Reset() {
	f.Draft = dto.NewFormationCreateDto()
	f.MainPhoto = nil
	f.GalleryPhotos = nil
}

// FormationAdmin runs the admin actions of the formation list and forms.
type FormationAdmin struct {
	api      FormationAPI
	list     Lister
	confirm  Confirmer
	uploader assethost.Uploader

	inactiveOnly bool
}

// NewFormationAdmin wires the admin flows; list and uploader may be nil when
// the screen has no listing or no image picker.
func NewFormationAdmin(api FormationAPI, list Lister, confirm Confirmer, uploader assethost.Uploader) *FormationAdmin {
	return &FormationAdmin{api: api, list: list, confirm: confirm, uploader: uploader}
}

func (a *FormationAdmin) refresh(ctx context.Context) {
	if a.list != nil {
		a.list.Refresh(ctx)
	}
}

// Delete asks for confirmation, deletes the formation and reloads the current
// page. A declined confirmation is not an error and sends nothing.
func (a *FormationAdmin) Delete(ctx context.Context, id int64) (bool, error) {
	if a.confirm == nil || !a.confirm.Confirm(MsgConfirmFormDel) {
		return false, nil
	}
	if _, err := a.api.Delete(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("id", id).Msg("Formation delete failed")
		return false, &Error{Message: MsgDeleteFailed, Err: err}
	}
	a.refresh(ctx)
	return true, nil
}

// Reactivate sets active back to true, leaving every other field untouched.
func (a *FormationAdmin) Reactivate(ctx context.Context, id int64) error {
	if _, err := a.api.Update(ctx, id, dto.FormationUpdateDto{Active: dto.BoolPtr(true)}); err != nil {
		logger.Warn().Err(err).Int64("id", id).Msg("Formation reactivation failed")
		return &Error{Message: MsgReactivateFail, Err: err}
	}
	a.refresh(ctx)
	return nil
}

// ToggleInactiveOnly switches the listing between every formation and the
// inactive ones only, and returns the new setting.
func (a *FormationAdmin) ToggleInactiveOnly(ctx context.Context) bool {
	a.inactiveOnly = !a.inactiveOnly
	if a.list != nil {
		filter := string(models.VisibilityAll)
		if a.inactiveOnly {
			filter = string(models.VisibilityInactive)
		}
		a.list.SetFilter(ctx, filter)
	}
	return a.inactiveOnly
}

// InactiveOnly reports whether the listing shows inactive formations only.
func (a *FormationAdmin) InactiveOnly() bool { return a.inactiveOnly }

// Create validates the form, uploads the main photo then the gallery photos
// in order, and submits the formation. On success the form is reset and the
// success message returned; on failure the form is left as it was.
func (a *FormationAdmin) Create(ctx context.Context, form *FormationForm) (string, error) {
	if errs := validation.Struct(form.Draft); len(errs) > 0 {
		return "", invalidForm(errs)
	}

	files := make([]assethost.File, 0, len(form.GalleryPhotos)+1)
	if form.MainPhoto != nil {
		files = append(files, *form.MainPhoto)
	}
	files = append(files, form.GalleryPhotos...)

	assets, err := uploadAll(ctx, a.uploader, files)
	if err != nil {
		return "", err
	}

	draft := form.Draft
	draft.PhotosGalerie = append([]string{}, form.Draft.PhotosGalerie...)
	if form.MainPhoto != nil {
		draft.PhotoPrincipale = assets[0].SecureURL
		assets = assets[1:]
	}
	for _, asset := range assets {
		draft.PhotosGalerie = append(draft.PhotosGalerie, asset.SecureURL)
	}

	resp, err := a.api.Create(ctx, draft)
	if err != nil {
		logger.Warn().Err(err).Str("nom", draft.Nom).Msg("Formation creation failed")
		return "", writeFailure(err, msgFormationCreateFailed)
	}

	form.Reset()
	a.refresh(ctx)
	if resp.Message != "" {
		return resp.Message, nil
	}
	return msgFormationCreated, nil
}

// LoadForEdit fetches a formation for the edit form, whatever its visibility.
func (a *FormationAdmin) LoadForEdit(ctx context.Context, id int64) (*dto.FormationDetailDto, error) {
	f, err := a.api.GetByID(ctx, id)
	if err != nil {
		return nil, &Error{Message: msgFormationLoadFailed, Err: err}
	}
	return f, nil
}

// Update sends the fields set in partial. A newly picked main photo is
// uploaded first and replaces photoPrincipale.
func (a *FormationAdmin) Update(ctx context.Context, id int64, partial dto.FormationUpdateDto, mainPhoto *assethost.File) (string, error) {
	if errs := validation.Struct(partial); len(errs) > 0 {
		return "", invalidForm(errs)
	}

	if mainPhoto != nil {
		assets, err := uploadAll(ctx, a.uploader, []assethost.File{*mainPhoto})
		if err != nil {
			return "", err
		}
		url := assets[0].SecureURL
		partial.PhotoPrincipale = &url
	}
	if partial.IsEmpty() {
		return msgFormationUnchanged, nil
	}

	resp, err := a.api.Update(ctx, id, partial)
	if err != nil {
		logger.Warn().Err(err).Int64("id", id).Msg("Formation update failed")
		return "", writeFailure(err, msgFormationUpdateFailed)
	}

	a.refresh(ctx)
	if resp.Message != "" {
		return resp.Message, nil
	}
	return msgFormationUpdated, nil
}
