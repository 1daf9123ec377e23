package backoffice

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/client"
	"github.com/institut/vitrine/internal/pkg/assethost"
)

type fakeUploader struct {
	names  []string
	failAt int // 1-based index of the upload that fails; 0 never fails
}

func (u *fakeUploader) Upload(_ context.Context, f assethost.File) (*assethost.Asset, error) {
	u.names = append(u.names, f.Name)
	if u.failAt == len(u.names) {
		return nil, errors.New("asset host unavailable")
	}
	return &assethost.Asset{SecureURL: "https://cdn.test/" + f.Name, PublicID: "institue/" + f.Name}, nil
}

// fixedUploader answers every upload with asset.
type fixedUploader struct {
	asset *assethost.Asset
	calls int
}

func (u *fixedUploader) Upload(context.Context, assethost.File) (*assethost.Asset, error) {
	u.calls++
	return u.asset, nil
}

type fakeLister struct {
	refreshes int
	filters   []string
}

func (l *fakeLister) Refresh(context.Context)               { l.refreshes++ }
func (l *fakeLister) SetFilter(_ context.Context, f string) { l.filters = append(l.filters, f) }

type fakeFormationAPI struct {
	created []dto.FormationCreateDto
	updates map[int64]dto.FormationUpdateDto
	deleted []int64
	err     error
	message string
}

func (f *fakeFormationAPI) GetByID(_ context.Context, id int64) (*dto.FormationDetailDto, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := &dto.FormationDetailDto{}
	d.ID = id
	return d, nil
}

func (f *fakeFormationAPI) Create(_ context.Context, draft dto.FormationCreateDto) (*dto.ApiResponse[dto.FormationDetailDto], error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, draft)
	return &dto.ApiResponse[dto.FormationDetailDto]{Success: true, Message: f.message, Data: &dto.FormationDetailDto{}}, nil
}

func (f *fakeFormationAPI) Update(_ context.Context, id int64, partial dto.FormationUpdateDto) (*dto.ApiResponse[dto.FormationDetailDto], error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.updates == nil {
		f.updates = map[int64]dto.FormationUpdateDto{}
	}
	f.updates[id] = partial
	return &dto.ApiResponse[dto.FormationDetailDto]{Success: true, Message: f.message, Data: &dto.FormationDetailDto{}}, nil
}

func (f *fakeFormationAPI) Delete(_ context.Context, id int64) (*dto.ApiResponse[dto.Empty], error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, id)
	return &dto.ApiResponse[dto.Empty]{Success: true}, nil
}

func answer(yes bool) (Confirmer, *[]string) {
	var prompts []string
	return ConfirmFunc(func(p string) bool {
		prompts = append(prompts, p)
		return yes
	}), &prompts
}

func validForm() *FormationForm {
	form := NewFormationForm()
	form.Draft.Nom = "Pâtisserie française"
	form.Draft.Description = "Les bases de la pâtisserie française."
	form.Draft.Duree = "3 mois"
	form.Draft.FraisInscription = 5000
	form.Draft.Prix = 45000
	form.Draft.Categorie = "Cuisine"
	return form
}

func file(name string) assethost.File {
	return assethost.File{Name: name, ContentType: "image/jpeg", Content: strings.NewReader(name)}
}

func TestDeleteDeclinedSendsNothing(t *testing.T) {
	api, list := &fakeFormationAPI{}, &fakeLister{}
	confirm, prompts := answer(false)
	admin := NewFormationAdmin(api, list, confirm, nil)

	deleted, err := admin.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, api.deleted)
	assert.Zero(t, list.refreshes)
	assert.Equal(t, []string{MsgConfirmFormDel}, *prompts)
}

func TestDeleteConfirmedRefreshes(t *testing.T) {
	api, list := &fakeFormationAPI{}, &fakeLister{}
	confirm, _ := answer(true)
	admin := NewFormationAdmin(api, list, confirm, nil)

	deleted, err := admin.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []int64{7}, api.deleted)
	assert.Equal(t, 1, list.refreshes)

	api.err = &client.TransportError{StatusCode: http.StatusInternalServerError}
	_, err = admin.Delete(context.Background(), 8)
	require.Error(t, err)
	assert.Equal(t, MsgDeleteFailed, MessageOf(err))
	assert.Equal(t, 1, list.refreshes)
}

func TestReactivateOnlyTouchesActive(t *testing.T) {
	api, list := &fakeFormationAPI{}, &fakeLister{}
	admin := NewFormationAdmin(api, list, nil, nil)

	require.NoError(t, admin.Reactivate(context.Background(), 3))
	assert.Equal(t, dto.FormationUpdateDto{Active: dto.BoolPtr(true)}, api.updates[3])
	assert.Equal(t, 1, list.refreshes)

	api.err = errors.New("down")
	err := admin.Reactivate(context.Background(), 3)
	assert.Equal(t, MsgReactivateFail, MessageOf(err))
}

func TestToggleInactiveOnly(t *testing.T) {
	list := &fakeLister{}
	admin := NewFormationAdmin(&fakeFormationAPI{}, list, nil, nil)

	assert.True(t, admin.ToggleInactiveOnly(context.Background()))
	assert.False(t, admin.ToggleInactiveOnly(context.Background()))
	assert.Equal(t, []string{"inactive", "all"}, list.filters)
}

func TestCreateBlockedByValidation(t *testing.T) {
	api, up := &fakeFormationAPI{}, &fakeUploader{}
	admin := NewFormationAdmin(api, nil, nil, up)

	form := NewFormationForm()
	form.Draft.Nom = "ab"
	form.Draft.PourcentageReduction = 120
	form.MainPhoto = &assethost.File{Name: "a.jpg", Content: strings.NewReader("x")}

	_, err := admin.Create(context.Background(), form)
	require.Error(t, err)
	var bErr *Error
	require.ErrorAs(t, err, &bErr)
	assert.Equal(t, MsgFormInvalid, bErr.Message)

	fields := map[string]bool{}
	for _, f := range bErr.Fields {
		fields[f.Field] = true
	}
	for _, name := range []string{"nom", "description", "duree", "fraisInscription", "prix", "categorie", "pourcentageReduction"} {
		assert.True(t, fields[name], "missing field error for %s", name)
	}
	assert.Empty(t, up.names, "nothing is uploaded for an invalid form")
	assert.Empty(t, api.created)
}

func TestCreateUploadsSequentiallyThenResets(t *testing.T) {
	api, up, list := &fakeFormationAPI{}, &fakeUploader{}, &fakeLister{}
	admin := NewFormationAdmin(api, list, nil, up)

	form := validForm()
	main := file("main.jpg")
	form.MainPhoto = &main
	form.GalleryPhotos = []assethost.File{file("g1.jpg"), file("g2.jpg")}

	msg, err := admin.Create(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "Formation créée avec succès !", msg)
	assert.Equal(t, []string{"main.jpg", "g1.jpg", "g2.jpg"}, up.names)

	require.Len(t, api.created, 1)
	sent := api.created[0]
	assert.Equal(t, "https://cdn.test/main.jpg", sent.PhotoPrincipale)
	assert.Equal(t, []string{"https://cdn.test/g1.jpg", "https://cdn.test/g2.jpg"}, sent.PhotosGalerie)

	assert.Equal(t, dto.NewFormationCreateDto(), form.Draft)
	assert.Nil(t, form.MainPhoto)
	assert.Equal(t, 1, list.refreshes)
}

func TestCreateAbortsOnUploadFailure(t *testing.T) {
	api, up := &fakeFormationAPI{}, &fakeUploader{failAt: 2}
	admin := NewFormationAdmin(api, nil, nil, up)

	form := validForm()
	main := file("main.jpg")
	form.MainPhoto = &main
	form.GalleryPhotos = []assethost.File{file("g1.jpg"), file("g2.jpg")}

	_, err := admin.Create(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, MsgUploadFailed, MessageOf(err))
	assert.Equal(t, []string{"main.jpg", "g1.jpg"}, up.names, "later uploads are not attempted")
	assert.Empty(t, api.created, "no write after a failed upload")
	assert.Equal(t, "Pâtisserie française", form.Draft.Nom, "form stays populated")
}

func TestCreateRejectsUploadWithoutURL(t *testing.T) {
	tests := []struct {
		name  string
		asset *assethost.Asset
	}{
		{name: "empty url", asset: &assethost.Asset{}},
		{name: "blank url", asset: &assethost.Asset{SecureURL: "  ", PublicID: "institue/x"}},
		{name: "no asset", asset: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeFormationAPI{}
			up := &fixedUploader{asset: tt.asset}
			admin := NewFormationAdmin(api, nil, nil, up)

			form := validForm()
			main := file("main.jpg")
			form.MainPhoto = &main

			_, err := admin.Create(context.Background(), form)
			require.Error(t, err)
			assert.Equal(t, MsgUploadFailed, MessageOf(err))
			assert.ErrorIs(t, err, assethost.ErrEmptySecureURL)
			assert.Equal(t, 1, up.calls)
			assert.Empty(t, api.created)
		})
	}
}

func TestCreateFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "envelope with message", err: &client.APIError{Message: "Slug déjà utilisé"}, want: "Slug déjà utilisé"},
		{name: "envelope without message", err: &client.APIError{}, want: "Erreur lors de la création de la formation."},
		{name: "server message", err: &client.TransportError{StatusCode: 409, Message: "Ce slug est déjà utilisé par une autre formation."}, want: "Ce slug est déjà utilisé par une autre formation."},
		{name: "network", err: &client.TransportError{Err: errors.New("refused")}, want: MsgCommunication},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := NewFormationAdmin(&fakeFormationAPI{err: tt.err}, nil, nil, nil)
			form := validForm()
			_, err := admin.Create(context.Background(), form)
			assert.Equal(t, tt.want, MessageOf(err))
			assert.Equal(t, "Pâtisserie française", form.Draft.Nom)
		})
	}
}

func TestUpdateUploadsNewMainPhoto(t *testing.T) {
	api, up := &fakeFormationAPI{message: "Formation modifiée avec succès"}, &fakeUploader{}
	admin := NewFormationAdmin(api, nil, nil, up)

	prix := 30000.0
	photo := file("new.jpg")
	msg, err := admin.Update(context.Background(), 4, dto.FormationUpdateDto{Prix: &prix}, &photo)
	require.NoError(t, err)
	assert.Equal(t, "Formation modifiée avec succès", msg)

	sent := api.updates[4]
	require.NotNil(t, sent.PhotoPrincipale)
	assert.Equal(t, "https://cdn.test/new.jpg", *sent.PhotoPrincipale)
	assert.Nil(t, sent.Nom)

	bad := -1.0
	_, err = admin.Update(context.Background(), 4, dto.FormationUpdateDto{Prix: &bad}, nil)
	assert.Equal(t, MsgFormInvalid, MessageOf(err))
}

func TestUpdateWithoutChangesSkipsTheWrite(t *testing.T) {
	api := &fakeFormationAPI{}
	admin := NewFormationAdmin(api, nil, nil, nil)

	msg, err := admin.Update(context.Background(), 4, dto.FormationUpdateDto{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Aucune modification à enregistrer.", msg)
	assert.Empty(t, api.updates)
}

func TestLoadForEditFailure(t *testing.T) {
	admin := NewFormationAdmin(&fakeFormationAPI{err: &client.TransportError{StatusCode: 404}}, nil, nil, nil)
	_, err := admin.LoadForEdit(context.Background(), 99)
	assert.Equal(t, "Erreur lors du chargement de la formation.", MessageOf(err))
	assert.True(t, client.IsNotFound(err))
}
