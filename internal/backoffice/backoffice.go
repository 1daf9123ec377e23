// Package backoffice drives the admin mutations of the catalog: confirmed
// deletes, reactivation, validated create and edit forms, and the image
// uploads that precede them.
package backoffice

import (
	"context"
	"errors"
	"strings"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/client"
	"github.com/institut/vitrine/internal/pkg/apperrors"
	"github.com/institut/vitrine/internal/pkg/assethost"
	"github.com/institut/vitrine/internal/pkg/logger"
)

const (
	MsgFormInvalid     = "Veuillez corriger les erreurs dans le formulaire."
	MsgUploadFailed    = "Erreur lors de l'upload de l'image."
	MsgSelectImage     = "Veuillez sélectionner une image."
	MsgCommunication   = "Erreur de communication avec le serveur."
	MsgDeleteFailed    = "Erreur lors de la suppression"
	MsgReactivateFail  = "Erreur lors de la réactivation."
	MsgServerFallback  = "Erreur serveur"
	MsgConfirmFormDel  = "Voulez-vous vraiment supprimer cette formation ?"
	MsgConfirmImageDel = "Supprimer cette image ?"
)

// Confirmer asks the administrator to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Lister is the listing kept in sync after each mutation.
type Lister interface {
	Refresh(ctx context.Context)
	SetFilter(ctx context.Context, filter string)
}

// Error is a failed admin action, ready to be shown as is.
type Error struct {
	Message string
	Fields  []dto.FieldErrorDTO
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// MessageOf returns the text to show for err.
func MessageOf(err error) string {
	var bErr *Error
	if errors.As(err, &bErr) {
		return bErr.Message
	}
	if err == nil {
		return ""
	}
	return MsgCommunication
}

func invalidForm(errs []apperrors.FieldError) *Error {
	fields := make([]dto.FieldErrorDTO, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, dto.FieldErrorDTO{Field: fe.Field, Message: fe.Message})
	}
	return &Error{Message: MsgFormInvalid, Fields: fields}
}

// writeFailure renders a failed create or update. An envelope failure uses
// its message or envelopeFallback; a transport failure uses the server
// message when one came back, else MsgCommunication.
func writeFailure(err error, envelopeFallback string) *Error {
	out := &Error{Err: err, Fields: client.FieldErrorsOf(err)}

	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		out.Message = apiErr.Message
		if out.Message == "" {
			out.Message = envelopeFallback
		}
	default:
		out.Message = client.MessageOf(err)
		if out.Message == "" {
			out.Message = MsgCommunication
		}
	}
	return out
}

// uploadAll stores files one after the other, in order. The first failure
// aborts the remaining uploads; assets already stored are kept.
func uploadAll(ctx context.Context, up assethost.Uploader, files []assethost.File) ([]*assethost.Asset, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if up == nil {
		return nil, &Error{Message: MsgUploadFailed, Err: errors.New("no asset uploader configured")}
	}

	assets := make([]*assethost.Asset, 0, len(files))
	for _, f := range files {
		asset, err := up.Upload(ctx, f)
		if err != nil {
			logger.Warn().Err(err).Str("file", f.Name).Int("uploaded", len(assets)).Msg("Image upload failed")
			return nil, &Error{Message: MsgUploadFailed, Err: err}
		}
		if asset == nil || strings.TrimSpace(asset.SecureURL) == "" {
			logger.Warn().Str("file", f.Name).Msg("Asset host returned no URL")
			return nil, &Error{Message: MsgUploadFailed, Err: assethost.ErrEmptySecureURL}
		}
		assets = append(assets, asset)
	}
	return assets, nil
}
