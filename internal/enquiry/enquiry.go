// Package enquiry drives the public forms of the site: pre-inscription to a
// formation, contact and newsletter subscription. Each form is checked
// locally with the short field messages the visitor sees, then sent.
package enquiry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/backoffice"
	"github.com/institut/vitrine/internal/client"
	"github.com/institut/vitrine/internal/pkg/logger"
	"github.com/institut/vitrine/internal/pkg/validation"
)

const (
	MsgPreInscriptionSaved  = "Votre pré-inscription a bien été enregistrée !"
	MsgContactSent          = "Votre message a bien été envoyé !"
	MsgPreInscriptionFailed = "Erreur lors de l'inscription. Essayez à nouveau."
	MsgContactFailed        = "Erreur lors de l'envoi. Essayez à nouveau."
	MsgNewsletterFailed     = "Erreur lors de l'inscription. Réessayez."

	msgRequired     = "Ce champ est obligatoire"
	msgInvalidEmail = "Email invalide"
	msgInvalidPhone = "Téléphone invalide"
)

// Sender is the part of the catalog API the forms post to.
type Sender interface {
	PreInscription(ctx context.Context, req dto.PreInscriptionRequest) (*dto.ApiResponse[dto.MessageDto], error)
	Contact(ctx context.Context, req dto.ContactRequest) (*dto.ApiResponse[dto.MessageDto], error)
	SubscribeNewsletter(ctx context.Context, req dto.NewsletterSubscribeRequest) (string, error)
}

var _ Sender = (*client.Messages)(nil)

// Forms submits the public forms through api.
type Forms struct {
	api Sender
}

func New(api Sender) *Forms {
	return &Forms{api: api}
}

// PreInscription sends a pre-inscription and returns the message to show.
func (f *Forms) PreInscription(ctx context.Context, req dto.PreInscriptionRequest) (string, error) {
	if fields := check(req); len(fields) > 0 {
		return "", &backoffice.Error{Message: backoffice.MsgFormInvalid, Fields: fields}
	}
	env, err := f.api.PreInscription(ctx, req)
	if err != nil {
		logger.Warn().Err(err).Int64("formation", req.FormationID).Msg("Pre-inscription failed")
		return "", failure(err, MsgPreInscriptionFailed)
	}
	return firstNonBlank(env.Message, MsgPreInscriptionSaved), nil
}

// Contact sends a contact message and returns the message to show.
func (f *Forms) Contact(ctx context.Context, req dto.ContactRequest) (string, error) {
	if fields := check(req); len(fields) > 0 {
		return "", &backoffice.Error{Message: backoffice.MsgFormInvalid, Fields: fields}
	}
	env, err := f.api.Contact(ctx, req)
	if err != nil {
		logger.Warn().Err(err).Msg("Contact message failed")
		return "", failure(err, MsgContactFailed)
	}
	return firstNonBlank(env.Message, MsgContactSent), nil
}

// SubscribeNewsletter subscribes email and returns the server confirmation.
func (f *Forms) SubscribeNewsletter(ctx context.Context, email, nom string) (string, error) {
	req := dto.NewsletterSubscribeRequest{Email: strings.TrimSpace(email), Nom: strings.TrimSpace(nom)}
	if fields := check(req); len(fields) > 0 {
		return "", &backoffice.Error{Message: MsgNewsletterFailed, Fields: fields}
	}
	msg, err := f.api.SubscribeNewsletter(ctx, req)
	if err != nil {
		return "", failure(err, MsgNewsletterFailed)
	}
	return msg, nil
}

// failure keeps the server message when one came back; anything else,
// network errors included, shows fallback.
func failure(err error, fallback string) *backoffice.Error {
	msg := client.MessageOf(err)
	var tErr *client.TransportError
	if msg == "" || (errors.As(err, &tErr) && tErr.StatusCode >= 500) {
		msg = fallback
	}
	return &backoffice.Error{Message: msg, Fields: client.FieldErrorsOf(err), Err: err}
}

// check runs the struct rules and words every failure the way the forms do.
func check(v any) []dto.FieldErrorDTO {
	err := validation.Validator().Struct(v)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]dto.FieldErrorDTO, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, dto.FieldErrorDTO{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "email":
		return msgInvalidEmail
	case "phone":
		return msgInvalidPhone
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Minimum %s caractères", fe.Param())
		}
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Maximum %s caractères", fe.Param())
		}
	case "gt":
		return msgRequired
	}
	return validation.Message(fe)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
