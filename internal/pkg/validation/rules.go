package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/institut/vitrine/internal/pkg/apperrors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// phonePattern is an optional leading + then 8 to 15 digits, spaces, dashes or parentheses.
var phonePattern = regexp.MustCompile(`^[+]?[0-9\s\-()]{8,15}$`)

// IsPhone reports whether s is a phone number as the site forms accept it.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// Validator returns the shared validator; field names are reported by their json name.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		})
	})
	return validate
}

// Struct validates v and returns every failed rule, in field order.
func Struct(v interface{}) []apperrors.FieldError {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperrors.FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperrors.FieldError{Field: fe.Field(), Message: Message(fe)})
	}
	return out
}

// Message renders a human-readable message for one failed rule
func Message(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return e.Field() + " est requis"
	case "min":
		if isString {
			return fmt.Sprintf("%s doit contenir au moins %s caractères", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s doit être au moins %s", e.Field(), e.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s ne doit pas dépasser %s caractères", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s doit être au plus %s", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("%s doit être supérieur à %s", e.Field(), e.Param())
	case "url":
		return e.Field() + " doit être une URL valide"
	case "email":
		return e.Field() + " doit être une adresse email valide"
	case "phone":
		return e.Field() + " doit être un numéro de téléphone valide"
	case "oneof":
		return e.Field() + " doit être l'une des valeurs : " + e.Param()
	default:
		return e.Field() + " est invalide (" + e.Tag() + ")"
	}
}
