package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/institut/vitrine/internal/app/models/dto"
)

// APIError is a well-formed envelope that reports success=false.
type APIError struct {
	StatusCode int
	Code       dto.ErrorCode
	Message    string
	Fields     []dto.FieldErrorDTO
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
	}
	return "api error: " + e.Message
}

// TransportError covers everything that prevented a usable envelope from
// being read: network failures (StatusCode 0), non-2xx answers and
// undecodable bodies. Message and Code are filled when the server still sent
// an error envelope.
type TransportError struct {
	StatusCode int
	Code       dto.ErrorCode
	Message    string
	Fields     []dto.FieldErrorDTO
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return "transport error: " + e.Err.Error()
	case e.Message != "":
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("http %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("http %d", e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNetwork reports whether the request never got an HTTP answer.
func (e *TransportError) IsNetwork() bool { return e.StatusCode == 0 }

// IsNotFound recognizes both a 404 answer and a RES_001 envelope.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == dto.ErrorCodeResourceNotFound || apiErr.StatusCode == http.StatusNotFound
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.StatusCode == http.StatusNotFound
	}
	return false
}

// MessageOf returns the server provided message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.Message
	}
	return ""
}

// FieldErrorsOf returns the per-field validation failures carried by err.
func FieldErrorsOf(err error) []dto.FieldErrorDTO {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.Fields
	}
	return nil
}
