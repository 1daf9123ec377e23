package dto

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeResourceInvalid       ErrorCode = "RES_003"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeBadRequest       ErrorCode = "VAL_002"

	// Server errors
	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeDatabaseError        ErrorCode = "SRV_002"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
	ErrorCodeRateLimited          ErrorCode = "SRV_004"
)

// FieldErrorDTO is one failed validation rule
type FieldErrorDTO struct {
	Field   string `json:"field" example:"nom"`
	Message string `json:"message" example:"nom est requis"`
}

// ValidationErrors collects field failures
type ValidationErrors struct {
	Errors []FieldErrorDTO `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]FieldErrorDTO, 0)}
}

func (v *ValidationErrors) AddError(field, message string) *ValidationErrors {
	v.Errors = append(v.Errors, FieldErrorDTO{Field: field, Message: message})
	return v
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}
