package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/pkg/apperrors"
	"github.com/institut/vitrine/internal/pkg/logger"
)

// --- Central Error Handling Middleware/Function ---

// HandleAPIError maps an application error onto the error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, code, fallback := classify(err)
	resp := dto.NewErrorResponse(status, code, apperrors.MessageOf(err, fallback))

	if fields := apperrors.FieldsOf(err); len(fields) > 0 {
		resp.Errors = make([]dto.FieldErrorDTO, 0, len(fields))
		for _, f := range fields {
			resp.Errors = append(resp.Errors, dto.FieldErrorDTO{Field: f.Field, Message: f.Message})
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		// internal details never reach the client
		resp.Message = fallback
	}

	c.AbortWithStatusJSON(status, resp)
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrFormationNotFound, apperrors.ErrGalleryImageNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Ressource non trouvée."
	case apperrors.Is(err, apperrors.ErrSlugAlreadyExists, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Cette ressource existe déjà."
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeResourceInvalid, "Conflit avec l'état actuel de la ressource."
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Veuillez corriger les erreurs dans le formulaire."
	case apperrors.Is(err, apperrors.ErrBadRequest, apperrors.ErrInvalidCategory):
		return http.StatusBadRequest, dto.ErrorCodeBadRequest, "Requête invalide."
	case errors.Is(err, apperrors.ErrAssetUploadFailed):
		return http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Erreur lors de l'upload de l'image."
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Erreur interne du serveur."
	}
}

// Recovery turns panics into the standard 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Erreur interne du serveur."))
	})
}

// NotFound answers unknown routes with the error envelope
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Ressource non trouvée."))
	}
}
