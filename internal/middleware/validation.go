package middleware

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/pkg/logger"
)

// BindJSON decodes the request body into obj. On failure it writes the 400
// envelope and returns false; field rules are checked by the services.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		msg := "Format de requête invalide."
		if errors.Is(err, io.EOF) {
			msg = "Le corps de la requête est vide."
		}
		logger.Debug().Err(err).Str("path", c.FullPath()).Msg("Invalid request body")
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, dto.ErrorCodeBadRequest, msg))
		return false
	}
	return true
}

// ParseIDParam reads a positive integer path parameter, writing a 400 on failure.
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(http.StatusBadRequest, dto.ErrorCodeBadRequest, "Identifiant invalide."))
		return 0, false
	}
	return id, true
}
