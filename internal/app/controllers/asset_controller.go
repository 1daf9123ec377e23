package controllers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/metrics"
	"github.com/institut/vitrine/internal/middleware"
	"github.com/institut/vitrine/internal/pkg/apperrors"
	"github.com/institut/vitrine/internal/pkg/filestorage"
)

// maxUploadSize caps one uploaded image
const maxUploadSize = 10 << 20

// AssetController is a Cloudinary-compatible upload endpoint backed by local storage
type AssetController struct {
	storage filestorage.FileStorage
	metrics *metrics.Metrics
}

// NewAssetController creates a new AssetController
func NewAssetController(storage filestorage.FileStorage, m *metrics.Metrics) *AssetController {
	return &AssetController{
		storage: storage,
		metrics: m,
	}
}

// Upload stores one image
// @Summary Upload an image
// @Description Accepts the same multipart form as a Cloudinary unsigned upload
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Param upload_preset formData string false "Target folder"
// @Success 200 {object} dto.AssetUploadResponse "Stored asset"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Missing or unsupported file"
// @Failure 502 {object} dto.ApiResponse[dto.Empty] "Storage failure"
// @Router /assets/upload [post]
func (c *AssetController) Upload(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadSize)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		c.metrics.RecordAssetUpload("rejected")
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Veuillez sélectionner une image."))
		return
	}

	stored, err := c.storage.SaveFile(fileHeader, ctx.PostForm("upload_preset"))
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedType) {
			c.metrics.RecordAssetUpload("rejected")
			middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Format d'image non supporté."))
			return
		}
		c.metrics.RecordAssetUpload("failure")
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrAssetUploadFailed, "Erreur lors de l'upload de l'image."))
		return
	}

	c.metrics.RecordAssetUpload("success")
	ctx.JSON(http.StatusOK, dto.AssetUploadResponse{
		SecureURL:        stored.URL,
		PublicID:         stored.PublicID,
		OriginalFilename: strings.TrimSuffix(stored.Filename, filepath.Ext(stored.Filename)),
		Bytes:            stored.FileSize,
		Format:           strings.TrimPrefix(strings.ToLower(filepath.Ext(stored.Filename)), "."),
	})
}
