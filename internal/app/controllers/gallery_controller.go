package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/app/services"
	"github.com/institut/vitrine/internal/middleware"
	"github.com/institut/vitrine/internal/pkg/helpers"
)

const galleryPageSize = 12

// GalleryController handles gallery endpoints. Listings are returned
// without the ApiResponse envelope; single items and writes use it.
type GalleryController struct {
	galleryService *services.GalleryService
}

// NewGalleryController creates a new GalleryController
func NewGalleryController(galleryService *services.GalleryService) *GalleryController {
	return &GalleryController{
		galleryService: galleryService,
	}
}

// HomeImages returns the latest public images
// @Summary Home page images
// @Tags gallery
// @Produce json
// @Success 200 {array} dto.GalleryImageDto "Latest public images"
// @Router /gallery/home-images [get]
func (c *GalleryController) HomeImages(ctx *gin.Context) {
	images, err := c.galleryService.HomeImages(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, images)
}

// ListPublic pages through public images
// @Summary Public gallery
// @Tags gallery
// @Produce json
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(12)
// @Success 200 {object} dto.PageResponse[dto.GalleryImageDto] "Public images"
// @Router /gallery/paged [get]
func (c *GalleryController) ListPublic(ctx *gin.Context) {
	page, err := c.galleryService.ListPublic(ctx, helpers.ParsePageRequest(ctx, galleryPageSize))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// ListAdmin pages through every image
// @Summary Gallery administration listing
// @Tags gallery
// @Produce json
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(12)
// @Success 200 {object} dto.PageResponse[dto.GalleryImageDto] "All images"
// @Router /gallery/admin/paged [get]
func (c *GalleryController) ListAdmin(ctx *gin.Context) {
	page, err := c.galleryService.ListAll(ctx, helpers.ParsePageRequest(ctx, galleryPageSize))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// ByFormationName filters public images on the linked formation
// @Summary Gallery by formation name
// @Tags gallery
// @Produce json
// @Param nomFormation query string false "Part of the formation name"
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(12)
// @Success 200 {object} dto.PageResponse[dto.GalleryImageDto] "Matching images"
// @Failure 429 {object} dto.ApiResponse[dto.Empty] "Too many requests"
// @Router /gallery/by-formation-nom-paged [get]
func (c *GalleryController) ByFormationName(ctx *gin.Context) {
	page, err := c.galleryService.ByFormationName(ctx, ctx.Query("nomFormation"), helpers.ParsePageRequest(ctx, galleryPageSize))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// ByCategory filters public images on a category
// @Summary Gallery by category
// @Tags gallery
// @Produce json
// @Param category query string false "Category" Enums(all, FORMATION, EVENEMENT, INSTITUT)
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(12)
// @Success 200 {object} dto.PageResponse[dto.GalleryImageDto] "Matching images"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Unknown category"
// @Router /gallery/by-category [get]
func (c *GalleryController) ByCategory(ctx *gin.Context) {
	page, err := c.galleryService.ByCategory(ctx, ctx.Query("category"), helpers.ParsePageRequest(ctx, galleryPageSize))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// AdminByFormationName filters every image, public or not, on the linked formation
// @Summary Gallery administration search by formation name
// @Tags gallery
// @Produce json
// @Param nomFormation query string false "Part of the formation name"
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(12)
// @Success 200 {object} dto.PageResponse[dto.GalleryImageDto] "Matching images"
// @Router /gallery/admin/by-formation-nom-paged [get]
func (c *GalleryController) AdminByFormationName(ctx *gin.Context) {
	page, err := c.galleryService.AdminByFormationName(ctx, ctx.Query("nomFormation"), helpers.ParsePageRequest(ctx, galleryPageSize))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// AdminByCategory filters every image, public or not, on a category
// @Summary Gallery administration filter by category
// @Tags gallery
// @Produce json
// @Param category query string false "Category" Enums(all, FORMATION, EVENEMENT, INSTITUT)
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(12)
// @Success 200 {object} dto.PageResponse[dto.GalleryImageDto] "Matching images"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Unknown category"
// @Router /gallery/admin/by-category [get]
func (c *GalleryController) AdminByCategory(ctx *gin.Context) {
	page, err := c.galleryService.AdminByCategory(ctx, ctx.Query("category"), helpers.ParsePageRequest(ctx, galleryPageSize))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// GetImage returns one image
// @Summary Get gallery image
// @Tags gallery
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} dto.ApiResponse[dto.GalleryImageDto] "Image retrieved"
// @Failure 404 {object} dto.ApiResponse[dto.Empty] "Image not found"
// @Router /gallery/{id} [get]
func (c *GalleryController) GetImage(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	img, err := c.galleryService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Image récupérée avec succès", *img))
}

// CreateImage adds an image whose asset was uploaded beforehand
// @Summary Create gallery image
// @Tags gallery
// @Accept json
// @Produce json
// @Param request body dto.GalleryImageRequest true "Image"
// @Success 201 {object} dto.ApiResponse[dto.GalleryImageDto] "Image created"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Validation failed"
// @Router /gallery [post]
func (c *GalleryController) CreateImage(ctx *gin.Context) {
	var req dto.GalleryImageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	img, err := c.galleryService.Create(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, "Image ajoutée à la galerie !", *img))
}

// UpdateImage replaces the editable fields of an image
// @Summary Update gallery image
// @Tags gallery
// @Accept json
// @Produce json
// @Param id path int true "Image ID"
// @Param request body dto.GalleryImageRequest true "Image"
// @Success 200 {object} dto.ApiResponse[dto.GalleryImageDto] "Image updated"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Validation failed"
// @Failure 404 {object} dto.ApiResponse[dto.Empty] "Image not found"
// @Router /gallery/{id} [put]
func (c *GalleryController) UpdateImage(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.GalleryImageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	img, err := c.galleryService.Update(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Image modifiée avec succès !", *img))
}

// DeleteImage removes an image
// @Summary Delete gallery image
// @Tags gallery
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} dto.ApiResponse[dto.Empty] "Image deleted"
// @Failure 404 {object} dto.ApiResponse[dto.Empty] "Image not found"
// @Router /gallery/{id} [delete]
func (c *GalleryController) DeleteImage(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.galleryService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(http.StatusOK, "Image supprimée avec succès"))
}
