package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/app/services"
	"github.com/institut/vitrine/internal/middleware"
	"github.com/institut/vitrine/internal/pkg/helpers"
)

const (
	formationPageSize = 9
	adminPageSize     = 20
)

// FormationController handles formation catalog endpoints
type FormationController struct {
	formationService *services.FormationService
}

// NewFormationController creates a new FormationController
func NewFormationController(formationService *services.FormationService) *FormationController {
	return &FormationController{
		formationService: formationService,
	}
}

// ListFormations returns the public catalog
// @Summary List active formations
// @Description Returns a page of active formations, newest first unless sortBy is given
// @Tags formations
// @Produce json
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(9)
// @Param sortBy query string false "Sort field" Enums(dateCreation, dateModification, nom, prix, categorie, nombreVues)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Param categorie query string false "Exact category, or all"
// @Success 200 {object} dto.ApiResponse[dto.PageResponse[dto.FormationListDto]] "Formations retrieved"
// @Failure 500 {object} dto.ApiResponse[dto.Empty] "Internal server error"
// @Router /formations [get]
func (c *FormationController) ListFormations(ctx *gin.Context) {
	req := helpers.ParsePageRequest(ctx, formationPageSize)
	page, err := c.formationService.ListPublic(ctx, req, ctx.Query("categorie"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Formations récupérées avec succès", page))
}

// ListAdminFormations returns every formation for the backoffice
// @Summary List formations for administration
// @Description Returns active and inactive formations, filtered by status and a free-text query
// @Tags formations
// @Produce json
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(20)
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Param status query string false "Visibility filter" Enums(all, active, inactive)
// @Param q query string false "Matches nom or categorie"
// @Success 200 {object} dto.ApiResponse[dto.PageResponse[dto.FormationAdminDto]] "Formations retrieved"
// @Failure 500 {object} dto.ApiResponse[dto.Empty] "Internal server error"
// @Router /formations/admin [get]
func (c *FormationController) ListAdminFormations(ctx *gin.Context) {
	req := helpers.ParsePageRequest(ctx, adminPageSize)
	status := models.ParseAdminStatus(ctx.Query("status"))
	page, err := c.formationService.ListAdmin(ctx, req, status, ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Formations récupérées avec succès", page))
}

// SearchFormations searches the public catalog
// @Summary Search formations
// @Description Case-insensitive match on nom or categorie; an empty query lists the catalog
// @Tags formations
// @Produce json
// @Param q query string false "Search text"
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(9)
// @Success 200 {object} dto.ApiResponse[dto.PageResponse[dto.FormationListDto]] "Search results"
// @Failure 429 {object} dto.ApiResponse[dto.Empty] "Too many requests"
// @Failure 500 {object} dto.ApiResponse[dto.Empty] "Internal server error"
// @Router /formations/search [get]
func (c *FormationController) SearchFormations(ctx *gin.Context) {
	req := helpers.ParsePageRequest(ctx, formationPageSize)
	page, err := c.formationService.Search(ctx, ctx.Query("q"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Recherche effectuée avec succès", page))
}

// GetFormationBySlug returns the public detail page of a formation
// @Summary Get formation by slug
// @Description Returns an active formation and counts the view
// @Tags formations
// @Produce json
// @Param slug path string true "Formation slug"
// @Success 200 {object} dto.ApiResponse[dto.FormationDetailDto] "Formation retrieved"
// @Failure 404 {object} dto.ApiResponse[dto.Empty] "Formation not found"
// @Router /formations/slug/{slug} [get]
func (c *FormationController) GetFormationBySlug(ctx *gin.Context) {
	formation, err := c.formationService.GetBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Formation récupérée avec succès", *formation))
}

// GetFormationByID returns a formation, active or not
// @Summary Get formation by ID
// @Tags formations
// @Produce json
// @Param id path int true "Formation ID"
// @Success 200 {object} dto.ApiResponse[dto.FormationDetailDto] "Formation retrieved"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Invalid ID"
// @Failure 404 {object} dto.ApiResponse[dto.Empty] "Formation not found"
// @Router /formations/{id} [get]
func (c *FormationController) GetFormationByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	formation, err := c.formationService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Formation récupérée avec succès", *formation))
}

// GetSelection returns the pick-list used by the gallery form
// @Summary Formation pick-list
// @Description Active formations as {id, nom, slug}, sorted by name
// @Tags formations
// @Produce json
// @Success 200 {object} dto.ApiResponse[[]dto.FormationSelectionDto] "Selection retrieved"
// @Router /formations/selection [get]
func (c *FormationController) GetSelection(ctx *gin.Context) {
	refs, err := c.formationService.Selection(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Sélection récupérée avec succès", refs))
}

// CreateFormation handles formation creation
// @Summary Create a formation
// @Description Creates a formation; the slug is generated from nom when absent
// @Tags formations
// @Accept json
// @Produce json
// @Param X-Admin-User header string false "Administrator recorded in the audit fields"
// @Param request body dto.FormationCreateDto true "Formation"
// @Success 201 {object} dto.ApiResponse[dto.FormationDetailDto] "Formation created"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Validation failed"
// @Failure 409 {object} dto.ApiResponse[dto.Empty] "Slug already used"
// @Router /formations [post]
func (c *FormationController) CreateFormation(ctx *gin.Context) {
	var req dto.FormationCreateDto
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	formation, err := c.formationService.Create(ctx, req, middleware.GetAdminUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, "Formation créée avec succès !", *formation))
}

// UpdateFormation applies a partial update
// @Summary Update a formation
// @Description Only the provided fields change; {"active": true} reactivates a formation
// @Tags formations
// @Accept json
// @Produce json
// @Param X-Admin-User header string false "Administrator recorded in the audit fields"
// @Param id path int true "Formation ID"
// @Param request body dto.FormationUpdateDto true "Fields to change"
// @Success 200 {object} dto.ApiResponse[dto.FormationDetailDto] "Formation updated"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Validation failed"
// @Failure 404 {object} dto.ApiResponse[dto.Empty] "Formation not found"
// @Failure 409 {object} dto.ApiResponse[dto.Empty] "Slug already used"
// @Router /formations/{id} [put]
func (c *FormationController) UpdateFormation(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.FormationUpdateDto
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	formation, err := c.formationService.Update(ctx, id, req, middleware.GetAdminUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Formation modifiée avec succès", *formation))
}

// DeleteFormation logically deletes a formation
// @Summary Delete a formation
// @Tags formations
// @Produce json
// @Param id path int true "Formation ID"
// @Success 200 {object} dto.ApiResponse[dto.Empty] "Formation deleted"
// @Failure 404 {object} dto.ApiResponse[dto.Empty] "Formation not found"
// @Router /formations/{id} [delete]
func (c *FormationController) DeleteFormation(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.formationService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(http.StatusOK, "Formation supprimée avec succès"))
}
