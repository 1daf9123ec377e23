package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/app/services"
	"github.com/institut/vitrine/internal/middleware"
	"github.com/institut/vitrine/internal/pkg/helpers"
	"github.com/institut/vitrine/internal/pkg/logger"
)

const (
	MsgPreInscriptionSaved = "Votre pré-inscription a bien été enregistrée !"
	MsgContactSent         = "Votre message a bien été envoyé !"
)

// MessageController handles the public forms: pre-inscription, contact and newsletter
type MessageController struct {
	messageService    *services.MessageService
	newsletterService *services.NewsletterService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService *services.MessageService, newsletterService *services.NewsletterService) *MessageController {
	return &MessageController{
		messageService:    messageService,
		newsletterService: newsletterService,
	}
}

// PreInscription records a pre-inscription to a formation
// @Summary Pre-register to a formation
// @Description The institute is notified by mail when SMTP is configured
// @Tags messages
// @Accept json
// @Produce json
// @Param request body dto.PreInscriptionRequest true "Pre-inscription"
// @Success 201 {object} dto.ApiResponse[dto.MessageDto] "Pre-inscription recorded"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Validation failed"
// @Router /messages/pre-inscription [post]
func (c *MessageController) PreInscription(ctx *gin.Context) {
	var req dto.PreInscriptionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if req.AdresseIP == "" {
		req.AdresseIP = ctx.ClientIP()
	}
	if req.UserAgent == "" {
		req.UserAgent = truncate(ctx.Request.UserAgent(), 500)
	}

	msg, err := c.messageService.PreInscription(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, MsgPreInscriptionSaved, *msg))
}

// Contact records a contact message
// @Summary Send a contact message
// @Tags messages
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact message"
// @Success 201 {object} dto.ApiResponse[dto.MessageDto] "Message recorded"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Validation failed"
// @Failure 429 {object} dto.ApiResponse[dto.Empty] "Too many requests"
// @Router /messages/contact [post]
func (c *MessageController) Contact(ctx *gin.Context) {
	var req dto.ContactRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if req.AdresseIP == "" {
		req.AdresseIP = ctx.ClientIP()
	}
	if req.UserAgent == "" {
		req.UserAgent = truncate(ctx.Request.UserAgent(), 500)
	}

	msg, err := c.messageService.Contact(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, MsgContactSent, *msg))
}

// ListMessages pages through received messages for the backoffice
// @Summary List messages
// @Description Newest first, filtered by type and a free-text query
// @Tags messages
// @Produce json
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Page size" default(20)
// @Param type query string false "Message type" Enums(all, PRE_INSCRIPTION, CONTACT)
// @Param q query string false "Matches nom, email, sujet or formation"
// @Success 200 {object} dto.ApiResponse[dto.PageResponse[dto.MessageDto]] "Messages retrieved"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Unknown type"
// @Router /messages [get]
func (c *MessageController) ListMessages(ctx *gin.Context) {
	req := helpers.ParsePageRequest(ctx, adminPageSize)
	page, err := c.messageService.List(ctx, req, ctx.Query("type"), ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	logger.Debug().Str("admin", middleware.GetAdminUser(ctx)).Int64("total", page.TotalElements).Msg("Messages listed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Messages récupérés avec succès", page))
}

// SubscribeNewsletter adds an address to the newsletter
// @Summary Subscribe to the newsletter
// @Tags newsletter
// @Accept json
// @Produce plain
// @Param request body dto.NewsletterSubscribeRequest true "Subscriber"
// @Success 200 {string} string "Confirmation message"
// @Failure 400 {object} dto.ApiResponse[dto.Empty] "Invalid email"
// @Failure 409 {object} dto.ApiResponse[dto.Empty] "Already subscribed"
// @Router /newsletter/subscribe [post]
func (c *MessageController) SubscribeNewsletter(ctx *gin.Context) {
	var req dto.NewsletterSubscribeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	msg, err := c.newsletterService.Subscribe(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, msg)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
