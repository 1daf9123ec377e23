package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/institut/vitrine/internal/app/controllers"
	"github.com/institut/vitrine/internal/middleware"
)

// Controllers groups the HTTP handlers mounted under /api/v1
type Controllers struct {
	Formation *controllers.FormationController
	Gallery   *controllers.GalleryController
	Asset     *controllers.AssetController
	Message   *controllers.MessageController
}

// SetupRouter configures all application routes.
// searchLimit guards the public search and form endpoints; nil disables it.
func SetupRouter(router *gin.Engine, c Controllers, searchLimit *middleware.RateLimiter) {
	// API version group
	v1 := router.Group("/api/v1")

	formations := v1.Group("/formations")
	{
		formations.GET("", c.Formation.ListFormations)
		formations.GET("/admin", c.Formation.ListAdminFormations)
		formations.GET("/search", searchLimit.Middleware(), c.Formation.SearchFormations)
		formations.GET("/selection", c.Formation.GetSelection)
		formations.GET("/slug/:slug", c.Formation.GetFormationBySlug)
		formations.GET("/:id", c.Formation.GetFormationByID)

		// Write routes record the administrator in the audit fields
		admin := formations.Group("")
		admin.Use(middleware.AdminUser())
		{
			admin.POST("", c.Formation.CreateFormation)
			admin.PUT("/:id", c.Formation.UpdateFormation)
			admin.DELETE("/:id", c.Formation.DeleteFormation)
		}
	}

	gallery := v1.Group("/gallery")
	{
		gallery.GET("/home-images", c.Gallery.HomeImages)
		gallery.GET("/paged", c.Gallery.ListPublic)
		gallery.GET("/admin/paged", c.Gallery.ListAdmin)
		gallery.GET("/admin/by-formation-nom-paged", c.Gallery.AdminByFormationName)
		gallery.GET("/admin/by-category", c.Gallery.AdminByCategory)
		gallery.GET("/by-formation-nom-paged", searchLimit.Middleware(), c.Gallery.ByFormationName)
		gallery.GET("/by-category", c.Gallery.ByCategory)
		gallery.GET("/:id", c.Gallery.GetImage)
		gallery.POST("", c.Gallery.CreateImage)
		gallery.PUT("/:id", c.Gallery.UpdateImage)
		gallery.DELETE("/:id", c.Gallery.DeleteImage)
	}

	if c.Message != nil {
		messages := v1.Group("/messages")
		{
			messages.POST("/pre-inscription", searchLimit.Middleware(), c.Message.PreInscription)
			messages.POST("/contact", searchLimit.Middleware(), c.Message.Contact)
			messages.GET("", middleware.AdminUser(), c.Message.ListMessages)
		}
		v1.POST("/newsletter/subscribe", searchLimit.Middleware(), c.Message.SubscribeNewsletter)
	}

	if c.Asset != nil {
		v1.POST("/assets/upload", c.Asset.Upload)
	}
}
