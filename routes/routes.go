package routes

import (
	"context"
	"net/http"
	"time"

	"recircuit-api/controllers"
	"recircuit-api/middleware"
	"recircuit-api/services"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Store         services.Store
	Waste         *services.WasteService
	Innovations   *services.InnovationService
	Saved         *services.SavedInnovationService
	DefaultUserID string
	RequireUserID bool
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	waste := controllers.NewWasteController(deps.Waste)
	innovations := controllers.NewInnovationController(deps.Innovations)
	saved := controllers.NewSavedInnovationController(deps.Saved)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := deps.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ReCircuit API - Transform E-waste into Innovation"})
		})

		api.POST("/analyze-waste", waste.AnalyzeWaste)
		api.POST("/generate-innovations", innovations.GenerateInnovations)
		api.GET("/innovation/:id", innovations.GetInnovation)

		// Saved innovations are scoped to the caller
		user := api.Group("")
		user.Use(middleware.CallerIdentity(deps.DefaultUserID, deps.RequireUserID))
		{
			user.POST("/save-innovation", saved.SaveInnovation)
			user.GET("/saved-innovations", saved.GetSavedInnovations)
		}
	}
}
