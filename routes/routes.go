package routes

import (
	"time"

	"suggestion-box-api/controllers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"success":   true,
				"status":    "online",
				"timestamp": time.Now().Format(time.RFC3339),
			})
		})

		suggestions := api.Group("/suggestions")
		{
			// Public route: the suggestion box form posts here
			suggestions.POST("", controllers.CreateSuggestion)

			// Admin panel routes (add an auth middleware here before
			// exposing the panel outside the institution's network)
			suggestions.GET("", controllers.GetSuggestions)
			suggestions.GET("/stats", controllers.GetSuggestionStats)
			suggestions.GET("/offensive", controllers.GetOffensiveSuggestions)
			suggestions.GET("/:id", controllers.GetSuggestion)
			suggestions.PATCH("/:id", controllers.UpdateSuggestion)
			suggestions.DELETE("/:id", controllers.DeleteSuggestion)
		}
	}
}
