package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantrychef/backend/internal/api"
	"github.com/pageza/pantrychef/backend/internal/metrics"
	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/service"
)

// Handlers groups the API handlers mounted under /api/v1.
type Handlers struct {
	Auth    *api.AuthHandler
	Pantry  *api.PantryHandler
	Recipes *api.RecipeHandler
	Theme   *api.ThemeHandler
	Health  gin.HandlerFunc
}

// Options carries the cross-cutting pieces of the router.
type Options struct {
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	// RateLimiter guards recipe generation; nil disables it.
	RateLimiter *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, authService service.IAuthService, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(opts.Logger))
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(opts.Metrics.Middleware())
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.GET("/health", h.Health)
	router.GET("/metrics", opts.Metrics.Handler())

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.GET("/auth/me", h.Auth.Me)
		protected.POST("/auth/logout", h.Auth.Logout)

		// Pantry routes
		products := protected.Group("/products")
		{
			products.GET("", h.Pantry.ListProducts)
			products.POST("", h.Pantry.AddProduct)
			products.DELETE("/:id", h.Pantry.DeleteProduct)
		}

		// Dietary profile routes
		dietary := protected.Group("/profile/dietary")
		{
			dietary.GET("", h.Pantry.GetDietaryProfile)
			dietary.PUT("", h.Pantry.ReplaceDietaryProfile)
			dietary.POST("/toggle", h.Pantry.ToggleDietary)
			dietary.POST("/custom-allergens", h.Pantry.AddCustomAllergen)
			dietary.DELETE("/custom-allergens/:value", h.Pantry.RemoveCustomAllergen)
		}

		// Recipe routes
		recipes := protected.Group("/recipes")
		{
			generate := []gin.HandlerFunc{h.Recipes.Generate}
			if opts.RateLimiter != nil {
				generate = append([]gin.HandlerFunc{opts.RateLimiter.RateLimitMiddleware()}, generate...)
			}
			recipes.POST("/generate", generate...)

			recipes.GET("", h.Recipes.ListRecipes)
			recipes.POST("", h.Recipes.SaveRecipe)
			recipes.GET("/:id", h.Recipes.GetRecipe)
			recipes.PUT("/:id", h.Recipes.UpdateRecipe)
			recipes.DELETE("/:id", h.Recipes.DeleteRecipe)
			recipes.POST("/:id/favorite", h.Recipes.ToggleFavorite)
			recipes.POST("/:id/share", h.Recipes.ShareRecipe)
		}

		// Theme routes
		theme := protected.Group("/preferences/theme")
		{
			theme.GET("", h.Theme.GetTheme)
			theme.POST("/next", h.Theme.NextTheme)
		}
	}

	return router
}
