package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cinefindr/cinefindr-backend/internal/handlers"
	"github.com/cinefindr/cinefindr-backend/internal/middleware"
)

type RouterConfig struct {
	IdentityMiddleware *middleware.IdentityMiddleware
	RecoHandler        *handlers.RecommendationHandler
	InteractionHandler *handlers.InteractionHandler
	SearchHandler      *handlers.SearchHandler
	TitleHandler       *handlers.TitleHandler
	GenreHandler       *handlers.GenreHandler
	ProviderHandler    *handlers.ProviderHandler
	ProfileHandler     *handlers.ProfileHandler
	AdminHandler       *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "x-user-id"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.IdentityMiddleware.AttachIdentity())
	{
		// Recommendations
		api.GET("/recommendations", cfg.RecoHandler.GetRecommendations)
		// Interactions
		api.POST("/interactions", cfg.InteractionHandler.CreateInteraction)
		// Catalog
		api.GET("/search", cfg.SearchHandler.Search)
		api.GET("/titles/:id", cfg.TitleHandler.GetTitle)
		api.GET("/titles/:id/similar", cfg.TitleHandler.GetSimilarTitles)
		api.GET("/genres", cfg.GenreHandler.ListGenres)
		api.GET("/providers", cfg.ProviderHandler.ListProviders)
		// Profile
		api.GET("/profile", cfg.ProfileHandler.GetProfile)
		api.POST("/profile", cfg.ProfileHandler.UpdateProfile)
		// Admin
		api.POST("/admin/sync/tmdb", cfg.AdminHandler.SyncTmdb)
		api.POST("/admin/reco/rebuild", cfg.AdminHandler.RebuildReco)
	}

	return router
}
