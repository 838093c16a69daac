package main

import (
	"fmt"
	"os"

	"github.com/cinefindr/cinefindr-backend/internal/db"
	"github.com/cinefindr/cinefindr-backend/internal/handlers"
	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/middleware"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/server"
	"github.com/cinefindr/cinefindr-backend/internal/services"
	"github.com/cinefindr/cinefindr-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	profileRepo := repos.NewProfileRepo(thePG, log)
	titleRepo := repos.NewTitleRepo(thePG, log)
	interactionRepo := repos.NewInteractionRepo(thePG, log)
	embeddingRepo := repos.NewEmbeddingRepo(thePG, log)
	recoScoreRepo := repos.NewRecoScoreRepo(thePG, log)
	genreRepo := repos.NewGenreRepo(thePG, log)
	providerRepo := repos.NewProviderRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	cacheService, err := services.NewCacheService(log)
	if err != nil {
		log.Error("Could not init CacheService", "error", err)
		os.Exit(1)
	}
	defer cacheService.Close()
	tmdbClient, err := services.NewTmdbClient(log, cacheService)
	if err != nil {
		log.Error("Could not init TmdbClient", "error", err)
		os.Exit(1)
	}
	recoService := services.NewRecommendationService(thePG, log, cacheService, profileRepo, titleRepo, interactionRepo, recoScoreRepo)
	interactionService := services.NewInteractionService(thePG, log, userRepo, interactionRepo)
	searchService := services.NewSearchService(thePG, log, cacheService, titleRepo, tmdbClient)
	titleService := services.NewTitleService(thePG, log, cacheService, titleRepo, embeddingRepo, tmdbClient)
	genreService := services.NewGenreService(thePG, log, cacheService, genreRepo)
	providerService := services.NewProviderService(thePG, log, cacheService, providerRepo)
	profileService := services.NewProfileService(thePG, log, userRepo, profileRepo)
	adminService := services.NewAdminService(log, cacheService)

	// Handlers
	log.Info("Setting up Handlers from main...")
	recoHandler := handlers.NewRecommendationHandler(log, recoService)
	interactionHandler := handlers.NewInteractionHandler(log, interactionService)
	searchHandler := handlers.NewSearchHandler(log, searchService)
	titleHandler := handlers.NewTitleHandler(log, titleService)
	genreHandler := handlers.NewGenreHandler(log, genreService)
	providerHandler := handlers.NewProviderHandler(log, providerService)
	profileHandler := handlers.NewProfileHandler(log, profileService)
	adminHandler := handlers.NewAdminHandler(log, adminService)

	// Middleware
	identityMiddleware := middleware.NewIdentityMiddleware(log)

	// Router
	router := server.NewRouter(server.RouterConfig{
		IdentityMiddleware: identityMiddleware,
		RecoHandler:        recoHandler,
		InteractionHandler: interactionHandler,
		SearchHandler:      searchHandler,
		TitleHandler:       titleHandler,
		GenreHandler:       genreHandler,
		ProviderHandler:    providerHandler,
		ProfileHandler:     profileHandler,
		AdminHandler:       adminHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
