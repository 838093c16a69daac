package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cinefindr/cinefindr-backend/internal/db"
	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/repos"
	"github.com/cinefindr/cinefindr-backend/internal/services"
	"github.com/cinefindr/cinefindr-backend/internal/types"
	"github.com/cinefindr/cinefindr-backend/internal/utils"
)

// seed pulls trending and discover pages from TMDB into the local catalog:
// genres and providers first, then titles with per-title details, credits
// and watch availability. Per-title failures are logged and skipped so a
// flaky upstream page never aborts the whole run.
func main() {
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

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	titleRepo := repos.NewTitleRepo(thePG, log)
	genreRepo := repos.NewGenreRepo(thePG, log)
	providerRepo := repos.NewProviderRepo(thePG, log)
	availabilityRepo := repos.NewAvailabilityRepo(thePG, log)

	cacheService, err := services.NewCacheService(log)
	if err != nil {
		log.Error("Could not init CacheService", "error", err)
		os.Exit(1)
	}
	defer cacheService.Close()
	tmdb, err := services.NewTmdbClient(log, cacheService)
	if err != nil {
		log.Error("Could not init TmdbClient", "error", err)
		os.Exit(1)
	}

	pages := utils.GetEnvAsInt("SEED_PAGES", 5, log)
	region := utils.GetEnv("SEED_REGION", "US", log)
	language := utils.GetEnv("SEED_LANGUAGE", "en-US", log)
	delay := time.Duration(utils.GetEnvAsInt("SEED_DELAY_MS", 250, log)) * time.Millisecond

	ctx := context.Background()
	s := &seeder{
		log:              log,
		tmdb:             tmdb,
		titleRepo:        titleRepo,
		genreRepo:        genreRepo,
		providerRepo:     providerRepo,
		availabilityRepo: availabilityRepo,
		region:           region,
		language:         language,
		delay:            delay,
		genreNames:       map[int64]string{},
	}

	for _, mediaType := range []string{"movie", "tv"} {
		if err := s.seedGenres(ctx, mediaType); err != nil {
			log.Error("Genre seed failed", "media_type", mediaType, "error", err)
			os.Exit(1)
		}
		if err := s.seedProviders(ctx, mediaType); err != nil {
			log.Error("Provider seed failed", "media_type", mediaType, "error", err)
			os.Exit(1)
		}
	}

	total := 0
	for _, mediaType := range []string{"movie", "tv"} {
		n, err := s.seedTitles(ctx, mediaType, pages)
		if err != nil {
			log.Error("Title seed failed", "media_type", mediaType, "error", err)
			os.Exit(1)
		}
		total += n
	}

	log.Info("Seed complete", "titles", total)
}

type seeder struct {
	log              *logger.Logger
	tmdb             services.TmdbClient
	titleRepo        repos.TitleRepo
	genreRepo        repos.GenreRepo
	providerRepo     repos.ProviderRepo
	availabilityRepo repos.AvailabilityRepo
	region           string
	language         string
	delay            time.Duration
	genreNames       map[int64]string
}

func (s *seeder) seedGenres(ctx context.Context, mediaType string) error {
	genres, err := s.tmdb.GenreList(ctx, mediaType, s.language)
	if err != nil {
		return err
	}
	for _, g := range genres {
		s.genreNames[g.ID] = g.Name
		if _, err := s.genreRepo.Upsert(ctx, nil, &types.Genre{TmdbID: g.ID, Name: g.Name}); err != nil {
			return err
		}
	}
	s.log.Info("Seeded genres", "media_type", mediaType, "count", len(genres))
	return nil
}

func (s *seeder) seedProviders(ctx context.Context, mediaType string) error {
	providers, err := s.tmdb.ProviderList(ctx, mediaType, s.region)
	if err != nil {
		return err
	}
	for _, p := range providers {
		_, err := s.providerRepo.Upsert(ctx, nil, &types.Provider{
			TmdbID:          p.ProviderID,
			Name:            p.ProviderName,
			LogoPath:        p.LogoPath,
			Regions:         types.JSONStrings([]string{s.region}),
			DisplayPriority: p.DisplayPriority,
		})
		if err != nil {
			return err
		}
	}
	s.log.Info("Seeded providers", "media_type", mediaType, "count", len(providers))
	return nil
}

func (s *seeder) seedTitles(ctx context.Context, mediaType string, pages int) (int, error) {
	seeded := 0
	for page := 1; page <= pages; page++ {
		result, err := s.tmdb.Discover(ctx, mediaType, map[string]string{
			"page":         strconv.Itoa(page),
			"language":     s.language,
			"sort_by":      "popularity.desc",
			"watch_region": s.region,
		})
		if err != nil {
			return seeded, err
		}
		for _, r := range result.Results {
			if err := s.seedTitle(ctx, mediaType, r.ID); err != nil {
				s.log.Warn("Skipping title", "media_type", mediaType, "tmdb_id", r.ID, "error", err)
				continue
			}
			seeded++
		}
		if page > result.TotalPages {
			break
		}
		time.Sleep(s.delay)
	}
	return seeded, nil
}

func (s *seeder) seedTitle(ctx context.Context, mediaType string, tmdbID int64) error {
	var details *services.TmdbDetails
	var err error
	titleType := types.TitleTypeMovie
	if mediaType == "tv" {
		titleType = types.TitleTypeSeries
		details, err = s.tmdb.TvDetails(ctx, tmdbID, s.language)
	} else {
		details, err = s.tmdb.MovieDetails(ctx, tmdbID, s.language)
	}
	if err != nil {
		return err
	}

	title, err := s.titleRepo.Upsert(ctx, nil, buildTitle(titleType, s.language, details))
	if err != nil {
		return err
	}

	watch, err := s.tmdb.WatchProviders(ctx, mediaType, tmdbID)
	if err != nil {
		return err
	}
	var rows []*types.Availability
	if regional, ok := watch.Results[s.region]; ok {
		for kind, providers := range map[string][]services.TmdbProvider{
			"flatrate": regional.Flatrate,
			"rent":     regional.Rent,
			"buy":      regional.Buy,
		} {
			for _, p := range providers {
				rows = append(rows, &types.Availability{
					TitleID:      title.ID,
					Region:       s.region,
					ProviderName: p.ProviderName,
					Kind:         kind,
				})
			}
		}
	}
	return s.availabilityRepo.ReplaceForTitle(ctx, nil, title.ID, rows)
}

func buildTitle(titleType, language string, d *services.TmdbDetails) *types.Title {
	name := d.Title
	if name == "" {
		name = d.Name
	}
	releaseRaw := d.ReleaseDate
	if releaseRaw == "" {
		releaseRaw = d.FirstAirDate
	}
	var release *time.Time
	if parsed, err := time.Parse("2006-01-02", releaseRaw); err == nil {
		release = &parsed
	}
	var runtime *int
	if d.Runtime > 0 {
		runtime = &d.Runtime
	} else if len(d.EpisodeRunTime) > 0 {
		runtime = &d.EpisodeRunTime[0]
	}

	var genres []string
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}
	var cast, crew []string
	for i, c := range d.Credits.Cast {
		if i >= 10 {
			break
		}
		cast = append(cast, c.Name)
	}
	for i, c := range d.Credits.Crew {
		if i >= 10 {
			break
		}
		crew = append(crew, c.Name)
	}

	return &types.Title{
		TmdbID:             d.ID,
		Type:               titleType,
		OriginalTitle:      name,
		Overview:           d.Overview,
		LocalizedTitles:    types.JSONMap(map[string]any{language: name}),
		LocalizedOverviews: types.JSONMap(map[string]any{language: d.Overview}),
		Genres:             types.JSONStrings(genres),
		PosterPath:         d.PosterPath,
		BackdropPath:       d.BackdropPath,
		Popularity:         d.Popularity,
		Rating:             d.VoteAverage,
		VoteCount:          d.VoteCount,
		OriginalLanguage:   d.OriginalLanguage,
		Cast:               types.JSONStrings(cast),
		Crew:               types.JSONStrings(crew),
		ReleaseDate:        release,
		Runtime:            runtime,
	}
}
