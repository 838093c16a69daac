package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
)

// TmdbClient is a thin proxy over the TMDB v3 API. Read-mostly endpoints
// are memoized through the cache under the "tmdb" namespace.
type TmdbClient interface {
	Trending(ctx context.Context, mediaType, timeWindow, language string) (*TmdbPage, error)
	Discover(ctx context.Context, mediaType string, params map[string]string) (*TmdbPage, error)
	MovieDetails(ctx context.Context, movieID int64, language string) (*TmdbDetails, error)
	TvDetails(ctx context.Context, tvID int64, language string) (*TmdbDetails, error)
	WatchProviders(ctx context.Context, mediaType string, id int64) (*TmdbWatchProviders, error)
	GenreList(ctx context.Context, mediaType, language string) ([]TmdbGenre, error)
	ProviderList(ctx context.Context, mediaType, region string) ([]TmdbProvider, error)
	ImageURL(path, size string) string
}

type TmdbPage struct {
	Page         int          `json:"page"`
	Results      []TmdbResult `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

type TmdbResult struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	OriginalLanguage string  `json:"original_language"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	GenreIDs         []int64 `json:"genre_ids"`
	MediaType        string  `json:"media_type"`
}

type TmdbDetails struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	Name             string      `json:"name"`
	Overview         string      `json:"overview"`
	PosterPath       string      `json:"poster_path"`
	BackdropPath     string      `json:"backdrop_path"`
	Popularity       float64     `json:"popularity"`
	VoteAverage      float64     `json:"vote_average"`
	VoteCount        int         `json:"vote_count"`
	OriginalLanguage string      `json:"original_language"`
	ReleaseDate      string      `json:"release_date"`
	FirstAirDate     string      `json:"first_air_date"`
	Runtime          int         `json:"runtime"`
	EpisodeRunTime   []int       `json:"episode_run_time"`
	Genres           []TmdbGenre `json:"genres"`
	Credits          struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
		} `json:"crew"`
	} `json:"credits"`
}

type TmdbGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TmdbProvider struct {
	ProviderID      int64  `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

type TmdbWatchProviders struct {
	Results map[string]struct {
		Flatrate []TmdbProvider `json:"flatrate"`
		Rent     []TmdbProvider `json:"rent"`
		Buy      []TmdbProvider `json:"buy"`
	} `json:"results"`
}

type tmdbClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      CacheService
}

func NewTmdbClient(log *logger.Logger, cache CacheService) (TmdbClient, error) {
	apiKey := os.Getenv("TMDB_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing TMDB_API_KEY")
	}

	baseURL := os.Getenv("TMDB_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}

	timeoutSec := 30
	if v := os.Getenv("TMDB_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &tmdbClient{
		log:        log.With("service", "TmdbClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		cache:      cache,
	}, nil
}

func (c *tmdbClient) request(ctx context.Context, endpoint string, params map[string]string, out any) error {
	values := url.Values{}
	values.Set("api_key", c.apiKey)
	for k, v := range params {
		values.Set(k, v)
	}

	reqURL := c.baseURL + endpoint + "?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("tmdb %s: read body: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}

// cachedRequest memoizes a GET under the tmdb namespace.
func (c *tmdbClient) cachedRequest(ctx context.Context, key, endpoint string, params map[string]string, ttl time.Duration, out any) error {
	if c.cache != nil {
		hit, err := c.cache.Get(ctx, key, out)
		if err != nil {
			c.log.Warn("tmdb cache read failed", "key", key, "error", err)
		}
		if hit {
			return nil
		}
	}
	if err := c.request(ctx, endpoint, params, out); err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, out, ttl); err != nil {
			c.log.Warn("tmdb cache write failed", "key", key, "error", err)
		}
	}
	return nil
}

func (c *tmdbClient) Trending(ctx context.Context, mediaType, timeWindow, language string) (*TmdbPage, error) {
	if timeWindow == "" {
		timeWindow = "week"
	}
	var page TmdbPage
	key := CacheKey(CacheNSTmdb, "trending", mediaType, timeWindow, language)
	endpoint := fmt.Sprintf("/trending/%s/%s", mediaType, timeWindow)
	if err := c.cachedRequest(ctx, key, endpoint, map[string]string{"language": language}, CacheTTL(CacheNSTmdb), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *tmdbClient) Discover(ctx context.Context, mediaType string, params map[string]string) (*TmdbPage, error) {
	var page TmdbPage
	if err := c.request(ctx, "/discover/"+mediaType, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *tmdbClient) MovieDetails(ctx context.Context, movieID int64, language string) (*TmdbDetails, error) {
	var details TmdbDetails
	key := CacheKey(CacheNSTmdb, "movie", strconv.FormatInt(movieID, 10), language)
	endpoint := fmt.Sprintf("/movie/%d", movieID)
	params := map[string]string{"language": language, "append_to_response": "credits"}
	if err := c.cachedRequest(ctx, key, endpoint, params, 2*time.Hour, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *tmdbClient) TvDetails(ctx context.Context, tvID int64, language string) (*TmdbDetails, error) {
	var details TmdbDetails
	key := CacheKey(CacheNSTmdb, "tv", strconv.FormatInt(tvID, 10), language)
	endpoint := fmt.Sprintf("/tv/%d", tvID)
	params := map[string]string{"language": language, "append_to_response": "credits"}
	if err := c.cachedRequest(ctx, key, endpoint, params, 2*time.Hour, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *tmdbClient) WatchProviders(ctx context.Context, mediaType string, id int64) (*TmdbWatchProviders, error) {
	var providers TmdbWatchProviders
	key := CacheKey(CacheNSTmdb, mediaType, "providers", strconv.FormatInt(id, 10))
	endpoint := fmt.Sprintf("/%s/%d/watch/providers", mediaType, id)
	if err := c.cachedRequest(ctx, key, endpoint, nil, 24*time.Hour, &providers); err != nil {
		return nil, err
	}
	return &providers, nil
}

func (c *tmdbClient) GenreList(ctx context.Context, mediaType, language string) ([]TmdbGenre, error) {
	var payload struct {
		Genres []TmdbGenre `json:"genres"`
	}
	key := CacheKey(CacheNSTmdb, "genres", mediaType, language)
	if err := c.cachedRequest(ctx, key, "/genre/"+mediaType+"/list", map[string]string{"language": language}, 7*24*time.Hour, &payload); err != nil {
		return nil, err
	}
	return payload.Genres, nil
}

func (c *tmdbClient) ProviderList(ctx context.Context, mediaType, region string) ([]TmdbProvider, error) {
	var payload struct {
		Results []TmdbProvider `json:"results"`
	}
	params := map[string]string{}
	if region != "" {
		params["watch_region"] = region
	}
	key := CacheKey(CacheNSTmdb, "providerlist", mediaType, region)
	if err := c.cachedRequest(ctx, key, "/watch/providers/"+mediaType, params, 24*time.Hour, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *tmdbClient) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return "https://image.tmdb.org/t/p/" + size + path
}
