package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/services"
)

type SearchHandler struct {
	log       *logger.Logger
	searchSvc services.SearchService
}

func NewSearchHandler(log *logger.Logger, searchSvc services.SearchService) *SearchHandler {
	return &SearchHandler{
		log:       log.With("handler", "SearchHandler"),
		searchSvc: searchSvc,
	}
}

// GET /api/search
func (h *SearchHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	yearFrom, _ := strconv.Atoi(c.Query("yearFrom"))
	yearTo, _ := strconv.Atoi(c.Query("yearTo"))
	minRating, _ := strconv.ParseFloat(c.Query("minRating"), 64)
	minRuntime, _ := strconv.Atoi(c.Query("minRuntime"))
	maxRuntime, _ := strconv.Atoi(c.Query("maxRuntime"))

	result, err := h.searchSvc.Search(c.Request.Context(), services.SearchQuery{
		Q:          c.Query("q"),
		Language:   c.DefaultQuery("language", "en-US"),
		Region:     c.DefaultQuery("region", "US"),
		Type:       c.DefaultQuery("type", "all"),
		Page:       page,
		Genres:     splitCSV(c.Query("genres")),
		YearFrom:   yearFrom,
		YearTo:     yearTo,
		MinRating:  minRating,
		MinRuntime: minRuntime,
		MaxRuntime: maxRuntime,
		Providers:  splitCSV(c.Query("providers")),
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}
	RespondOK(c, result)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
