package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/services"
)

type GenreHandler struct {
	log      *logger.Logger
	genreSvc services.GenreService
}

func NewGenreHandler(log *logger.Logger, genreSvc services.GenreService) *GenreHandler {
	return &GenreHandler{
		log:      log.With("handler", "GenreHandler"),
		genreSvc: genreSvc,
	}
}

// GET /api/genres
func (h *GenreHandler) ListGenres(c *gin.Context) {
	genres, err := h.genreSvc.GetGenres(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "genres_failed", err)
		return
	}
	RespondOK(c, gin.H{"genres": genres})
}
