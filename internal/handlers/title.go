package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/services"
)

type TitleHandler struct {
	log      *logger.Logger
	titleSvc services.TitleService
}

func NewTitleHandler(log *logger.Logger, titleSvc services.TitleService) *TitleHandler {
	return &TitleHandler{
		log:      log.With("handler", "TitleHandler"),
		titleSvc: titleSvc,
	}
}

// GET /api/titles/:id
func (h *TitleHandler) GetTitle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_title_id", err)
		return
	}

	language := c.DefaultQuery("language", "en-US")
	region := c.DefaultQuery("region", "US")

	title, err := h.titleSvc.GetTitleByID(c.Request.Context(), id, language, region)
	if err != nil {
		if errors.Is(err, services.ErrTitleNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "title_lookup_failed", err)
		return
	}
	RespondOK(c, title)
}

// GET /api/titles/:id/similar
func (h *TitleHandler) GetSimilarTitles(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_title_id", err)
		return
	}

	language := c.DefaultQuery("language", "en-US")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	similar, err := h.titleSvc.GetSimilarTitles(c.Request.Context(), id, language, limit)
	if err != nil {
		if errors.Is(err, services.ErrTitleNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "similar_lookup_failed", err)
		return
	}
	RespondOK(c, gin.H{"results": similar})
}
