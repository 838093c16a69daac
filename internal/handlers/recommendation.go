package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/requestdata"
	"github.com/cinefindr/cinefindr-backend/internal/services"
)

type RecommendationHandler struct {
	log     *logger.Logger
	recoSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recoSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:     log.With("handler", "RecommendationHandler"),
		recoSvc: recoSvc,
	}
}

// GET /api/recommendations?language&region&page&limit
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.recoSvc.GetPersonalized(c.Request.Context(), services.RecoRequest{
		UserID:   requestdata.UserID(c.Request.Context()),
		Language: c.Query("language"),
		Region:   c.Query("region"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "recommendations_failed", err)
		return
	}
	RespondOK(c, result)
}
