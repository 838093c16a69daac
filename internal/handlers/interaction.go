package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/requestdata"
	"github.com/cinefindr/cinefindr-backend/internal/services"
)

type InteractionHandler struct {
	log            *logger.Logger
	interactionSvc services.InteractionService
}

func NewInteractionHandler(log *logger.Logger, interactionSvc services.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		log:            log.With("handler", "InteractionHandler"),
		interactionSvc: interactionSvc,
	}
}

// POST /api/interactions
func (h *InteractionHandler) CreateInteraction(c *gin.Context) {
	var input services.CreateInteractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	result, err := h.interactionSvc.RecordInteraction(c.Request.Context(), requestdata.UserID(c.Request.Context()), input)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "interaction_failed", err)
		return
	}
	RespondOK(c, result)
}
