package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/services"
)

type ProviderHandler struct {
	log         *logger.Logger
	providerSvc services.ProviderService
}

func NewProviderHandler(log *logger.Logger, providerSvc services.ProviderService) *ProviderHandler {
	return &ProviderHandler{
		log:         log.With("handler", "ProviderHandler"),
		providerSvc: providerSvc,
	}
}

// GET /api/providers
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	region := c.DefaultQuery("region", "US")

	providers, err := h.providerSvc.GetProviders(c.Request.Context(), region)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "providers_failed", err)
		return
	}
	RespondOK(c, gin.H{"providers": providers})
}
