package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/services"
)

type AdminHandler struct {
	log      *logger.Logger
	adminSvc services.AdminService
}

func NewAdminHandler(log *logger.Logger, adminSvc services.AdminService) *AdminHandler {
	return &AdminHandler{
		log:      log.With("handler", "AdminHandler"),
		adminSvc: adminSvc,
	}
}

// POST /api/admin/sync/tmdb
func (h *AdminHandler) SyncTmdb(c *gin.Context) {
	mediaType := c.DefaultQuery("type", "all")

	result, err := h.adminSvc.SyncFromTmdb(c.Request.Context(), mediaType)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "tmdb_sync_failed", err)
		return
	}
	RespondOK(c, result)
}

// POST /api/admin/reco/rebuild
func (h *AdminHandler) RebuildReco(c *gin.Context) {
	result, err := h.adminSvc.RebuildRecommendations(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "reco_rebuild_failed", err)
		return
	}
	RespondOK(c, result)
}
