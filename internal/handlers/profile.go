package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/requestdata"
	"github.com/cinefindr/cinefindr-backend/internal/services"
)

type ProfileHandler struct {
	log        *logger.Logger
	profileSvc services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profileSvc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		log:        log.With("handler", "ProfileHandler"),
		profileSvc: profileSvc,
	}
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	profile, err := h.profileSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "profile_lookup_failed", err)
		return
	}
	if profile == nil {
		RespondOK(c, gin.H{"success": false, "message": "User ID required"})
		return
	}
	RespondOK(c, profile)
}

// POST /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	var input services.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	result, err := h.profileSvc.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "profile_update_failed", err)
		return
	}
	RespondOK(c, result)
}
