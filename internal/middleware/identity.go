package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/requestdata"
)

const userIDHeader = "x-user-id"

type IdentityMiddleware struct {
	log *logger.Logger
}

func NewIdentityMiddleware(log *logger.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{log: log.With("Middleware", "IdentityMiddleware")}
}

// AttachIdentity reads the x-user-id header and stashes it on the request
// context. A missing or malformed header leaves the request anonymous
// (uuid.Nil); it never rejects the request.
func (im *IdentityMiddleware) AttachIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := uuid.Nil
		if raw := c.GetHeader(userIDHeader); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				im.log.Debug("Malformed user id header, treating as anonymous", "value", raw)
			} else {
				userID = parsed
			}
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
