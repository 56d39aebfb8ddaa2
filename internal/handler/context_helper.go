package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/middleware"
	"github.com/noah-isme/sma-timetable/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// requesterMeta names the caller that queued a job, when the route is authenticated.
func requesterMeta(c *gin.Context) map[string]interface{} {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil
	}
	return map[string]interface{}{"requested_by": claims.UserID}
}

// jobLocation builds the status URL of a queued job from the route that queued it.
func jobLocation(c *gin.Context, jobID string) string {
	route := c.FullPath()
	prefix := route
	if idx := strings.Index(route, "/projects"); idx >= 0 {
		prefix = route[:idx]
	}
	return prefix + "/jobs/" + jobID
}
