package auth

import (
	"net/http"

	"babytrack/internal/store"
	"babytrack/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestorKey = "requestor"

// RateLimit rejects requests over the limiter's quota, keyed by client IP.
// A nil limiter disables limiting.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c, l) {
			return
		}
		c.Next()
	}
}

func allow(c *gin.Context, l Limiter) bool {
	if l != nil && !l.Allow(c.Request.Context(), c.ClientIP()) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{"message": "Too Many Requests"}})
		return false
	}
	return true
}

// AdminOnly lets the request through only when the Authorization header
// resolves to an admin. It runs before any validation or store access of
// the handler.
func AdminOnly(st store.Store, limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c, limiter) {
			return
		}
		requestor, err := ResolveRequestor(c.Request.Context(), st, c.GetHeader("Authorization"))
		if err != nil {
			log.Error("resolve requestor", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal Server Error"}})
			return
		}
		if err := RequireAdmin(requestor); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		c.Set(requestorKey, requestor)
		c.Next()
	}
}

// Requestor returns the admin attached by AdminOnly, if any.
func Requestor(c *gin.Context) *user.User {
	v, ok := c.Get(requestorKey)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}
