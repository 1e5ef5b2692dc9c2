package api

import (
	"net/http"

	"babytrack/internal/store"
	"babytrack/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	UUID  string    `json:"uuid"`
	Name  string    `json:"name"`
	Role  user.Role `json:"role"`
}

// POST /auth/login hands back the stored token of a user whose password matches.
func LoginHandler(st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithMessage(c, http.StatusBadRequest, "Invalid request")
			return
		}
		u, err := st.FindUserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			internalError(c, log, "login", err)
			return
		}
		if u == nil || user.CheckPassword(u.Password, req.Password) != nil {
			abortWithMessage(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		c.JSON(http.StatusOK, LoginResponse{
			Token: u.Token,
			UUID:  u.UUID,
			Name:  u.Name,
			Role:  u.Role,
		})
	}
}
