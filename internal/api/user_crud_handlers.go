package api

import (
	"errors"
	"net/http"
	"strconv"

	"babytrack/internal/auth"
	"babytrack/internal/store"
	"babytrack/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required"`
}

// GET /users  [admin only]
func ListUsersHandler(st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := st.FindUsers(c.Request.Context())
		if err != nil {
			internalError(c, log, "list users", err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// POST /users  [admin only]
func CreateUserHandler(st store.Store, issuer *auth.Issuer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithMessage(c, http.StatusBadRequest, "Invalid user: name, password, email and role are required")
			return
		}
		role := user.Role(req.Role)
		if !role.Valid() {
			abortWithMessage(c, http.StatusBadRequest, "role must be admin or standard")
			return
		}
		ctx := c.Request.Context()
		existing, err := st.FindUserByEmail(ctx, req.Email)
		if err != nil {
			internalError(c, log, "create user", err)
			return
		}
		if existing != nil {
			abortWithMessage(c, http.StatusBadRequest, "Email already in use")
			return
		}
		u, err := issuer.NewUser(req.Name, req.Password, req.Email, role)
		if err != nil {
			internalError(c, log, "create user", err)
			return
		}
		if err := st.CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrConstraintViolation) {
				abortWithMessage(c, http.StatusBadRequest, "Email already in use")
				return
			}
			internalError(c, log, "create user", err)
			return
		}
		log.Info("user created",
			zap.String("uuid", u.UUID),
			zap.String("role", string(u.Role)),
			zap.String("by", requestorUUID(c)),
		)
		c.JSON(http.StatusOK, u)
	}
}

// GET /users/:uuid  [admin only]
func GetUserHandler(st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c)
		if !ok {
			return
		}
		u, err := st.FindUserByUUID(c.Request.Context(), id)
		if err != nil {
			internalError(c, log, "get user", err)
			return
		}
		if u == nil {
			c.Status(http.StatusOK)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// GET /users/:uuid/events  [admin only]
func ListUserEventsHandler(st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		u, err := st.FindUserByUUID(ctx, id)
		if err != nil {
			internalError(c, log, "list user events", err)
			return
		}
		if u == nil {
			c.JSON(http.StatusOK, []any{})
			return
		}
		events, err := st.FindEvents(ctx, store.EventFilter{UserID: &u.ID})
		if err != nil {
			internalError(c, log, "list user events", err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// DELETE /users/:uuid  [admin only]
func DeleteUserHandler(st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c)
		if !ok {
			return
		}
		n, err := st.DeleteUser(c.Request.Context(), id)
		if err != nil {
			internalError(c, log, "delete user", err)
			return
		}
		if n > 0 {
			log.Info("user deleted", zap.String("uuid", id), zap.String("by", requestorUUID(c)))
		}
		c.String(http.StatusOK, strconv.FormatInt(n, 10))
	}
}

// uuidParam returns the path uuid in the canonical lowercase dashed form
// that users are stored under.
func uuidParam(c *gin.Context) (string, bool) {
	parsed, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, "uuid is malformed")
		return "", false
	}
	return parsed.String(), true
}

func requestorUUID(c *gin.Context) string {
	if u := auth.Requestor(c); u != nil {
		return u.UUID
	}
	return ""
}
