package api

import (
	"babytrack/internal/auth"
	"babytrack/internal/config"
	"babytrack/internal/logging"
	"babytrack/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the handlers need. Limiter may be nil to disable rate
// limiting.
type Deps struct {
	Config  *config.Config
	Store   store.Store
	Issuer  *auth.Issuer
	Limiter auth.Limiter
	Logger  *zap.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	// X-Forwarded-For is believed only from listed proxies; nil trusts none.
	if err := r.SetTrustedProxies(d.Config.Server.TrustedProxies); err != nil {
		log.Error("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsCfg), logging.RequestLogger(log), gin.Recovery())

	group := r.Group(d.Config.Server.Subpath)
	{
		group.GET("/health", healthHandler)
		group.POST("/auth/login", auth.RateLimit(d.Limiter), LoginHandler(d.Store, log))

		// Events: open
		group.GET("/events", ListEventsHandler(d.Store, log))
		group.POST("/events", CreateEventHandler(d.Store, log))
		group.GET("/events/:id", ListUserEventsByIDHandler(d.Store, log))
		group.DELETE("/events/:id", DeleteEventHandler(d.Store, log))

		// Users: admin only
		users := group.Group("/users", auth.AdminOnly(d.Store, d.Limiter, log))
		users.GET("", ListUsersHandler(d.Store, log))
		users.POST("", CreateUserHandler(d.Store, d.Issuer, log))
		users.GET("/:uuid", GetUserHandler(d.Store, log))
		users.DELETE("/:uuid", DeleteUserHandler(d.Store, log))
		users.GET("/:uuid/events", ListUserEventsHandler(d.Store, log))
	}
	return r
}
