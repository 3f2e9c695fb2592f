package api

import (
	"github.com/Ayash-Bera/geonews/backend/internal/api/handlers"
	"github.com/Ayash-Bera/geonews/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	News   *handlers.NewsHandler
	Health *handlers.HealthHandler
	Root   *handlers.RootHandler
}

// NewRouter mounts every handler behind the shared middleware chain.
// The rate limit applies to the news endpoints only.
func NewRouter(h Handlers, limiter *middleware.RateLimiter, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())

	h.Root.Register(router)
	h.Health.Register(router)

	news := router.Group("/")
	if limiter != nil {
		news.Use(limiter.RateLimit())
	}
	h.News.Register(news)

	return router
}
