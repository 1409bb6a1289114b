package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/oakline-signs/site-backend/internal/api/http"
	"github.com/oakline-signs/site-backend/internal/api/http/middleware"
	contacthttp "github.com/oakline-signs/site-backend/internal/contact/http"
	"github.com/oakline-signs/site-backend/internal/metrics"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Intake         contacthttp.IntakeService
	Limiter        *middleware.IPRateLimiter
	Checks         map[string]httpapi.PingFunc
	Metrics        *metrics.Metrics
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))
	if dep.Metrics != nil {
		r.Use(dep.Metrics.Middleware())
		r.GET("/metrics", dep.Metrics.Handler())
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Checks)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	contactGroup := api.Group("/contact")
	contacthttp.New(dep.Intake).Register(contactGroup, middleware.RateLimit(dep.Limiter))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"Content-Length", "X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
