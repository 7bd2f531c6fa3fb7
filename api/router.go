package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/scrape-playground/api/handler"
	"github.com/use-agent/scrape-playground/api/middleware"
	"github.com/use-agent/scrape-playground/cache"
	"github.com/use-agent/scrape-playground/config"
	"github.com/use-agent/scrape-playground/counter"
	"github.com/use-agent/scrape-playground/history"
	"github.com/use-agent/scrape-playground/webhook"
)

// Deps are the long-lived components the routes are wired to.
type Deps struct {
	Upstream    handler.Upstream
	Credentials handler.Credentials
	Runs        *history.Store
	Counter     *counter.Store
	Cache       *cache.Cache
	Webhook     *webhook.Notifier
	StartTime   time.Time
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:    Recovery → Logger
//	Protected: Auth (if enabled) → RateLimit
//
// Health is outside auth so monitoring probes always work. POST /api/scrape
// is the path the playground page calls; /api/v1/scrape is the same handler.
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(gin.Logger())

	var protected []gin.HandlerFunc
	if cfg.Auth.Enabled {
		protected = append(protected, middleware.Auth(cfg.Auth.APIKeys))
	}
	protected = append(protected, middleware.RateLimit(cfg.RateLimit))

	scrape := handler.Scrape(d.Upstream, d.Credentials, d.Runs, d.Cache, d.Webhook)

	r.Group("/api", protected...).POST("/scrape", scrape)

	v1 := r.Group("/api/v1")

	// Health: no auth required.
	v1.GET("/health", handler.Health(d.Credentials, d.Runs, d.StartTime))

	p := v1.Group("", protected...)

	// Scrape
	p.POST("/scrape", scrape)

	// Recent runs
	p.GET("/runs", handler.ListRuns(d.Runs))
	p.GET("/runs/:id", handler.GetRun(d.Runs))
	p.DELETE("/runs", handler.ClearRuns(d.Runs))

	// Counter demo
	p.GET("/counter", handler.GetCounter(d.Counter))
	p.POST("/counter/add", handler.AddBear(d.Counter))
	p.POST("/counter/remove", handler.RemoveBear(d.Counter))
	p.PUT("/counter/name", handler.SetCounterName(d.Counter))
	p.POST("/counter/reset", handler.ResetCounter(d.Counter))

	return r
}
