package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/scrape-playground/history"
	"github.com/use-agent/scrape-playground/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Mode is "mock" while no upstream credential is configured.
func Health(creds Credentials, runs *history.Store, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := "mock"
		if _, ok := creds.Credential(); ok {
			mode = "live"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:     "healthy",
			Uptime:     time.Since(startTime).Round(time.Second).String(),
			Mode:       mode,
			RecentRuns: runs.Len(),
			Version:    Version,
		})
	}
}
