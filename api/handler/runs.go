package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/scrape-playground/history"
	"github.com/use-agent/scrape-playground/models"
)

// ListRuns returns a handler for GET /api/v1/runs.
func ListRuns(runs *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := runs.List()
		c.JSON(http.StatusOK, models.RunsResponse{Runs: list, Total: len(list)})
	}
}

// GetRun returns a handler for GET /api/v1/runs/:id.
func GetRun(runs *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := runs.Get(c.Param("id"))
		if !ok {
			respondError(c, models.NewScrapeError(models.ErrCodeNotFound, models.MsgRunNotFound, nil))
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

// ClearRuns returns a handler for DELETE /api/v1/runs.
func ClearRuns(runs *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		runs.Clear()
		c.Status(http.StatusNoContent)
	}
}
