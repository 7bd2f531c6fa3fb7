package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/scrape-playground/counter"
	"github.com/use-agent/scrape-playground/models"
)

// GetCounter returns a handler for GET /api/v1/counter.
func GetCounter(s *counter.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Get())
	}
}

// AddBear returns a handler for POST /api/v1/counter/add.
func AddBear(s *counter.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Add())
	}
}

// RemoveBear returns a handler for POST /api/v1/counter/remove.
func RemoveBear(s *counter.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Remove())
	}
}

// SetCounterName returns a handler for PUT /api/v1/counter/name.
func SetCounterName(s *counter.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CounterNameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, models.MsgInvalidPayload, err))
			return
		}
		c.JSON(http.StatusOK, s.SetName(req.Name))
	}
}

// ResetCounter returns a handler for POST /api/v1/counter/reset.
func ResetCounter(s *counter.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Reset())
	}
}
