package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/scrape-playground/counter"
	"github.com/use-agent/scrape-playground/history"
	"github.com/use-agent/scrape-playground/models"
)

func counterEngine() *gin.Engine {
	s := counter.New("")
	r := gin.New()
	r.GET("/counter", GetCounter(s))
	r.POST("/counter/add", AddBear(s))
	r.POST("/counter/remove", RemoveBear(s))
	r.PUT("/counter/name", SetCounterName(s))
	r.POST("/counter/reset", ResetCounter(s))
	return r
}

func counterDo(t *testing.T, r http.Handler, method, path, body string) (int, models.CounterState) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var state models.CounterState
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	}
	return w.Code, state
}

func TestCounterEndpoints(t *testing.T) {
	r := counterEngine()

	_, state := counterDo(t, r, http.MethodGet, "/counter", "")
	assert.Equal(t, 0, state.Bears)

	counterDo(t, r, http.MethodPost, "/counter/add", "")
	_, state = counterDo(t, r, http.MethodPost, "/counter/add", "")
	assert.Equal(t, 2, state.Bears)

	_, state = counterDo(t, r, http.MethodPost, "/counter/remove", "")
	assert.Equal(t, 1, state.Bears)

	_, state = counterDo(t, r, http.MethodPut, "/counter/name", `{"name":"Ursa"}`)
	assert.Equal(t, "Ursa", state.Name)
	assert.Equal(t, 1, state.Bears)

	_, state = counterDo(t, r, http.MethodPost, "/counter/reset", "")
	assert.Equal(t, models.CounterState{}, state)

	// Removing below zero stays at zero.
	_, state = counterDo(t, r, http.MethodPost, "/counter/remove", "")
	assert.Equal(t, 0, state.Bears)
}

func TestSetCounterName_BadPayload(t *testing.T) {
	code, _ := counterDo(t, counterEngine(), http.MethodPut, "/counter/name", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name string
		key  staticKey
		mode string
	}{
		{"mock", "", "mock"},
		{"live", "fc-live", "live"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := history.New(5, "")
			runs.Start("example.com")

			r := gin.New()
			r.GET("/health", Health(tt.key, runs, time.Now().Add(-time.Minute)))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, http.StatusOK, w.Code)

			var resp models.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "healthy", resp.Status)
			assert.Equal(t, tt.mode, resp.Mode)
			assert.Equal(t, 1, resp.RecentRuns)
			assert.Equal(t, Version, resp.Version)
		})
	}
}
