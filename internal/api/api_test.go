package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplysim/internal/config"
	"supplysim/internal/service"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultGenerator()
	cfg.EndDate = time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	return NewRouter(service.NewDatasetService(cfg, nil), nil)
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSummaryBeforeGeneration(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/datasets/summary")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateAndQuery(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/datasets/generate")
	require.Equal(t, http.StatusOK, w.Code)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.NotEmpty(t, summary["run_id"])
	assert.EqualValues(t, 31*4, summary["weather_rows"])

	w = doRequest(router, http.MethodGet, "/api/v1/datasets/summary")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/datasets/orders?region=North&page_size=5")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Rows []struct {
			OrderID string `json:"order_id"`
			Region  string `json:"region"`
		} `json:"rows"`
		Total    int `json:"total"`
		PageSize int `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Rows, 5)
	assert.Equal(t, 5, page.PageSize)
	assert.Positive(t, page.Total)
	for _, row := range page.Rows {
		assert.Equal(t, "North", row.Region)
		assert.NotEmpty(t, row.OrderID)
	}
}

func TestWeatherDateRangeQuery(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/datasets/generate")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/datasets/weather?from=2023-01-10&to=2023-01-12&page_size=100")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Rows  []map[string]any `json:"rows"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 3*4, page.Total)
}
