package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/wod-analyzer/backend/internal/service"
	"github.com/pageza/wod-analyzer/backend/internal/testhelpers"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

func setupHistoryRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	router := gin.New()
	NewHistoryHandler(service.NewWodService(db, nil)).RegisterRoutes(router.Group("/api/v1"))
	return router, db
}

func TestHistoryHandler(t *testing.T) {
	router, db := setupHistoryRouter(t)

	base := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	heavy := testhelpers.SampleAnalysis(t)
	first := testhelpers.CreateWodEntry(t, db, base, "Enjoy", heavy)
	second := testhelpers.CreateWodEntry(t, db, base.Add(time.Hour), "Blue Gorilla", nil)
	third := testhelpers.CreateWodEntry(t, db, base.Add(2*time.Hour), "Enjoy", heavy)

	t.Run("should list newest first", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/wods", nil)
		require.Equal(t, http.StatusOK, w.Code)

		entries := decodeList(t, w)
		require.Len(t, entries, 3)
		assert.Equal(t, third.ID.String(), entries[0]["id"])
		assert.Equal(t, first.ID.String(), entries[2]["id"])
		assert.Equal(t, "AMRAP 12", entries[0]["analisis"].(map[string]interface{})["tipo_wod"])
		assert.NotContains(t, entries[0], "embedding")
	})

	t.Run("should filter by location and limit", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/wods?ubicacion=Enjoy&limit=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		entries := decodeList(t, w)
		require.Len(t, entries, 1)
		assert.Equal(t, third.ID.String(), entries[0]["id"])

		w = performRequest(router, http.MethodGet, "/api/v1/wods?ubicacion=Playa", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("should reject a bad limit", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/wods?limit=-3", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = performRequest(router, http.MethodGet, "/api/v1/wods/stats?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should compute stats", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/wods/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var stats types.HistoryStats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 7.0, stats.MeanIntensity)
		assert.Equal(t, []string{"Enjoy", "Blue Gorilla"}, stats.Locations)

		w = performRequest(router, http.MethodGet, "/api/v1/wods/stats?ubicacion=Blue%20Gorilla", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 5.0, stats.MeanIntensity)
	})

	t.Run("should get an entry and its view", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/wods/"+first.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Enjoy", decodeObject(t, w)["ubicacion"])

		w = performRequest(router, http.MethodGet, "/api/v1/wods/"+first.ID.String()+"/view", nil)
		require.Equal(t, http.StatusOK, w.Code)
		wodView := decodeObject(t, w)
		patterns := wodView["patrones"].([]interface{})
		require.Len(t, patterns, 3)
		assert.Equal(t, "Sentadilla", patterns[0].(map[string]interface{})["nombre"])
		assert.Len(t, wodView["leyenda"], 4)
	})

	t.Run("should list similar entries", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/wods/"+first.ID.String()+"/similar?limit=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		similar := decodeList(t, w)
		require.Len(t, similar, 1)
		assert.Equal(t, third.ID.String(), similar[0]["id"])
		assert.Equal(t, float64(0), similar[0]["distance"])
	})

	t.Run("should 404 unknown entries", func(t *testing.T) {
		missing := uuid.New().String()
		assert.Equal(t, http.StatusNotFound, performRequest(router, http.MethodGet, "/api/v1/wods/"+missing, nil).Code)
		assert.Equal(t, http.StatusNotFound, performRequest(router, http.MethodGet, "/api/v1/wods/"+missing+"/view", nil).Code)
		assert.Equal(t, http.StatusNotFound, performRequest(router, http.MethodGet, "/api/v1/wods/"+missing+"/similar", nil).Code)
		assert.Equal(t, http.StatusNotFound, performRequest(router, http.MethodDelete, "/api/v1/wods/"+missing, nil).Code)
		assert.Equal(t, http.StatusBadRequest, performRequest(router, http.MethodGet, "/api/v1/wods/123", nil).Code)
	})

	t.Run("should delete", func(t *testing.T) {
		w := performRequest(router, http.MethodDelete, "/api/v1/wods/"+second.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, http.StatusNotFound, performRequest(router, http.MethodGet, "/api/v1/wods/"+second.ID.String(), nil).Code)
	})

	t.Run("should list the predefined locations", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/locations", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeObject(t, w)
		assert.Len(t, resp["locations"], len(types.PredefinedLocations))
		assert.Equal(t, "Otro", resp["other"])
	})
}

func TestHistoryHandler_StoreFailure(t *testing.T) {
	router, m := setupMockRouter(t)
	m.wods.On("List", mock.Anything, types.WodFilters{Limit: 10}).Return(nil, errors.New("failed to list WODs: connection reset"))

	w := performRequest(router, http.MethodGet, "/api/v1/wods?limit=10", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to list WODs: connection reset", decodeObject(t, w)["error"])
}
