package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/wod-analyzer/backend/internal/metrics"
	"github.com/pageza/wod-analyzer/backend/internal/middleware"
	"github.com/pageza/wod-analyzer/backend/internal/mocks"
	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/service"
	"github.com/pageza/wod-analyzer/backend/internal/testhelpers"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

func sampleComparison() *types.WodComparison {
	return &types.WodComparison{
		IntensityYesterday:  8,
		IntensityToday:      7,
		IntensityCumulative: 15,
		OverloadLevel:       types.OverloadHigh,
		OverloadedMuscles:   []types.OverloadedMuscle{},
		RepeatedPatterns:    []types.RepeatedPattern{},
		Verdict:             "Las piernas llegan cargadas.",
		Recommendation:      "Baja el peso.",
	}
}

func TestAnalyze(t *testing.T) {
	analyzeBody := map[string]interface{}{
		"wodText":          "AMRAP 12: wall balls",
		"modo":             "prospectivo",
		"nombre_wod":       "Piernas",
		"ubicacion":        "Otro",
		"ubicacion_custom": "Parque",
	}

	t.Run("should analyze and save the WOD", func(t *testing.T) {
		router, m := setupMockRouter(t)
		analysis := testhelpers.SampleAnalysis(t)
		entry := &models.WodEntry{ID: uuid.New(), Location: "Parque", Analysis: models.AnalysisJSON(*analysis)}

		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		m.llm.On("Analyze", mock.Anything, mock.MatchedBy(func(in service.AnalyzeInput) bool {
			return in.WodText == "AMRAP 12: wall balls" && in.Mode == types.ModeProspective && in.Athlete == nil
		})).Return(analysis, nil)
		m.wods.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordInput) bool {
			return in.WodName == "Piernas" && in.Location == "Otro" && in.LocationCustom == "Parque" &&
				in.Analysis == analysis && in.ImageURL == "" && in.AthleteID == nil
		})).Return(entry, nil)

		w := performRequest(router, http.MethodPost, "/api/v1/analyze", analyzeBody)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeObject(t, w)
		assert.Equal(t, true, resp["saved"])
		assert.Equal(t, "AMRAP 12", resp["analysis"].(map[string]interface{})["tipo_wod"])
		assert.Equal(t, entry.ID.String(), resp["entry"].(map[string]interface{})["id"])

		wodView := resp["view"].(map[string]interface{})
		assert.Equal(t, "#ff5c5c", wodView["intensidad_color"])
		assert.Len(t, wodView["parrafos"], 2)
		m.assertExpectations(t)
	})

	t.Run("should still answer when saving fails", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		m.llm.On("Analyze", mock.Anything, mock.Anything).Return(testhelpers.SampleAnalysis(t), nil)
		m.wods.On("Record", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		w := performRequest(router, http.MethodPost, "/api/v1/analyze", analyzeBody)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeObject(t, w)
		assert.Equal(t, false, resp["saved"])
		assert.Nil(t, resp["entry"])
		assert.NotNil(t, resp["analysis"])
	})

	t.Run("should store the whiteboard photo", func(t *testing.T) {
		router, m := setupMockRouter(t)
		athleteID := uuid.New()
		athlete := &types.AthleteContext{Name: "Lucía"}
		url := "https://wod-photos.s3.amazonaws.com/wod-images/2026/03/a.png"

		m.athletes.On("ResolveContext", mock.Anything, &athleteID, (*types.AthleteContext)(nil)).Return(athlete, nil)
		m.images.On("UploadWhiteboard", mock.Anything, "aGVsbG8=", "image/png").Return(url, nil)
		m.llm.On("Analyze", mock.Anything, mock.MatchedBy(func(in service.AnalyzeInput) bool {
			return in.ImageBase64 == "aGVsbG8=" && in.Athlete == athlete
		})).Return(testhelpers.SampleAnalysis(t), nil)
		m.wods.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordInput) bool {
			return in.ImageURL == url && in.AthleteID != nil && *in.AthleteID == athleteID
		})).Return(&models.WodEntry{ID: uuid.New()}, nil)

		w := performRequest(router, http.MethodPost, "/api/v1/analyze", map[string]interface{}{
			"imageBase64":    "aGVsbG8=",
			"imageMediaType": "image/png",
			"athlete_id":     athleteID,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		m.assertExpectations(t)
	})

	t.Run("should keep going when the photo upload fails", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		m.images.On("UploadWhiteboard", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("access denied"))
		m.llm.On("Analyze", mock.Anything, mock.Anything).Return(testhelpers.SampleAnalysis(t), nil)
		m.wods.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordInput) bool {
			return in.ImageURL == ""
		})).Return(&models.WodEntry{ID: uuid.New()}, nil)

		w := performRequest(router, http.MethodPost, "/api/v1/analyze", map[string]interface{}{"imageBase64": "aGVsbG8="})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeObject(t, w)["saved"])
	})

	t.Run("should reject an empty WOD", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		m.llm.On("Analyze", mock.Anything, mock.Anything).Return(nil, service.ErrEmptyWod)

		w := performRequest(router, http.MethodPost, "/api/v1/analyze", map[string]interface{}{"wodText": " "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, service.ErrEmptyWod.Error(), decodeObject(t, w)["error"])
		m.wods.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("should surface model failures as 500", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		m.llm.On("Analyze", mock.Anything, mock.Anything).
			Return(nil, errors.New("API request failed with status 529: overloaded"))

		w := performRequest(router, http.MethodPost, "/api/v1/analyze", analyzeBody)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "API request failed with status 529: overloaded", decodeObject(t, w)["error"])
	})

	t.Run("should 404 for an unknown athlete", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrNotFound)

		w := performRequest(router, http.MethodPost, "/api/v1/analyze", map[string]interface{}{
			"wodText":    "Fran",
			"athlete_id": uuid.New(),
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		m.llm.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	})

	t.Run("should reject malformed JSON", func(t *testing.T) {
		router, _ := setupMockRouter(t)
		w := performRequest(router, http.MethodPost, "/api/v1/analyze", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request body", decodeObject(t, w)["error"])
	})
}

func TestChat(t *testing.T) {
	t.Run("should return the reply", func(t *testing.T) {
		router, m := setupMockRouter(t)
		messages := []types.ChatMessage{{Role: types.RoleUser, Content: "¿Escalo los wall balls?"}}
		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		m.llm.On("Chat", mock.Anything, messages, mock.AnythingOfType("*types.WodAnalysis"), (*types.AthleteContext)(nil)).
			Return("Usa un balón de 6 kg.", nil)

		w := performRequest(router, http.MethodPost, "/api/v1/chat", map[string]interface{}{
			"messages":    messages,
			"wodAnalisis": testhelpers.SampleAnalysis(t),
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, map[string]interface{}{"response": "Usa un balón de 6 kg."}, decodeObject(t, w))
		m.assertExpectations(t)
	})

	t.Run("should reject a chat without messages", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		m.llm.On("Chat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", service.ErrNoMessages)

		w := performRequest(router, http.MethodPost, "/api/v1/chat", map[string]interface{}{"messages": []interface{}{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, service.ErrNoMessages.Error(), decodeObject(t, w)["error"])
	})
}

func TestCompare(t *testing.T) {
	t.Run("should return the raw comparison", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		m.llm.On("Compare", mock.Anything, mock.AnythingOfType("*types.WodAnalysis"), mock.AnythingOfType("*types.WodAnalysis"), mock.Anything).
			Return(sampleComparison(), nil)

		w := performRequest(router, http.MethodPost, "/api/v1/compare", map[string]interface{}{
			"analisisHoy":  testhelpers.SampleAnalysis(t),
			"analisisAyer": testhelpers.SampleAnalysis(t),
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeObject(t, w)
		assert.Equal(t, "alta", resp["nivel_sobrecarga"])
		assert.Equal(t, float64(15), resp["intensidad_acumulada"])
		assert.NotContains(t, resp, "view")
	})

	t.Run("should require both analyses", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		m.llm.On("Compare", mock.Anything, mock.Anything, (*types.WodAnalysis)(nil), mock.Anything).
			Return(nil, service.ErrMissingAnalysis)

		w := performRequest(router, http.MethodPost, "/api/v1/compare", map[string]interface{}{
			"analisisHoy": testhelpers.SampleAnalysis(t),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, service.ErrMissingAnalysis.Error(), decodeObject(t, w)["error"])
	})
}

func TestCompareYesterday(t *testing.T) {
	analysis := testhelpers.SampleAnalysis(t)
	athleteID := uuid.New()
	today := &models.WodEntry{
		ID:        uuid.New(),
		CreatedAt: time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC),
		Analysis:  models.AnalysisJSON(*analysis),
		AthleteID: &athleteID,
	}
	yesterday := &models.WodEntry{
		ID:        uuid.New(),
		CreatedAt: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
		Analysis:  models.AnalysisJSON(*analysis),
	}
	path := "/api/v1/wods/" + today.ID.String() + "/compare-yesterday"

	t.Run("should compare with the day before", func(t *testing.T) {
		router, m := setupMockRouter(t)
		athlete := &types.AthleteContext{Name: "Lucía"}
		m.wods.On("Get", mock.Anything, today.ID).Return(today, nil)
		m.wods.On("DayBefore", mock.Anything, today.CreatedAt).Return(yesterday, nil)
		m.athletes.On("ResolveContext", mock.Anything, &athleteID, (*types.AthleteContext)(nil)).Return(athlete, nil)
		m.llm.On("Compare", mock.Anything, mock.Anything, mock.Anything, athlete).Return(sampleComparison(), nil)

		w := performRequest(router, http.MethodPost, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeObject(t, w)
		assert.Equal(t, "alta", resp["comparison"].(map[string]interface{})["nivel_sobrecarga"])
		assert.Equal(t, "Alta", resp["view"].(map[string]interface{})["badge"].(map[string]interface{})["label"])
		assert.Equal(t, yesterday.ID.String(), resp["yesterday"].(map[string]interface{})["id"])
		m.assertExpectations(t)
	})

	t.Run("should fall back when the athlete was deleted", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.wods.On("Get", mock.Anything, today.ID).Return(today, nil)
		m.wods.On("DayBefore", mock.Anything, today.CreatedAt).Return(yesterday, nil)
		m.athletes.On("ResolveContext", mock.Anything, &athleteID, (*types.AthleteContext)(nil)).Return(nil, service.ErrNotFound)
		m.llm.On("Compare", mock.Anything, mock.Anything, mock.Anything, (*types.AthleteContext)(nil)).Return(sampleComparison(), nil)

		w := performRequest(router, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("should report a missing previous WOD", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.wods.On("Get", mock.Anything, today.ID).Return(today, nil)
		m.wods.On("DayBefore", mock.Anything, today.CreatedAt).Return(nil, service.ErrNoPreviousWod)

		w := performRequest(router, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeObject(t, w)
		assert.Equal(t, "no_previous_wod", resp["error"])
		assert.Equal(t, service.ErrNoPreviousWod.Error(), resp["message"])
		m.llm.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should 404 for an unknown entry", func(t *testing.T) {
		router, m := setupMockRouter(t)
		m.wods.On("Get", mock.Anything, today.ID).Return(nil, service.ErrNotFound)

		w := performRequest(router, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should reject an invalid id", func(t *testing.T) {
		router, _ := setupMockRouter(t)
		w := performRequest(router, http.MethodPost, "/api/v1/wods/nope/compare-yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid id", decodeObject(t, w)["error"])
	})
}

func TestModelRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	m := metrics.NewTestManager()

	llm := &mocks.MockLLMService{}
	athletes := &mocks.MockAthleteService{}
	wods := &mocks.MockWodService{}
	athletes.On("ResolveContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	llm.On("Chat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)
	wods.On("List", mock.Anything, mock.Anything).Return([]models.WodEntry{}, nil)

	router := gin.New()
	RegisterRoutes(router, Services{
		LLM:          llm,
		Wods:         wods,
		Athletes:     athletes,
		Metrics:      m,
		ModelLimiter: middleware.NewModelRateLimiter(client, 1, time.Minute, m),
	})

	body := map[string]interface{}{"messages": []types.ChatMessage{{Role: types.RoleUser, Content: "hola"}}}
	assert.Equal(t, http.StatusOK, performRequest(router, http.MethodPost, "/api/v1/chat", body).Code)

	w := performRequest(router, http.MethodPost, "/api/v1/chat", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", decodeObject(t, w)["error"])
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterRateLimited))

	// history reads are not limited
	assert.Equal(t, http.StatusOK, performRequest(router, http.MethodGet, "/api/v1/wods", nil).Code)
	llm.AssertNumberOfCalls(t, "Chat", 1)
}
