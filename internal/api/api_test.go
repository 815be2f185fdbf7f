package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/wod-analyzer/backend/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testMocks struct {
	llm      *mocks.MockLLMService
	wods     *mocks.MockWodService
	athletes *mocks.MockAthleteService
	images   *mocks.MockImageService
}

func (m *testMocks) assertExpectations(t *testing.T) {
	m.llm.AssertExpectations(t)
	m.wods.AssertExpectations(t)
	m.athletes.AssertExpectations(t)
	m.images.AssertExpectations(t)
}

// setupMockRouter wires every handler to fresh mocks
func setupMockRouter(t *testing.T) (*gin.Engine, *testMocks) {
	t.Helper()
	m := &testMocks{
		llm:      &mocks.MockLLMService{},
		wods:     &mocks.MockWodService{},
		athletes: &mocks.MockAthleteService{},
		images:   &mocks.MockImageService{},
	}
	router := gin.New()
	RegisterRoutes(router, Services{
		LLM:      m.llm,
		Wods:     m.wods,
		Athletes: m.athletes,
		Images:   m.images,
	})
	return router, m
}

// performRequest sends body as JSON; a string body is sent verbatim
func performRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
