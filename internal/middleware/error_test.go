package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/wod-analyzer/backend/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestPanicRecovery_nonPanic(t *testing.T) {
	m := metrics.NewTestManager()
	router := gin.New()
	router.Use(PanicRecovery(m))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.CounterRequestPanic))
}

func TestPanicRecovery_panic(t *testing.T) {
	m := metrics.NewTestManager()
	router := gin.New()
	router.Use(PanicRecovery(m))
	router.GET("/", func(c *gin.Context) {
		panic("YOLO")
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterRequestPanic))
}
