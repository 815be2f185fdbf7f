package testhelpers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

func TestSetupTestDB(t *testing.T) {
	db := SetupTestDB(t)
	require.NotNil(t, db)

	entry := CreateWodEntry(t, db, time.Now(), "Enjoy", SampleAnalysis(t))

	var got models.WodEntry
	require.NoError(t, db.First(&got, "id = ?", entry.ID).Error)
	assert.Equal(t, "AMRAP 12", got.Analysis.WodType)
	assert.Len(t, got.Analysis.Patterns, 3)

	athlete := models.Athlete{Name: "Lucía", Gender: types.GenderFemale, Age: 34, HeightCm: 168, WeightKg: 64}
	require.NoError(t, db.Create(&athlete).Error)
	assert.NotZero(t, athlete.ID)
}

func TestPostgresMigrations(t *testing.T) {
	db := SetupPostgresDB(t)

	var extensions int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM pg_extension WHERE extname = 'vector'").Scan(&extensions).Error)
	assert.Equal(t, int64(1), extensions)

	entry := CreateWodEntry(t, db, time.Now(), "Blue Gorilla", SampleAnalysis(t))
	var got models.WodEntry
	require.NoError(t, db.First(&got, "id = ?", entry.ID).Error)
	assert.Equal(t, 8, got.Analysis.Intensity)
}

func TestAnthropicStubRepeatsLastReply(t *testing.T) {
	stub := NewAnthropicStub(t, ErrorReply(529, "overloaded"), StubReply{Text: "hola"})

	var statuses []int
	for i := 0; i < 3; i++ {
		resp, err := http.Post(stub.URL(), "application/json", strings.NewReader(`{"model":"m"}`))
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{529, 200, 200}, statuses)
	assert.Equal(t, 3, stub.Calls())
	assert.Equal(t, "m", stub.LastRequest().Body["model"])
}
