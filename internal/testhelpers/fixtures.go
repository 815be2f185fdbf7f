package testhelpers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// AnalysisReply is a model reply for a squat-heavy AMRAP, fenced the way the
// model often answers
const AnalysisReply = "```json\n" + `{
  "wod_transcrito": "AMRAP 12: 10 wall balls, 10 box jumps, 10 toes to bar",
  "tipo_wod": "AMRAP 12",
  "intensidad": 8,
  "enfoque": "retrospectivo",
  "patrones": [
    {"nombre": "Sentadilla", "pct": 40, "color": "rojo"},
    {"nombre": "Salto/Pliometría", "pct": 30, "color": "naranja"},
    {"nombre": "Core/Abdominal", "pct": 30, "color": "naranja"}
  ],
  "musculos": {
    "tren_inferior": [
      {"nombre": "Cuádriceps", "color": "rojo", "nivel": 90},
      {"nombre": "Glúteos", "color": "naranja", "nivel": 70}
    ],
    "core": [{"nombre": "Recto abdominal", "color": "naranja", "nivel": 65}],
    "tren_superior": [{"nombre": "Deltoides", "color": "amarillo", "nivel": 30}]
  },
  "habilidades": [
    {"nombre": "Resistencia cardiovascular", "color": "rojo", "nivel": 85},
    {"nombre": "Potencia", "color": "naranja", "nivel": 60}
  ],
  "gaps": [{"titulo": "Tracción", "descripcion": "No hay ningún tirón."}],
  "tip": "Mañana tira de barra y deja descansar las piernas.",
  "analisis": "Un AMRAP muy de piernas.\n\nEl core también se llevó lo suyo."
}` + "\n```"

// ComparisonReply is a model reply for a comparison
const ComparisonReply = `Aquí tienes la valoración:
{
  "intensidad_ayer": 8,
  "intensidad_hoy": 7,
  "intensidad_acumulada": 15,
  "nivel_sobrecarga": "alta",
  "musculos_sobrecargados": [
    {"nombre": "Cuádriceps", "ayer": 90, "hoy": 80, "color_ayer": "rojo", "color_hoy": "rojo", "sobrecarga": true}
  ],
  "patrones_repetidos": [
    {"nombre": "Sentadilla", "ayer": 40, "hoy": 35, "color_ayer": "rojo", "color_hoy": "naranja"}
  ],
  "veredicto": "Las piernas llegan cargadas.",
  "recomendacion": "Baja el peso de las sentadillas."
}`

// SampleAnalysis returns AnalysisReply already parsed
func SampleAnalysis(t *testing.T) *types.WodAnalysis {
	t.Helper()
	raw := AnalysisReply[len("```json\n") : len(AnalysisReply)-len("\n```")]
	var a types.WodAnalysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("failed to parse sample analysis: %v", err)
	}
	return &a
}

// SampleAthleteRequest is a valid athlete profile
func SampleAthleteRequest() *types.CreateAthleteRequest {
	return &types.CreateAthleteRequest{
		Name:             "Lucía",
		Gender:           types.GenderFemale,
		Age:              34,
		HeightCm:         168,
		WeightKg:         64,
		ExperienceYears:  2,
		ExperienceMonths: 3,
	}
}

// CreateWodEntry stores an entry logged at the given time
func CreateWodEntry(t *testing.T, db *gorm.DB, at time.Time, location string, analysis *types.WodAnalysis) *models.WodEntry {
	t.Helper()
	if analysis == nil {
		analysis = &types.WodAnalysis{WodType: "For Time", Intensity: 5, Focus: types.ModeRetrospective}
	}
	intensity := analysis.Intensity
	entry := &models.WodEntry{
		ID:        uuid.New(),
		CreatedAt: at.UTC(),
		WodText:   "5 rounds for time",
		Location:  location,
		Mode:      types.ModeRetrospective,
		Analysis:  models.AnalysisJSON(*analysis),
		Intensity: &intensity,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create WOD entry: %v", err)
	}
	return entry
}
