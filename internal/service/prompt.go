package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// Defaults used when the request carries no athlete
const (
	defaultWeightKg = 64
	defaultHeightCm = 168
	defaultLevel    = "nivel intermedio-avanzado"
)

const analysisPromptTemplate = `Eres un analizador experto de WODs de CrossFit. El usuario te va a dar un WOD (texto o descripción de imagen). Analízalo exhaustivamente.

Contexto del usuario: {{.Context}}.

DEBES responder EXCLUSIVAMENTE con un JSON válido (sin markdown, sin backticks, sin texto extra). Estructura exacta:

{
  "wod_transcrito": "El WOD formateado limpio",
  "tipo_wod": "Ej: 5 Rounds + Chipper",
  "intensidad": 7,
  "enfoque": "retrospectivo o prospectivo",
  "patrones": [
    {"nombre": "Core / Abdominal", "pct": 30, "color": "rojo"}
  ],
  "musculos": {
    "tren_inferior": [
      {"nombre": "Glúteos", "color": "rojo", "nivel": 92}
    ],
    "core": [
      {"nombre": "Recto abdominal", "color": "rojo", "nivel": 95}
    ],
    "tren_superior": [
      {"nombre": "Antebrazo / Agarre", "color": "rojo", "nivel": 88}
    ]
  },
  "habilidades": [
    {"nombre": "Resistencia cardiovascular", "color": "rojo", "nivel": 90}
  ],
  "gaps": [
    {"titulo": "Tracción vertical ausente", "descripcion": "Texto explicativo con humor"}
  ],
  "tip": "Sugerencia para complementar",
  "analisis": "Texto largo, didáctico, directo, con sarcasmo puntual. Incluye análisis de pesos relativos al peso corporal ({{num .WeightKg}} kg). Usa <strong> para negritas y <span class='hl'> para highlights amarillos de datos importantes como porcentajes de peso corporal. Separa bien los párrafos con \n\n entre cada uno para que se lean cómodamente."
}

Colores válidos: "rojo", "naranja", "amarillo", "verde".
- rojo: dominante >35% del esfuerzo
- naranja: significativo 15-35%
- amarillo: tocado ligeramente 5-15%
- verde: descansado/no tocado <5%

Para patrones usa estos: {{join .Patterns ", "}}.

Para músculos detallados usa: Tren inferior ({{join .LowerBody ", "}}), Core ({{join .Core ", "}}), Tren superior ({{join .UpperBody ", "}}).

Para habilidades usa las 10 del CrossFit: {{join .Skills ", "}}.

Incluye TODOS los patrones, músculos y habilidades en el JSON (los no trabajados van en verde con nivel bajo).

Tono del análisis: técnico, didáctico, directo, con humor sarcástico puntual. Que el usuario aprenda.`

const chatPromptTemplate = `Eres un coach experto de CrossFit y analista de WODs. El usuario ya ha recibido un análisis detallado de su WOD y ahora quiere seguir charlando contigo para profundizar, hacer preguntas, o pedir consejos adicionales.

Contexto del usuario: {{.Context}}.

Reglas:
- Responde en español siempre.
- Sé técnico, didáctico y directo. Un toque de humor sarcástico puntual está bien.
- Puedes usar HTML básico para formatear: <strong> para negritas y <span class='hl'> para destacar datos importantes.
- No repitas el análisis completo, el usuario ya lo tiene. Ve al grano con lo que pregunte.
- Si el usuario pide que modifiques escalas, pesos, o el WOD, dale sugerencias concretas.
- Si preguntan sobre lesiones o dolor, recomienda siempre consultar a un profesional médico, pero da contexto técnico.
- Respuestas concisas pero completas. No escribas párrafos interminables.
{{- with .Analysis}}

Contexto del WOD analizado:
- Tipo: {{.WodType}}
- Intensidad: {{.Intensity}}/10
- Enfoque: {{.Focus}}
- WOD: {{.Transcription}}
- Análisis: {{.Analysis}}
- Tip: {{.Tip}}
{{- end}}`

const comparePromptTemplate = `Eres un analista experto de carga de entrenamiento en CrossFit. Recibes el análisis estructurado del WOD de AYER y el del WOD de HOY de un mismo atleta y debes valorar la sobrecarga acumulada.

Contexto del usuario: {{.Context}}.

DEBES responder EXCLUSIVAMENTE con un JSON válido (sin markdown, sin backticks, sin texto extra). Estructura exacta:

{
  "intensidad_ayer": 7,
  "intensidad_hoy": 8,
  "intensidad_acumulada": 15,
  "nivel_sobrecarga": "alta",
  "musculos_sobrecargados": [
    {"nombre": "Cuádriceps", "ayer": 85, "hoy": 90, "color_ayer": "rojo", "color_hoy": "rojo", "sobrecarga": true}
  ],
  "patrones_repetidos": [
    {"nombre": "Sentadilla", "ayer": 30, "hoy": 35, "color_ayer": "naranja", "color_hoy": "rojo"}
  ],
  "veredicto": "Texto directo con sarcasmo puntual sobre cómo llega el cuerpo hoy",
  "recomendacion": "Qué escalar, qué evitar o cómo compensar en el WOD de hoy"
}

Reglas:
- nivel_sobrecarga es uno de: "baja", "moderada", "alta", "critica".
- intensidad_acumulada es la suma de intensidad_ayer e intensidad_hoy (0 a 20).
- En musculos_sobrecargados incluye solo los músculos trabajados con intensidad (naranja o rojo) ambos días; marca sobrecarga=true si el riesgo es real.
- En patrones_repetidos incluye solo los patrones presentes ambos días, con sus porcentajes.
- Colores válidos: "rojo", "naranja", "amarillo", "verde".
- Usa <strong> para negritas y <span class='hl'> para destacar datos importantes en veredicto y recomendacion.`

// PromptBuilder fills the fixed instruction templates with user context
type PromptBuilder struct {
	analysis *template.Template
	chat     *template.Template
	compare  *template.Template
}

// NewPromptBuilder parses the instruction templates
func NewPromptBuilder() (*PromptBuilder, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
		"num":  formatNumber,
	}

	analysis, err := template.New("analysis").Funcs(funcs).Parse(analysisPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis prompt: %w", err)
	}
	chat, err := template.New("chat").Funcs(funcs).Parse(chatPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse chat prompt: %w", err)
	}
	compare, err := template.New("compare").Funcs(funcs).Parse(comparePromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse compare prompt: %w", err)
	}

	return &PromptBuilder{
		analysis: analysis,
		chat:     chat,
		compare:  compare,
	}, nil
}

type promptData struct {
	Context   string
	WeightKg  float64
	Patterns  []string
	LowerBody []string
	Core      []string
	UpperBody []string
	Skills    []string
	Analysis  *types.WodAnalysis
}

func newPromptData(athlete *types.AthleteContext) promptData {
	weight := float64(defaultWeightKg)
	if athlete != nil && athlete.WeightKg > 0 {
		weight = athlete.WeightKg
	}
	return promptData{
		Context:   AthleteSummary(athlete),
		WeightKg:  weight,
		Patterns:  types.PatternNames,
		LowerBody: types.LowerBodyMuscles,
		Core:      types.CoreMuscles,
		UpperBody: types.UpperBodyMuscles,
		Skills:    types.SkillNames,
	}
}

// AnalysisSystemPrompt renders the analysis instructions for an athlete
func (b *PromptBuilder) AnalysisSystemPrompt(athlete *types.AthleteContext) (string, error) {
	return render(b.analysis, newPromptData(athlete))
}

// ChatSystemPrompt renders the coach persona, followed by the analysis context when present
func (b *PromptBuilder) ChatSystemPrompt(athlete *types.AthleteContext, analysis *types.WodAnalysis) (string, error) {
	data := newPromptData(athlete)
	data.Analysis = analysis
	return render(b.chat, data)
}

// CompareSystemPrompt renders the overload comparison instructions
func (b *PromptBuilder) CompareSystemPrompt(athlete *types.AthleteContext) (string, error) {
	return render(b.compare, newPromptData(athlete))
}

// AnalysisUserText builds the text part of the analysis user turn
func AnalysisUserText(mode types.Mode, wodText string) string {
	prefix := "Ya he hecho"
	if mode == types.ModeProspective {
		prefix = "Voy a hacer"
	}
	wodText = strings.TrimSpace(wodText)
	if wodText == "" {
		return prefix + " este WOD (mira la imagen de la pizarra)."
	}
	return prefix + " este WOD:\n\n" + wodText
}

// CompareUserText lays out both analyses as indented JSON, yesterday first
func CompareUserText(today, yesterday *types.WodAnalysis) (string, error) {
	y, err := json.MarshalIndent(yesterday, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal yesterday's analysis: %w", err)
	}
	t, err := json.MarshalIndent(today, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal today's analysis: %w", err)
	}
	return fmt.Sprintf("WOD DE AYER:\n%s\n\nWOD DE HOY:\n%s", y, t), nil
}

// AthleteSummary is the one-line user context shared by all prompts
func AthleteSummary(athlete *types.AthleteContext) string {
	if athlete == nil {
		return fmt.Sprintf("peso corporal ~%d kg, altura %d cm, %s", defaultWeightKg, defaultHeightCm, defaultLevel)
	}

	var parts []string
	if name := strings.TrimSpace(athlete.Name); name != "" {
		parts = append(parts, name)
	}
	switch athlete.Gender {
	case types.GenderMale:
		parts = append(parts, "hombre")
	case types.GenderFemale:
		parts = append(parts, "mujer")
	}
	if athlete.Age > 0 {
		parts = append(parts, fmt.Sprintf("%d años", athlete.Age))
	}
	weight := float64(defaultWeightKg)
	if athlete.WeightKg > 0 {
		weight = athlete.WeightKg
	}
	parts = append(parts, fmt.Sprintf("peso corporal ~%s kg", formatNumber(weight)))
	if athlete.HeightCm > 0 {
		parts = append(parts, fmt.Sprintf("altura %s cm", formatNumber(athlete.HeightCm)))
	}
	parts = append(parts, fmt.Sprintf("%s de experiencia en CrossFit", types.FormatExperience(athlete.ExperienceMonths)))
	return strings.Join(parts, ", ")
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
