package types

// Color is the traffic-light (semáforo) rating the model assigns to a
// pattern, muscle or skill.
type Color string

const (
	ColorRed    Color = "rojo"     // dominant, >35% of the effort
	ColorOrange Color = "naranja"  // significant, 15-35%
	ColorYellow Color = "amarillo" // lightly touched, 5-15%
	ColorGreen  Color = "verde"    // rested, <5%
)

// Valid reports whether c is one of the four known colors
func (c Color) Valid() bool {
	switch c {
	case ColorRed, ColorOrange, ColorYellow, ColorGreen:
		return true
	}
	return false
}

// Mode tells the model whether the WOD was already done or is planned
type Mode string

const (
	ModeRetrospective Mode = "retrospectivo"
	ModeProspective   Mode = "prospectivo"
)

// ParseMode normalizes a client supplied mode, defaulting to retrospective
func ParseMode(s string) Mode {
	if Mode(s) == ModeProspective {
		return ModeProspective
	}
	return ModeRetrospective
}

// Pattern is a movement pattern and its share of the total effort
type Pattern struct {
	Name    string `json:"nombre"`
	Percent int    `json:"pct"`
	Color   Color  `json:"color"`
}

// Muscle is the load rating of a single muscle
type Muscle struct {
	Name  string `json:"nombre"`
	Color Color  `json:"color"`
	Level int    `json:"nivel"`
}

// Skill is one of the ten general physical skills
type Skill struct {
	Name  string `json:"nombre"`
	Color Color  `json:"color"`
	Level int    `json:"nivel"`
}

// Gap is something the WOD left out
type Gap struct {
	Title       string `json:"titulo"`
	Description string `json:"descripcion"`
}

// MuscleGroups splits muscle ratings into body regions
type MuscleGroups struct {
	LowerBody []Muscle `json:"tren_inferior"`
	Core      []Muscle `json:"core"`
	UpperBody []Muscle `json:"tren_superior"`
}

// All returns every muscle across the three groups
func (g MuscleGroups) All() []Muscle {
	all := make([]Muscle, 0, len(g.LowerBody)+len(g.Core)+len(g.UpperBody))
	all = append(all, g.LowerBody...)
	all = append(all, g.Core...)
	all = append(all, g.UpperBody...)
	return all
}

// WodAnalysis is the structured reply of the analysis prompt.
// JSON keys match the schema the model is instructed to produce.
type WodAnalysis struct {
	Transcription string       `json:"wod_transcrito"`
	WodType       string       `json:"tipo_wod"`
	Intensity     int          `json:"intensidad"`
	Focus         Mode         `json:"enfoque"`
	Patterns      []Pattern    `json:"patrones"`
	Muscles       MuscleGroups `json:"musculos"`
	Skills        []Skill      `json:"habilidades"`
	Gaps          []Gap        `json:"gaps"`
	Tip           string       `json:"tip"`
	Analysis      string       `json:"analisis"`
}

// OverloadLevel is the model's verdict on back-to-back training load
type OverloadLevel string

const (
	OverloadLow      OverloadLevel = "baja"
	OverloadModerate OverloadLevel = "moderada"
	OverloadHigh     OverloadLevel = "alta"
	OverloadCritical OverloadLevel = "critica"
)

// Valid reports whether l is a known overload level
func (l OverloadLevel) Valid() bool {
	switch l {
	case OverloadLow, OverloadModerate, OverloadHigh, OverloadCritical:
		return true
	}
	return false
}

// OverloadedMuscle is a muscle worked hard on both days
type OverloadedMuscle struct {
	Name           string `json:"nombre"`
	Yesterday      int    `json:"ayer"`
	Today          int    `json:"hoy"`
	ColorYesterday Color  `json:"color_ayer"`
	ColorToday     Color  `json:"color_hoy"`
	Overloaded     bool   `json:"sobrecarga"`
}

// RepeatedPattern is a movement pattern present on both days
type RepeatedPattern struct {
	Name           string `json:"nombre"`
	Yesterday      int    `json:"ayer"`
	Today          int    `json:"hoy"`
	ColorYesterday Color  `json:"color_ayer"`
	ColorToday     Color  `json:"color_hoy"`
}

// WodComparison is the structured reply of the comparison prompt
type WodComparison struct {
	IntensityYesterday  int                `json:"intensidad_ayer"`
	IntensityToday      int                `json:"intensidad_hoy"`
	IntensityCumulative int                `json:"intensidad_acumulada"`
	OverloadLevel       OverloadLevel      `json:"nivel_sobrecarga"`
	OverloadedMuscles   []OverloadedMuscle `json:"musculos_sobrecargados"`
	RepeatedPatterns    []RepeatedPattern  `json:"patrones_repetidos"`
	Verdict             string             `json:"veredicto"`
	Recommendation      string             `json:"recomendacion"`
}

// Chat roles accepted by the model API
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the follow-up conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
