// Package view turns analyses and history records into display-ready shapes:
// sorted bars with their colors, paragraphs and badges.
package view

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// ColorStyle is how a semáforo color is painted
type ColorStyle struct {
	Text string `json:"text"`
	Fill string `json:"fill"`
}

var colorStyles = map[types.Color]ColorStyle{
	types.ColorRed:    {Text: "#ff5c5c", Fill: "linear-gradient(90deg, #ff5c5c, #e84343)"},
	types.ColorOrange: {Text: "#ff9f43", Fill: "linear-gradient(90deg, #ff9f43, #e08530)"},
	types.ColorYellow: {Text: "#feca57", Fill: "linear-gradient(90deg, #feca57, #dba940)"},
	types.ColorGreen:  {Text: "#5cd85c", Fill: "linear-gradient(90deg, #5cd85c, #44b344)"},
}

var colorEmoji = map[types.Color]string{
	types.ColorRed:    "🔴",
	types.ColorOrange: "🟠",
	types.ColorYellow: "🟡",
	types.ColorGreen:  "🟢",
}

// LegendEntry explains one color of the semáforo
type LegendEntry struct {
	Color types.Color `json:"color"`
	Hex   string      `json:"hex"`
	Label string      `json:"label"`
}

// Legend lists the colors from most to least loaded
var Legend = []LegendEntry{
	{Color: types.ColorRed, Hex: "#ff5c5c", Label: "Muy machacado"},
	{Color: types.ColorOrange, Hex: "#ff9f43", Label: "Bastante trabajado"},
	{Color: types.ColorYellow, Hex: "#feca57", Label: "Tocado ligeramente"},
	{Color: types.ColorGreen, Hex: "#5cd85c", Label: "Descansado"},
}

// StyleFor returns the style of c, falling back to green
func StyleFor(c types.Color) ColorStyle {
	if s, ok := colorStyles[c]; ok {
		return s
	}
	return colorStyles[types.ColorGreen]
}

// EmojiFor returns the dot emoji of c, falling back to green
func EmojiFor(c types.Color) string {
	if e, ok := colorEmoji[c]; ok {
		return e
	}
	return colorEmoji[types.ColorGreen]
}

// IntensityColor is the hex color of a 1..10 intensity score
func IntensityColor(intensity int) string {
	switch {
	case intensity >= 8:
		return "#ff5c5c"
	case intensity >= 6:
		return "#ff9f43"
	case intensity >= 4:
		return "#feca57"
	default:
		return "#5cd85c"
	}
}

// Bar is one row of a horizontal bar chart
type Bar struct {
	Name  string      `json:"nombre"`
	Color types.Color `json:"color"`
	Level int         `json:"nivel"`
	// Width is the filled share of the track, 2..100
	Width float64    `json:"width"`
	Label string     `json:"label"`
	Style ColorStyle `json:"style"`
}

func newBar(name string, color types.Color, level int, width float64, suffix string) Bar {
	label := suffix
	if label == "" {
		label = EmojiFor(color)
	}
	return Bar{
		Name:  name,
		Color: color,
		Level: level,
		Width: math.Min(math.Max(width, 2), 100),
		Label: label,
		Style: StyleFor(color),
	}
}

// PatternBars sorts patterns by share, highest first. A pattern's bar is
// 2.5 times its share so a 40% pattern fills the track.
func PatternBars(patterns []types.Pattern) []Bar {
	sorted := make([]types.Pattern, len(patterns))
	copy(sorted, patterns)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Percent > sorted[j].Percent })

	bars := make([]Bar, 0, len(sorted))
	for _, p := range sorted {
		bars = append(bars, newBar(p.Name, p.Color, p.Percent, float64(p.Percent)*2.5, fmt.Sprintf("~%d%%", p.Percent)))
	}
	return bars
}

// MuscleBars sorts muscles by level, highest first
func MuscleBars(muscles []types.Muscle) []Bar {
	sorted := make([]types.Muscle, len(muscles))
	copy(sorted, muscles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Level > sorted[j].Level })

	bars := make([]Bar, 0, len(sorted))
	for _, m := range sorted {
		bars = append(bars, newBar(m.Name, m.Color, m.Level, float64(m.Level), ""))
	}
	return bars
}

// SkillBars sorts skills by level, highest first
func SkillBars(skills []types.Skill) []Bar {
	sorted := make([]types.Skill, len(skills))
	copy(sorted, skills)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Level > sorted[j].Level })

	bars := make([]Bar, 0, len(sorted))
	for _, s := range sorted {
		bars = append(bars, newBar(s.Name, s.Color, s.Level, float64(s.Level), ""))
	}
	return bars
}

// Paragraphs splits narrative text on blank lines
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	out := []string{}
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MuscleGroupBars holds the sorted bars of each body region
type MuscleGroupBars struct {
	LowerBody []Bar `json:"tren_inferior"`
	Core      []Bar `json:"core"`
	UpperBody []Bar `json:"tren_superior"`
}

// WodView is the display model of one analysis
type WodView struct {
	Transcription  string          `json:"wod_transcrito"`
	WodType        string          `json:"tipo_wod"`
	Intensity      int             `json:"intensidad"`
	IntensityColor string          `json:"intensidad_color"`
	Focus          types.Mode      `json:"enfoque"`
	Patterns       []Bar           `json:"patrones"`
	Muscles        MuscleGroupBars `json:"musculos"`
	Skills         []Bar           `json:"habilidades"`
	Gaps           []types.Gap     `json:"gaps"`
	Tip            string          `json:"tip"`
	Paragraphs     []string        `json:"parrafos"`
	Legend         []LegendEntry   `json:"leyenda"`
}

// BuildWodView renders an analysis for display
func BuildWodView(a *types.WodAnalysis) *WodView {
	if a == nil {
		return nil
	}
	gaps := a.Gaps
	if gaps == nil {
		gaps = []types.Gap{}
	}
	return &WodView{
		Transcription:  a.Transcription,
		WodType:        a.WodType,
		Intensity:      a.Intensity,
		IntensityColor: IntensityColor(a.Intensity),
		Focus:          a.Focus,
		Patterns:       PatternBars(a.Patterns),
		Muscles: MuscleGroupBars{
			LowerBody: MuscleBars(a.Muscles.LowerBody),
			Core:      MuscleBars(a.Muscles.Core),
			UpperBody: MuscleBars(a.Muscles.UpperBody),
		},
		Skills:     SkillBars(a.Skills),
		Gaps:       gaps,
		Tip:        a.Tip,
		Paragraphs: Paragraphs(a.Analysis),
		Legend:     Legend,
	}
}

// Badge is the headline of an overload comparison
type Badge struct {
	Level types.OverloadLevel `json:"nivel"`
	Label string              `json:"label"`
	Emoji string              `json:"emoji"`
	Color string              `json:"color"`
}

var overloadBadges = map[types.OverloadLevel]Badge{
	types.OverloadLow:      {Level: types.OverloadLow, Label: "Baja", Emoji: "✅", Color: "#5cd85c"},
	types.OverloadModerate: {Level: types.OverloadModerate, Label: "Moderada", Emoji: "⚡", Color: "#feca57"},
	types.OverloadHigh:     {Level: types.OverloadHigh, Label: "Alta", Emoji: "⚠️", Color: "#ff9f43"},
	types.OverloadCritical: {Level: types.OverloadCritical, Label: "Crítica", Emoji: "🚨", Color: "#ff5c5c"},
}

// OverloadBadge returns the badge of a level; unknown levels read as low
func OverloadBadge(level types.OverloadLevel) Badge {
	if b, ok := overloadBadges[level]; ok {
		return b
	}
	return overloadBadges[types.OverloadLow]
}

// ComparisonView is the display model of a day-over-day comparison
type ComparisonView struct {
	Badge                   Badge    `json:"badge"`
	IntensityYesterdayColor string   `json:"intensidad_ayer_color"`
	IntensityTodayColor     string   `json:"intensidad_hoy_color"`
	Verdict                 []string `json:"veredicto"`
	Recommendation          []string `json:"recomendacion"`
}

// BuildComparisonView renders a comparison for display
func BuildComparisonView(c *types.WodComparison) *ComparisonView {
	if c == nil {
		return nil
	}
	return &ComparisonView{
		Badge:                   OverloadBadge(c.OverloadLevel),
		IntensityYesterdayColor: IntensityColor(c.IntensityYesterday),
		IntensityTodayColor:     IntensityColor(c.IntensityToday),
		Verdict:                 Paragraphs(c.Verdict),
		Recommendation:          Paragraphs(c.Recommendation),
	}
}

// Stats summarizes history entries: count, mean intensity to one decimal
// (entries without one count as 0) and distinct locations in first-seen order
func Stats(entries []models.WodEntry) types.HistoryStats {
	stats := types.HistoryStats{Locations: []string{}}
	if len(entries) == 0 {
		return stats
	}

	seen := make(map[string]bool)
	var sum int
	for _, e := range entries {
		if e.Intensity != nil {
			sum += *e.Intensity
		}
		if !seen[e.Location] {
			seen[e.Location] = true
			stats.Locations = append(stats.Locations, e.Location)
		}
	}
	stats.Total = len(entries)
	stats.MeanIntensity = math.Round(float64(sum)/float64(len(entries))*10) / 10
	return stats
}
