package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// cleanJSON strips markdown fences and any prose around the outermost object
func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// ParseAnalysis decodes a model reply into a normalized WodAnalysis.
// mode fills in the focus when the model omits or garbles it.
func ParseAnalysis(raw string, mode types.Mode) (*types.WodAnalysis, error) {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var analysis types.WodAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	NormalizeAnalysis(&analysis, mode)
	return &analysis, nil
}

// NormalizeAnalysis applies range checks and fills defaults in place
func NormalizeAnalysis(a *types.WodAnalysis, mode types.Mode) {
	a.Intensity = clamp(a.Intensity, 1, 10)
	if a.Focus != types.ModeRetrospective && a.Focus != types.ModeProspective {
		a.Focus = mode
	}

	if a.Patterns == nil {
		a.Patterns = []types.Pattern{}
	}
	for i := range a.Patterns {
		a.Patterns[i].Percent = clamp(a.Patterns[i].Percent, 0, 100)
		a.Patterns[i].Color = normalizeColor(a.Patterns[i].Color)
	}

	a.Muscles.LowerBody = normalizeMuscles(a.Muscles.LowerBody)
	a.Muscles.Core = normalizeMuscles(a.Muscles.Core)
	a.Muscles.UpperBody = normalizeMuscles(a.Muscles.UpperBody)

	if a.Skills == nil {
		a.Skills = []types.Skill{}
	}
	for i := range a.Skills {
		a.Skills[i].Level = clamp(a.Skills[i].Level, 0, 100)
		a.Skills[i].Color = normalizeColor(a.Skills[i].Color)
	}

	if a.Gaps == nil {
		a.Gaps = []types.Gap{}
	}
}

func normalizeMuscles(muscles []types.Muscle) []types.Muscle {
	if muscles == nil {
		return []types.Muscle{}
	}
	for i := range muscles {
		muscles[i].Level = clamp(muscles[i].Level, 0, 100)
		muscles[i].Color = normalizeColor(muscles[i].Color)
	}
	return muscles
}

// ParseComparison decodes a model reply into a normalized WodComparison
func ParseComparison(raw string) (*types.WodComparison, error) {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var cmp types.WodComparison
	if err := json.Unmarshal([]byte(cleaned), &cmp); err != nil {
		return nil, fmt.Errorf("failed to parse comparison JSON: %w", err)
	}
	NormalizeComparison(&cmp)
	return &cmp, nil
}

// NormalizeComparison applies range checks and derives a missing overload level
func NormalizeComparison(c *types.WodComparison) {
	c.IntensityYesterday = clamp(c.IntensityYesterday, 0, 10)
	c.IntensityToday = clamp(c.IntensityToday, 0, 10)
	if c.IntensityCumulative == 0 {
		c.IntensityCumulative = c.IntensityYesterday + c.IntensityToday
	}
	c.IntensityCumulative = clamp(c.IntensityCumulative, 0, 20)

	if !c.OverloadLevel.Valid() {
		c.OverloadLevel = OverloadFromIntensity(c.IntensityCumulative)
	}

	if c.OverloadedMuscles == nil {
		c.OverloadedMuscles = []types.OverloadedMuscle{}
	}
	for i := range c.OverloadedMuscles {
		m := &c.OverloadedMuscles[i]
		m.Yesterday = clamp(m.Yesterday, 0, 100)
		m.Today = clamp(m.Today, 0, 100)
		m.ColorYesterday = normalizeColor(m.ColorYesterday)
		m.ColorToday = normalizeColor(m.ColorToday)
	}

	if c.RepeatedPatterns == nil {
		c.RepeatedPatterns = []types.RepeatedPattern{}
	}
	for i := range c.RepeatedPatterns {
		p := &c.RepeatedPatterns[i]
		p.Yesterday = clamp(p.Yesterday, 0, 100)
		p.Today = clamp(p.Today, 0, 100)
		p.ColorYesterday = normalizeColor(p.ColorYesterday)
		p.ColorToday = normalizeColor(p.ColorToday)
	}
}

// OverloadFromIntensity maps a two-day accumulated intensity (0..20) to a level
func OverloadFromIntensity(cumulative int) types.OverloadLevel {
	switch {
	case cumulative >= 17:
		return types.OverloadCritical
	case cumulative >= 13:
		return types.OverloadHigh
	case cumulative >= 9:
		return types.OverloadModerate
	default:
		return types.OverloadLow
	}
}

func normalizeColor(c types.Color) types.Color {
	c = types.Color(strings.ToLower(strings.TrimSpace(string(c))))
	if !c.Valid() {
		return types.ColorGreen
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
