package service

import (
	"math"

	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// LoadProfileDims is the length of a load-profile vector: one axis per
// canonical pattern, muscle and skill, plus intensity.
var LoadProfileDims = len(types.PatternNames) +
	len(types.LowerBodyMuscles) + len(types.CoreMuscles) + len(types.UpperBodyMuscles) +
	len(types.SkillNames) + 1

// GenerateLoadProfile places an analysis on the fixed catalog axes, each
// scaled to 0..1. Names outside the catalog are ignored.
func GenerateLoadProfile(a *types.WodAnalysis) models.LoadProfile {
	if a == nil {
		return models.LoadProfile{}
	}

	vec := make([]float32, 0, LoadProfileDims)

	patterns := make(map[string]int, len(a.Patterns))
	for _, p := range a.Patterns {
		patterns[types.NormalizeName(p.Name)] = p.Percent
	}
	vec = appendAxes(vec, types.PatternNames, patterns)

	muscles := make(map[string]int)
	for _, m := range a.Muscles.All() {
		muscles[types.NormalizeName(m.Name)] = m.Level
	}
	vec = appendAxes(vec, types.LowerBodyMuscles, muscles)
	vec = appendAxes(vec, types.CoreMuscles, muscles)
	vec = appendAxes(vec, types.UpperBodyMuscles, muscles)

	skills := make(map[string]int, len(a.Skills))
	for _, s := range a.Skills {
		skills[types.NormalizeName(s.Name)] = s.Level
	}
	vec = appendAxes(vec, types.SkillNames, skills)

	vec = append(vec, float32(a.Intensity)/10)
	return models.NewLoadProfile(vec)
}

func appendAxes(vec []float32, axes []string, values map[string]int) []float32 {
	for _, name := range axes {
		vec = append(vec, float32(values[types.NormalizeName(name)])/100)
	}
	return vec
}

// profileDistance is the Euclidean distance between two load profiles,
// matching pgvector's <-> operator.
func profileDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
