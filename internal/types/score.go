package types

import (
	"encoding/json"
	"math"
)

// The model sometimes answers with fractional numbers ("pct": 12.5).
// Every numeric field it produces is decoded as a float and rounded here;
// range checks happen later, when the reply is normalized.

const scoreBound = 1e6

func roundScore(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	f = math.Max(-scoreBound, math.Min(scoreBound, f))
	return int(math.Round(f))
}

func (p *Pattern) UnmarshalJSON(data []byte) error {
	type Alias Pattern
	aux := struct {
		*Alias
		Percent float64 `json:"pct"`
	}{Alias: (*Alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Percent = roundScore(aux.Percent)
	return nil
}

func (m *Muscle) UnmarshalJSON(data []byte) error {
	type Alias Muscle
	aux := struct {
		*Alias
		Level float64 `json:"nivel"`
	}{Alias: (*Alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.Level = roundScore(aux.Level)
	return nil
}

func (s *Skill) UnmarshalJSON(data []byte) error {
	type Alias Skill
	aux := struct {
		*Alias
		Level float64 `json:"nivel"`
	}{Alias: (*Alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Level = roundScore(aux.Level)
	return nil
}

func (a *WodAnalysis) UnmarshalJSON(data []byte) error {
	type Alias WodAnalysis
	aux := struct {
		*Alias
		Intensity float64 `json:"intensidad"`
	}{Alias: (*Alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.Intensity = roundScore(aux.Intensity)
	return nil
}

func (m *OverloadedMuscle) UnmarshalJSON(data []byte) error {
	type Alias OverloadedMuscle
	aux := struct {
		*Alias
		Yesterday float64 `json:"ayer"`
		Today     float64 `json:"hoy"`
	}{Alias: (*Alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.Yesterday = roundScore(aux.Yesterday)
	m.Today = roundScore(aux.Today)
	return nil
}

func (p *RepeatedPattern) UnmarshalJSON(data []byte) error {
	type Alias RepeatedPattern
	aux := struct {
		*Alias
		Yesterday float64 `json:"ayer"`
		Today     float64 `json:"hoy"`
	}{Alias: (*Alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Yesterday = roundScore(aux.Yesterday)
	p.Today = roundScore(aux.Today)
	return nil
}

func (c *WodComparison) UnmarshalJSON(data []byte) error {
	type Alias WodComparison
	aux := struct {
		*Alias
		IntensityYesterday  float64 `json:"intensidad_ayer"`
		IntensityToday      float64 `json:"intensidad_hoy"`
		IntensityCumulative float64 `json:"intensidad_acumulada"`
	}{Alias: (*Alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.IntensityYesterday = roundScore(aux.IntensityYesterday)
	c.IntensityToday = roundScore(aux.IntensityToday)
	c.IntensityCumulative = roundScore(aux.IntensityCumulative)
	return nil
}
