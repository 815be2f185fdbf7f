package types

import "fmt"

// Gender values stored on athlete profiles
const (
	GenderMale   = "hombre"
	GenderFemale = "mujer"
)

// AthleteContext is the subset of an athlete profile interpolated into prompts
type AthleteContext struct {
	Name             string  `json:"nombre"`
	Gender           string  `json:"genero"`
	Age              int     `json:"edad"`
	HeightCm         float64 `json:"altura_cm"`
	WeightKg         float64 `json:"peso_kg"`
	ExperienceMonths int     `json:"experiencia_meses"`
}

// FormatExperience renders a month count the way athletes say it,
// e.g. "1 año y 3 meses".
func FormatExperience(months int) string {
	if months < 0 {
		months = 0
	}
	years := months / 12
	rest := months % 12

	yearsText := fmt.Sprintf("%d año", years)
	if years != 1 {
		yearsText += "s"
	}
	monthsText := fmt.Sprintf("%d mes", rest)
	if rest != 1 {
		monthsText += "es"
	}

	switch {
	case years == 0:
		return monthsText
	case rest == 0:
		return yearsText
	default:
		return yearsText + " y " + monthsText
	}
}
