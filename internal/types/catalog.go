package types

import (
	"strings"
	"unicode"
)

// Canonical names the analysis prompt asks the model to use. They are also
// the axes of the load-profile vector, so order matters.
var (
	PatternNames = []string{
		"Core/Abdominal",
		"Locomotor/Cíclico",
		"Bisagra de cadera",
		"Sentadilla",
		"Salto/Pliometría",
		"Overhead/Estabilización",
		"Empuje horizontal",
		"Empuje vertical",
		"Tracción vertical",
		"Tracción horizontal",
	}

	LowerBodyMuscles = []string{
		"Glúteos",
		"Isquiotibiales",
		"Cuádriceps",
		"Flexores de cadera",
		"Gemelos/Sóleo",
		"Aductores",
	}

	CoreMuscles = []string{
		"Recto abdominal",
		"Erector espinal/Lumbar",
		"Oblicuos",
		"Transverso abdominal",
	}

	UpperBodyMuscles = []string{
		"Deltoides",
		"Pectoral",
		"Tríceps",
		"Bíceps",
		"Dorsal/Espalda alta",
		"Trapecio",
		"Antebrazo/Agarre",
	}

	// SkillNames are the ten general physical skills of CrossFit
	SkillNames = []string{
		"Resistencia cardiovascular",
		"Resistencia muscular",
		"Fuerza",
		"Flexibilidad",
		"Potencia",
		"Velocidad",
		"Coordinación",
		"Agilidad",
		"Equilibrio",
		"Precisión",
	}
)

// OtherLocation is the sentinel for a free-text location
const OtherLocation = "Otro"

// PredefinedLocations are the boxes offered in the location picker
var PredefinedLocations = []string{
	"The Island Box",
	"Enjoy",
	"Blue Gorilla",
	"Hospital de la Línea",
	"Sótano de Casa",
	OtherLocation,
}

// NormalizeName folds a catalog name for matching: lower case, letters and
// digits only. "Core / Abdominal" and "core/abdominal" fold to the same key.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
