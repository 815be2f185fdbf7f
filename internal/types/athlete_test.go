package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatExperience(t *testing.T) {
	cases := map[int]string{
		0:  "0 meses",
		1:  "1 mes",
		5:  "5 meses",
		12: "1 año",
		24: "2 años",
		13: "1 año y 1 mes",
		27: "2 años y 3 meses",
		-4: "0 meses",
	}
	for months, want := range cases {
		assert.Equal(t, want, FormatExperience(months), "months=%d", months)
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeProspective, ParseMode("prospectivo"))
	assert.Equal(t, ModeRetrospective, ParseMode("retrospectivo"))
	assert.Equal(t, ModeRetrospective, ParseMode(""))
	assert.Equal(t, ModeRetrospective, ParseMode("whatever"))
}
