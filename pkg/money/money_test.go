package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDB(t *testing.T) {
	cases := map[string]string{
		"":            "",
		"   ":         "",
		"1234.56":     "1234.56",
		"1234,56":     "1234.56",
		"1 234,56":    "1234.56",
		"1 234,56 €":  "1234.56",
		"1.234.56":    "1234.56",
		"12":          "12.00",
		"12,5":        "12.50",
		"n/a":         "n/a",
		"  12,5 €  ":  "12.50",
		"-250,75":     "-250.75",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToDB(in), "input %q", in)
	}
}

func TestFormatEUR(t *testing.T) {
	assert.Equal(t, "1 234,56 €", FormatEUR("1234.56"))
	assert.Equal(t, "12,00 €", FormatEUR("12"))
	assert.Equal(t, "1 234 567,80 €", FormatEUR("1234567.8"))
	assert.Equal(t, "n/a", FormatEUR(" n/a "))
	assert.Equal(t, "", FormatEUR(""))
}
