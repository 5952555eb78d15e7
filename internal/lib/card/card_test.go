package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"4111111111111111", TypeVisa},
		{"4111 1111 1111 1111", TypeVisa},
		{"5100000000000000", TypeMastercard},
		{"5500000000000004", TypeMastercard},
		{"5600000000000000", TypeGeneric},
		{"340000000000009", TypeAmex},
		{"370000000000002", TypeAmex},
		{"6011000000000004", TypeDiscover},
		{"6500000000000002", TypeDiscover},
		{"6012000000000000", TypeGeneric},
		{"1234567890123456", TypeGeneric},
		{"", TypeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.number))
		})
	}
}

func TestLastFour(t *testing.T) {
	assert.Equal(t, "1111", LastFour("4111 1111 1111 1111"))
	assert.Equal(t, "0004", LastFour("5500-0000-0000-0004"))
	assert.Equal(t, "12", LastFour("12"))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("4111 1111 1111 1111"))
	assert.False(t, IsDigits("4111-abcd"))
	assert.False(t, IsDigits(""))
}

func TestValidNumber(t *testing.T) {
	assert.True(t, ValidNumber("4111 1111 1111 1111"))
	assert.True(t, ValidNumber("378282246310005"))
	assert.False(t, ValidNumber("7"))
	assert.False(t, ValidNumber("41111111111111111111"))
	assert.False(t, ValidNumber("4111abcd11111111"))
}

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		expiry    string
		month     string
		year      string
		canonical string
		ok        bool
	}{
		{expiry: "12/30", month: "12", year: "2030", canonical: "12/30", ok: true},
		{expiry: "12/2030", month: "12", year: "2030", canonical: "12/30", ok: true},
		{expiry: "1230", month: "12", year: "2030", canonical: "12/30", ok: true},
		{expiry: "012031", month: "01", year: "2031", canonical: "01/31", ok: true},
		{expiry: " 09/29 ", month: "09", year: "2029", canonical: "09/29", ok: true},
		{expiry: "13/30"},
		{expiry: "2030-12"},
		{expiry: "garbage"},
		{expiry: ""},
	}

	for _, tt := range tests {
		t.Run(tt.expiry, func(t *testing.T) {
			month, year, ok := ParseExpiry(tt.expiry)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.month, month)
			assert.Equal(t, tt.year, year)

			canonical, ok := NormalizeExpiry(tt.expiry)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.canonical, canonical)
		})
	}
}
