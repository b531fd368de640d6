package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  ParsedLabel
		expectErr bool
	}{
		{
			name:     "Standard floor suffix",
			raw:      "Prince Frederick FL7",
			expected: ParsedLabel{Building: "Prince Frederick", Floor: 7},
		},
		{
			name:     "Two digit floor",
			raw:      "Oakland Hall FL12",
			expected: ParsedLabel{Building: "Oakland Hall", Floor: 12},
		},
		{
			name:     "Lower case and extra spaces",
			raw:      "  Denton   Hall  fl 3 ",
			expected: ParsedLabel{Building: "Denton Hall", Floor: 3},
		},
		{
			name:      "No floor",
			raw:       "Prince Frederick Basement",
			expected:  ParsedLabel{Building: "Prince Frederick Basement"},
			expectErr: true,
		},
		{
			name:      "FL inside a word is not a floor",
			raw:       "Hall FLX",
			expected:  ParsedLabel{Building: "Hall FLX"},
			expectErr: true,
		},
		{
			name:      "Empty",
			raw:       "   ",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseLabel(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, parsed)
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "prince_frederick_fl7", Slug("Prince Frederick FL7", "x"))
	assert.Equal(t, "prince_frederick", Slug("Prince   Frederick", "x"))
	assert.Equal(t, "a_b", Slug("A\tB", "x"))
	assert.Equal(t, "all_prince_frederick", Slug("", "all_prince_frederick"))
}

func TestSlug_UnicodeSpaces(t *testing.T) {
	assert.Equal(t, "prince_frederick_fl7", Slug("Prince\u00a0Frederick FL7", "x"))
	assert.Equal(t, "prince_frederick_fl7", Slug("Prince \u00a0\u2009Frederick\u3000FL7", "x"))
	assert.Equal(t, "a_b", Slug("A\u2028B", "x"))
	assert.Equal(t, "a_b", Slug("A\ufeffB", "x"))
}

func TestParseLabel_NonBreakingSpace(t *testing.T) {
	parsed, err := ParseLabel("Prince\u00a0Frederick\u00a0FL7")
	assert.NoError(t, err)
	assert.Equal(t, ParsedLabel{Building: "Prince Frederick", Floor: 7}, parsed)
}

func TestDailySeries_UsesUTCDate(t *testing.T) {
	edt := time.FixedZone("EDT", -4*3600)
	now := time.Date(2025, 9, 1, 22, 30, 0, 0, edt) // 2025-09-02 02:30 UTC
	assert.Equal(t, "prince_frederick_fl7_2025-09-02", DailySeries("Prince Frederick FL7", "all", now))
	assert.Equal(t, "all_2025-09-02", DailySeries("", "all", now))
}
