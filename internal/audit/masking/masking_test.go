package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret("  "))
	assert.Equal(t, "****", MaskSecret("1234"))
	assert.Equal(t, "****7890", MaskSecret("22334567890"))
	assert.Equal(t, "sk_****cdef", MaskSecret("sk_0123456789abcdef"))
}

func TestMaskSensitive(t *testing.T) {
	got := MaskSensitive(map[string]any{
		"bvn":       "22334567890",
		"new_pin":   1234,
		"channel":   "mobile",
		" ":         "dropped",
		"card":      map[string]any{"card_number": "5399831234567890", "brand": "verve"},
		"attempts":  []any{map[string]any{"otp": "482913"}},
		"session":   map[string]any{"token": map[string]any{"value": "x"}},
		"empty_pin": nil,
		"reference": "TRX-001",
	})

	assert.Equal(t, "****7890", got["bvn"])
	assert.Equal(t, "****", got["new_pin"])
	assert.Equal(t, "mobile", got["channel"])
	assert.NotContains(t, got, " ")
	assert.Equal(t, map[string]any{"card_number": "****7890", "brand": "verve"}, got["card"])
	assert.Equal(t, []any{map[string]any{"otp": "****2913"}}, got["attempts"])
	assert.Equal(t, map[string]any{"token": "****"}, got["session"])
	assert.Nil(t, got["empty_pin"])
	assert.Equal(t, "TRX-001", got["reference"])

	assert.Nil(t, MaskSensitive(nil))
}
