package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRequired(t *testing.T) {
	value, err := NormalizeRequired("  Temple Road  ", "Road name is required")
	require.NoError(t, err)
	assert.Equal(t, "Temple Road", value)

	_, err = NormalizeRequired("   ", "Road name is required")
	require.Error(t, err)
	assert.Equal(t, "Road name is required", err.Error())
}

func TestValidateAge(t *testing.T) {
	assert.NoError(t, ValidateAge(0))
	assert.NoError(t, ValidateAge(150))
	assert.Error(t, ValidateAge(-1))
	assert.Error(t, ValidateAge(151))
}

func TestCoerceOffers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `["samurdhi","aswesuma"]`, []string{"samurdhi", "aswesuma"}},
		{"singleton string", `"samurdhi"`, []string{"samurdhi"}},
		{"empty entries dropped", `["samurdhi","","  "]`, []string{"samurdhi"}},
		{"empty array", `[]`, []string{}},
		{"empty string", `""`, []string{}},
		{"garbage", `{"bad":true}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceOffers(json.RawMessage(tt.raw)))
		})
	}

	t.Run("nil payload", func(t *testing.T) {
		assert.Equal(t, []string{}, CoerceOffers(nil))
	})
}
