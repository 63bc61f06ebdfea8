package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProjectCosts(t *testing.T) {
	tests := []struct {
		name           string
		width          float64
		height         float64
		costPerSqFt    float64
		wantSquareFeet float64
		wantTotalCost  float64
	}{
		{"simple", 10, 20, 5, 200, 1000},
		{"fractional", 2.5, 4, 10, 10, 100},
		{"unit", 1, 1, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			squareFeet, totalCost := ComputeProjectCosts(tt.width, tt.height, tt.costPerSqFt)
			assert.Equal(t, tt.wantSquareFeet, squareFeet)
			assert.Equal(t, tt.wantTotalCost, totalCost)
		})
	}
}

func TestValidDevelopmentStatus(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOk bool
	}{
		{"undeveloped", "undeveloped", true},
		{"in_progress", "in_progress", true},
		{"developed", "developed", true},
		{"  Developed  ", "developed", true},
		{"IN_PROGRESS", "in_progress", true},
		{"done", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		status, ok := ValidDevelopmentStatus(tt.raw)
		assert.Equal(t, tt.wantOk, ok, tt.raw)
		assert.Equal(t, tt.want, status, tt.raw)
	}
}
