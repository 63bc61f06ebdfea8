package services

import (
	"strings"

	"village-records-backend-go/internal/models"
)

// ComputeProjectCosts derives the stored cost fields from the three
// input scalars. Whatever the client sent for squareFeet/totalCost is
// discarded; the stored totals can never drift from their inputs.
func ComputeProjectCosts(width, height, costPerSqFt float64) (squareFeet, totalCost float64) {
	squareFeet = width * height
	totalCost = squareFeet * costPerSqFt
	return squareFeet, totalCost
}

// ValidDevelopmentStatus reports whether raw is one of the three
// recognised statuses, returning the canonical form.
func ValidDevelopmentStatus(raw string) (string, bool) {
	status := strings.ToLower(strings.TrimSpace(raw))
	switch status {
	case models.StatusUndeveloped, models.StatusInProgress, models.StatusDeveloped:
		return status, true
	}
	return "", false
}
