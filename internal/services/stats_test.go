package services

import (
	"testing"

	"village-records-backend-go/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAgeBracket(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{0, "0-17"},
		{17, "0-17"},
		{18, "18-35"},
		{35, "18-35"},
		{36, "36-55"},
		{55, "36-55"},
		{56, "56+"},
		{120, "56+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeBracket(tt.age), "age %d", tt.age)
	}
}

func TestComputeMemberStatsEmpty(t *testing.T) {
	stats := ComputeMemberStats(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Disabled)
	// Brackets are pre-seeded so the chart always has all four series.
	assert.Equal(t, map[string]int{"0-17": 0, "18-35": 0, "36-55": 0, "56+": 0}, stats.ByAgeGroup)
	assert.Empty(t, stats.ByGender)
	assert.Empty(t, stats.Occupations)
}

func TestComputeMemberStats(t *testing.T) {
	member := func(gender string, age int, memberType, occupation string, disabled bool) models.MemberWithHousehold {
		return models.MemberWithHousehold{
			Member: models.Member{
				Gender:     gender,
				Age:        age,
				MemberType: memberType,
				Occupation: occupation,
				IsDisabled: disabled,
			},
		}
	}
	members := []models.MemberWithHousehold{
		member("male", 40, "permanent", "farmer", false),
		member("female", 16, "permanent", "student", true),
		member("female", 62, "temporary", "", false),
	}
	stats := ComputeMemberStats(members)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Disabled)
	assert.Equal(t, map[string]int{"male": 1, "female": 2}, stats.ByGender)
	assert.Equal(t, map[string]int{"0-17": 1, "18-35": 0, "36-55": 1, "56+": 1}, stats.ByAgeGroup)
	assert.Equal(t, map[string]int{"permanent": 2, "temporary": 1}, stats.ByType)
	assert.Equal(t, 1, stats.Occupations["Other"], "blank occupation lands in Other")
	assert.Equal(t, 1, stats.Occupations["farmer"])
}
