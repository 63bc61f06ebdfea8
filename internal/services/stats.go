package services

import (
	"strings"

	"village-records-backend-go/internal/models"
)

// MemberStats is the dashboard breakdown over active members. Every
// count tolerates an empty table and comes back zero, never an error.
type MemberStats struct {
	Total       int            `json:"total"`
	ByGender    map[string]int `json:"byGender"`
	ByAgeGroup  map[string]int `json:"byAgeGroup"`
	ByType      map[string]int `json:"byMemberType"`
	Occupations map[string]int `json:"occupations"`
	Disabled    int            `json:"disabledMembers"`
}

// Age brackets are fixed, not configurable.
var ageBrackets = []struct {
	label string
	min   int
	max   int
}{
	{"0-17", 0, 17},
	{"18-35", 18, 35},
	{"36-55", 36, 55},
	{"56+", 56, 150},
}

// AgeBracket maps an age to its dashboard bracket label.
func AgeBracket(age int) string {
	for _, bracket := range ageBrackets {
		if age >= bracket.min && age <= bracket.max {
			return bracket.label
		}
	}
	return "56+"
}

// ComputeMemberStats reduces the flattened member rows into dashboard
// counts. Missing occupations fall into the "Other" bucket.
func ComputeMemberStats(members []models.MemberWithHousehold) MemberStats {
	stats := MemberStats{
		ByGender:    map[string]int{},
		ByAgeGroup:  map[string]int{},
		ByType:      map[string]int{},
		Occupations: map[string]int{},
	}
	for _, bracket := range ageBrackets {
		stats.ByAgeGroup[bracket.label] = 0
	}
	for _, member := range members {
		stats.Total++
		if gender := strings.TrimSpace(member.Gender); gender != "" {
			stats.ByGender[gender]++
		}
		stats.ByAgeGroup[AgeBracket(member.Age)]++
		if memberType := strings.TrimSpace(member.MemberType); memberType != "" {
			stats.ByType[memberType]++
		}
		occupation := strings.TrimSpace(member.Occupation)
		if occupation == "" {
			occupation = "Other"
		}
		stats.Occupations[occupation]++
		if member.IsDisabled {
			stats.Disabled++
		}
	}
	return stats
}
