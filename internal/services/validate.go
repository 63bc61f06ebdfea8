package services

import (
	"encoding/json"
	"errors"
	"strings"
)

func NormalizeRequired(value, message string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", errors.New(message)
	}
	return trimmed, nil
}

// ValidateAge enforces the 0–150 input bound on member ages.
func ValidateAge(age int) error {
	if age < 0 || age > 150 {
		return errors.New("Age must be between 0 and 150")
	}
	return nil
}

// CoerceOffers normalizes the offers_receiving payload: a bare string
// becomes a single-element list, and empty entries are dropped.
func CoerceOffers(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return dropEmpty(list)
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return dropEmpty([]string{single})
	}
	return []string{}
}

func dropEmpty(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			cleaned = append(cleaned, value)
		}
	}
	return cleaned
}
