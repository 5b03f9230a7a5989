package storage

import (
	"strings"

	"github.com/cfranzen/eightball/pkg/domain"
)

// MatchesFilter checks if a record matches the given filter criteria
func MatchesFilter(rec domain.Record, filter map[string]interface{}) bool {
	for field, expectedValue := range filter {
		actualValue, exists := rec[field]
		if !exists {
			return false
		}
		if !ValuesMatch(actualValue, expectedValue) {
			return false
		}
	}
	return true
}

// ValuesMatch compares two values for equality, handling different types
func ValuesMatch(actual, expected interface{}) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	// Case-insensitive string comparison
	if actualStr, ok1 := actual.(string); ok1 {
		if expectedStr, ok2 := expected.(string); ok2 {
			return strings.EqualFold(actualStr, expectedStr)
		}
	}

	// Numeric comparison across integer and float types
	if actualNum, ok1 := ToFloat64(actual); ok1 {
		if expectedNum, ok2 := ToFloat64(expected); ok2 {
			return actualNum == expectedNum
		}
	}

	return actual == expected
}

// ToFloat64 converts various numeric types to float64 for comparison
func ToFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
