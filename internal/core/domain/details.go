package domain

import (
	"encoding/json"
	"strconv"
)

// CoerceDetail converts an arbitrary decoded JSON value into the string form
// stored in ValidationResult.Details. Strings pass through, nil becomes the
// empty string, and composite values are serialized to their JSON text.
// Coercion is idempotent: a value that is already a string is returned as is.
func CoerceDetail(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// SanitizeDetails applies CoerceDetail to every value of a raw detail map.
// The result is never nil and never contains a non-string value.
func SanitizeDetails(raw map[string]any) map[string]string {
	details := make(map[string]string, len(raw))
	for key, value := range raw {
		details[key] = CoerceDetail(value)
	}
	return details
}
