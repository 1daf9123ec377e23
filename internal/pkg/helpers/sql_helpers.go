package helpers

import "strings"

// NullIfBlank returns nil for blank strings so optional text columns are stored as NULL.
func NullIfBlank(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for a NULL column.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// LikePattern wraps a user query for ILIKE matching, escaping the LIKE metacharacters.
func LikePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}
