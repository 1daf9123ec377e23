package models

import "strings"

// CategoryAll is the sentinel filter value meaning "no category filter".
const CategoryAll = "all"

// IsAllCategory reports whether a category filter value means "everything".
func IsAllCategory(c string) bool {
	c = strings.TrimSpace(c)
	return c == "" || strings.EqualFold(c, CategoryAll)
}

// Visibility selects which formations a listing may return
type Visibility string

const (
	VisibilityPublic   Visibility = "public"   // active only
	VisibilityAll      Visibility = "all"      // every non-deleted row
	VisibilityActive   Visibility = "active"   // admin view, active only
	VisibilityInactive Visibility = "inactive" // admin view, inactive only
)

// ParseAdminStatus maps the admin "status" query parameter to a Visibility.
func ParseAdminStatus(s string) Visibility {
	switch Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case VisibilityActive:
		return VisibilityActive
	case VisibilityInactive:
		return VisibilityInactive
	default:
		return VisibilityAll
	}
}
