package helpers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 0 // pages are 0-based on the wire
)

// PageRequest is a normalized, 0-based page query.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	SortOrder string
}

// Offset returns the SQL offset of the first row of the page.
func (p PageRequest) Offset() uint64 {
	return uint64(p.Page) * uint64(p.Size)
}

// Normalize clamps page and size into their valid ranges.
func (p PageRequest) Normalize(defaultSize int) PageRequest {
	if defaultSize <= 0 || defaultSize > MaxPageSize {
		defaultSize = DefaultPageSize
	}
	if p.Page < 0 {
		p.Page = DefaultPage
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	p.SortOrder = strings.ToLower(p.SortOrder)
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		p.SortOrder = ""
	}
	return p
}

// TotalPages returns ceil(totalElements / size); zero elements means zero pages.
func TotalPages(totalElements int64, size int) int {
	if size <= 0 || totalElements <= 0 {
		return 0
	}
	return int((totalElements + int64(size) - 1) / int64(size))
}

// ParsePageRequest extracts page, size and sorting parameters from the request.
// sortDir is accepted as an alias of sortOrder.
func ParsePageRequest(c *gin.Context, defaultSize int) PageRequest {
	req := PageRequest{
		SortBy:    strings.TrimSpace(c.Query("sortBy")),
		SortOrder: c.Query("sortOrder"),
	}
	if req.SortOrder == "" {
		req.SortOrder = c.Query("sortDir")
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil {
		req.Size = size
	}

	return req.Normalize(defaultSize)
}

// CalculateSliceIndices returns the bounds of a 0-based page inside a slice of totalItems.
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = DefaultPage
	}

	start = page * size
	end = start + size
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}
	return start, end
}
