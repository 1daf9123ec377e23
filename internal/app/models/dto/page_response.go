package dto

import "github.com/institut/vitrine/internal/pkg/helpers"

// PageResponse is a 0-based page of a collection.
type PageResponse[T any] struct {
	Content          []T   `json:"content"`
	TotalPages       int   `json:"totalPages" example:"3"`
	TotalElements    int64 `json:"totalElements" example:"25"`
	Size             int   `json:"size" example:"9"`
	Number           int   `json:"number" example:"0"`
	NumberOfElements int   `json:"numberOfElements" example:"9"`
	First            bool  `json:"first" example:"true"`
	Last             bool  `json:"last" example:"false"`
	Empty            bool  `json:"empty" example:"false"`
}

// NewPageResponse builds a page from its content and the total number of matching rows.
func NewPageResponse[T any](content []T, page, size int, totalElements int64) PageResponse[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := helpers.TotalPages(totalElements, size)
	return PageResponse[T]{
		Content:          content,
		TotalPages:       totalPages,
		TotalElements:    totalElements,
		Size:             size,
		Number:           page,
		NumberOfElements: len(content),
		First:            page == 0,
		Last:             page >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

// MapPage converts the content of a page while keeping its metadata.
func MapPage[T, U any](p PageResponse[T], fn func(T) U) PageResponse[U] {
	out := make([]U, 0, len(p.Content))
	for _, item := range p.Content {
		out = append(out, fn(item))
	}
	return PageResponse[U]{
		Content:          out,
		TotalPages:       p.TotalPages,
		TotalElements:    p.TotalElements,
		Size:             p.Size,
		Number:           p.Number,
		NumberOfElements: len(out),
		First:            p.First,
		Last:             p.Last,
		Empty:            len(out) == 0,
	}
}
