package utils

import (
	"math"

	"app/models"
)

// Paging defaults applied when a request carries non-positive values.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// ClampPageParams normalizes user-supplied paging values so list queries never
// see a non-positive page or page size.
func ClampPageParams(page, pageSize int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// CreatePagination builds pagination metadata. Inputs are clamped the same way
// as ClampPageParams so the metadata matches the query that produced the page.
func CreatePagination(totalItems, page, pageSize int) models.Pagination {
	page, pageSize = ClampPageParams(page, pageSize)
	return models.Pagination{
		TotalItems:  totalItems,
		TotalPages:  int(math.Ceil(float64(totalItems) / float64(pageSize))),
		CurrentPage: page,
		PageSize:    pageSize,
	}
}
