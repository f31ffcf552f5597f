// Package domain provides types shared by the domain packages.
package domain

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches a case-insensitive substring of the entity's name fields
	Search string

	// Pagination. Limit <= 0 means no limit.
	Limit  int
	Offset int
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Page applies filter pagination to an already filtered and ordered slice.
func Page[T any](items []T, f ListFilter) ListResult[T] {
	total := len(items)

	start := f.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if f.Limit > 0 && start+f.Limit < total {
		end = start + f.Limit
	}

	page := make([]T, end-start)
	copy(page, items[start:end])
	return ListResult[T]{
		Items:      page,
		TotalCount: int64(total),
		Limit:      f.Limit,
		Offset:     f.Offset,
	}
}
