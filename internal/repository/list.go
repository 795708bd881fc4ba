package repository

// ListQuery describes ordering, searching and pagination for List. Column
// names arrive as free-form strings from the caller and are validated against
// the entity's column set before any query runs.
type ListQuery struct {
	// OrderBy is the column to order by; defaults to created_at.
	OrderBy string
	// Desc orders descending when set.
	Desc bool
	// Page is the 1-based page number. Ignored when Limit is zero.
	Page int
	// Limit is the page size. Zero means no pagination: the entire filtered
	// set is returned and the reported limit equals the total record count.
	Limit int
	// SearchBy/SearchQuery apply a substring filter on one column. Both must
	// be set for the filter to apply.
	SearchBy    string
	SearchQuery string
}

// Page is the container returned by List.
type Page[T any] struct {
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalPages   int   `json:"total_pages"`
	TotalRecords int64 `json:"total_records"`
	Records      []*T  `json:"records"`
}
