package domain

// Paging limits. Callers may request any page size up to MaxPageSize;
// anything larger is clamped rather than rejected.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one page of a larger result set.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
}

// ClampPaging normalizes caller-supplied paging parameters.
func ClampPaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
