package domain

// DefaultPageSize is the page size applied when a list request does not ask
// for one.
const DefaultPageSize = 20

// PaginationParams selects one page of a list query. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit returns the row limit for the query, substituting the default for a
// non-positive page size.
func (p PaginationParams) Limit() int {
	if p.PageSize < 1 {
		return DefaultPageSize
	}
	return p.PageSize
}

// Offset returns the 0-based row offset of the page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
