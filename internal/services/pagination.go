package services

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// normalizePagination applies defaults to absent values, clamps anything below 1 up to 1
// and caps the page size
func normalizePagination(page, limit *int) (int, int) {
	p, l := DefaultPage, DefaultPageSize
	if page != nil {
		p = *page
	}
	if limit != nil {
		l = *limit
	}
	if p < 1 {
		p = 1
	}
	if l < 1 {
		l = 1
	}
	if l > MaxPageSize {
		l = MaxPageSize
	}
	return p, l
}

// pageCount is ceil(total / limit); zero when there is nothing to page through
func pageCount(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
