package util

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Calculate turns 1-based page/size query params into an offset and limit,
// applying defaults and capping oversized requests.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	offset = (page - 1) * size
	return offset, size
}
