package listing

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
	// MaxPage keeps (page-1)*size well inside int range.
	MaxPage = 1 << 20
)

type Page struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Paginate cuts one page out of records. page is 1-based; out-of-range values are clamped.
func Paginate[T any](records []T, page, size int) ([]T, Page) {
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	total := len(records)
	meta := Page{Page: page, Size: size, Total: total, Pages: (total + size - 1) / size}

	start := (page - 1) * size
	if start >= total {
		return []T{}, meta
	}
	end := min(start+size, total)
	return records[start:end], meta
}
