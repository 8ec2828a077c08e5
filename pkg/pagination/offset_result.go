package pagination

// Meta carries pagination metadata alongside a result page.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// OffsetResult represents an offset-based paginated result page.
// Generic type T allows reuse across different entity types.
type OffsetResult[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// NewOffsetResult creates a new offset-based result
func NewOffsetResult[T any](data []T, total int64, page int, size int) *OffsetResult[T] {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	if data == nil {
		data = []T{}
	}

	return &OffsetResult[T]{
		Data: data,
		Meta: Meta{
			Page:       page,
			Limit:      size,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
