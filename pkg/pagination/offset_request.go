package pagination

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Page int `json:"page" query:"page" validate:"min=1"`
	Size int `json:"size" query:"limit" validate:"min=1,max=100"`
}

// Validate validates and normalizes offset pagination parameters
func (r *OffsetRequest) Validate() error {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 || r.Size > PageMaxSize {
		r.Size = PageDefaultSize
	}
	return nil
}

// Offset returns the row offset for the current page.
func (r *OffsetRequest) Offset() int {
	return (r.Page - 1) * r.Size
}
