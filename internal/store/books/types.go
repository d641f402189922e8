package books

// ListFilter carries the normalized query surface for List. Zero values mean
// "not filtered"; Available uses a pointer so false is a real filter.
type ListFilter struct {
	Title     string // partial, case-insensitive
	Author    string // partial, case-insensitive
	Genre     string // exact
	Year      int    // exact
	YearFrom  int
	YearTo    int
	Available *bool

	Page     int
	PageSize int
}

// UpdateFields is the PATCH surface: nil pointers leave the column untouched.
type UpdateFields struct {
	Title       *string
	Author      *string
	Year        *int
	Genre       *string
	Pages       *int
	Available   *bool
	ISBN        *string // normalized by the caller
	Description *string // empty string clears to NULL
}

func (f UpdateFields) Empty() bool {
	return f.Title == nil && f.Author == nil && f.Year == nil && f.Genre == nil &&
		f.Pages == nil && f.Available == nil && f.ISBN == nil && f.Description == nil
}
