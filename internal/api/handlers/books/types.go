package books

import "github.com/mirtitov/library-catalog/internal/catalog"

type CreateRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        int    `json:"year"`
	Genre       string `json:"genre"`
	Pages       int    `json:"pages"`
	Available   *bool  `json:"available,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
	Description string `json:"description,omitempty"`
}

func (r CreateRequest) input() catalog.CreateInput {
	return catalog.CreateInput{
		Title:       r.Title,
		Author:      r.Author,
		Year:        r.Year,
		Genre:       r.Genre,
		Pages:       r.Pages,
		Available:   r.Available,
		ISBN:        r.ISBN,
		Description: r.Description,
	}
}

type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Pages       *int    `json:"pages,omitempty"`
	Available   *bool   `json:"available,omitempty"`
	ISBN        *string `json:"isbn,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r UpdateRequest) input() catalog.UpdateInput {
	return catalog.UpdateInput{
		Title:       r.Title,
		Author:      r.Author,
		Year:        r.Year,
		Genre:       r.Genre,
		Pages:       r.Pages,
		Available:   r.Available,
		ISBN:        r.ISBN,
		Description: r.Description,
	}
}
