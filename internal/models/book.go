package models

import (
	"math"
	"time"
)

type Book struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Year        int         `json:"year"`
	Genre       string      `json:"genre"`
	Pages       int         `json:"pages"`
	Available   bool        `json:"available"`
	ISBN        *string     `json:"isbn,omitempty"`
	Description *string     `json:"description,omitempty"`
	Extra       *Enrichment `json:"extra,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Enrichment is the JSONB payload merged in from Open Library.
type Enrichment struct {
	CoverURL         string   `json:"cover_url,omitempty"`
	Subjects         []string `json:"subjects,omitempty"`
	Publisher        string   `json:"publisher,omitempty"`
	Language         string   `json:"language,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	EditionCount     int      `json:"edition_count,omitempty"`
	CoverKey         string   `json:"cover_key,omitempty"` // object key of the mirrored cover
}

// Enriched reports whether any lookup data has been merged yet.
func (e *Enrichment) Enriched() bool {
	if e == nil {
		return false
	}
	return e.CoverURL != "" || len(e.Subjects) > 0 || e.Publisher != "" ||
		e.Language != "" || e.Rating != 0 || e.FirstPublishYear != 0 || e.EditionCount != 0
}

type BookPage struct {
	Items    []Book `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Pages    int    `json:"pages"`
}

// PageCount is ceil(total/size); 0 when the result set is empty.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(size)))
}
