package openlibrary

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(srvURL string) *Client {
	return New(srvURL, 2*time.Second, 100)
}

func TestSearchByISBN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("isbn"); got != "9780441013593" {
			t.Errorf("want isbn param, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("want limit=1, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"numFound": 1,
			"docs": [{
				"cover_i": 12345,
				"subject": ["Science Fiction", "Dune (Imaginary place)", "science fiction"],
				"publisher": ["Ace Books", "Chilton"],
				"language": ["eng"],
				"ratings_average": 4.2678,
				"first_publish_year": 1965,
				"edition_count": 120
			}]
		}`))
	}))
	defer srv.Close()

	e, err := newTestClient(srv.URL).SearchByISBN(t.Context(), "9780441013593")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.CoverURL != "https://covers.openlibrary.org/b/id/12345-L.jpg" {
		t.Fatalf("unexpected cover url: %q", e.CoverURL)
	}
	// normalized + deduped: "Science Fiction" and "science fiction" collapse
	if len(e.Subjects) != 2 || e.Subjects[0] != "science-fiction" || e.Subjects[1] != "dune-imaginary-place" {
		t.Fatalf("unexpected subjects: %v", e.Subjects)
	}
	if e.Publisher != "Ace Books" || e.Language != "eng" {
		t.Fatalf("unexpected publisher/language: %q %q", e.Publisher, e.Language)
	}
	if e.Rating != 4.27 {
		t.Fatalf("want rating rounded to 4.27, got %v", e.Rating)
	}
	if e.FirstPublishYear != 1965 || e.EditionCount != 120 {
		t.Fatalf("unexpected year/editions: %d %d", e.FirstPublishYear, e.EditionCount)
	}
}

func TestSearchNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"numFound": 0, "docs": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SearchByISBN(t.Context(), "0000000000")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("want ErrNoMatch, got %v", err)
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SearchByISBN(t.Context(), "9780441013593")
	if err == nil || errors.Is(err, ErrNoMatch) {
		t.Fatalf("want transport error, got %v", err)
	}
}

func TestEnrichFallsBackToTitleAuthor(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("isbn") != "" {
			calls = append(calls, "isbn")
			_, _ = w.Write([]byte(`{"numFound": 0, "docs": []}`))
			return
		}
		calls = append(calls, "title")
		if r.URL.Query().Get("title") != "Dune" || r.URL.Query().Get("author") != "Herbert" {
			t.Errorf("unexpected fallback query: %v", r.URL.Query())
		}
		_, _ = w.Write([]byte(`{"numFound": 1, "docs": [{"cover_i": 7, "first_publish_year": 1965}]}`))
	}))
	defer srv.Close()

	e, err := newTestClient(srv.URL).Enrich(t.Context(), "Dune", "Herbert", "9780441013593")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(calls) != 2 || calls[0] != "isbn" || calls[1] != "title" {
		t.Fatalf("want isbn-then-title calls, got %v", calls)
	}
	if e.FirstPublishYear != 1965 {
		t.Fatalf("unexpected enrichment: %+v", e)
	}
}

func TestEnrichWithoutISBNSkipsISBNSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("isbn") != "" {
			t.Error("isbn search must not run without an isbn")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"numFound": 1, "docs": [{"cover_i": 9}]}`))
	}))
	defer srv.Close()

	e, err := newTestClient(srv.URL).Enrich(t.Context(), "Dune", "Herbert", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.CoverURL == "" {
		t.Fatalf("unexpected enrichment: %+v", e)
	}
}
