package books

import (
	"context"
	"strconv"
	"strings"

	"github.com/mirtitov/library-catalog/internal/models"
	"github.com/mirtitov/library-catalog/internal/store/dbx"
)

// List returns one page plus the unpaged total. Order is created_at DESC with
// book_id ASC as tiebreak so offsets stay stable across identical timestamps.
func List(ctx context.Context, db dbx.DB, f ListFilter) ([]models.Book, int, error) {
	where := []string{}
	args := []any{}
	i := 1

	if f.Title != "" {
		where = append(where, "title ILIKE $"+strconv.Itoa(i))
		args = append(args, "%"+f.Title+"%")
		i++
	}
	if f.Author != "" {
		where = append(where, "author ILIKE $"+strconv.Itoa(i))
		args = append(args, "%"+f.Author+"%")
		i++
	}
	if f.Genre != "" {
		where = append(where, "genre = $"+strconv.Itoa(i))
		args = append(args, f.Genre)
		i++
	}
	if f.Year != 0 {
		where = append(where, "year = $"+strconv.Itoa(i))
		args = append(args, f.Year)
		i++
	}
	if f.YearFrom != 0 {
		where = append(where, "year >= $"+strconv.Itoa(i))
		args = append(args, f.YearFrom)
		i++
	}
	if f.YearTo != 0 {
		where = append(where, "year <= $"+strconv.Itoa(i))
		args = append(args, f.YearTo)
		i++
	}
	if f.Available != nil {
		where = append(where, "available = $"+strconv.Itoa(i))
		args = append(args, *f.Available)
		i++
	}

	cond := ""
	if len(where) > 0 {
		cond = "WHERE " + strings.Join(where, " AND ") + "\n"
	}

	qCount := `SELECT COUNT(*) FROM books ` + "\n" + cond
	var total int
	if err := db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 {
		size = 20
	}
	offset := (page - 1) * size

	qRows := `SELECT ` + bookColumns + ` FROM books ` + "\n" + cond +
		"ORDER BY created_at DESC, book_id ASC\n" +
		"LIMIT $" + strconv.Itoa(i) + " OFFSET $" + strconv.Itoa(i+1)

	rows, err := db.QueryContext(ctx, qRows, append(args, size, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]models.Book, 0, size)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}
