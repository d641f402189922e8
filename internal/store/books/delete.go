package books

import (
	"context"
	"database/sql"

	"github.com/mirtitov/library-catalog/internal/store/dbx"
)

// Delete removes the row for good. sql.ErrNoRows when nothing was deleted,
// so a second delete of the same id reports not-found instead of succeeding.
func Delete(ctx context.Context, db dbx.Execer, id string) error {
	const q = `DELETE FROM books WHERE book_id = $1`
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
