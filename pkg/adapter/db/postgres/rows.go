package postgres

import "database/sql"

// rowsAdapter exposes *sql.Rows as repo.Rows. Closing errors are kept
// by the underlying rows and reported by the Err method.
type rowsAdapter struct {
	*sql.Rows
}

func (ra rowsAdapter) Close() {
	_ = ra.Rows.Close()
}
