package repo

import "context"

// Queryer runs raw SQL statements. Both of Conn and Tx are Queryers,
// so repositories which only need to run statements can accept either.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows is the result of a Query. It must be closed after use, and its
// Err method must be checked once Next returns false.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
}
