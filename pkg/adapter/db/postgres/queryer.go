package postgres

import (
	"context"

	"github.com/momeni/gtfs-bounds/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is satisfied by *Conn and *Tx, so repositories may implement
// their queries once, as generic functions, and call them from both of
// their connection and transaction queryers.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}

// queryer implements the statement execution methods which are shared
// by Conn and Tx.
type queryer struct {
	*gorm.DB
}

// Exec runs the sql statement with args and returns the number of
// affected rows. Parameters may be numbered like $1, $2, etc. as they
// are supported by PostgreSQL, or use the ? and @name placeholders of
// GORM. In absence of args, sql may contain multiple statements.
func (q queryer) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tt := q.DB.WithContext(ctx).Exec(sql, args...)
	if err := tt.Error; err != nil {
		return 0, err
	}
	return tt.RowsAffected, nil
}

// Query runs the sql statement with args and returns its result set.
// The Query or Exec may not be called again until the Rows is closed
// since only one ongoing statement may be used on each connection.
func (q queryer) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	rows, err := q.DB.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}

// GORM returns the embedded *gorm.DB instance, configuring it
// to operate on the given ctx context (in a gorm.Session).
func (q queryer) GORM(ctx context.Context) *gorm.DB {
	return q.DB.WithContext(ctx)
}
