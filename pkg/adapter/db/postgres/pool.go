package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/gtfs-bounds/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Pool is a database connections pool.
type Pool struct {
	*gorm.DB
}

// NewPool connects to the url database and verifies the connection by
// acquiring one connection from the pool. The url may be given as a
// postgres:// URL or as a key=value DSN string.
func NewPool(ctx context.Context, url string) (*Pool, error) {
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: newLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		return f(ctx, &Conn{queryer{DB: c}})
	})
}

func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
