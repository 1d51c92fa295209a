package repo

import "context"

// ConnHandler is called with a connection which is valid only during
// the call, so it must not be kept after the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool hands out database connections to handlers, one at a time.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}
