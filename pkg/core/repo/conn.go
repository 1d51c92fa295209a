package repo

import "context"

// TxHandler runs in a transaction which is committed if it returns
// nil and rolled back otherwise.
type TxHandler func(context.Context, Tx) error

type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error
	// IsConn prevents a Tx from implementing Conn by mistake.
	IsConn()
}
