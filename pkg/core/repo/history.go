package repo

import (
	"context"

	"github.com/momeni/gtfs-bounds/pkg/core/model"
)

type HistoryConnQueryer interface {
	HistoryQueryer
}

type HistoryTxQueryer interface {
	HistoryQueryer

	// CreateTable creates the reports table if it does not exist.
	CreateTable(ctx context.Context) error
}

type HistoryQueryer interface {
	Save(ctx context.Context, r *model.Report) (*model.SavedReport, error)
	// List returns at most limit reports, the most recent ones first.
	List(ctx context.Context, limit int) ([]model.SavedReport, error)
}

// History persists the computed reports.
type History interface {
	Conn(Conn) HistoryConnQueryer
	Tx(Tx) HistoryTxQueryer
}
