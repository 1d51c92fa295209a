// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package boundsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/gtfs-bounds/pkg/adapter/db/postgres"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
)

// TableName is the name of the table which keeps the reports.
const TableName = "feed_bounds"

type gReport struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `gorm:"not null;index"`
	Sources   []string  `gorm:"serializer:json;type:jsonb;not null"`
	Observed  int       `gorm:"not null"`
	Skipped   int       `gorm:"not null"`

	MinLat float64 `gorm:"type:double precision;not null"`
	MaxLat float64 `gorm:"type:double precision;not null"`
	MinLon float64 `gorm:"type:double precision;not null"`
	MaxLon float64 `gorm:"type:double precision;not null"`

	BufferDegrees float64 `gorm:"type:double precision;not null;default:0"`
	// buffered bounds are either all NULL or all set
	BufferedMinLat *float64 `gorm:"type:double precision"`
	BufferedMaxLat *float64 `gorm:"type:double precision"`
	BufferedMinLon *float64 `gorm:"type:double precision"`
	BufferedMaxLon *float64 `gorm:"type:double precision"`
}

func (gr *gReport) TableName() string {
	return TableName
}

func fromModel(id uuid.UUID, at time.Time, r *model.Report) *gReport {
	gr := &gReport{
		ID:            id,
		CreatedAt:     at,
		Sources:       r.Sources,
		Observed:      r.Observed,
		Skipped:       r.Skipped,
		MinLat:        r.Bounds.MinLat,
		MaxLat:        r.Bounds.MaxLat,
		MinLon:        r.Bounds.MinLon,
		MaxLon:        r.Bounds.MaxLon,
		BufferDegrees: r.BufferDegrees,
	}
	if b := r.Buffered; b != nil {
		gr.BufferedMinLat = &b.MinLat
		gr.BufferedMaxLat = &b.MaxLat
		gr.BufferedMinLon = &b.MinLon
		gr.BufferedMaxLon = &b.MaxLon
	}
	return gr
}

func (gr *gReport) Model() *model.SavedReport {
	sr := &model.SavedReport{
		ID:        gr.ID,
		CreatedAt: gr.CreatedAt,
		Report: model.Report{
			Sources:  gr.Sources,
			Observed: gr.Observed,
			Skipped:  gr.Skipped,
			Bounds: model.BoundingBox{
				MinLat: gr.MinLat,
				MaxLat: gr.MaxLat,
				MinLon: gr.MinLon,
				MaxLon: gr.MaxLon,
			},
			BufferDegrees: gr.BufferDegrees,
		},
	}
	if gr.BufferedMinLat != nil && gr.BufferedMaxLat != nil &&
		gr.BufferedMinLon != nil && gr.BufferedMaxLon != nil {
		sr.Buffered = &model.BoundingBox{
			MinLat: *gr.BufferedMinLat,
			MaxLat: *gr.BufferedMaxLat,
			MinLon: *gr.BufferedMinLon,
			MaxLon: *gr.BufferedMaxLon,
		}
	}
	return sr
}

func CreateTable[Q postgres.Queryer](ctx context.Context, q Q) error {
	if err := q.GORM(ctx).AutoMigrate(&gReport{}); err != nil {
		return fmt.Errorf("migrating %s table: %w", TableName, err)
	}
	return nil
}

// Save inserts r with a fresh ID. The creation time is truncated to
// microseconds because PostgreSQL keeps no finer timestamps, so the
// returned report equals what List reads later.
func Save[Q postgres.Queryer](ctx context.Context, q Q, r *model.Report) (*model.SavedReport, error) {
	gr := fromModel(uuid.New(), time.Now().UTC().Truncate(time.Microsecond), r)
	if err := q.GORM(ctx).Create(gr).Error; err != nil {
		return nil, fmt.Errorf("inserting report: %w", err)
	}
	return gr.Model(), nil
}

func List[Q postgres.Queryer](ctx context.Context, q Q, limit int) ([]model.SavedReport, error) {
	var grs []gReport
	err := q.GORM(ctx).Order("created_at DESC").Limit(limit).Find(&grs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	reports := make([]model.SavedReport, 0, len(grs))
	for i := range grs {
		reports = append(reports, *grs[i].Model())
	}
	return reports, nil
}
