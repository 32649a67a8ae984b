package storage

import (
	"context"

	"airbnb-etl/models"
)

// FrameWriter persists named derived views (projections, summaries,
// pivots, time series).
type FrameWriter interface {
	WriteFrame(name string, f *models.Frame) error
	Close() error
}

// ListingWriter is the interface any listings store must satisfy.
type ListingWriter interface {
	Write(ctx context.Context, listings []models.Listing) error
	Close() error
}

// ListingSource reads back the listings a store holds.
type ListingSource interface {
	FetchAll(ctx context.Context) ([]models.Listing, error)
	Close() error
}
