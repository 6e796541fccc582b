package storage

import (
	"context"
	"errors"

	"ewintr.nl/videotime/model"
)

var ErrNotFound = errors.New("no snapshot stored yet")

// Repository keeps the outcome of the last successful pipeline run. Every
// ReplaceAll discards what was stored before.
type Repository interface {
	ReplaceAll(ctx context.Context, snap model.Snapshot) error
	// Latest returns the last snapshot without its video details.
	Latest(ctx context.Context) (model.Snapshot, error)
	Details(ctx context.Context) ([]model.VideoDetail, error)
	Recent(ctx context.Context, limit int) ([]model.VideoDetail, error)
	Stats(ctx context.Context) (model.Statistics, error)
	Facts(ctx context.Context) (model.DerivedFacts, error)
}

type TitleIndex interface {
	Reindex(ctx context.Context, details []model.VideoDetail) error
}
