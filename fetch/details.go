package fetch

import (
	"context"

	"ewintr.nl/videotime/duration"
	"ewintr.nl/videotime/model"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

const batchSize = 50

// Details retrieves the metadata of videos in batches of batchSize.
type Details struct {
	fetcher MetadataFetcher
	workers int
	logger  *slog.Logger
}

func NewDetails(fetcher MetadataFetcher, workers int, logger *slog.Logger) *Details {
	if workers < 1 {
		workers = 1
	}
	return &Details{
		fetcher: fetcher,
		workers: workers,
		logger:  logger,
	}
}

// Fetch returns one detail per video the provider knows about, in the order
// of ids. Any failed batch fails the whole fetch.
func (d *Details) Fetch(ctx context.Context, ids []model.YoutubeVideoID) ([]model.VideoDetail, error) {
	batches := make([][]model.YoutubeVideoID, 0, (len(ids)+batchSize-1)/batchSize)
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}

	results := make([][]model.VideoDetail, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			mds, err := d.fetcher.FetchMetadata(gctx, batch)
			if err != nil {
				return err
			}
			results[i] = d.convert(mds)
			d.logger.Debug("fetched metadata", slog.Int("batch", i), slog.Int("count", len(mds)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &FetchError{Op: "fetch metadata", Err: err}
	}

	all := make([]model.VideoDetail, 0, len(ids))
	for _, r := range results {
		all = append(all, r...)
	}
	d.logger.Info("fetched metadata", slog.Int("count", len(all)), slog.Int("batches", len(batches)))

	return all, nil
}

func (d *Details) convert(mds []Metadata) []model.VideoDetail {
	res := make([]model.VideoDetail, 0, len(mds))
	for _, md := range mds {
		detail := model.VideoDetail{YoutubeID: md.ID}
		if md.Title != nil {
			detail.Title = *md.Title
		} else {
			d.logger.Warn("video has no title", slog.String("video", string(md.ID)))
		}
		if md.PublishedAt != nil {
			detail.PublishedAt = *md.PublishedAt
		} else {
			d.logger.Warn("video has no publish date", slog.String("video", string(md.ID)))
		}
		if md.Duration != nil {
			secs, err := duration.Decode(*md.Duration)
			if err != nil {
				d.logger.Warn("could not decode duration", slog.String("video", string(md.ID)), slog.String("error", err.Error()))
			}
			detail.DurationSeconds = secs
		} else {
			d.logger.Warn("video has no duration", slog.String("video", string(md.ID)))
		}
		res = append(res, detail)
	}

	return res
}
