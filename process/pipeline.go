package process

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ewintr.nl/videotime/duration"
	"ewintr.nl/videotime/metrics"
	"ewintr.nl/videotime/model"
	"ewintr.nl/videotime/stats"
	"ewintr.nl/videotime/storage"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var ErrNoVideos = errors.New("channel has no videos")

type Config struct {
	ChannelID    model.YoutubeChannelID
	Interval     time.Duration
	FeedInterval time.Duration
	Workers      int
}

type CatalogFetcher interface {
	Fetch(ctx context.Context, channelID model.YoutubeChannelID) ([]model.YoutubeVideoID, error)
}

type DetailFetcher interface {
	Fetch(ctx context.Context, ids []model.YoutubeVideoID) ([]model.VideoDetail, error)
}

type Captioner interface {
	Name() string
	Caption(ctx context.Context, st model.Statistics, facts model.DerivedFacts) (string, error)
}

// Pipeline recomputes the statistics of the channel from a full fetch and
// stores the result. Nothing is stored when a step fails.
type Pipeline struct {
	channelID model.YoutubeChannelID
	catalog   CatalogFetcher
	details   DetailFetcher
	repo      storage.Repository
	index     storage.TitleIndex
	captioner Captioner
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewPipeline(cfg Config, catalog CatalogFetcher, details DetailFetcher, repo storage.Repository, m *metrics.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		channelID: cfg.ChannelID,
		catalog:   catalog,
		details:   details,
		repo:      repo,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// WithTitleIndex mirrors the stored titles into index after each run.
func (p *Pipeline) WithTitleIndex(index storage.TitleIndex) *Pipeline {
	p.index = index
	return p
}

func (p *Pipeline) WithCaptioner(captioner Captioner) *Pipeline {
	p.captioner = captioner
	return p
}

func (p *Pipeline) Run(ctx context.Context) (model.Snapshot, error) {
	start := p.now()
	runID := uuid.New()
	logger := p.logger.With(slog.String("run", runID.String()))
	logger.Info("pipeline started", slog.String("channelid", string(p.channelID)))

	snap, err := p.run(ctx, runID, logger)
	p.metrics.RunDuration.Observe(p.now().Sub(start).Seconds())
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		return model.Snapshot{}, err
	}

	p.metrics.RunsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	p.metrics.Videos.Set(float64(snap.Stats.TotalCount))
	if mean, err := duration.DecodeClock(snap.Stats.MeanDuration); err == nil {
		p.metrics.MeanDuration.Set(float64(mean))
	}
	p.metrics.LastSuccess.Set(float64(snap.LastUpdated.Unix()))
	logger.Info("pipeline finished", slog.Int("count", snap.Stats.TotalCount), slog.String("mean", snap.Stats.MeanDuration))

	return snap, nil
}

func (p *Pipeline) run(ctx context.Context, runID uuid.UUID, logger *slog.Logger) (model.Snapshot, error) {
	ids, err := p.catalog.Fetch(ctx, p.channelID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("could not fetch catalog: %w", err)
	}
	details, err := p.details.Fetch(ctx, ids)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("could not fetch details: %w", err)
	}

	st := stats.Summarize(details)
	if st.TotalCount == 0 {
		return model.Snapshot{}, ErrNoVideos
	}
	facts, err := stats.Derive(st)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("could not derive facts: %w", err)
	}

	snap := model.Snapshot{
		RunID:       runID,
		Details:     details,
		Stats:       st,
		Facts:       facts,
		LastUpdated: p.now().UTC(),
	}

	if p.captioner != nil {
		caption, err := p.captioner.Caption(ctx, st, facts)
		if err != nil {
			logger.Warn("could not caption facts", slog.String("captioner", p.captioner.Name()), slog.String("error", err.Error()))
		}
		snap.Caption = caption
	}

	if err := p.repo.ReplaceAll(ctx, snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("could not store snapshot: %w", err)
	}

	if p.index != nil {
		if err := p.index.Reindex(ctx, details); err != nil {
			logger.Warn("could not index titles", slog.String("error", err.Error()))
		}
	}

	return snap, nil
}
