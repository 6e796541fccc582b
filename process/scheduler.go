package process

import (
	"context"
	"time"

	"ewintr.nl/videotime/fetch"
	"ewintr.nl/videotime/model"
	"golang.org/x/exp/slog"
)

type Runner interface {
	Run(ctx context.Context) (model.Snapshot, error)
}

// Scheduler runs the pipeline at start, then every interval. When a feed
// reader is set, unread feed entries for the channel trigger an early run.
type Scheduler struct {
	runner       Runner
	channelID    model.YoutubeChannelID
	interval     time.Duration
	feedInterval time.Duration
	feedReader   fetch.FeedReader
	logger       *slog.Logger
}

func NewScheduler(cfg Config, runner Runner, feedReader fetch.FeedReader, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:       runner,
		channelID:    cfg.ChannelID,
		interval:     cfg.Interval,
		feedInterval: cfg.FeedInterval,
		feedReader:   feedReader,
		logger:       logger,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("started scheduler", slog.Duration("interval", s.interval))
	s.runner.Run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var feed <-chan time.Time
	if s.feedReader != nil && s.feedInterval > 0 {
		feedTicker := time.NewTicker(s.feedInterval)
		defer feedTicker.Stop()
		feed = feedTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopped scheduler")
			return
		case <-ticker.C:
			s.runner.Run(ctx)
		case <-feed:
			if s.ReadFeed(ctx) {
				ticker.Reset(s.interval)
			}
		}
	}
}

// ReadFeed looks for unread entries of the channel and runs the pipeline
// when there are any. The entries are only marked read after a successful
// run, so a failed run is retried on the next poll.
func (s *Scheduler) ReadFeed(ctx context.Context) bool {
	entries, err := s.feedReader.Unread()
	if err != nil {
		s.logger.Error("failed to fetch unread entries", slog.String("error", err.Error()))
		return false
	}

	ids := []int64{}
	for _, entry := range entries {
		if entry.YoutubeChannelID != s.channelID {
			continue
		}
		ids = append(ids, entry.EntryID)
	}
	if len(ids) == 0 {
		return false
	}
	s.logger.Info("found new uploads", slog.Int("count", len(ids)))

	if _, err := s.runner.Run(ctx); err != nil {
		return false
	}
	if err := s.feedReader.MarkRead(ids...); err != nil {
		s.logger.Error("failed to mark entries as read", slog.String("error", err.Error()))
	}

	return true
}
