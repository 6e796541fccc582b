package fetch

import (
	"context"

	"ewintr.nl/videotime/model"
	"golang.org/x/exp/slog"
)

// Catalog lists every video a channel has published.
type Catalog struct {
	reader ChannelReader
	logger *slog.Logger
}

func NewCatalog(reader ChannelReader, logger *slog.Logger) *Catalog {
	return &Catalog{
		reader: reader,
		logger: logger,
	}
}

// Fetch pages through the uploads collection of the channel and returns the
// video ids in the order the provider lists them.
func (c *Catalog) Fetch(ctx context.Context, channelID model.YoutubeChannelID) ([]model.YoutubeVideoID, error) {
	c.logger.Info("fetching channel", slog.String("channelid", string(channelID)))
	ch, err := c.reader.Channel(ctx, channelID)
	if err != nil {
		return nil, &FetchError{Op: "fetch channel", Err: err}
	}
	if ch.UploadsPlaylist == nil {
		return nil, &FetchError{Op: "fetch channel", Err: ErrNoUploads}
	}
	playlistID := *ch.UploadsPlaylist

	ids := []model.YoutubeVideoID{}
	token := ""
	for {
		page, err := c.reader.PlaylistPage(ctx, playlistID, token)
		if err != nil {
			return nil, &FetchError{Op: "fetch playlist page", Err: err}
		}
		ids = append(ids, page.VideoIDs...)
		if page.Skipped > 0 {
			c.logger.Warn("playlist items without video id", slog.String("playlistid", playlistID), slog.String("pagetoken", token), slog.Int("skipped", page.Skipped))
		}
		c.logger.Debug("fetched playlist page", slog.String("playlistid", playlistID), slog.String("pagetoken", token), slog.Int("count", len(page.VideoIDs)))

		token = page.NextPageToken
		if token == "" {
			break
		}
	}

	c.logger.Info("fetched channel", slog.String("channelid", string(channelID)), slog.Int("count", len(ids)))
	return ids, nil
}
