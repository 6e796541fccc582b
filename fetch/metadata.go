package fetch

import (
	"context"

	"ewintr.nl/videotime/model"
)

// Channel is the channel lookup response. UploadsPlaylist is nil when the
// response did not carry the uploads collection.
type Channel struct {
	UploadsPlaylist *string
}

// PlaylistPage is one page of the uploads collection. Skipped counts the
// items that carried no video id.
type PlaylistPage struct {
	VideoIDs      []model.YoutubeVideoID
	NextPageToken string
	Skipped       int
}

// Metadata is one item of a batched video lookup. Nil fields were absent in
// the response.
type Metadata struct {
	ID          model.YoutubeVideoID
	Title       *string
	PublishedAt *string
	Duration    *string
}

type ChannelReader interface {
	Channel(ctx context.Context, channelID model.YoutubeChannelID) (Channel, error)
	PlaylistPage(ctx context.Context, playlistID, pageToken string) (PlaylistPage, error)
}

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, ids []model.YoutubeVideoID) ([]Metadata, error)
}
