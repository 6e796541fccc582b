package fetch

import (
	"strings"

	"ewintr.nl/videotime/model"
	"miniflux.app/client"
)

const (
	channelFeedPrefix = "https://www.youtube.com/feeds/videos.xml?channel_id="
	watchPrefix       = "https://www.youtube.com/watch?v="
)

// FeedEntry is an unread item from the channel's RSS feed. It only signals
// that something new was published.
type FeedEntry struct {
	EntryID          int64
	FeedID           int64
	YoutubeChannelID model.YoutubeChannelID
	YoutubeID        model.YoutubeVideoID
}

type FeedReader interface {
	Unread() ([]FeedEntry, error)
	MarkRead(entryIDs ...int64) error
}

type MinifluxInfo struct {
	Endpoint string
	ApiKey   string
}

type Miniflux struct {
	client *client.Client
}

func NewMiniflux(mflInfo MinifluxInfo) *Miniflux {
	return &Miniflux{
		client: client.New(mflInfo.Endpoint, mflInfo.ApiKey),
	}
}

func (m *Miniflux) Unread() ([]FeedEntry, error) {
	result, err := m.client.Entries(&client.Filter{Status: "unread"})
	if err != nil {
		return nil, err
	}

	entries := make([]FeedEntry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		fe := FeedEntry{
			EntryID:   entry.ID,
			FeedID:    entry.FeedID,
			YoutubeID: model.YoutubeVideoID(strings.TrimPrefix(entry.URL, watchPrefix)),
		}
		if entry.Feed != nil {
			fe.YoutubeChannelID = model.YoutubeChannelID(strings.TrimPrefix(entry.Feed.FeedURL, channelFeedPrefix))
		}
		entries = append(entries, fe)
	}

	return entries, nil
}

func (m *Miniflux) MarkRead(entryIDs ...int64) error {
	if len(entryIDs) == 0 {
		return nil
	}

	return m.client.UpdateEntries(entryIDs, "read")
}
