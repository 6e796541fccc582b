package fetch_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"ewintr.nl/videotime/fetch"
	"ewintr.nl/videotime/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type stubChannelReader struct {
	channel    fetch.Channel
	channelErr error
	pages      map[string]fetch.PlaylistPage
	pageErr    error
	tokens     []string
}

func (s *stubChannelReader) Channel(_ context.Context, _ model.YoutubeChannelID) (fetch.Channel, error) {
	return s.channel, s.channelErr
}

func (s *stubChannelReader) PlaylistPage(_ context.Context, _, pageToken string) (fetch.PlaylistPage, error) {
	s.tokens = append(s.tokens, pageToken)
	if s.pageErr != nil {
		return fetch.PlaylistPage{}, s.pageErr
	}
	return s.pages[pageToken], nil
}

func videoIDs(prefix string, n int) []model.YoutubeVideoID {
	ids := make([]model.YoutubeVideoID, n)
	for i := range ids {
		ids[i] = model.YoutubeVideoID(fmt.Sprintf("%s-%03d", prefix, i))
	}
	return ids
}

func TestCatalogFetch(t *testing.T) {
	t.Run("pages", func(t *testing.T) {
		reader := &stubChannelReader{
			channel: fetch.Channel{UploadsPlaylist: strPtr("UU1")},
			pages: map[string]fetch.PlaylistPage{
				"":   {VideoIDs: videoIDs("a", 50), NextPageToken: "p2"},
				"p2": {VideoIDs: videoIDs("b", 50), NextPageToken: "p3"},
				"p3": {VideoIDs: videoIDs("c", 7)},
			},
		}
		catalog := fetch.NewCatalog(reader, testLogger())

		act, err := catalog.Fetch(context.Background(), "UC1")
		require.NoError(t, err)
		assert.Len(t, act, 107)
		assert.Equal(t, []string{"", "p2", "p3"}, reader.tokens)

		exp := append(append(videoIDs("a", 50), videoIDs("b", 50)...), videoIDs("c", 7)...)
		assert.Equal(t, exp, act)
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		reader := &stubChannelReader{
			channel: fetch.Channel{UploadsPlaylist: strPtr("UU1")},
			pages: map[string]fetch.PlaylistPage{
				"":   {VideoIDs: []model.YoutubeVideoID{"x", "y"}, NextPageToken: "p2"},
				"p2": {VideoIDs: []model.YoutubeVideoID{"y"}},
			},
		}
		act, err := fetch.NewCatalog(reader, testLogger()).Fetch(context.Background(), "UC1")
		require.NoError(t, err)
		assert.Equal(t, []model.YoutubeVideoID{"x", "y", "y"}, act)
	})

	t.Run("items without id are reported", func(t *testing.T) {
		reader := &stubChannelReader{
			channel: fetch.Channel{UploadsPlaylist: strPtr("UU1")},
			pages: map[string]fetch.PlaylistPage{
				"": {VideoIDs: []model.YoutubeVideoID{"x"}, Skipped: 2},
			},
		}
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		act, err := fetch.NewCatalog(reader, logger).Fetch(context.Background(), "UC1")
		require.NoError(t, err)
		assert.Equal(t, []model.YoutubeVideoID{"x"}, act)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "skipped=2")
	})

	t.Run("empty channel", func(t *testing.T) {
		reader := &stubChannelReader{
			channel: fetch.Channel{UploadsPlaylist: strPtr("UU1")},
			pages:   map[string]fetch.PlaylistPage{},
		}
		act, err := fetch.NewCatalog(reader, testLogger()).Fetch(context.Background(), "UC1")
		require.NoError(t, err)
		assert.Empty(t, act)
	})

	t.Run("no uploads collection", func(t *testing.T) {
		reader := &stubChannelReader{}
		_, err := fetch.NewCatalog(reader, testLogger()).Fetch(context.Background(), "UC1")
		var fe *fetch.FetchError
		require.True(t, errors.As(err, &fe))
		assert.True(t, errors.Is(err, fetch.ErrNoUploads))
		assert.Empty(t, reader.tokens)
	})

	t.Run("channel lookup fails", func(t *testing.T) {
		reader := &stubChannelReader{channelErr: errors.New("boom")}
		_, err := fetch.NewCatalog(reader, testLogger()).Fetch(context.Background(), "UC1")
		var fe *fetch.FetchError
		assert.True(t, errors.As(err, &fe))
	})

	t.Run("page fails", func(t *testing.T) {
		reader := &stubChannelReader{
			channel: fetch.Channel{UploadsPlaylist: strPtr("UU1")},
			pageErr: errors.New("boom"),
		}
		act, err := fetch.NewCatalog(reader, testLogger()).Fetch(context.Background(), "UC1")
		var fe *fetch.FetchError
		assert.True(t, errors.As(err, &fe))
		assert.Nil(t, act)
	})
}
