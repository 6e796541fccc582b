package fetch_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ewintr.nl/videotime/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiniflux(t *testing.T) {
	var marked []int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/entries"))
		assert.Equal(t, "secret", r.Header.Get("X-Auth-Token"))
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "unread", r.URL.Query().Get("status"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"total":2,"entries":[
{"id":11,"feed_id":3,"url":"https://www.youtube.com/watch?v=abc","feed":{"id":3,"feed_url":"https://www.youtube.com/feeds/videos.xml?channel_id=UC1"}},
{"id":12,"feed_id":4,"url":"https://example.com/post"}
]}`)
		case http.MethodPut:
			var body struct {
				EntryIDs []int64 `json:"entry_ids"`
				Status   string  `json:"status"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "read", body.Status)
			marked = append(marked, body.EntryIDs...)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	mflx := fetch.NewMiniflux(fetch.MinifluxInfo{Endpoint: srv.URL + "/v1", ApiKey: "secret"})

	entries, err := mflx.Unread()
	require.NoError(t, err)
	assert.Equal(t, []fetch.FeedEntry{
		{EntryID: 11, FeedID: 3, YoutubeChannelID: "UC1", YoutubeID: "abc"},
		{EntryID: 12, FeedID: 4, YoutubeID: "https://example.com/post"},
	}, entries)

	require.NoError(t, mflx.MarkRead(11))
	assert.Equal(t, []int64{11}, marked)

	require.NoError(t, mflx.MarkRead())
	assert.Equal(t, []int64{11}, marked)
}
