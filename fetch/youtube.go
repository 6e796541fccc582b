package fetch

import (
	"context"
	"strings"

	"ewintr.nl/videotime/model"
	"google.golang.org/api/youtube/v3"
)

const pageSize = 50

type Youtube struct {
	Client *youtube.Service
}

func NewYoutube(client *youtube.Service) *Youtube {
	return &Youtube{Client: client}
}

func (y *Youtube) Channel(ctx context.Context, channelID model.YoutubeChannelID) (Channel, error) {
	response, err := y.Client.Channels.
		List([]string{"contentDetails"}).
		Id(string(channelID)).
		Context(ctx).
		Do()
	if err != nil {
		return Channel{}, err
	}

	ch := Channel{}
	if len(response.Items) == 0 {
		return ch, nil
	}
	item := response.Items[0]
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		ch.UploadsPlaylist = present(item.ContentDetails.RelatedPlaylists.Uploads)
	}

	return ch, nil
}

func (y *Youtube) PlaylistPage(ctx context.Context, playlistID, pageToken string) (PlaylistPage, error) {
	call := y.Client.PlaylistItems.
		List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(pageSize).
		Context(ctx)

	if pageToken != "" {
		call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return PlaylistPage{}, err
	}

	page := PlaylistPage{
		VideoIDs:      make([]model.YoutubeVideoID, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
			page.Skipped++
			continue
		}
		page.VideoIDs = append(page.VideoIDs, model.YoutubeVideoID(item.Snippet.ResourceId.VideoId))
	}

	return page, nil
}

func (y *Youtube) FetchMetadata(ctx context.Context, ytIDs []model.YoutubeVideoID) ([]Metadata, error) {
	strIDs := make([]string, len(ytIDs))
	for i, id := range ytIDs {
		strIDs[i] = string(id)
	}
	call := y.Client.Videos.
		List([]string{"snippet", "contentDetails"}).
		Id(strings.Join(strIDs, ",")).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, err
	}

	mds := make([]Metadata, 0, len(response.Items))
	for _, item := range response.Items {
		md := Metadata{ID: model.YoutubeVideoID(item.Id)}
		if item.Snippet != nil {
			md.Title = present(item.Snippet.Title)
			md.PublishedAt = present(item.Snippet.PublishedAt)
		}
		if item.ContentDetails != nil {
			md.Duration = present(item.ContentDetails.Duration)
		}
		mds = append(mds, md)
	}

	return mds, nil
}

// present maps the empty value the client library uses for omitted fields
// to nil.
func present(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
