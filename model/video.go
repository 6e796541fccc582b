package model

type YoutubeVideoID string

type YoutubeChannelID string

// VideoDetail is the metadata kept for one video of the channel. Missing
// upstream fields are stored as their zero value.
type VideoDetail struct {
	YoutubeID       YoutubeVideoID
	Title           string
	DurationSeconds int64
	PublishedAt     string
}
