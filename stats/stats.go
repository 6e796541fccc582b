// Package stats reduces a channel's video durations to summary statistics
// and the facts derived from them.
package stats

import (
	"math"

	"ewintr.nl/videotime/duration"
	"ewintr.nl/videotime/model"
)

// Summarize computes count, total, mean and population standard deviation
// of the video durations. Mean and deviation are truncated to whole seconds.
func Summarize(details []model.VideoDetail) model.Statistics {
	count := len(details)
	if count == 0 {
		return model.Statistics{
			MeanDuration:  model.ZeroDuration,
			StdDuration:   model.ZeroDuration,
			TotalDuration: model.ZeroDuration,
		}
	}

	var total int64
	for _, d := range details {
		total += d.DurationSeconds
	}
	mean := float64(total) / float64(count)

	var sq float64
	for _, d := range details {
		diff := float64(d.DurationSeconds) - mean
		sq += diff * diff
	}
	std := math.Sqrt(sq / float64(count))

	return model.Statistics{
		MeanDuration:  duration.Format(int64(mean)),
		StdDuration:   duration.Format(int64(std)),
		TotalDuration: duration.Format(total),
		TotalCount:    count,
	}
}
