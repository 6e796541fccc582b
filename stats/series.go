package stats

import (
	"sort"

	"ewintr.nl/videotime/model"
)

type SeriesPoint struct {
	PublishedAt string  `json:"published_at"`
	MeanSeconds float64 `json:"mean_seconds"`
}

// CumulativeMeans returns the running mean duration, oldest video first.
func CumulativeMeans(details []model.VideoDetail) []SeriesPoint {
	sorted := make([]model.VideoDetail, len(details))
	copy(sorted, details)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt < sorted[j].PublishedAt
	})

	points := make([]SeriesPoint, 0, len(sorted))
	var sum int64
	for i, d := range sorted {
		sum += d.DurationSeconds
		points = append(points, SeriesPoint{
			PublishedAt: d.PublishedAt,
			MeanSeconds: float64(sum) / float64(i+1),
		})
	}

	return points
}

type Bin struct {
	From  int64 `json:"from"`
	To    int64 `json:"to"`
	Count int   `json:"count"`
}

// Histogram spreads the durations over equal width bins between the shortest
// and the longest video.
func Histogram(details []model.VideoDetail, bins int) []Bin {
	if len(details) == 0 || bins <= 0 {
		return []Bin{}
	}

	lo, hi := details[0].DurationSeconds, details[0].DurationSeconds
	for _, d := range details[1:] {
		if d.DurationSeconds < lo {
			lo = d.DurationSeconds
		}
		if d.DurationSeconds > hi {
			hi = d.DurationSeconds
		}
	}
	width := float64(hi-lo) / float64(bins)

	res := make([]Bin, bins)
	for i := range res {
		res[i].From = lo + int64(float64(i)*width)
		res[i].To = lo + int64(float64(i+1)*width)
	}
	res[bins-1].To = hi

	for _, d := range details {
		idx := 0
		if width > 0 {
			idx = int(float64(d.DurationSeconds-lo) / width)
		}
		if idx >= bins {
			idx = bins - 1
		}
		res[idx].Count++
	}

	return res
}
