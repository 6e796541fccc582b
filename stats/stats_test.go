package stats_test

import (
	"errors"
	"testing"

	"ewintr.nl/videotime/model"
	"ewintr.nl/videotime/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func details(durations ...int64) []model.VideoDetail {
	res := make([]model.VideoDetail, 0, len(durations))
	for _, d := range durations {
		res = append(res, model.VideoDetail{DurationSeconds: d})
	}
	return res
}

func TestSummarize(t *testing.T) {
	for _, tc := range []struct {
		name    string
		details []model.VideoDetail
		exp     model.Statistics
	}{
		{
			name:    "empty",
			details: nil,
			exp: model.Statistics{
				MeanDuration:  "00:00:00",
				StdDuration:   "00:00:00",
				TotalDuration: "00:00:00",
			},
		},
		{
			name:    "three videos",
			details: details(10, 20, 30),
			exp: model.Statistics{
				MeanDuration:  "00:00:20",
				StdDuration:   "00:00:08",
				TotalDuration: "00:01:00",
				TotalCount:    3,
			},
		},
		{
			name:    "single video",
			details: details(3723),
			exp: model.Statistics{
				MeanDuration:  "01:02:03",
				StdDuration:   "00:00:00",
				TotalDuration: "01:02:03",
				TotalCount:    1,
			},
		},
		{
			name:    "mean is truncated",
			details: details(1, 2),
			exp: model.Statistics{
				MeanDuration:  "00:00:01",
				StdDuration:   "00:00:00",
				TotalDuration: "00:00:03",
				TotalCount:    2,
			},
		},
		{
			name:    "zero durations count",
			details: details(0, 0, 600),
			exp: model.Statistics{
				MeanDuration:  "00:03:20",
				StdDuration:   "00:04:42",
				TotalDuration: "00:10:00",
				TotalCount:    3,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, stats.Summarize(tc.details))
		})
	}
}

func TestDerive(t *testing.T) {
	t.Run("mean of 1000 seconds", func(t *testing.T) {
		facts, err := stats.Derive(model.Statistics{MeanDuration: "00:16:40", TotalCount: 1})
		require.NoError(t, err)
		assert.Equal(t, model.DerivedFacts{
			SpeedOfLight: "299792.46",
			TimeSunEarth: "0.50",
			ClosestStar:  "133227.76",
		}, facts)
	})

	t.Run("empty statistics", func(t *testing.T) {
		_, err := stats.Derive(stats.Summarize(nil))
		assert.True(t, errors.Is(err, stats.ErrDivideByZero))
	})

	t.Run("malformed mean", func(t *testing.T) {
		_, err := stats.Derive(model.Statistics{MeanDuration: "1:2:3:4"})
		require.Error(t, err)
		assert.False(t, errors.Is(err, stats.ErrDivideByZero))
	})
}

func TestCumulativeMeans(t *testing.T) {
	in := []model.VideoDetail{
		{PublishedAt: "2023-03-01T10:00:00Z", DurationSeconds: 30},
		{PublishedAt: "2023-01-01T10:00:00Z", DurationSeconds: 10},
		{PublishedAt: "2023-02-01T10:00:00Z", DurationSeconds: 20},
	}

	assert.Equal(t, []stats.SeriesPoint{
		{PublishedAt: "2023-01-01T10:00:00Z", MeanSeconds: 10},
		{PublishedAt: "2023-02-01T10:00:00Z", MeanSeconds: 15},
		{PublishedAt: "2023-03-01T10:00:00Z", MeanSeconds: 20},
	}, stats.CumulativeMeans(in))
	assert.Equal(t, "2023-03-01T10:00:00Z", in[0].PublishedAt, "input must not be reordered")
}

func TestHistogram(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, stats.Histogram(nil, 30))
	})

	t.Run("spread", func(t *testing.T) {
		act := stats.Histogram(details(0, 10, 20, 30, 40), 4)
		assert.Equal(t, []stats.Bin{
			{From: 0, To: 10, Count: 1},
			{From: 10, To: 20, Count: 1},
			{From: 20, To: 30, Count: 1},
			{From: 30, To: 40, Count: 2},
		}, act)
	})

	t.Run("all equal", func(t *testing.T) {
		act := stats.Histogram(details(60, 60, 60), 3)
		require.Len(t, act, 3)
		assert.Equal(t, 3, act[0].Count)
		assert.Equal(t, 0, act[1].Count+act[2].Count)
	})
}
