package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const ZeroDuration = "00:00:00"

type Statistics struct {
	MeanDuration  string
	StdDuration   string
	TotalDuration string
	TotalCount    int
}

type DerivedFacts struct {
	SpeedOfLight string
	TimeSunEarth string
	ClosestStar  string
}

// Snapshot is the complete outcome of one pipeline run. A new snapshot
// replaces the previous one in full.
type Snapshot struct {
	RunID       uuid.UUID
	Details     []VideoDetail
	Stats       Statistics
	Facts       DerivedFacts
	Caption     string
	LastUpdated time.Time
}

// Display returns the flat field mapping the front end renders.
func Display(stats Statistics, facts DerivedFacts) map[string]string {
	return map[string]string{
		"mean_duration":  stats.MeanDuration,
		"std_duration":   stats.StdDuration,
		"total_duration": stats.TotalDuration,
		"total_count":    strconv.Itoa(stats.TotalCount),
		"speed_of_light": facts.SpeedOfLight,
		"time_sun_earth": facts.TimeSunEarth,
		"closest_star":   facts.ClosestStar,
	}
}

func (s Snapshot) Display() map[string]string {
	return Display(s.Stats, s.Facts)
}
