package stats

import (
	"errors"
	"fmt"
	"strconv"

	"ewintr.nl/videotime/duration"
	"ewintr.nl/videotime/model"
)

const (
	// SpeedOfLight in m/s
	SpeedOfLight = 299792458.0
	// AstronomicalUnit is the mean Earth-Sun distance in m
	AstronomicalUnit = 149597870700.0
	// ClosestStarDistance in light years
	ClosestStarDistance = 4.22
	SecondsInYear       = 365.4 * 24 * 3600
)

var ErrDivideByZero = errors.New("mean duration is zero")

// Derive expresses physical constants in units of the mean video duration.
// It must only be called with statistics of at least one video.
func Derive(st model.Statistics) (model.DerivedFacts, error) {
	mean, err := duration.DecodeClock(st.MeanDuration)
	if err != nil {
		return model.DerivedFacts{}, fmt.Errorf("could not decode mean duration: %w", err)
	}
	if mean == 0 {
		return model.DerivedFacts{}, ErrDivideByZero
	}
	m := float64(mean)

	return model.DerivedFacts{
		SpeedOfLight: decimal(SpeedOfLight / m),
		TimeSunEarth: decimal(AstronomicalUnit / SpeedOfLight / m),
		ClosestStar:  decimal(ClosestStarDistance * SecondsInYear / m),
	}, nil
}

func decimal(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
