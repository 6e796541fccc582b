// Package duration converts between the duration notations used by the
// video catalog and plain integer seconds.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const prefix = "PT"

// ParseError reports duration text that could not be converted to seconds.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid duration %q: %s", e.Input, e.Reason)
}

// Decode parses the PT[nH][nM][nS] notation the catalog uses for video
// lengths. Each component is optional, the PT prefix is not.
func Decode(text string) (int64, error) {
	if !strings.HasPrefix(text, prefix) {
		return 0, &ParseError{Input: text, Reason: "missing PT prefix"}
	}
	body := strings.TrimPrefix(text, prefix)

	h := strings.IndexByte(body, 'H')
	m := strings.IndexByte(body, 'M')
	s := strings.IndexByte(body, 'S')

	var hours, minutes, seconds int64
	var err error
	if h >= 0 {
		if hours, err = field(text, body, 0, h); err != nil {
			return 0, err
		}
	}
	if m >= 0 {
		start := 0
		if h >= 0 {
			start = h + 1
		}
		if minutes, err = field(text, body, start, m); err != nil {
			return 0, err
		}
	}
	if s >= 0 {
		start := 0
		switch {
		case m >= 0:
			start = m + 1
		case h >= 0:
			start = h + 1
		}
		if seconds, err = field(text, body, start, s); err != nil {
			return 0, err
		}
	}

	if hours > math.MaxInt64/3600 || minutes > math.MaxInt64/60 {
		return 0, &ParseError{Input: text, Reason: "out of range"}
	}
	total := hours * 3600
	for _, n := range []int64{minutes * 60, seconds} {
		if total > math.MaxInt64-n {
			return 0, &ParseError{Input: text, Reason: "out of range"}
		}
		total += n
	}

	return total, nil
}

// field parses body[start:end]. An empty slice counts as zero.
func field(text, body string, start, end int) (int64, error) {
	if start > end {
		return 0, &ParseError{Input: text, Reason: "components out of order"}
	}
	raw := body[start:end]
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return 0, &ParseError{Input: text, Reason: fmt.Sprintf("%q is not a number", raw)}
	}

	return int64(n), nil
}

// DecodeClock parses the HH:MM:SS or MM:SS notation produced by Format.
func DecodeClock(text string) (int64, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, &ParseError{Input: text, Reason: "invalid format"}
	}

	var total int64
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 63)
		if err != nil {
			return 0, &ParseError{Input: text, Reason: fmt.Sprintf("%q is not a number", p)}
		}
		if total > (math.MaxInt64-int64(n))/60 {
			return 0, &ParseError{Input: text, Reason: "out of range"}
		}
		total = total*60 + int64(n)
	}

	return total, nil
}

// Format renders seconds as zero padded HH:MM:SS. Hours are not wrapped at
// 24, negative input renders as zero.
func Format(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
