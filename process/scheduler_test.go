package process_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ewintr.nl/videotime/fetch"
	"ewintr.nl/videotime/model"
	"ewintr.nl/videotime/process"
	"github.com/stretchr/testify/assert"
)

type countingRunner struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (c *countingRunner) Run(_ context.Context) (model.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs++
	return model.Snapshot{}, c.err
}

func (c *countingRunner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

type stubFeedReader struct {
	entries []fetch.FeedEntry
	err     error
	marked  []int64
}

func (s *stubFeedReader) Unread() ([]fetch.FeedEntry, error) {
	return s.entries, s.err
}

func (s *stubFeedReader) MarkRead(entryIDs ...int64) error {
	s.marked = append(s.marked, entryIDs...)
	return nil
}

func TestSchedulerReadFeed(t *testing.T) {
	entries := []fetch.FeedEntry{
		{EntryID: 1, YoutubeChannelID: "UC1", YoutubeID: "a"},
		{EntryID: 2, YoutubeChannelID: "UC2", YoutubeID: "b"},
		{EntryID: 3, YoutubeChannelID: "UC1", YoutubeID: "c"},
	}

	for _, tc := range []struct {
		name      string
		reader    *stubFeedReader
		runErr    error
		expRan    bool
		expRuns   int
		expMarked []int64
	}{
		{
			name:      "new uploads",
			reader:    &stubFeedReader{entries: entries},
			expRan:    true,
			expRuns:   1,
			expMarked: []int64{1, 3},
		},
		{
			name:   "other channels only",
			reader: &stubFeedReader{entries: entries[1:2]},
		},
		{
			name:   "feed unavailable",
			reader: &stubFeedReader{err: errors.New("timeout")},
		},
		{
			name:    "run fails",
			reader:  &stubFeedReader{entries: entries},
			runErr:  errors.New("quota"),
			expRuns: 1,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			runner := &countingRunner{err: tc.runErr}
			s := process.NewScheduler(process.Config{ChannelID: "UC1", Interval: time.Hour}, runner, tc.reader, testLogger())

			assert.Equal(t, tc.expRan, s.ReadFeed(context.Background()))
			assert.Equal(t, tc.expRuns, runner.count())
			assert.Equal(t, tc.expMarked, tc.reader.marked)
		})
	}
}

func TestSchedulerRun(t *testing.T) {
	runner := &countingRunner{}
	s := process.NewScheduler(process.Config{ChannelID: "UC1", Interval: 10 * time.Millisecond}, runner, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runner.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
