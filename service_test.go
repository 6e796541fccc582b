package main

import (
	"os"
	"testing"
	"time"

	"ewintr.nl/videotime/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineConfig(t *testing.T) {
	for _, tc := range []struct {
		name   string
		env    map[string]string
		exp    process.Config
		expErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{"CHANNEL_ID": "UC1"},
			exp: process.Config{
				ChannelID:    "UC1",
				Interval:     24 * time.Hour,
				FeedInterval: 5 * time.Minute,
				Workers:      4,
			},
		},
		{
			name: "feed polling off",
			env:  map[string]string{"CHANNEL_ID": "UC1", "FETCH_INTERVAL": "1h", "FEED_INTERVAL": "0s", "FETCH_WORKERS": "2"},
			exp: process.Config{
				ChannelID: "UC1",
				Interval:  time.Hour,
				Workers:   2,
			},
		},
		{
			name:   "no channel",
			env:    map[string]string{},
			expErr: true,
		},
		{
			name:   "zero interval",
			env:    map[string]string{"CHANNEL_ID": "UC1", "FETCH_INTERVAL": "0s"},
			expErr: true,
		},
		{
			name:   "negative interval",
			env:    map[string]string{"CHANNEL_ID": "UC1", "FETCH_INTERVAL": "-1h"},
			expErr: true,
		},
		{
			name:   "negative feed interval",
			env:    map[string]string{"CHANNEL_ID": "UC1", "FEED_INTERVAL": "-5m"},
			expErr: true,
		},
		{
			name:   "no workers",
			env:    map[string]string{"CHANNEL_ID": "UC1", "FETCH_WORKERS": "0"},
			expErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// t.Setenv restores the variables, unset ones fall back to the defaults
			for _, k := range []string{"CHANNEL_ID", "FETCH_INTERVAL", "FEED_INTERVAL", "FETCH_WORKERS"} {
				t.Setenv(k, "")
				os.Unsetenv(k)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			act, err := pipelineConfig()
			if tc.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, act)
		})
	}
}
