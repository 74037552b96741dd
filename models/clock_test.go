package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00:00", 0, false},
		{"09:00:00", 9 * 3600, false},
		{"10:31:00", 10*3600 + 31*60, false},
		{"23:59:59", 23*3600 + 59*60 + 59, false},
		{"24:00:00", 0, true},
		{"9:00", 0, true},
		{"garbage", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, sec := range []int{0, 9 * 3600, 10*3600 + 31*60, 23*3600 + 59*60 + 59} {
		got, err := ParseClock(FormatClock(sec))
		require.NoError(t, err)
		assert.Equal(t, sec, got)
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", day)

	_, err = ParseDay("03/10/2025")
	assert.Error(t, err)
	_, err = ParseDay("2025-13-40")
	assert.Error(t, err)
}

func TestSlotOverlaps(t *testing.T) {
	s := Slot{Start: 9 * 3600, End: 10 * 3600}

	assert.True(t, s.Overlaps(9*3600, 10*3600))
	assert.True(t, s.Overlaps(9*3600+1800, 10*3600+1800))
	assert.False(t, s.Overlaps(10*3600, 11*3600), "touching endpoints do not overlap")
	assert.False(t, s.Overlaps(8*3600, 9*3600))
}
