package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-02-09 is a Monday.
func mondayAt(hour, min int) time.Time {
	return time.Date(2026, 2, 9, hour, min, 0, 0, time.UTC)
}

func tuesdayAt(hour, min int) time.Time {
	return time.Date(2026, 2, 10, hour, min, 0, 0, time.UTC)
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "empty input", raw: "", wantErr: false},
		{name: "single range", raw: `{"monday": "09:00-17:00"}`, wantErr: false},
		{name: "single digit hour", raw: `{"monday": "9:00-17:00"}`, wantErr: false},
		{name: "list of ranges", raw: `{"monday": ["09:00-12:00", "13:00-17:00"]}`, wantErr: false},
		{name: "numeric weekday key", raw: `{"1": "09:00-17:00"}`, wantErr: false},
		{name: "metadata ignored", raw: `{"monday": "09:00-17:00", "_metadata": {"v": 2}}`, wantErr: false},
		{name: "not json", raw: `monday 9-17`, wantErr: true},
		{name: "not an object", raw: `["09:00-17:00"]`, wantErr: true},
		{name: "unknown weekday", raw: `{"someday": "09:00-17:00"}`, wantErr: true},
		{name: "start after end", raw: `{"monday": "17:00-09:00"}`, wantErr: true},
		{name: "start equals end", raw: `{"monday": "09:00-09:00"}`, wantErr: true},
		{name: "garbage time", raw: `{"monday": "late-early"}`, wantErr: true},
		{name: "missing dash", raw: `{"monday": "09:00"}`, wantErr: true},
		{name: "overlapping windows", raw: `{"monday": ["09:00-13:00", "12:00-17:00"]}`, wantErr: true},
		{name: "empty range list", raw: `{"monday": []}`, wantErr: true},
		{name: "one bad day poisons all", raw: `{"monday": "09:00-17:00", "tuesday": "bad"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseRules(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, s)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, s)
			}
		})
	}
}

func TestIsWithin(t *testing.T) {
	s, err := ParseRules(`{"monday": "09:00-17:00"}`)
	require.NoError(t, err)

	assert.True(t, s.IsWithin(mondayAt(10, 0), mondayAt(11, 0)))
	assert.True(t, s.IsWithin(mondayAt(9, 0), mondayAt(17, 0)), "full window should fit")
	assert.False(t, s.IsWithin(mondayAt(8, 0), mondayAt(9, 30)), "starts before opening")
	assert.False(t, s.IsWithin(mondayAt(16, 30), mondayAt(17, 30)), "ends after closing")

	// Weekday without rules is unavailable, not defaulted.
	assert.False(t, s.IsWithin(tuesdayAt(10, 0), tuesdayAt(11, 0)))
}

func TestIsWithinMultipleWindows(t *testing.T) {
	s, err := ParseRules(`{"monday": ["09:00-12:00", "13:00-17:00"]}`)
	require.NoError(t, err)

	assert.True(t, s.IsWithin(mondayAt(9, 0), mondayAt(12, 0)))
	assert.True(t, s.IsWithin(mondayAt(13, 0), mondayAt(14, 0)))
	assert.False(t, s.IsWithin(mondayAt(11, 0), mondayAt(14, 0)), "range spanning the lunch gap")
	assert.False(t, s.IsWithin(mondayAt(12, 0), mondayAt(13, 0)))
}

func TestIsWithinNoRulesMeansAlwaysOpen(t *testing.T) {
	s, err := ParseRules("")
	require.NoError(t, err)

	assert.True(t, s.IsWithin(mondayAt(3, 0), mondayAt(4, 0)))
	assert.True(t, s.IsWithin(tuesdayAt(22, 0), tuesdayAt(23, 0)))
}

func TestIsWithinNilScheduleFailsClosed(t *testing.T) {
	var s *Schedule
	assert.False(t, s.IsWithin(mondayAt(10, 0), mondayAt(11, 0)))

	min, ok := s.EarliestStart(time.Monday)
	assert.False(t, ok)
	assert.Zero(t, min)
}

func TestEarliestStart(t *testing.T) {
	s, err := ParseRules(`{"monday": ["13:00-17:00", "09:30-12:00"], "friday": "08:00-10:00"}`)
	require.NoError(t, err)

	min, ok := s.EarliestStart(time.Monday)
	require.True(t, ok)
	assert.Equal(t, 9*60+30, min, "windows should be sorted during parse")

	min, ok = s.EarliestStart(time.Friday)
	require.True(t, ok)
	assert.Equal(t, 8*60, min)

	_, ok = s.EarliestStart(time.Tuesday)
	assert.False(t, ok, "day not present in rules has no start")
}

func TestEarliestStartDefaultSchedule(t *testing.T) {
	s, err := ParseRules("")
	require.NoError(t, err)

	min, ok := s.EarliestStart(time.Wednesday)
	require.True(t, ok)
	assert.Equal(t, defaultOpenMinute, min)
}

func TestWindowsFor(t *testing.T) {
	s, err := ParseRules(`{"sunday": ["14:00-16:00", "10:00-12:00"]}`)
	require.NoError(t, err)

	windows := s.WindowsFor(time.Sunday)
	require.Len(t, windows, 2)
	assert.Equal(t, Window{Start: 10 * 60, End: 12 * 60}, windows[0])
	assert.Equal(t, Window{Start: 14 * 60, End: 16 * 60}, windows[1])

	assert.Empty(t, s.WindowsFor(time.Monday))
}
