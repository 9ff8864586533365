package availability

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// metadataKey is stored alongside the weekday rules by the editing UI and
// carries no scheduling meaning.
const metadataKey = "_metadata"

// Default window applied when a resource has no rules at all.
const (
	defaultOpenMinute  = 9 * 60
	defaultCloseMinute = 17 * 60
)

// Window is a time-of-day range [Start, End) in minutes from midnight.
type Window struct {
	Start int
	End   int
}

// Schedule is the parsed weekly availability of a resource.
// A nil *Schedule means the rules could not be parsed: every query on it
// answers "unavailable" so malformed data can never produce a false positive.
type Schedule struct {
	days map[time.Weekday][]Window
}

// ParseRules parses the persisted availability rules JSON.
//
// The accepted shape is an object keyed by weekday ("monday".."sunday", or
// "0".."6" with 0 = Sunday) whose values are either a single "HH:MM-HH:MM"
// string or a list of them. An empty input yields a schedule with no rules,
// which is treated as always available.
//
// Parsing is all-or-nothing: one malformed window anywhere poisons the whole
// schedule, not just the offending day.
func ParseRules(raw string) (*Schedule, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &Schedule{}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("availability rules are not a JSON object: %w", err)
	}

	days := make(map[time.Weekday][]Window)
	for key, val := range obj {
		if key == metadataKey {
			continue
		}

		day, err := parseWeekday(key)
		if err != nil {
			return nil, err
		}

		windows, err := parseWindows(val)
		if err != nil {
			return nil, fmt.Errorf("day %q: %w", key, err)
		}
		days[day] = append(days[day], windows...)
	}

	for day, windows := range days {
		sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
		for i := 1; i < len(windows); i++ {
			if windows[i].Start < windows[i-1].End {
				return nil, fmt.Errorf("day %q: overlapping windows", strings.ToLower(day.String()))
			}
		}
		days[day] = windows
	}

	return &Schedule{days: days}, nil
}

// HasRules reports whether any weekday rule is defined.
func (s *Schedule) HasRules() bool {
	return s != nil && len(s.days) > 0
}

// IsWithin reports whether [start, end) lies fully inside an allowed window.
// It always yields a definite answer: a nil (unparseable) schedule, a weekday
// without rules, or a range escaping its window are all simply false.
// Both timestamps are assumed to fall on the same calendar day; callers
// reject midnight-crossing ranges before asking.
func (s *Schedule) IsWithin(start, end time.Time) bool {
	if s == nil || !start.Before(end) {
		return false
	}
	if len(s.days) == 0 {
		// No rules configured: the resource is always open.
		return true
	}

	windows, ok := s.days[start.Weekday()]
	if !ok {
		return false
	}

	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	for _, w := range windows {
		if startMin >= w.Start && endMin <= w.End {
			return true
		}
	}
	return false
}

// EarliestStart returns the earliest window start for the weekday as minutes
// from midnight. Used as the per-resource probe time when a caller supplies a
// date without a time.
func (s *Schedule) EarliestStart(day time.Weekday) (int, bool) {
	if s == nil {
		return 0, false
	}
	if len(s.days) == 0 {
		return defaultOpenMinute, true
	}
	windows, ok := s.days[day]
	if !ok || len(windows) == 0 {
		return 0, false
	}
	return windows[0].Start, true
}

// WindowsFor returns the ordered windows for a weekday. The default window is
// reported when no rules are configured at all.
func (s *Schedule) WindowsFor(day time.Weekday) []Window {
	if s == nil {
		return nil
	}
	if len(s.days) == 0 {
		return []Window{{Start: defaultOpenMinute, End: defaultCloseMinute}}
	}
	return s.days[day]
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(key string) (time.Weekday, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if day, ok := weekdayNames[k]; ok {
		return day, nil
	}
	if n, err := strconv.Atoi(k); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("unknown weekday key %q", key)
}

// parseWindows accepts either a single range string or a list of them.
func parseWindows(raw json.RawMessage) ([]Window, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		w, err := parseRange(single)
		if err != nil {
			return nil, err
		}
		return []Window{w}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("expected range string or list of range strings")
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("empty range list")
	}

	windows := make([]Window, 0, len(list))
	for _, item := range list {
		w, err := parseRange(item)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}

func parseRange(s string) (Window, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("invalid range %q", s)
	}

	start, err := parseClock(parts[0])
	if err != nil {
		return Window{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return Window{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	if start >= end {
		return Window{}, fmt.Errorf("invalid range %q: start must be before end", s)
	}
	return Window{Start: start, End: end}, nil
}

// parseClock parses "HH:MM" (single-digit hours allowed) into minutes from
// midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute %q", parts[1])
	}
	return hour*60 + minute, nil
}
