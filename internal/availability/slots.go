package availability

import "sort"

// FreeWindows subtracts busy ranges from the allowed windows and returns what
// is left, in minutes from midnight. Used to answer "when is this resource
// still free on a given day".
func FreeWindows(windows, busy []Window) []Window {
	if len(windows) == 0 {
		return nil
	}

	sorted := make([]Window, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var free []Window
	for _, w := range windows {
		cursor := w.Start
		for _, b := range sorted {
			if b.End <= cursor || b.Start >= w.End {
				continue
			}
			if b.Start > cursor {
				free = append(free, Window{Start: cursor, End: b.Start})
			}
			if b.End > cursor {
				cursor = b.End
			}
		}
		if cursor < w.End {
			free = append(free, Window{Start: cursor, End: w.End})
		}
	}
	return free
}
