package extract

import "time"

// Window is one half-open aggregation interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Windows partitions [start, end] into consecutive windows of
// resolutionDays days each. Window starts stride from start while they are
// not after end; the final window may extend past end and is not clipped.
// A non-positive resolution yields no windows.
func Windows(start, end time.Time, resolutionDays int) []Window {
	if resolutionDays <= 0 {
		return nil
	}
	var ws []Window
	for d := start; !d.After(end); d = d.AddDate(0, 0, resolutionDays) {
		ws = append(ws, Window{Start: d, End: d.AddDate(0, 0, resolutionDays)})
	}
	return ws
}
