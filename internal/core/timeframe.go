package core

import "time"

// TimeFrame selects a relative date window for filtering. The cutoff is a
// pure function of the reference time; nothing is persisted.
type TimeFrame string

const (
	Week    TimeFrame = "week"
	Month   TimeFrame = "month"
	Year    TimeFrame = "year"
	AllTime TimeFrame = "all"
)

var timeFrames = []TimeFrame{Week, Month, Year, AllTime}

// TimeFrames returns all selectable windows.
func TimeFrames() []TimeFrame {
	out := make([]TimeFrame, len(timeFrames))
	copy(out, timeFrames)
	return out
}

// ParseTimeFrame returns the window matching the given raw value.
func ParseTimeFrame(s string) (TimeFrame, bool) {
	tf := TimeFrame(s)
	if tf.Valid() {
		return tf, true
	}
	return "", false
}

func (tf TimeFrame) Valid() bool {
	switch tf {
	case Week, Month, Year, AllTime:
		return true
	default:
		return false
	}
}

// DisplayName returns the user-facing label.
func (tf TimeFrame) DisplayName() string {
	switch tf {
	case Week:
		return "Week"
	case Month:
		return "Month"
	case Year:
		return "Year"
	case AllTime:
		return "All Time"
	default:
		return string(tf)
	}
}

// Start returns the cutoff date relative to now. Month and year move by
// calendar units, not fixed durations. The second return is false for
// AllTime, which has no cutoff.
func (tf TimeFrame) Start(now time.Time) (time.Time, bool) {
	switch tf {
	case Week:
		return now.AddDate(0, 0, -7), true
	case Month:
		return now.AddDate(0, -1, 0), true
	case Year:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}
