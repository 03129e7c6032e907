package shift

import (
	"regexp"
	"strconv"
	"strings"
)

// Shift - coarse time-of-day bucket derived from a timeslot
type Shift string

const (
	Morning   Shift = "morning"
	Afternoon Shift = "afternoon"
	Evening   Shift = "evening"
	None      Shift = "none"
)

// Timeslot codes carry a trailing period number, e.g. "T7" or "TIET13".
var periodPattern = regexp.MustCompile(`(?i)^t(?:iet)?[\s_-]*0*([0-9]{1,2})$`)

// ToMinutes - parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Empty or unparseable input yields 0, not an error.
func ToMinutes(t string) int {
	t = strings.TrimSpace(t)
	if t == "" {
		return 0
	}

	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return 0
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	return hours*60 + minutes
}

// Of - resolves the shift for a timeslot. The period number in the code wins:
// periods 1-6 are morning, 7-12 afternoon, 13-15 evening. When the code does
// not match, the shift falls back to fixed start-time boundaries
// (07:00-12:00, 12:00-18:00, >=18:00).
func Of(timeslotCode, startTime string) Shift {
	if m := periodPattern.FindStringSubmatch(strings.TrimSpace(timeslotCode)); m != nil {
		period, err := strconv.Atoi(m[1])
		if err == nil {
			switch {
			case period >= 1 && period <= 6:
				return Morning
			case period >= 7 && period <= 12:
				return Afternoon
			case period >= 13 && period <= 15:
				return Evening
			}
		}
	}

	return fromStartTime(startTime)
}

func fromStartTime(startTime string) Shift {
	if strings.TrimSpace(startTime) == "" {
		return None
	}

	minutes := ToMinutes(startTime)
	switch {
	case minutes >= 7*60 && minutes < 12*60:
		return Morning
	case minutes >= 12*60 && minutes < 18*60:
		return Afternoon
	case minutes >= 18*60:
		return Evening
	}

	return None
}

// Gap - minutes between the end of one timeslot and the start of the next.
// Negative means overlap or out-of-order input.
func Gap(endTime, nextStartTime string) int {
	return ToMinutes(nextStartTime) - ToMinutes(endTime)
}
