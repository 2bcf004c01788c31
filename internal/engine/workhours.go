package engine

import (
	"strconv"
	"strings"
	"time"
)

// NoUpperBound is the work-end sentinel meaning "only the lower bound applies"
const NoUpperBound = "24:00"

// WithinWorkHours reports whether now falls inside the configured active
// window. Bounds are inclusive on both ends and compared on local
// hour*60+minute. A malformed bound gates the check closed.
func WithinWorkHours(now time.Time, workStart, workEnd string) bool {
	currentMinutes := now.Hour()*60 + now.Minute()

	startMinutes, ok := minutesOfDay(workStart)
	if !ok {
		return false
	}

	if workEnd == NoUpperBound {
		return currentMinutes >= startMinutes
	}

	endMinutes, ok := minutesOfDay(workEnd)
	if !ok {
		return false
	}

	return currentMinutes >= startMinutes && currentMinutes <= endMinutes
}

func minutesOfDay(timeOfDay string) (int, bool) {
	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hours*60 + minutes, true
}
