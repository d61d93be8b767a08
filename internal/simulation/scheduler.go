package simulation

import (
	"math/rand"
	"sort"
	"time"

	"github.com/learnpath/datasim/internal/persona"
)

// The temporal scheduler turns a persona and a simulation window into the
// skeleton every other generator fills in: which days a user studies, and
// the session intervals within each day.

const (
	sessionDayStartHour = 8
	sessionDayEndHour   = 20 // sessions may start up to 20:59
)

type sessionWindow struct {
	start time.Time
	end   time.Time
}

// activeDayCount resolves the persona's active period against the window
// length. Dropout disengages after a truncated 14-21 day stretch.
func activeDayCount(r *rand.Rand, p persona.Params, totalDays int) int {
	if p.ActiveDays == nil {
		return totalDays
	}
	n := intIn(r, *p.ActiveDays)
	if n > totalDays {
		n = totalDays
	}
	return n
}

// studyDays partitions the active period into 7-day blocks and samples the
// persona's weekly frequency worth of distinct weekdays from each block.
// The result is an ascending, deduplicated list of day offsets.
func studyDays(r *rand.Rand, p persona.Params, totalDays int) []int {
	active := activeDayCount(r, p, totalDays)
	frequency := intIn(r, p.WeeklyFrequency)
	if frequency > 7 {
		frequency = 7
	}

	var days []int
	for blockStart := 0; blockStart < active; blockStart += 7 {
		for _, weekday := range sampleDistinct(r, 7, frequency) {
			if day := blockStart + weekday; day < active {
				days = append(days, day)
			}
		}
	}
	sort.Ints(days)
	return days
}

// daySessions produces 1 or 2 non-overlapping session intervals for one
// study day. A second session, when drawn, starts strictly after the first
// ends.
func daySessions(r *rand.Rand, p persona.Params, dayStart time.Time) []sessionWindow {
	count := 1
	if !chance(r, 0.7) {
		count = 2
	}

	first := sampleSession(r, p, dayStart)
	windows := []sessionWindow{first}

	if count == 2 {
		second := sampleSession(r, p, dayStart)
		if !second.start.After(first.end) {
			gap := time.Duration(randInt(r, 10, 30)) * time.Minute
			shift := first.end.Add(gap).Sub(second.start)
			second.start = second.start.Add(shift)
			second.end = second.end.Add(shift)
		}
		// Drop a second session that would spill past the day.
		if second.start.Before(dayStart.Add(24 * time.Hour)) {
			windows = append(windows, second)
		}
	}
	return windows
}

func sampleSession(r *rand.Rand, p persona.Params, dayStart time.Time) sessionWindow {
	start := dayStart.Add(
		time.Duration(randInt(r, sessionDayStartHour, sessionDayEndHour))*time.Hour +
			time.Duration(randInt(r, 0, 59))*time.Minute)
	duration := time.Duration(intIn(r, p.SessionMinutes)) * time.Minute
	return sessionWindow{start: start, end: start.Add(duration)}
}
