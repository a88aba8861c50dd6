package training

import (
	"sort"
	"time"
)

// DayBounds returns the local day containing now: [local midnight, next local midnight).
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	// AddDate keeps DST days at their real length
	end := start.AddDate(0, 0, 1)
	return start, end
}

func InDay(t, dayStart, dayEnd time.Time) bool {
	return !t.Before(dayStart) && t.Before(dayEnd)
}

// TodayRecords keeps the records completed within [dayStart, dayEnd).
func TodayRecords(records []SetRecord, dayStart, dayEnd time.Time) []SetRecord {
	today := make([]SetRecord, 0, len(records))
	for _, r := range records {
		if InDay(r.CompletedAt, dayStart, dayEnd) {
			today = append(today, r)
		}
	}
	return today
}

// HistoryRecords keeps the records completed strictly before dayStart, newest first.
func HistoryRecords(records []SetRecord, dayStart time.Time) []SetRecord {
	history := make([]SetRecord, 0, len(records))
	for _, r := range records {
		if r.CompletedAt.Before(dayStart) {
			history = append(history, r)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		if !history[i].CompletedAt.Equal(history[j].CompletedAt) {
			return history[i].CompletedAt.After(history[j].CompletedAt)
		}
		return history[i].ID > history[j].ID
	})
	return history
}
