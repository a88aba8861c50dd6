package setlog

import (
	"strconv"
	"strings"
)

type SlotState string

const (
	SlotCommitted SlotState = "committed"
	SlotDraft     SlotState = "draft"
	SlotEmpty     SlotState = "empty"
)

// suggestionsCount is the number of history rows shown above the slots.
const suggestionsCount = 2

// SlotCount derives how many set slots an exercise renders.
//
// With sets committed today it shows one open slot after the last committed
// one until the target is reached, then target plus user added slots.
// Without sets today, history unlocks the full target, and with no history
// at all a single slot is shown until the user adds more.
func SlotCount(target, extraSlots, maxCommitted, committedCount int, hasHistory bool) int {
	var count int
	switch {
	case committedCount >= 1:
		if maxCommitted >= target {
			count = target + extraSlots
		} else {
			count = max(maxCommitted+1, committedCount+1)
		}
	case hasHistory:
		count = target + extraSlots
	default:
		if extraSlots == 0 {
			count = 1
		} else {
			count = extraSlots
		}
	}

	// a committed set is never hidden, even with a zero target
	return max(count, maxCommitted)
}

func repsPlaceholder(minReps, maxReps int) string {
	switch {
	case minReps <= 0 && maxReps <= 0:
		return ""
	case maxReps <= minReps:
		return strconv.Itoa(minReps)
	case minReps <= 0:
		return strconv.Itoa(maxReps)
	default:
		return strconv.Itoa(minReps) + "-" + strconv.Itoa(maxReps)
	}
}

func formatWeight(w float64) string {
	if w <= 0 {
		return ""
	}
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// parseWeight accepts both decimal separators.
func parseWeight(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}
