package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2beens/fitcoach/internal/training/setlog"
)

func renderView(w io.Writer, view setlog.DayView) error {
	var b strings.Builder
	if view.Halted {
		fmt.Fprintf(&b, "training day unavailable: %s\n", view.Error)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "%s [%s]\n", view.Name, view.Completion)
	if view.Notes != "" {
		fmt.Fprintf(&b, "  %s\n", view.Notes)
	}
	if view.Stale {
		b.WriteString("  (not refreshed after the last change)\n")
	}

	for _, ex := range view.Exercises {
		mark := " "
		switch {
		case ex.Highlight:
			mark = "*"
		case ex.Complete:
			mark = "+"
		}
		fmt.Fprintf(&b, "%s %s  [id %d, %d/%d sets]\n", mark, ex.Detail.Name, ex.Assignment.ID, ex.CommittedCount, ex.Assignment.TargetSets)
		for _, sug := range ex.Suggestions {
			fmt.Fprintf(&b, "    last time: %d x %s\n", sug.Reps, weightText(sug.Weight))
		}
		for _, slot := range ex.Slots {
			b.WriteString("    " + slotLine(slot) + "\n")
		}
	}

	for _, dup := range view.Duplicates {
		fmt.Fprintf(&b, "! set %d of exercise %d logged more than once %v\n", dup.SetNumber, dup.ExerciseID, dup.RecordIDs)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func slotLine(slot setlog.Slot) string {
	prefix := "#" + strconv.Itoa(slot.SetNumber)
	switch slot.State {
	case setlog.SlotCommitted:
		return fmt.Sprintf("%s done  %d x %s", prefix, slot.Record.Reps, weightText(slot.Record.Weight))
	case setlog.SlotDraft:
		return fmt.Sprintf("%s draft %s x %s", prefix, slot.Draft.Reps, slot.Draft.Weight)
	default:
		return fmt.Sprintf("%s       %s x %s", prefix, orDash(slot.RepsPlaceholder), orDash(slot.WeightPlaceholder))
	}
}

func weightText(w float64) string {
	if w == 0 {
		return "bodyweight"
	}
	return strconv.FormatFloat(w, 'f', -1, 64) + " kg"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
