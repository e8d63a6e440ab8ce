package app

import (
	"strings"
	"time"
)

const DefaultSlotDuration = 30 * time.Minute

const (
	dateKeyLayout   = "2006-01-02"
	slotLabelLayout = "15:04"
)

// appendSlots walks an interval in fixed steps and appends one label per step
// to the bucket of the day it falls on. The first slot is emitted before the
// end bound is checked, so even an interval shorter than one step yields a
// slot. Labels are appended as-is: overlapping intervals leave duplicates.
func appendSlots(start time.Time, end time.Time, step time.Duration, buckets map[string][]string) {
	current := start
	for {
		key := current.Format(dateKeyLayout)
		buckets[key] = append(buckets[key], current.Format(slotLabelLayout))
		current = current.Add(step)
		if !current.Before(end) {
			return
		}
	}
}

// subtractSlots removes one available occurrence per booked occurrence,
// keeping any surplus duplicates.
func subtractSlots(available []string, booked []string) []string {
	counts := make(map[string]int, len(booked))
	for _, label := range booked {
		counts[label]++
	}
	remaining := make([]string, 0, len(available))
	for _, label := range available {
		if counts[label] > 0 {
			counts[label]--
			continue
		}
		remaining = append(remaining, label)
	}
	return remaining
}

// formatSlots strips a single leading hour zero: "09:30" becomes "9:30".
func formatSlots(labels []string) []string {
	formatted := make([]string, 0, len(labels))
	for _, label := range labels {
		formatted = append(formatted, strings.TrimPrefix(label, "0"))
	}
	return formatted
}
