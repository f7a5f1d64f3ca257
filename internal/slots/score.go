package slots

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var weekdays = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// Day sub-score constants.
const (
	dayExact        = 100.0
	dayAdjacent     = 50.0
	dayOther        = 20.0
	dayNoPreference = 50.0
)

// ScoreSlot scores one slot against the preferences. Unavailable slots
// always score 0 regardless of day, time and fee.
func ScoreSlot(slot DeliverySlot, prefs Preferences) ScoredSlot {
	b := Breakdown{
		Day:  scoreDay(slot.DayOfWeek, prefs.PreferredDays),
		Time: scoreTime(slot.TimeStart, slot.TimeEnd, prefs.WindowStart, prefs.WindowEnd),
		Fee:  scoreFee(slot.Fee, slot.IsFree, prefs.MaxFee),
	}

	w := prefs.Weights
	if w.Day == 0 && w.Time == 0 && w.Fee == 0 {
		w = DefaultWeights()
	}
	total := w.Day + w.Time + w.Fee
	score := (b.Day*w.Day + b.Time*w.Time + b.Fee*w.Fee) / total

	if slot.Available {
		b.Availability = 100
	} else {
		b.Availability = 0
		score = 0
	}

	return ScoredSlot{
		DeliverySlot: slot,
		Score:        clamp(score, 0, 100),
		Breakdown:    b,
		Reason:       describe(slot, b),
	}
}

// ScoreSlots scores every slot and sorts the result by score descending,
// tie-broken by earliest date, then earliest start time.
func ScoreSlots(list []DeliverySlot, prefs Preferences) []ScoredSlot {
	scored := make([]ScoredSlot, 0, len(list))
	for _, slot := range list {
		scored = append(scored, ScoreSlot(slot, prefs))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Date != scored[j].Date {
			return scored[i].Date < scored[j].Date
		}
		return scored[i].TimeStart < scored[j].TimeStart
	})
	return scored
}

func scoreDay(day string, preferred []string) float64 {
	if len(preferred) == 0 {
		return dayNoPreference
	}
	idx, ok := weekdays[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return dayOther
	}
	best := dayOther
	for _, p := range preferred {
		pidx, ok := weekdays[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			continue
		}
		switch cyclicDistance(idx, pidx) {
		case 0:
			return dayExact
		case 1:
			best = dayAdjacent
		}
	}
	return best
}

// cyclicDistance is the shortest distance between two weekdays on the
// seven-day cycle.
func cyclicDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if 7-d < d {
		d = 7 - d
	}
	return d
}

func scoreTime(slotStart, slotEnd, prefStart, prefEnd string) float64 {
	if prefStart == "" || prefEnd == "" {
		return 50
	}
	ss, ok1 := parseClock(slotStart)
	se, ok2 := parseClock(slotEnd)
	ps, ok3 := parseClock(prefStart)
	pe, ok4 := parseClock(prefEnd)
	if !ok1 || !ok2 || !ok3 || !ok4 || se <= ss {
		return 50
	}

	overlap := minInt(se, pe) - maxInt(ss, ps)
	if overlap > 0 {
		return clamp(float64(overlap)/float64(se-ss)*100, 0, 100)
	}

	// No overlap: decay by the gap between the windows, in hours.
	gap := float64(-overlap) / 60
	return clamp(80-20*gap, 0, 100)
}

func scoreFee(fee float64, isFree bool, maxFee float64) float64 {
	if isFree || fee <= 0 {
		return 100
	}
	if maxFee <= 0 {
		// No fee preference stated; a paid slot is neither rewarded nor
		// punished beyond the midpoint.
		return 50
	}
	return clamp(100*(1-fee/(2*maxFee)), 0, 100)
}

// describe builds the human-readable reason attached to a scored slot.
func describe(slot DeliverySlot, b Breakdown) string {
	if !slot.Available {
		return "slot is not available"
	}
	parts := make([]string, 0, 3)
	switch {
	case b.Day >= dayExact:
		parts = append(parts, "preferred day")
	case b.Day >= dayAdjacent:
		parts = append(parts, "near a preferred day")
	}
	if b.Time >= 80 {
		parts = append(parts, "fits the preferred time window")
	}
	if slot.IsFree || slot.Fee <= 0 {
		parts = append(parts, "free delivery")
	} else {
		parts = append(parts, fmt.Sprintf("%.2f€ fee", slot.Fee))
	}
	return strings.Join(parts, ", ")
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	hh, err1 := strconv.Atoi(h)
	mm, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
