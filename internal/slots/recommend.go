package slots

// maxTopSlots is the size of the headline shortlist in the review pack.
const maxTopSlots = 3

// RecommendSlots derives the review shortlist from an already-scored list.
// Each field is computed independently over the available slots; the best
// free, cheapest and soonest slots are not simply the first three relabeled.
func RecommendSlots(scored []ScoredSlot) Recommendations {
	var rec Recommendations

	for i := range scored {
		s := scored[i]
		if !s.Available {
			continue
		}

		if len(rec.Top) < maxTopSlots {
			rec.Top = append(rec.Top, s)
		}

		if s.IsFree || s.Fee <= 0 {
			if rec.BestFree == nil || s.Score > rec.BestFree.Score {
				rec.BestFree = &scored[i]
			}
		}

		if rec.Cheapest == nil || s.Fee < rec.Cheapest.Fee ||
			(s.Fee == rec.Cheapest.Fee && s.Score > rec.Cheapest.Score) {
			rec.Cheapest = &scored[i]
		}

		if rec.Soonest == nil || earlier(s, *rec.Soonest) {
			rec.Soonest = &scored[i]
		}
	}

	return rec
}

func earlier(a, b ScoredSlot) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.TimeStart < b.TimeStart
}
