// Package slots ranks delivery-slot candidates against user preferences.
// Scoring is pure: no clock, no I/O.
package slots

// DeliverySlot is one bookable delivery window as extracted from the site.
// Date is YYYY-MM-DD; TimeStart and TimeEnd are HH:MM (24h).
type DeliverySlot struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	DayOfWeek string  `json:"day_of_week"`
	TimeStart string  `json:"time_start"`
	TimeEnd   string  `json:"time_end"`
	Fee       float64 `json:"fee"`
	IsFree    bool    `json:"is_free"`
	Available bool    `json:"available"`
}

// Breakdown holds the four independent 0-100 sub-scores.
type Breakdown struct {
	Day          float64 `json:"day"`
	Time         float64 `json:"time"`
	Fee          float64 `json:"fee"`
	Availability float64 `json:"availability"`
}

// ScoredSlot is a slot with its combined score, sub-scores and a
// human-readable reason.
type ScoredSlot struct {
	DeliverySlot
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
	Reason    string    `json:"reason"`
}

// Weights combines the day/time/fee sub-scores. The defaults sum to 1;
// custom weights are normalized before use.
type Weights struct {
	Day  float64 `json:"day" yaml:"day"`
	Time float64 `json:"time" yaml:"time"`
	Fee  float64 `json:"fee" yaml:"fee"`
}

// DefaultWeights returns the standard day 0.4 / time 0.3 / fee 0.3 split.
func DefaultWeights() Weights {
	return Weights{Day: 0.4, Time: 0.3, Fee: 0.3}
}

// Preferences describes what the user wants from a delivery slot. Zero
// values mean "no preference" for the corresponding dimension.
type Preferences struct {
	PreferredDays []string `json:"preferred_days" yaml:"preferred_days"`
	WindowStart   string   `json:"window_start" yaml:"window_start"`
	WindowEnd     string   `json:"window_end" yaml:"window_end"`
	MaxFee        float64  `json:"max_fee" yaml:"max_fee"`
	Weights       Weights  `json:"weights" yaml:"weights"`
}

// Recommendations is the slot shortlist attached to the review pack. Each
// field is derived independently from the scored list.
type Recommendations struct {
	Top      []ScoredSlot `json:"top"`
	BestFree *ScoredSlot  `json:"best_free"`
	Cheapest *ScoredSlot  `json:"cheapest"`
	Soonest  *ScoredSlot  `json:"soonest"`
}
