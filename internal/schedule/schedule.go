// Package schedule lets a reorder run start at a quieter hour instead of
// the moment the command is typed (delivery-slot inventory refreshes
// overnight on most grocery sites).
package schedule

import (
	"context"
	"fmt"
	"time"
)

// Parse parses a --start-at value into a time.Time.
// Supported formats:
//   - HH:MM → today if still ahead, otherwise tomorrow
//   - "YYYY-MM-DD HH:MM" → exact datetime
//   - YYYY-MM-DDTHH:MM → ISO 8601
func Parse(input string) (time.Time, error) {
	now := time.Now()
	local := now.Location()

	if t, err := time.ParseInLocation("2006-01-02T15:04", input, local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", input, local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", input, local); err == nil {
		scheduled := time.Date(now.Year(), now.Month(), now.Day(),
			t.Hour(), t.Minute(), 0, 0, local)
		if scheduled.Before(now) {
			scheduled = scheduled.AddDate(0, 0, 1)
		}
		return scheduled, nil
	}

	return time.Time{}, fmt.Errorf("invalid start time: %q (supported: HH:MM, \"YYYY-MM-DD HH:MM\", YYYY-MM-DDTHH:MM)", input)
}

// WaitUntil blocks until the target time, printing a coarse countdown.
// Returns immediately when target is already past; respects cancellation.
func WaitUntil(ctx context.Context, target time.Time) error {
	remaining := time.Until(target)
	if remaining <= 0 {
		return nil
	}

	fmt.Printf("Waiting until %s (%s remaining)\n", target.Format("2006-01-02 15:04:05"), remaining.Round(time.Second))

	for {
		remaining = time.Until(target)
		if remaining <= 0 {
			return nil
		}

		interval := tickInterval(remaining)
		if interval > remaining {
			interval = remaining
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
			remaining = time.Until(target)
			if remaining > 0 {
				fmt.Printf("  ... %s remaining\n", remaining.Round(time.Second))
			}
		}
	}
}

// tickInterval picks the countdown interval from the remaining time.
func tickInterval(remaining time.Duration) time.Duration {
	switch {
	case remaining > time.Hour:
		return 60 * time.Second
	case remaining > 10*time.Minute:
		return 30 * time.Second
	case remaining > time.Minute:
		return 10 * time.Second
	default:
		return time.Second
	}
}
