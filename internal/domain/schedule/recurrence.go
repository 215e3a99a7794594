package schedule

import "time"

// ===============================
// Recurrence Patterns
// ===============================

type Pattern string

const (
	PatternNone     Pattern = "none"
	PatternWeekly   Pattern = "weekly"
	PatternBiweekly Pattern = "biweekly"
	PatternMonthly  Pattern = "monthly"
)

// ParsePattern maps a raw value onto the fixed set. Unknown values
// degrade to PatternNone rather than failing the booking.
func ParsePattern(raw string) Pattern {
	switch Pattern(raw) {
	case PatternWeekly, PatternBiweekly, PatternMonthly:
		return Pattern(raw)
	default:
		return PatternNone
	}
}

// StepDays is the fixed day distance between instances. Monthly is a
// 28-day approximation, not a calendar-month walk.
func (p Pattern) StepDays() int {
	switch p {
	case PatternWeekly:
		return 7
	case PatternBiweekly:
		return 14
	case PatternMonthly:
		return 28
	default:
		return 0
	}
}

// Expand turns one booking request into its ordered series of
// instances. Instance i starts i*stepDays after the base and keeps the
// base duration. The count is ceil(totalSpanWeeks / (stepDays/7)) with
// a minimum of one; a non-repeating pattern always yields exactly one
// instance regardless of span.
func Expand(baseStart time.Time, duration time.Duration, pattern Pattern, totalSpanWeeks int) []Interval {
	pattern = ParsePattern(string(pattern))

	count := 1
	step := pattern.StepDays()
	if step > 0 && totalSpanWeeks > 0 {
		count = (totalSpanWeeks*7 + step - 1) / step
		if count < 1 {
			count = 1
		}
	}

	instances := make([]Interval, 0, count)
	for i := 0; i < count; i++ {
		start := baseStart.AddDate(0, 0, i*step)
		instances = append(instances, Interval{
			Start: start,
			End:   start.Add(duration),
		})
	}

	return instances
}
