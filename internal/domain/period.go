package domain

import (
	"fmt"
	"time"
)

// Period is a named window ending now.
type Period string

const (
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "three_months"
	PeriodSixMonths   Period = "six_months"
	PeriodYear        Period = "year"
)

const day = 24 * time.Hour

var periodOffsets = map[Period]time.Duration{
	PeriodWeek:        7 * day,
	PeriodMonth:       30 * day,
	PeriodThreeMonths: 90 * day,
	PeriodSixMonths:   180 * day,
	PeriodYear:        365 * day,
}

func ParsePeriod(tag string) (Period, error) {
	p := Period(tag)
	if _, ok := periodOffsets[p]; !ok {
		return "", fmt.Errorf("%w: unknown period %q", ErrInvalidArgument, tag)
	}
	return p, nil
}

// Start returns now minus the period offset.
func (p Period) Start(now time.Time) time.Time {
	return now.Add(-periodOffsets[p])
}

// DayBounds returns [midnight, next midnight) of the day holding now in loc.
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
