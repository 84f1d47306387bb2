package payroll

import (
	"context"
	"fmt"
	"time"
)

// UnpaidSource lists the records that make a day unpaid.
type UnpaidSource interface {
	// ListApprovedUnpaidLeave returns APPROVED UNPAID time off overlapping
	// [start, end], unclipped.
	ListApprovedUnpaidLeave(ctx context.Context, employeeID string, start, end time.Time) ([]DateRange, error)
	// ListAbsentDates returns the dates of ABSENT attendance in [start, end].
	ListAbsentDates(ctx context.Context, employeeID string, start, end time.Time) ([]time.Time, error)
}

// Aggregator reduces leave and absence records to an unpaid day count.
//
// Each clipped leave range is counted with WorkingDays, so a range holding no
// weekdays contributes FallbackWorkingDays. RawLeaveWeekdays counts the
// range's weekdays instead and lets weekend-only leave add nothing.
//
// By default an ABSENT date that is also covered by unpaid leave counts twice;
// with Dedupe set each calendar date counts at most once. Dedupe works on
// dates, so the fallback never applies in that mode.
type Aggregator struct {
	source           UnpaidSource
	Dedupe           bool
	RawLeaveWeekdays bool
}

func NewAggregator(source UnpaidSource, dedupe bool) *Aggregator {
	return &Aggregator{source: source, Dedupe: dedupe}
}

func (a *Aggregator) UnpaidDays(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (int, error) {
	periodStart, periodEnd = dateOnly(periodStart), dateOnly(periodEnd)

	leaves, err := a.source.ListApprovedUnpaidLeave(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return 0, fmt.Errorf("list unpaid leave for %s: %w", employeeID, err)
	}
	absences, err := a.source.ListAbsentDates(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return 0, fmt.Errorf("list absences for %s: %w", employeeID, err)
	}

	if a.Dedupe {
		return dedupedUnpaidDays(leaves, absences, periodStart, periodEnd), nil
	}

	total := 0
	for _, leave := range leaves {
		total += a.leaveDays(clip(leave, periodStart, periodEnd))
	}
	for _, day := range absences {
		if inRange(dateOnly(day), periodStart, periodEnd) {
			total++
		}
	}
	return total, nil
}

func (a *Aggregator) leaveDays(from, to time.Time) int {
	if a.RawLeaveWeekdays {
		return weekdaysBetween(from, to)
	}
	return WorkingDays(from, to)
}

func dedupedUnpaidDays(leaves []DateRange, absences []time.Time, periodStart, periodEnd time.Time) int {
	days := make(map[time.Time]struct{})
	for _, leave := range leaves {
		from, to := clip(leave, periodStart, periodEnd)
		forEachWeekday(from, to, func(day time.Time) { days[day] = struct{}{} })
	}
	for _, day := range absences {
		if day = dateOnly(day); inRange(day, periodStart, periodEnd) {
			days[day] = struct{}{}
		}
	}
	return len(days)
}

func clip(r DateRange, periodStart, periodEnd time.Time) (time.Time, time.Time) {
	return maxDate(dateOnly(r.From), periodStart), minDate(dateOnly(r.To), periodEnd)
}

func inRange(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}
