package availability

import (
	"fmt"
	"time"
)

// GenerateSlots enumerates candidate start minutes inside each merged interval,
// stepping by the service duration.
func GenerateSlots(merged []Interval, duration int) []int {
	if duration <= 0 {
		return nil
	}

	var slots []int
	for _, iv := range merged {
		for t := iv.Start; t+duration <= iv.End; t += duration {
			slots = append(slots, t)
		}
	}
	return slots
}

// FilterSlots drops candidates that collide with time off or bookings and
// formats the survivors as "HH:MM". Bookings are compared as absolute instants
// on day in loc; time off is compared in minutes.
func FilterSlots(candidates []int, duration int, timeOff []Interval, bookings []BusyRange, day Date, loc *time.Location) []string {
	valid := make([]string, 0, len(candidates))

	for _, start := range candidates {
		end := start + duration

		if overlapsAnyInterval(start, end, timeOff) {
			continue
		}

		slotStart := day.At(start, loc)
		slotEnd := day.At(end, loc)
		if overlapsAnyBooking(slotStart, slotEnd, bookings) {
			continue
		}

		valid = append(valid, FormatClock(start))
	}
	return valid
}

// ComputeStaffSlots runs the whole pipeline for one staff member on one day.
// A day_off override wins over everything, including extra_work on the same date.
func ComputeStaffSlots(schedules []WeeklyWindow, overrides []Override, bookings []BusyRange, day Date, loc *time.Location, duration int) ([]string, error) {
	for _, o := range overrides {
		if o.Type == OverrideDayOff {
			return []string{}, nil
		}
	}

	working := make([]Interval, 0, len(schedules))
	for _, s := range schedules {
		iv, err := parseInterval(s.StartTime, s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("weekly schedule of staff %s: %w", s.StaffID, err)
		}
		working = append(working, iv)
	}

	var timeOff []Interval
	for _, o := range overrides {
		if o.StartTime == nil || o.EndTime == nil {
			continue
		}
		iv, err := parseInterval(*o.StartTime, *o.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%s override of staff %s: %w", o.Type, o.StaffID, err)
		}
		switch o.Type {
		case OverrideExtraWork:
			working = append(working, iv)
		case OverrideTimeOff:
			timeOff = append(timeOff, iv)
		}
	}

	candidates := GenerateSlots(MergeIntervals(working), duration)
	return FilterSlots(candidates, duration, timeOff, bookings, day, loc), nil
}

func parseInterval(startStr, endStr string) (Interval, error) {
	start, err := ParseClock(NormalizeClock(startStr))
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseClock(NormalizeClock(endStr))
	if err != nil {
		return Interval{}, err
	}
	if start >= end {
		return Interval{}, fmt.Errorf("interval %s-%s: %w", startStr, endStr, ErrInvalidRange)
	}
	return Interval{Start: start, End: end}, nil
}

func overlapsAnyInterval(start, end int, intervals []Interval) bool {
	for _, iv := range intervals {
		if iv.overlaps(start, end) {
			return true
		}
	}
	return false
}

func overlapsAnyBooking(start, end time.Time, bookings []BusyRange) bool {
	for _, b := range bookings {
		// [start,end) overlaps [b.Start,b.End) iff start < b.End && end > b.Start.
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}
