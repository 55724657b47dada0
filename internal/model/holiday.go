package model

import "time"

// HolidayEntry is one calendar day in the observed range with its
// appointment count. A day with zero records is a holiday.
type HolidayEntry struct {
	Date             time.Time
	AppointmentCount int
	IsHoliday        bool
}

// HolidayCalendar covers every day in [minDate, maxDate] observed in a
// record set, inclusive.
type HolidayCalendar []HolidayEntry

// HolidayCount returns how many days in the calendar had no appointments.
func (c HolidayCalendar) HolidayCount() int {
	count := 0
	for _, e := range c {
		if e.IsHoliday {
			count++
		}
	}
	return count
}
