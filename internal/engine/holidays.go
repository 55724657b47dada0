package engine

import (
	"time"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

// DetectHolidays derives the operating calendar from the presence or absence
// of records per date. The calendar spans every day in the inclusive
// [minDate, maxDate] range observed in the record set; a day with zero
// records is a holiday. An empty record set yields an empty calendar.
func DetectHolidays(records []model.CanonicalVisitRecord) model.HolidayCalendar {
	if len(records) == 0 {
		return model.HolidayCalendar{}
	}

	counts := make(map[string]int)
	var minDay, maxDay time.Time
	for _, rec := range records {
		day := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, rec.Date.Location())
		counts[day.Format("2006-01-02")]++
		if minDay.IsZero() || day.Before(minDay) {
			minDay = day
		}
		if maxDay.IsZero() || day.After(maxDay) {
			maxDay = day
		}
	}

	calendar := make(model.HolidayCalendar, 0)
	for day := minDay; !day.After(maxDay); day = day.AddDate(0, 0, 1) {
		count := counts[day.Format("2006-01-02")]
		calendar = append(calendar, model.HolidayEntry{
			Date:             day,
			AppointmentCount: count,
			IsHoliday:        count == 0,
		})
	}

	return calendar
}
