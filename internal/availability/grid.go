package availability

import (
	"time"

	"github.com/cirqle/cirqle-api/internal/models"
)

// GridCells is the fixed size of a month view: six Monday-first weeks.
const GridCells = 42

// BuildMonthGrid renders the month containing monthAnchor. Leading cells come
// from the previous month and trailing cells from the next month so the grid
// always has six rows. Today and selected are compared by civil day in their
// own locations; a nil selected marks nothing.
func BuildMonthGrid(monthAnchor, today time.Time, selected *time.Time) [GridCells]models.CalendarCell {
	var cells [GridCells]models.CalendarCell

	// Noon UTC keeps day arithmetic away from DST transitions.
	first := time.Date(monthAnchor.Year(), monthAnchor.Month(), 1, 12, 0, 0, 0, time.UTC)
	lead := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -lead)

	todayKey := civilKey(today)
	selectedKey := ""
	if selected != nil {
		selectedKey = civilKey(*selected)
	}

	for i := range cells {
		day := start.AddDate(0, 0, i)
		key := day.Format(models.DateLayout)
		cells[i] = models.CalendarCell{
			Date:           key,
			DayOfMonth:     day.Day(),
			IsCurrentMonth: day.Month() == first.Month() && day.Year() == first.Year(),
			IsToday:        key == todayKey,
			IsSelected:     selectedKey != "" && key == selectedKey,
		}
	}
	return cells
}

// MarkAvailable flags current-month cells whose weekday is enabled and not before today.
func MarkAvailable(cells *[GridCells]models.CalendarCell, cfg models.AvailabilityConfig, today time.Time) {
	todayKey := civilKey(today)
	for i := range cells {
		cell := &cells[i]
		if !cell.IsCurrentMonth || cell.Date < todayKey {
			continue
		}
		date, err := time.Parse(models.DateLayout, cell.Date)
		if err != nil {
			continue
		}
		day, ok := cfg.Weekdays[models.WeekdayFromDate(date)]
		cell.IsAvailable = ok && day.Enabled && len(day.Slots) > 0
	}
}

func civilKey(t time.Time) string {
	return t.Format(models.DateLayout)
}
