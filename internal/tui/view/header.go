package view

import (
	"fmt"

	"github.com/dhillsview/frontdesk/internal/chart"
)

// DayHeaders builds the two header rows of the day columns: weekday initials
// and day of month, each cut to width.
func DayHeaders(days []chart.Day, width int) (names, numbers []string) {
	names = make([]string, len(days))
	numbers = make([]string, len(days))
	for i, d := range days {
		name := d.Date.Weekday().String()[:2]
		num := fmt.Sprintf("%02d", d.Date.Day())
		if d.Today {
			num = "*" + num
		}
		names[i] = Center(name, width)
		numbers[i] = Center(num, width)
	}
	return names, numbers
}

// MonthLabel returns the label of the month a window starts in, e.g. "Mar 25".
func MonthLabel(g *chart.Grid) string {
	if g == nil {
		return ""
	}
	return g.Window.Start.Format("Jan 06")
}
