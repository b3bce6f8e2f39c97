package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/dateutil"
)

const labelWidth = 14

// windowFlags selects the chart window: a month, or a start date and a number of days.
type windowFlags struct {
	month string
	from  string
	days  int
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.month, "month", "", "Month to show (YYYY-MM, defaults to the current month)")
	cmd.Flags().StringVar(&f.from, "from", "", "First day to show (YYYY-MM-DD), instead of a month")
	cmd.Flags().IntVar(&f.days, "days", 14, "Number of days to show with --from")
}

func (f *windowFlags) window(a *App) (dateutil.Window, error) {
	switch {
	case f.month != "":
		return dateutil.ParseMonth(f.month)
	case f.from != "":
		start, err := dateutil.ParseDate(f.from)
		if err != nil {
			return dateutil.Window{}, err
		}
		if f.days < 1 || f.days > 366 {
			return dateutil.Window{}, fmt.Errorf("days must be between 1 and 366, got %d", f.days)
		}
		return dateutil.WindowFrom(start, f.days), nil
	default:
		return dateutil.MonthWindow(a.session.Now()), nil
	}
}

func (a *App) chartCmd() *cobra.Command {
	var wf windowFlags

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the tape chart",
		Long: `Print the tape chart for a month or a range of days.

Each room type is a section with one row per physical room. Bookings are
drawn as bars across the nights they occupy, followed by the occupancy of
the room type on each night. Wide windows are split into blocks that fit
the terminal.`,
		Example: `  frontdesk chart
  frontdesk chart --month=2025-03
  frontdesk chart --from=2025-03-10 --days=7`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			w, err := wf.window(a)
			if err != nil {
				return err
			}

			view, err := a.session.Render(context.Background(), w)
			if err != nil {
				return fmt.Errorf("rendering chart: %w", err)
			}
			if n := view.Snapshot.Notice; n != nil {
				fmt.Fprintf(a.out, "%s\n", colorWarn.Sprintf("Store unavailable, showing defaults: %v", n.Err))
			}
			PrintChart(a.out, view.Grid, termWidth())
			return nil
		},
	}

	wf.register(cmd)
	return cmd
}

// PrintChart prints the grid in blocks of days that fit width columns.
func PrintChart(w io.Writer, g *chart.Grid, width int) {
	dw := max(g.DayWidth, 1)
	perBlock := max((width-labelWidth-2)/dw, 1)

	title := strings.ToUpper(g.Window.Label())
	fmt.Fprintf(w, "\n  %s\n", formatHeader(title))

	for from := 0; from < len(g.Days); from += perBlock {
		to := min(from+perBlock, len(g.Days))
		printBlock(w, g, from, to)
	}

	if len(g.Skipped) > 0 {
		fmt.Fprintf(w, "  %s\n", colorWarn.Sprintf("%d bookings skipped:", len(g.Skipped)))
		for _, s := range g.Skipped {
			fmt.Fprintf(w, "    %s\n", formatMuted(s.Error()))
		}
	}
	fmt.Fprintln(w)
}

func printBlock(w io.Writer, g *chart.Grid, from, to int) {
	dw := max(g.DayWidth, 1)
	fmt.Fprintln(w, strings.Repeat("─", min(labelWidth+2+(to-from)*dw, 200)))

	var names, numbers strings.Builder
	for _, d := range g.Days[from:to] {
		name := fitCell(" "+d.Date.Format("Mon")[:2], dw)
		number := fitCell(" "+d.Date.Format("02"), dw)
		switch {
		case d.Today:
			names.WriteString(colorToday.Sprint(name))
			number = colorToday.Sprint(number)
		case d.Weekend:
			names.WriteString(formatMuted(name))
		default:
			names.WriteString(name)
		}
		numbers.WriteString(number)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", labelWidth), names.String())
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", labelWidth), numbers.String())

	for _, sec := range g.Sections {
		line := fmt.Sprintf("%s · %.0f/night · %d rooms", sec.Name, sec.Price, sec.Inventory)
		fmt.Fprintf(w, "  %s", formatHeader(line))
		if len(sec.Unplaced) > 0 {
			fmt.Fprintf(w, " %s", colorWarn.Sprintf("· %d unplaced", len(sec.Unplaced)))
		}
		fmt.Fprintln(w)

		for _, row := range sec.Rows {
			fmt.Fprintf(w, "  %s%s\n", roomLabel(row), rowCells(g, row, from, to))
		}
		fmt.Fprintf(w, "  %s%s\n", formatMuted(fitCell("  occupancy", labelWidth)), occupancyCells(sec.Occupancy, from, to, dw))
	}
}

func roomLabel(row chart.SlotRow) string {
	return roomDot(row.Status) + " " + fitCell(row.Label, labelWidth-2)
}

// roomDot marks a room's housekeeping status; without color it is the
// status's first letter.
func roomDot(s booking.RoomStatus) string {
	if s == "" {
		s = booking.RoomClean
	}
	if color.NoColor {
		return strings.ToUpper(string(s)[:1])
	}
	return roomStatusColor(s).Sprint("●")
}

func rowCells(g *chart.Grid, row chart.SlotRow, from, to int) string {
	dw := max(g.DayWidth, 1)
	var b strings.Builder
	for col := from; col < to; col++ {
		bar, ok := row.BarAt(col)
		if !ok {
			cell := fitCell("  ·", dw)
			if g.Days[col].Weekend {
				cell = formatMuted(cell)
			}
			b.WriteString(cell)
			continue
		}
		label := barLabel(bar)
		offset := (col - bar.Col) * dw
		segment := label[offset:min(offset+dw, len(label))]
		c := statusColor(bar.Booking.Status)
		if bar.Conflict {
			c = colorConflict
		}
		b.WriteString(c.Sprint(fitCell(segment, dw)))
	}
	return b.String()
}

// barLabel is the text of a bar: the booking reference between brackets, or
// arrows where the stay runs past the window.
func barLabel(bar chart.Bar) string {
	open, end := "[", "]"
	if bar.ClippedStart {
		open = "<"
	}
	if bar.ClippedEnd {
		end = ">"
	}
	inner := max(bar.Width-2, 0)
	return open + fitCell(bar.Booking.Reference, inner) + end
}

func occupancyCells(cells []chart.OccupancyCell, from, to, dw int) string {
	var b strings.Builder
	for col := from; col < to && col < len(cells); col++ {
		c := cells[col]
		b.WriteString(formatTier(c.Tier, fitCell(fmt.Sprintf("%*d%%", max(dw-1, 1), c.Pct), dw)))
	}
	return b.String()
}

// fitCell pads or cuts an ASCII string to exactly n bytes.
func fitCell(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}
