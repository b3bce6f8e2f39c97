package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/summary"
)

func (a *App) guestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guests",
		Short: "List guests with their stays and spend",
		Long: `List every guest, grouped by email, most recent visitor first.

Spend excludes cancelled bookings.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			list, err := a.session.Bookings(context.Background(), "", "")
			if err != nil {
				return err
			}
			guests := summary.Guests(list)
			if len(guests) == 0 {
				fmt.Fprintln(a.out, "No guests yet.")
				return nil
			}

			fmt.Fprintf(a.out, "\n  %s\n", formatHeader("GUESTS"))
			fmt.Fprintln(a.out, strings.Repeat("─", ruleWidth))
			for _, g := range guests {
				fmt.Fprintf(a.out, "  %-24s %-28s %-14s %3d stays  %s  %s\n",
					truncate(g.Name, 24), truncate(g.Email, 28), g.Phone, g.Stays,
					colorMoney.Sprintf("%9.2f", g.Spent), formatMuted(g.LastVisit.Format("2006-01-02")))
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
}

func (a *App) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show revenue, guests and tonight's occupancy",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()
			list, err := a.session.Bookings(ctx, "", "")
			if err != nil {
				return err
			}
			settings, notice := a.session.Settings(ctx)
			if notice != nil {
				fmt.Fprintf(a.out, "%s\n", colorWarn.Sprintf("Store unavailable, showing defaults: %v", notice.Err))
			}

			d := summary.Compute(list, settings, a.session.Now())
			PrintDashboard(a.out, d, settings)
			return nil
		},
	}
}

// PrintDashboard prints the headline figures and tonight's occupancy.
func PrintDashboard(w io.Writer, d summary.Dashboard, settings *booking.Settings) {
	fmt.Fprintf(w, "\n  %s\n", formatHeader("DASHBOARD"))
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	fmt.Fprintf(w, "  Bookings: %d  |  Pending: %d  |  Guests: %d  |  Revenue: %s\n",
		d.TotalBookings, d.Pending, d.UniqueGuests, formatMoney(d.Revenue))

	fmt.Fprintf(w, "\n  %s\n", formatHeader("TONIGHT"))
	for _, rt := range booking.RoomTypes {
		cell := d.Tonight[rt]
		fmt.Fprintf(w, "  %-8s %s\n", rt.DisplayName(), OccupancyBar(cell.Booked, settings.InventoryOf(rt), 20))
	}
	fmt.Fprintf(w, "  %-8s %s\n\n", "All", fmt.Sprintf("%d%%", d.TonightPct))
}
