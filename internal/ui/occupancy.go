package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/chart"
)

func (a *App) occupancyCmd() *cobra.Command {
	var (
		wf     windowFlags
		byType string
	)

	cmd := &cobra.Command{
		Use:   "occupancy",
		Short: "Show nightly occupancy per room type",
		Long: `Show how many rooms of each type are booked on every night of a window.

A night counts every active booking that is in house that night: the
check-in night is included and the check-out day is not.`,
		Example: `  frontdesk occupancy
  frontdesk occupancy --month=2025-03 --type=deluxe`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			w, err := wf.window(a)
			if err != nil {
				return err
			}
			types := booking.RoomTypes
			if byType != "" {
				rt, err := booking.ParseRoomType(byType)
				if err != nil {
					return err
				}
				types = []booking.RoomType{rt}
			}

			ctx := context.Background()
			occ, notice := a.session.Occupancy(ctx, w)
			settings, _ := a.session.Settings(ctx)
			if notice != nil {
				fmt.Fprintf(a.out, "%s\n", colorWarn.Sprintf("Store unavailable, showing defaults: %v", notice.Err))
			}

			fmt.Fprintf(a.out, "\n  %s\n", formatHeader("OCCUPANCY: "+w.Label()))
			for _, rt := range types {
				printOccupancy(a, rt, settings.InventoryOf(rt), occ[rt])
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}

	wf.register(cmd)
	cmd.Flags().StringVar(&byType, "type", "", "Only show one room type (single, deluxe, family)")
	return cmd
}

func printOccupancy(a *App, rt booking.RoomType, inventory int, cells []chart.OccupancyCell) {
	fmt.Fprintln(a.out, strings.Repeat("─", ruleWidth))
	fmt.Fprintf(a.out, "  %s %s\n", formatHeader(rt.DisplayName()), formatMuted(fmt.Sprintf("(%d rooms)", inventory)))

	booked, capacity := 0, 0
	for _, c := range cells {
		fmt.Fprintf(a.out, "  %s  %s\n", c.Date.Format("Mon Jan 02"), OccupancyBar(c.Booked, inventory, 20))
		booked += min(c.Booked, inventory)
		capacity += inventory
	}
	if len(cells) > 0 {
		pct := chart.Percent(booked, capacity)
		fmt.Fprintf(a.out, "  %s %s\n", formatMuted("Average:"), formatTier(chart.TierFor(pct), fmt.Sprintf("%d%%", pct)))
	}
}
