package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/booking"
)

func (a *App) quoteCmd() *cobra.Command {
	var (
		roomType string
		checkIn  string
		checkOut string
		addon    float64
		ratePlan string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a stay and check availability",
		Long: `Price a prospective stay with the current rates.

The total is nights (at least one) times the nightly price, less the rate
plan discount, plus the add-on. Missing dates default to a stay starting
tomorrow.`,
		Example: `  frontdesk quote --type=family --checkin=2025-03-01 --checkout=2025-03-04 --rate-plan=WEEKLY`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			rt, err := booking.ParseRoomType(roomType)
			if err != nil {
				return err
			}
			stay, err := a.stayFromFlags(checkIn, checkOut)
			if err != nil {
				return err
			}

			ctx := context.Background()
			q, err := a.session.Quote(ctx, rt, stay.CheckIn, stay.CheckOut, addon, ratePlan)
			if err != nil {
				return fmt.Errorf("quoting stay: %w", err)
			}
			available, err := a.session.Available(ctx, rt, stay.CheckIn, stay.CheckOut)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "\n  %s  %s → %s\n", formatHeader(rt.DisplayName()),
				stay.CheckIn.Format("Mon Jan 02"), stay.CheckOut.Format("Mon Jan 02"))
			fmt.Fprintln(a.out, strings.Repeat("─", ruleWidth))
			fmt.Fprintf(a.out, "  %d nights × %.2f  %s\n", q.Nights, q.NightlyPrice, formatMoney(q.RoomTotal))
			if q.RatePlan != "" {
				fmt.Fprintf(a.out, "  Rate plan %s  -%s\n", q.RatePlan, formatMoney(q.Discount))
			}
			if q.Addon > 0 {
				fmt.Fprintf(a.out, "  Add-on  %s\n", formatMoney(q.Addon))
			}
			fmt.Fprintf(a.out, "  %s  %s\n", formatHeader("Total"), formatMoney(q.Total))
			if available {
				fmt.Fprintf(a.out, "  %s\n\n", colorLow.Sprint("Available"))
			} else {
				fmt.Fprintf(a.out, "  %s\n\n", colorWarn.Sprint("No rooms available for these dates"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&roomType, "type", "", "Room type: single, deluxe or family (required)")
	cmd.Flags().StringVar(&checkIn, "checkin", "", "Check-in date (YYYY-MM-DD, defaults to tomorrow)")
	cmd.Flags().StringVar(&checkOut, "checkout", "", "Check-out date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&addon, "addon", 0, "Add-on cost")
	cmd.Flags().StringVar(&ratePlan, "rate-plan", "", "Rate plan code")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
