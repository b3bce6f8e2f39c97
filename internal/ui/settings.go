package ui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/booking"
)

func (a *App) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change rates, inventory and rate plans",
	}
	cmd.AddCommand(a.settingsShowCmd())
	cmd.AddCommand(a.settingsInventoryCmd())
	cmd.AddCommand(a.settingsPricesCmd())
	cmd.AddCommand(a.settingsRatePlanCmd())
	return cmd
}

func (a *App) settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current hotel settings",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			settings, notice := a.session.Settings(context.Background())
			if notice != nil {
				fmt.Fprintf(a.out, "%s\n", colorWarn.Sprintf("Store unavailable, showing defaults: %v", notice.Err))
			}
			printSettings(a, settings)
			return nil
		},
	}
}

func printSettings(a *App, s *booking.Settings) {
	fmt.Fprintf(a.out, "\n  %s\n", formatHeader("ROOMS"))
	fmt.Fprintln(a.out, strings.Repeat("─", ruleWidth))
	for _, rt := range booking.RoomTypes {
		fmt.Fprintf(a.out, "  %-8s %2d rooms  %s/night\n", rt.DisplayName(), s.InventoryOf(rt), formatMoney(s.PriceOf(rt)))
	}

	fmt.Fprintf(a.out, "\n  %s\n", formatHeader("RATE PLANS"))
	fmt.Fprintln(a.out, strings.Repeat("─", ruleWidth))
	if len(s.RatePlans) == 0 {
		fmt.Fprintf(a.out, "  %s\n", formatMuted("none"))
	}
	for _, p := range s.RatePlans {
		scope := "all rooms"
		if p.RoomType != "" {
			scope = string(p.RoomType)
		}
		state := colorLow.Sprint("active")
		if !p.Active {
			state = formatMuted("inactive")
		}
		fmt.Fprintf(a.out, "  %-10s %-20s %5.1f%% off  %-9s min %d nights  %s\n",
			p.Code, truncate(p.Name, 20), p.DiscountPct, scope, p.MinNights, state)
	}
	fmt.Fprintln(a.out)
}

func (a *App) settingsInventoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inventory <type> <rooms>",
		Short: "Set the number of rooms of a type",
		Long: `Set the number of rooms of a room type.

Bookings assigned to a room that no longer exists stay in the store and are
listed as unplaced on the chart.`,
		Example: `  frontdesk settings inventory deluxe 4`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			rt, err := booking.ParseRoomType(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid room count %q", args[1])
			}
			if err := a.session.UpdateInventory(context.Background(), rt, n); err != nil {
				return fmt.Errorf("updating inventory: %w", err)
			}
			fmt.Fprintf(a.out, "%s now has %d rooms\n", rt.DisplayName(), n)
			return nil
		},
	}
}

// parsePrices reads "type=price" pairs.
func parsePrices(args []string) (map[booking.RoomType]float64, error) {
	prices := make(map[booking.RoomType]float64, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected type=price, got %q", arg)
		}
		rt, err := booking.ParseRoomType(name)
		if err != nil {
			return nil, err
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price for %s: %q", rt, value)
		}
		prices[rt] = price
	}
	return prices, nil
}

func (a *App) settingsPricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "prices <type=price>...",
		Short:   "Set nightly prices",
		Example: `  frontdesk settings prices single=110 family=450`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			prices, err := parsePrices(args)
			if err != nil {
				return err
			}
			if err := a.session.UpdatePrices(context.Background(), prices); err != nil {
				return fmt.Errorf("updating prices: %w", err)
			}

			types := make([]string, 0, len(prices))
			for rt := range prices {
				types = append(types, string(rt))
			}
			sort.Strings(types)
			for _, t := range types {
				fmt.Fprintf(a.out, "%s: %s/night\n", t, formatMoney(prices[booking.RoomType(t)]))
			}
			return nil
		},
	}
}

func (a *App) settingsRatePlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rateplan",
		Aliases: []string{"rateplans"},
		Short:   "Add, change or remove rate plans",
	}
	cmd.AddCommand(a.ratePlanSetCmd())
	cmd.AddCommand(a.ratePlanRemoveCmd())
	return cmd
}

func (a *App) ratePlanSetCmd() *cobra.Command {
	var (
		plan     booking.RatePlan
		roomType string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "set <code>",
		Short: "Add a rate plan or replace the one with the same code",
		Example: `  frontdesk settings rateplan set WEEKLY --name="Week stay" --discount=15 --min-nights=7
  frontdesk settings rateplan set WINTER --discount=10 --type=family --inactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			plan.Code = strings.ToUpper(strings.TrimSpace(args[0]))
			plan.Active = !inactive
			if plan.Name == "" {
				plan.Name = plan.Code
			}
			if roomType != "" {
				rt, err := booking.ParseRoomType(roomType)
				if err != nil {
					return err
				}
				plan.RoomType = rt
			}

			ctx := context.Background()
			settings, notice := a.session.Settings(ctx)
			if notice != nil {
				return notice
			}
			plans := upsertPlan(settings.RatePlans, plan)
			if err := a.session.UpdateRatePlans(ctx, plans); err != nil {
				return fmt.Errorf("updating rate plans: %w", err)
			}
			fmt.Fprintf(a.out, "Saved rate plan %s (%.1f%% off)\n", plan.Code, plan.DiscountPct)
			return nil
		},
	}

	cmd.Flags().StringVar(&plan.Name, "name", "", "Display name (defaults to the code)")
	cmd.Flags().Float64Var(&plan.DiscountPct, "discount", 0, "Discount in percent, 0 to 100")
	cmd.Flags().IntVar(&plan.MinNights, "min-nights", 0, "Minimum nights for the plan to apply")
	cmd.Flags().StringVar(&roomType, "type", "", "Restrict the plan to one room type")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Store the plan without offering it")
	return cmd
}

func (a *App) ratePlanRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code>",
		Short: "Remove a rate plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()
			settings, notice := a.session.Settings(ctx)
			if notice != nil {
				return notice
			}
			plans, ok := removePlan(settings.RatePlans, args[0])
			if !ok {
				return fmt.Errorf("%w: %s", booking.ErrRatePlanNotFound, args[0])
			}
			if err := a.session.UpdateRatePlans(ctx, plans); err != nil {
				return fmt.Errorf("updating rate plans: %w", err)
			}
			fmt.Fprintf(a.out, "Removed rate plan %s\n", strings.ToUpper(args[0]))
			return nil
		},
	}
}

func upsertPlan(plans []booking.RatePlan, p booking.RatePlan) []booking.RatePlan {
	out := make([]booking.RatePlan, 0, len(plans)+1)
	replaced := false
	for _, existing := range plans {
		if strings.EqualFold(existing.Code, p.Code) {
			out = append(out, p)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, p)
	}
	return out
}

func removePlan(plans []booking.RatePlan, code string) ([]booking.RatePlan, bool) {
	out := make([]booking.RatePlan, 0, len(plans))
	found := false
	for _, p := range plans {
		if strings.EqualFold(p.Code, code) {
			found = true
			continue
		}
		out = append(out, p)
	}
	return out, found
}
