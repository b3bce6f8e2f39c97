package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/dateutil"
	"github.com/dhillsview/frontdesk/internal/reassign"
	"github.com/dhillsview/frontdesk/internal/scheduler"
)

func (a *App) bookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking", "b"},
		Short:   "List and manage bookings",
	}
	cmd.AddCommand(a.bookingsListCmd())
	cmd.AddCommand(a.bookingsShowCmd())
	cmd.AddCommand(a.bookingsAddCmd())
	cmd.AddCommand(a.transitionCmd("confirm", "Confirm a pending booking", "Confirmed", a.confirm))
	cmd.AddCommand(a.transitionCmd("cancel", "Cancel a booking", "Cancelled", a.cancel))
	cmd.AddCommand(a.transitionCmd("checkin", "Check in a confirmed booking", "Checked in", a.checkIn))
	cmd.AddCommand(a.bookingsDeleteCmd())
	cmd.AddCommand(a.bookingsAssignCmd())
	cmd.AddCommand(a.importCmd())
	return cmd
}

func (a *App) confirm(ctx context.Context, ref string) error { return a.session.Confirm(ctx, ref) }
func (a *App) cancel(ctx context.Context, ref string) error  { return a.session.Cancel(ctx, ref) }
func (a *App) checkIn(ctx context.Context, ref string) error { return a.session.CheckIn(ctx, ref) }

func (a *App) bookingsListCmd() *cobra.Command {
	var (
		query   string
		status  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings, newest first",
		Long: `List bookings, newest first.

--query matches the guest name or the booking reference, ignoring case.
--status keeps one status: pending, confirmed, checked-in or cancelled.`,
		Example: `  frontdesk bookings list
  frontdesk bookings list --query=ana --status=confirmed`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			var st booking.Status
			if status != "" {
				var err error
				if st, err = booking.ParseStatus(status); err != nil {
					return err
				}
			}

			list, err := a.session.Bookings(context.Background(), query, st)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No bookings found.")
				return nil
			}

			opts := PrintOpts{Verbose: verbose}
			maxName := opts.CalcMaxNameWidth(20)
			for _, b := range list {
				PrintBookingRow(a.out, b, opts, maxName)
			}
			fmt.Fprintf(a.out, "\n  %s\n", formatMuted(fmt.Sprintf("%d bookings", len(list))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Match guest name or reference")
	cmd.Flags().StringVar(&status, "status", "", "Only show bookings with this status")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show email and phone")
	return cmd
}

func (a *App) bookingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			b, err := a.session.Booking(context.Background(), args[0])
			if err != nil {
				return err
			}
			PrintBookingDetail(a.out, b)
			return nil
		},
	}
}

func (a *App) bookingsAddCmd() *cobra.Command {
	var (
		req      booking.Request
		checkIn  string
		checkOut string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a booking",
		Long: `Create a pending booking.

Missing dates default to a stay starting tomorrow. The booking is only
stored if a room of the requested type is free on every night. The amount
is priced from the current rates, rate plan and add-on.`,
		Example: `  frontdesk bookings add --type=deluxe --first=Ana --last=Cruz \
    --email=ana@example.com --phone=5550100 --checkin=2025-03-01 --checkout=2025-03-03`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			stay, err := a.stayFromFlags(checkIn, checkOut)
			if err != nil {
				return err
			}
			req.CheckIn = dateutil.FormatDate(stay.CheckIn)
			req.CheckOut = dateutil.FormatDate(stay.CheckOut)

			b, err := a.session.CreateBooking(context.Background(), req)
			if err != nil {
				return fmt.Errorf("creating booking: %w", err)
			}

			fmt.Fprintf(a.out, "Created booking %s for %s, %s (%d nights), %s\n",
				formatHeader(b.Reference), b.GuestName, FormatStay(b), b.Nights(), formatMoney(b.Amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Room, "type", "", "Room type: single, deluxe or family (required)")
	cmd.Flags().StringVar(&checkIn, "checkin", "", "Check-in date (YYYY-MM-DD, defaults to tomorrow)")
	cmd.Flags().StringVar(&checkOut, "checkout", "", "Check-out date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.FirstName, "first", "", "Guest first name (required)")
	cmd.Flags().StringVar(&req.LastName, "last", "", "Guest last name (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Guest email (required)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Guest phone (required)")
	cmd.Flags().Float64Var(&req.Addon, "addon", 0, "Add-on cost")
	cmd.Flags().StringVar(&req.RatePlan, "rate-plan", "", "Rate plan code")
	cmd.Flags().StringVar(&req.Status, "status", "", "Initial status (defaults to pending)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// stayFromFlags completes optional check-in and check-out flags with the
// scheduler defaults and checks the result.
func (a *App) stayFromFlags(checkIn, checkOut string) (scheduler.Stay, error) {
	var in, out time.Time
	var err error
	if checkIn != "" {
		if in, err = dateutil.ParseDate(checkIn); err != nil {
			return scheduler.Stay{}, fmt.Errorf("check-in: %w", err)
		}
	}
	if checkOut != "" {
		if out, err = dateutil.ParseDate(checkOut); err != nil {
			return scheduler.Stay{}, fmt.Errorf("check-out: %w", err)
		}
		if !in.IsZero() && !out.After(in) {
			return scheduler.Stay{}, booking.ErrCheckOutNotAfter
		}
	}

	now := a.session.Now()
	stay := a.sched.Complete(now, in, out)
	if msg := a.sched.ValidateStay(now, stay); msg != "" {
		return scheduler.Stay{}, fmt.Errorf("invalid stay: %s", msg)
	}
	return stay, nil
}

// transitionCmd builds a command that changes a booking's status by reference.
func (a *App) transitionCmd(use, short, done string, fn func(context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <ref>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := fn(context.Background(), args[0]); err != nil {
				return fmt.Errorf("%s %s: %w", use, args[0], err)
			}
			fmt.Fprintf(a.out, "%s %s\n", done, args[0])
			return nil
		},
	}
}

func (a *App) bookingsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <ref>",
		Short: "Permanently delete a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if !yes && !promptYesNo(fmt.Sprintf("Delete booking %s? This cannot be undone.", args[0])) {
				fmt.Fprintln(a.out, "Aborted.")
				return nil
			}
			if err := a.session.Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("deleting %s: %w", args[0], err)
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *App) bookingsAssignCmd() *cobra.Command {
	var (
		room string
		date string
	)

	cmd := &cobra.Command{
		Use:   "assign <ref>",
		Short: "Move a booking to a room and check-in date",
		Long: `Move a booking to another room of its type, optionally shifting its dates.

The number of nights is kept. Rooms are given by number (203) or label
(deluxe-203). Bookings cannot change room type.

The room is saved on the booking. Chart placement is per session, so the
next chart printed from the command line lays rooms out afresh; a running
"frontdesk serve" or chart view keeps the move.`,
		Example: `  frontdesk bookings assign DHV-000001 --room=203
  frontdesk bookings assign DHV-000001 --room=deluxe-203 --date=2025-03-04`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			rt, slot, err := parseRoom(room)
			if err != nil {
				return err
			}

			ctx := context.Background()
			b, err := a.session.Booking(ctx, args[0])
			if err != nil {
				return err
			}
			target := reassign.Target{RoomType: rt, Slot: slot, Date: b.CheckIn}
			if date != "" {
				if target.Date, err = dateutil.ParseDate(date); err != nil {
					return err
				}
			}

			res, err := a.session.Move(ctx, b.ID, target)
			if err != nil {
				return fmt.Errorf("assigning %s: %w", b.Reference, err)
			}
			fmt.Fprintf(a.out, "Moved %s to %s, %s → %s\n", b.Reference, formatHeader(res.Room),
				res.CheckIn.Format("Jan 02"), res.CheckOut.Format("Jan 02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&room, "room", "", "Room number or label (required)")
	cmd.Flags().StringVar(&date, "date", "", "New check-in date (YYYY-MM-DD, defaults to the current one)")
	_ = cmd.MarkFlagRequired("room")
	return cmd
}
