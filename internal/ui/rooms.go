package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/booking"
)

// parseRoom reads a room given by number ("203") or label ("deluxe-203").
func parseRoom(s string) (booking.RoomType, int, error) {
	s = strings.TrimSpace(s)
	label := ""
	if i := strings.LastIndex(s, "-"); i >= 0 {
		label, s = s[:i], s[i+1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", 0, fmt.Errorf("invalid room %q", s)
	}
	rt, slot, ok := booking.ParseRoomNumber(n)
	if !ok {
		return "", 0, fmt.Errorf("unknown room %d", n)
	}
	if label != "" && !strings.EqualFold(label, string(rt)) {
		return "", 0, fmt.Errorf("room %d is a %s room, not %s", n, rt, label)
	}
	return rt, slot, nil
}

func (a *App) roomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Show and change housekeeping status",
	}
	cmd.AddCommand(a.roomsStatusCmd())
	cmd.AddCommand(a.roomsCycleCmd())
	return cmd
}

func (a *App) roomsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List every room with its housekeeping status",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			settings, notice := a.session.Settings(context.Background())
			if notice != nil {
				fmt.Fprintf(a.out, "%s\n", colorWarn.Sprintf("Store unavailable, showing defaults: %v", notice.Err))
			}

			for _, rt := range booking.RoomTypes {
				n := settings.InventoryOf(rt)
				fmt.Fprintf(a.out, "\n  %s %s\n", formatHeader(rt.DisplayName()), formatMuted(fmt.Sprintf("(%d rooms)", n)))
				for slot := 1; slot <= n; slot++ {
					number := booking.RoomNumber(rt, slot)
					status := settings.StatusOf(number)
					fmt.Fprintf(a.out, "  %s %-12s %s\n", roomDot(status), booking.RoomLabel(rt, slot), formatRoomStatus(status))
				}
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
}

func (a *App) roomsCycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <room>",
		Short: "Advance a room to its next housekeeping status",
		Long: `Advance a room's housekeeping status: clean → dirty → maintenance → clean.

Rooms are given by number (203) or label (deluxe-203).`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			rt, slot, err := parseRoom(args[0])
			if err != nil {
				return err
			}
			status, err := a.session.CycleRoomStatus(context.Background(), booking.RoomNumber(rt, slot))
			if err != nil {
				return fmt.Errorf("cycling room: %w", err)
			}
			fmt.Fprintf(a.out, "Room %s is now %s\n", booking.RoomLabel(rt, slot), formatRoomStatus(status))
			return nil
		},
	}
}
