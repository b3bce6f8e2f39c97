package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/db"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import bookings from another database",
		Long: `Import all bookings from another frontdesk database into the current one.

Bookings whose reference already exists are skipped, so an import can be
repeated safely. Settings are not copied.

Example:
  frontdesk bookings import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}

			if sourcePath == destPath {
				return fmt.Errorf("source database matches current database")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			read, imported, err := importBookings(context.Background(), a.repo, sourcePath)
			if err != nil {
				return err
			}
			a.session.Invalidate()

			fmt.Fprintf(a.out, "Imported %d of %d bookings from %s\n", imported, read, sourcePath)
			return nil
		},
	}

	return cmd
}

// importBookings copies every booking of the database at sourcePath into dest.
// It returns how many bookings were read and how many were inserted.
func importBookings(ctx context.Context, dest *db.SQLite, sourcePath string) (read, imported int, err error) {
	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return 0, 0, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	bookings, err := sourceRepo.ListBookings(ctx, booking.ListOptions{})
	if err != nil {
		return 0, 0, fmt.Errorf("listing source bookings: %w", err)
	}

	copies := make([]*booking.Booking, 0, len(bookings))
	for _, b := range bookings {
		c := *b
		c.ID = 0
		copies = append(copies, &c)
	}

	imported, err = dest.ImportBookings(ctx, copies)
	if err != nil {
		return len(bookings), 0, fmt.Errorf("importing bookings: %w", err)
	}
	return len(bookings), imported, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
