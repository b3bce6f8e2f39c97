// Package ui implements the frontdesk command line.
package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/board"
	"github.com/dhillsview/frontdesk/internal/config"
	"github.com/dhillsview/frontdesk/internal/db"
	"github.com/dhillsview/frontdesk/internal/debuglog"
	"github.com/dhillsview/frontdesk/internal/scheduler"
	"github.com/dhillsview/frontdesk/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config  *config.Config
	repo    *db.SQLite
	session *board.Session
	sched   *scheduler.Scheduler
	root    *cobra.Command
	out     io.Writer

	debug   bool // Enable debug logging
	noColor bool
}

// NewApp creates a new CLI application. The database is opened by the first
// command that needs it.
func NewApp(cfg *config.Config) *App {
	a := &App{
		config: cfg,
		sched:  scheduler.New(cfg.Booking.CheckInCutoff, cfg.Booking.DefaultNights),
		out:    os.Stdout,
	}

	a.root = &cobra.Command{
		Use:   "frontdesk",
		Short: "Tape chart and front desk tools for a small hotel",
		Long: `Frontdesk shows a month of room occupancy as a tape chart.

Run it without arguments to open the interactive chart, where bookings can be
moved between rooms and dates. The subcommands cover the rest of the front
desk: bookings, guests, rates, housekeeping and the HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			return debuglog.Init(a.debug, debuglog.DefaultPath)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.Run(a.session, a.config)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+debuglog.DefaultPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.chartCmd())
	a.root.AddCommand(a.occupancyCmd())
	a.root.AddCommand(a.bookingsCmd())
	a.root.AddCommand(a.guestsCmd())
	a.root.AddCommand(a.statsCmd())
	a.root.AddCommand(a.quoteCmd())
	a.root.AddCommand(a.roomsCmd())
	a.root.AddCommand(a.settingsCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

// ensureRepo opens the database and starts a board session over it.
func (a *App) ensureRepo() error {
	if a.session != nil {
		return nil
	}
	if dir := filepath.Dir(a.config.Storage.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	repo, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	a.session = board.New(repo, board.Options{
		Strategy:     a.config.Strategy(),
		DayWidth:     a.config.Chart.DayWidth,
		CacheTTL:     a.config.CacheTTL(),
		ReadTimeout:  a.config.ReadTimeout(),
		WriteTimeout: a.config.WriteTimeout(),
	})
	return nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "frontdesk %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database and the debug log.
func (a *App) Close() error {
	debuglog.Close()
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
