package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhillsview/frontdesk/internal/config"
	"github.com/dhillsview/frontdesk/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  frontdesk config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Store.ReadTimeout = promptValue(reader, "Store read timeout", cfg.Store.ReadTimeout)
	cfg.Store.WriteTimeout = promptValue(reader, "Store write timeout", cfg.Store.WriteTimeout)
	cfg.Cache.TTL = promptValue(reader, "Cache TTL", cfg.Cache.TTL)
	cfg.Chart.Assignment = promptValue(reader, "Room assignment (round_robin, packed)", cfg.Chart.Assignment)
	cfg.Chart.DayWidth = promptInt(reader, "Columns per day", cfg.Chart.DayWidth)
	cfg.Booking.CheckInCutoff = promptValue(reader, "Same-day check-in cutoff (HH:MM, empty for none)", cfg.Booking.CheckInCutoff)
	cfg.Booking.DefaultNights = promptInt(reader, "Default nights", cfg.Booking.DefaultNights)
	cfg.Server.Addr = promptValue(reader, "API listen address", cfg.Server.Addr)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[storage]")
	fmt.Printf("  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[store]")
	fmt.Printf("  read_timeout     = %s\n", cfg.Store.ReadTimeout)
	fmt.Printf("  write_timeout    = %s\n", cfg.Store.WriteTimeout)
	fmt.Println("\n[cache]")
	fmt.Printf("  ttl              = %s\n", cfg.Cache.TTL)
	fmt.Println("\n[chart]")
	fmt.Printf("  assignment       = %s\n", cfg.Chart.Assignment)
	fmt.Printf("  day_width        = %d\n", cfg.Chart.DayWidth)
	fmt.Println("\n[booking]")
	if cfg.Booking.CheckInCutoff != "" {
		fmt.Printf("  checkin_cutoff   = %s\n", cfg.Booking.CheckInCutoff)
	}
	fmt.Printf("  default_nights   = %d\n", cfg.Booking.DefaultNights)
	fmt.Println("\n[server]")
	fmt.Printf("  addr             = %s\n", cfg.Server.Addr)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Printf("  Invalid number %q\n", value)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
