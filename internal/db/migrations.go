package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS bookings (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ref         TEXT NOT NULL UNIQUE,
			room_type   TEXT NOT NULL,
			room        TEXT NOT NULL DEFAULT '',
			checkin     TEXT NOT NULL,
			checkout    TEXT NOT NULL,
			status      TEXT NOT NULL DEFAULT 'pending',
			guest       TEXT NOT NULL DEFAULT '',
			email       TEXT NOT NULL DEFAULT '',
			phone       TEXT NOT NULL DEFAULT '',
			amount      REAL NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status);
		CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(email);

		CREATE TABLE IF NOT EXISTS settings (
			id             INTEGER PRIMARY KEY CHECK(id = 1),
			prices         TEXT NOT NULL DEFAULT '{}',
			inventory      TEXT NOT NULL DEFAULT '{}',
			rate_plans     TEXT NOT NULL DEFAULT '[]',
			room_statuses  TEXT NOT NULL DEFAULT '{}'
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
