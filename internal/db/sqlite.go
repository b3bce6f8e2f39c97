// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dhillsview/frontdesk/internal/booking"
)

// SQLite implements booking.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// Connection pragmas: writers wait for each other instead of failing with
// SQLITE_BUSY.
const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const bookingColumns = `id, ref, room_type, room, checkin, checkout, status, guest, email, phone, amount, created_at`

// CreateBooking adds a new booking to the repository.
func (s *SQLite) CreateBooking(ctx context.Context, b *booking.Booking) error {
	id, err := insertBooking(ctx, s.db, b)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertBooking(ctx context.Context, ex execer, b *booking.Booking) (int64, error) {
	query := `
		INSERT INTO bookings (
			ref, room_type, room, checkin, checkout, status, guest, email, phone, amount, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	status := b.Status
	if status == "" {
		status = booking.StatusPending
	}

	result, err := ex.ExecContext(ctx, query,
		b.Reference,
		string(b.RoomType),
		b.Room,
		b.CheckIn.Format("2006-01-02"),
		b.CheckOut.Format("2006-01-02"),
		status,
		b.GuestName,
		b.GuestEmail,
		b.GuestPhone,
		b.Amount,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// ImportBookings adds bookings in one transaction. Bookings whose reference
// already exists are skipped. Returns the number of rows inserted.
func (s *SQLite) ImportBookings(ctx context.Context, bookings []*booking.Booking) (int, error) {
	if len(bookings) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, b := range bookings {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE ref = ?`, b.Reference).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("checking reference: %w", err)
		}
		if exists > 0 {
			continue
		}
		id, err := insertBooking(ctx, tx, b)
		if err != nil {
			return 0, err
		}
		b.ID = id
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted, nil
}

// GetBooking retrieves a booking by ID.
func (s *SQLite) GetBooking(ctx context.Context, id int64) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return s.getOne(ctx, query, id)
}

// GetBookingByReference retrieves a booking by its reference code.
func (s *SQLite) GetBookingByReference(ctx context.Context, ref string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ref = ?`
	return s.getOne(ctx, query, normalizeRef(ref))
}

func (s *SQLite) getOne(ctx context.Context, query string, arg any) (*booking.Booking, error) {
	b, err := scanBooking(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying booking: %w", err)
	}
	return b, nil
}

// ListBookings returns bookings ordered by ID.
func (s *SQLite) ListBookings(ctx context.Context, opts booking.ListOptions) ([]*booking.Booking, error) {
	var (
		where []string
		args  []any
	)
	if opts.ActiveOnly {
		where = append(where, "status != ?")
		args = append(args, booking.StatusCancelled)
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bookings []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}

	return bookings, nil
}

// SetStatus changes a booking's status. The transition is checked by the
// UPDATE itself so concurrent changes cannot both apply.
func (s *SQLite) SetStatus(ctx context.Context, ref string, status booking.Status) error {
	from := status.Predecessors()
	if len(from) == 0 {
		return fmt.Errorf("%w: -> %s", booking.ErrInvalidTransition, status)
	}

	args := []any{status, normalizeRef(ref)}
	for _, st := range from {
		args = append(args, st)
	}
	query := `UPDATE bookings SET status = ? WHERE ref = ? AND status IN (?` +
		strings.Repeat(", ?", len(from)-1) + `)`
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating booking status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		return nil
	}

	b, err := s.GetBookingByReference(ctx, ref)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s -> %s", booking.ErrInvalidTransition, b.Status, status)
}

// DeleteBooking permanently removes a booking.
func (s *SQLite) DeleteBooking(ctx context.Context, ref string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE ref = ?`, normalizeRef(ref))
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("booking %s: %w", ref, booking.ErrBookingNotFound)
	}
	return nil
}

// AssignBooking moves a booking to new dates and a physical room.
func (s *SQLite) AssignBooking(ctx context.Context, id int64, a booking.Assignment) error {
	if !a.CheckOut.After(a.CheckIn) {
		return booking.ErrCheckOutNotAfter
	}

	query := `UPDATE bookings SET checkin = ?, checkout = ?, room = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query,
		a.CheckIn.Format("2006-01-02"),
		a.CheckOut.Format("2006-01-02"),
		a.Room,
		id,
	)
	if err != nil {
		return fmt.Errorf("assigning booking: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("booking %d: %w", id, booking.ErrBookingNotFound)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBooking reads one row. Room type and dates are parsed leniently: values
// that cannot be resolved are left zero so callers can skip the booking
// instead of failing the whole listing.
func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		b         booking.Booking
		roomType  string
		checkIn   string
		checkOut  string
		status    string
		createdAt string
	)

	err := row.Scan(
		&b.ID,
		&b.Reference,
		&roomType,
		&b.Room,
		&checkIn,
		&checkOut,
		&status,
		&b.GuestName,
		&b.GuestEmail,
		&b.GuestPhone,
		&b.Amount,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if rt, err := booking.ParseRoomType(roomType); err == nil {
		b.RoomType = rt
	}
	b.Status = booking.Status(strings.ToLower(status))
	b.CheckIn, _ = parseDate(checkIn)
	b.CheckOut, _ = parseDate(checkOut)
	b.CreatedAt, _ = parseDate(createdAt)

	return &b, nil
}

// parseDate parses a date string in the formats SQLite and older clients produce.
// Calendar dates are returned as midnight UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	// SQLite can return DATE values as "2006-01-02T00:00:00Z"
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil && s[11:19] == "00:00:00" {
			return t, nil
		}
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.000Z",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

func normalizeRef(ref string) string {
	ref = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(ref, "#")))
	if !strings.HasPrefix(ref, booking.ReferencePrefix) {
		ref = booking.ReferencePrefix + ref
	}
	return ref
}

// GetSettings returns the stored settings, or the defaults when none are stored.
func (s *SQLite) GetSettings(ctx context.Context) (*booking.Settings, error) {
	return getSettings(ctx, s.db)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getSettings(ctx context.Context, q queryer) (*booking.Settings, error) {
	query := `SELECT prices, inventory, rate_plans, room_statuses FROM settings WHERE id = 1`

	var prices, inventory, plans, statuses string
	err := q.QueryRowContext(ctx, query).Scan(&prices, &inventory, &plans, &statuses)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}

	st := &booking.Settings{}
	if err := json.Unmarshal([]byte(prices), &st.Prices); err != nil {
		return nil, fmt.Errorf("decoding prices: %w", err)
	}
	if err := json.Unmarshal([]byte(inventory), &st.Inventory); err != nil {
		return nil, fmt.Errorf("decoding inventory: %w", err)
	}
	if err := json.Unmarshal([]byte(plans), &st.RatePlans); err != nil {
		return nil, fmt.Errorf("decoding rate plans: %w", err)
	}
	if err := json.Unmarshal([]byte(statuses), &st.RoomStatuses); err != nil {
		return nil, fmt.Errorf("decoding room statuses: %w", err)
	}
	st.Normalize()
	return st, nil
}

// updateSettings applies fn to the current settings and writes the result
// back inside a single transaction.
func (s *SQLite) updateSettings(ctx context.Context, fn func(*booking.Settings) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	st, err := getSettings(ctx, tx)
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}

	prices, err := json.Marshal(st.Prices)
	if err != nil {
		return fmt.Errorf("encoding prices: %w", err)
	}
	inventory, err := json.Marshal(st.Inventory)
	if err != nil {
		return fmt.Errorf("encoding inventory: %w", err)
	}
	plans := st.RatePlans
	if plans == nil {
		plans = []booking.RatePlan{}
	}
	plansJSON, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("encoding rate plans: %w", err)
	}
	statuses, err := json.Marshal(st.RoomStatuses)
	if err != nil {
		return fmt.Errorf("encoding room statuses: %w", err)
	}

	query := `
		INSERT INTO settings (id, prices, inventory, rate_plans, room_statuses)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			prices = excluded.prices,
			inventory = excluded.inventory,
			rate_plans = excluded.rate_plans,
			room_statuses = excluded.room_statuses
	`
	if _, err := tx.ExecContext(ctx, query, string(prices), string(inventory), string(plansJSON), string(statuses)); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpdateInventory sets the room count of one room type.
func (s *SQLite) UpdateInventory(ctx context.Context, rt booking.RoomType, n int) error {
	if err := booking.ValidateInventory(rt, n); err != nil {
		return err
	}
	return s.updateSettings(ctx, func(st *booking.Settings) error {
		st.Inventory[rt] = n
		return nil
	})
}

// UpdatePrices replaces the nightly prices of the given room types.
func (s *SQLite) UpdatePrices(ctx context.Context, prices map[booking.RoomType]float64) error {
	if err := booking.ValidatePrices(prices); err != nil {
		return err
	}
	return s.updateSettings(ctx, func(st *booking.Settings) error {
		for rt, p := range prices {
			st.Prices[rt] = p
		}
		return nil
	})
}

// UpdateRatePlans replaces the full list of rate plans.
func (s *SQLite) UpdateRatePlans(ctx context.Context, plans []booking.RatePlan) error {
	for _, p := range plans {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return s.updateSettings(ctx, func(st *booking.Settings) error {
		st.RatePlans = append([]booking.RatePlan(nil), plans...)
		return nil
	})
}

// UpdateRoomStatuses replaces the housekeeping status map.
func (s *SQLite) UpdateRoomStatuses(ctx context.Context, statuses map[int]booking.RoomStatus) error {
	return s.updateSettings(ctx, func(st *booking.Settings) error {
		st.RoomStatuses = make(map[int]booking.RoomStatus, len(statuses))
		for k, v := range statuses {
			st.RoomStatuses[k] = v
		}
		return nil
	})
}
