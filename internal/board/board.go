// Package board holds one chart session: the bookings and settings it reads,
// the manual slot overrides it owns, and the drag controller that writes
// reassignments back.
//
// Every mutation made through a Session invalidates its read cache and bumps
// the redraw generation, so views only repaint from confirmed store state.
package board

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dhillsview/frontdesk/internal/booking"
	"github.com/dhillsview/frontdesk/internal/cache"
	"github.com/dhillsview/frontdesk/internal/chart"
	"github.com/dhillsview/frontdesk/internal/dateutil"
	"github.com/dhillsview/frontdesk/internal/debuglog"
	"github.com/dhillsview/frontdesk/internal/reassign"
)

// Default timeouts for store calls.
const (
	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = reassign.DefaultWriteTimeout
)

// Options configures a Session.
type Options struct {
	Strategy     chart.Strategy
	DayWidth     int
	CacheTTL     time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Snapshot is the data a chart is drawn from.
type Snapshot struct {
	Bookings []*booking.Booking
	Settings *booking.Settings
	// Notice is set when the store could not be read and defaults are shown.
	Notice *FetchError
}

// View is a rendered chart.
type View struct {
	Grid       *chart.Grid
	Snapshot   *Snapshot
	Generation uint64
}

// Session is a chart session over a booking store.
type Session struct {
	store booking.Repository
	cache *cache.Cache
	ctrl  *reassign.Controller
	opts  Options

	layout    func(chart.LayoutInput) *chart.Grid
	overrides *overrideMap

	mu       sync.RWMutex
	settings *booking.Settings

	generation atomic.Uint64
	listenMu   sync.Mutex
	listeners  []func(uint64)
}

// New creates a Session.
func New(store booking.Repository, opts Options) *Session {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.DayWidth <= 0 {
		opts.DayWidth = chart.DefaultDayWidth
	}
	if opts.Strategy == "" {
		opts.Strategy = chart.StrategyRoundRobin
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		store:     store,
		cache:     cache.New(store, opts.CacheTTL),
		opts:      opts,
		layout:    chart.Layout,
		overrides: &overrideMap{m: chart.Overrides{}},
		settings:  booking.DefaultSettings(),
	}
	s.ctrl = reassign.New(store, s.overrides, reassign.Config{
		WriteTimeout: opts.WriteTimeout,
		Inventory:    s.inventoryOf,
		Invalidate:   s.Invalidate,
	})
	return s
}

// Controller returns the session's drag controller.
func (s *Session) Controller() *reassign.Controller {
	return s.ctrl
}

// Now returns the session clock.
func (s *Session) Now() time.Time {
	return s.opts.Now()
}

// Generation returns the redraw generation. It changes after every mutation.
func (s *Session) Generation() uint64 {
	return s.generation.Load()
}

// OnRedraw registers fn to run after every invalidation.
func (s *Session) OnRedraw(fn func(generation uint64)) {
	s.listenMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenMu.Unlock()
}

// Invalidate drops cached reads and requests a redraw.
func (s *Session) Invalidate() {
	s.cache.Invalidate()
	gen := s.generation.Add(1)

	s.listenMu.Lock()
	listeners := slices.Clone(s.listeners)
	s.listenMu.Unlock()
	for _, fn := range listeners {
		fn(gen)
	}
}

// Overrides returns a copy of the session's manual slot overrides.
func (s *Session) Overrides() chart.Overrides {
	return s.overrides.snapshot()
}

// ClearOverrides drops every manual slot override.
func (s *Session) ClearOverrides() {
	s.overrides.clear()
	s.Invalidate()
}

// Load reads bookings and settings concurrently. If either read fails the
// snapshot falls back to no bookings and the default settings, and carries a
// FetchError notice.
func (s *Session) Load(ctx context.Context) *Snapshot {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	var (
		bookings []*booking.Booking
		settings *booking.Settings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = s.cache.ListBookings(gctx, booking.ListOptions{})
		if err != nil {
			return fmt.Errorf("listing bookings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		settings, err = s.cache.GetSettings(gctx)
		if err != nil {
			return fmt.Errorf("reading settings: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		debuglog.Error("load", err)
		snap := &Snapshot{Settings: booking.DefaultSettings(), Notice: &FetchError{Err: err}}
		s.remember(snap.Settings)
		return snap
	}

	settings.Normalize()
	s.remember(settings)
	return &Snapshot{Bookings: bookings, Settings: settings}
}

func (s *Session) remember(settings *booking.Settings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

func (s *Session) inventoryOf(rt booking.RoomType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.InventoryOf(rt)
}

// Render loads the session data and lays out the chart for w. A failure
// during layout is returned as a *RenderError with a nil grid.
func (s *Session) Render(ctx context.Context, w dateutil.Window) (view *View, err error) {
	gen := s.Generation()
	snap := s.Load(ctx)
	view = &View{Snapshot: snap, Generation: gen}

	defer func() {
		if r := recover(); r != nil {
			rerr := &RenderError{Panic: r}
			if e, ok := r.(error); ok {
				rerr.Err = e
			}
			debuglog.Error("render", rerr)
			view.Grid = nil
			err = rerr
		}
	}()

	view.Grid = s.layout(chart.LayoutInput{
		Window:    w,
		Bookings:  snap.Bookings,
		Settings:  snap.Settings,
		Overrides: s.overrides.snapshot(),
		Strategy:  s.opts.Strategy,
		DayWidth:  s.opts.DayWidth,
		Now:       s.opts.Now(),
	})
	for _, sk := range view.Grid.Skipped {
		debuglog.SkippedBooking(sk.ID, sk.Reference, sk.Err)
	}
	return view, nil
}

// Occupancy computes per-day occupancy of every room type over w.
func (s *Session) Occupancy(ctx context.Context, w dateutil.Window) (chart.Occupancy, *FetchError) {
	snap := s.Load(ctx)
	return chart.ComputeOccupancy(snap.Bookings, snap.Settings.Inventory, w), snap.Notice
}

// Move reassigns a booking by ID to a target cell.
func (s *Session) Move(ctx context.Context, id int64, target reassign.Target) (reassign.Result, error) {
	b, err := s.readBooking(ctx, id)
	if err != nil {
		return reassign.Result{}, err
	}
	s.Load(ctx)
	return s.ctrl.Move(ctx, b, target)
}

// CycleRoomStatus advances a room's housekeeping status and persists the
// whole status map.
func (s *Session) CycleRoomStatus(ctx context.Context, roomNumber int) (booking.RoomStatus, error) {
	rt, slot, ok := booking.ParseRoomNumber(roomNumber)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownRoom, roomNumber)
	}

	snap := s.Load(ctx)
	if snap.Notice != nil {
		return "", snap.Notice
	}
	if slot > snap.Settings.InventoryOf(rt) {
		return "", fmt.Errorf("%w: %d", ErrUnknownRoom, roomNumber)
	}

	statuses := snap.Settings.Clone().RoomStatuses
	next := snap.Settings.StatusOf(roomNumber).Next()
	statuses[roomNumber] = next

	err := s.write(ctx, func(ctx context.Context) error {
		return s.store.UpdateRoomStatuses(ctx, statuses)
	})
	if err != nil {
		return "", fmt.Errorf("updating room %d: %w", roomNumber, err)
	}
	return next, nil
}

// write runs a store mutation under the write timeout and invalidates on success.
func (s *Session) write(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

func (s *Session) readBooking(ctx context.Context, id int64) (*booking.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()
	return s.store.GetBooking(ctx, id)
}

// overrideMap guards the session's overrides for the controller and renderers.
type overrideMap struct {
	mu sync.Mutex
	m  chart.Overrides
}

func (o *overrideMap) Get(id int64) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.m.Get(id)
}

func (o *overrideMap) Set(id int64, slot int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.m.Set(id, slot)
}

func (o *overrideMap) Delete(id int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.m.Delete(id)
}

func (o *overrideMap) snapshot() chart.Overrides {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.m.Clone()
}

func (o *overrideMap) clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.m = chart.Overrides{}
}
