// Package dashboard drives the dashboard page lifecycle: one batch fetch of
// the five lists it aggregates over, reactive stat recomputation, and the
// server-computed top-products panel with its period selector.
package dashboard

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"storedash/internal/backend"
	"storedash/internal/core"
	applog "storedash/internal/log"
	"storedash/internal/store"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

type Dashboard struct {
	store *store.Store
	top   backend.TopProductsReader
	log   *applog.Logger

	mu           sync.Mutex
	state        State
	period       core.Period
	stats        core.Stats
	transactions []core.Transaction
	salesByDay   []core.DayTotal
	topProducts  []core.TopProduct

	// topGen discards top-product responses that arrive after a newer
	// period selection.
	topGen atomic.Uint64
}

func New(s *store.Store, top backend.TopProductsReader, logger *applog.Logger) *Dashboard {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Dashboard{
		store:  s,
		top:    top,
		log:    logger.WithComponent(applog.ComponentDashboard),
		state:  StateIdle,
		period: core.PeriodAll,
	}
}

// Load runs the mount sequence: all five fetches in flight concurrently,
// stats recomputed as each list lands so partially-arrived data renders
// progressively, plus the initial top-products fetch for the current
// period. Individual fetch failures are swallowed by the store; the page
// always reaches ready with whatever data is present.
func (d *Dashboard) Load(ctx context.Context) {
	d.mu.Lock()
	d.state = StateLoading
	d.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, fetch := range []struct {
		name string
		run  func(context.Context)
	}{
		{"inventory", d.store.FetchInventory},
		{"sales", d.store.FetchSales},
		{"salesDesc", d.store.FetchSaleDetails},
		{"expenses", d.store.FetchExpenses},
		{"unpaidUdhaar", d.store.FetchUnpaidUdhaar},
	} {
		run := fetch.run
		g.Go(func() error {
			run(gctx)
			d.Refresh()
			return nil
		})
	}
	g.Go(func() error {
		d.fetchTopProducts(gctx, d.Period())
		return nil
	})
	g.Wait()

	d.mu.Lock()
	d.state = StateReady
	d.mu.Unlock()
	d.log.InfoContext(ctx, "Dashboard loaded", applog.FieldPeriod, d.Period().String())
}

// Refresh recomputes the derived stats from the current snapshots. It is
// cheap and safe to call whenever a cached list changes.
func (d *Dashboard) Refresh() {
	sales := d.store.Sales.Items()
	stats := core.ComputeStats(sales, d.store.Inventory.Items(), d.store.UnpaidUdhaar.Items())
	transactions := core.RecentTransactions(d.store.SaleDetails.Items(), d.store.Expenses.Items())
	series := core.SalesByDay(sales)

	d.mu.Lock()
	d.stats = stats
	d.transactions = transactions
	d.salesByDay = series
	d.mu.Unlock()
}

// UsePeriod sets the top-products window without fetching; Load's batch
// picks it up. Use it to pick the window before the mount sequence runs.
func (d *Dashboard) UsePeriod(period core.Period) error {
	if !period.IsValid() {
		return core.ErrInvalidPeriod
	}
	d.mu.Lock()
	d.period = period
	d.mu.Unlock()
	return nil
}

// SetPeriod switches the top-products window and re-fetches. The entity
// batch is a mount-time concern and is not re-issued here.
func (d *Dashboard) SetPeriod(ctx context.Context, period core.Period) error {
	if err := d.UsePeriod(period); err != nil {
		return err
	}
	d.fetchTopProducts(ctx, period)
	return nil
}

// fetchTopProducts asks the backend for the period's best sellers. Unlike
// the entity caches, a failure resets the panel to empty: a period switch
// has no previous snapshot worth keeping.
func (d *Dashboard) fetchTopProducts(ctx context.Context, period core.Period) {
	gen := d.topGen.Add(1)

	products, err := d.top.TopProducts(ctx, period)
	if d.topGen.Load() != gen {
		d.log.DebugContext(ctx, "Discarding stale top-products result", applog.FieldPeriod, period.String())
		return
	}
	if err != nil {
		d.log.ErrorContext(ctx, "Top-products fetch failed",
			applog.FieldOperation, applog.OpFetch,
			applog.FieldPeriod, period.String(),
			applog.FieldError, err)
		products = nil
	}

	d.mu.Lock()
	d.topProducts = products
	d.mu.Unlock()
}

func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dashboard) Period() core.Period {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.period
}

func (d *Dashboard) Stats() core.Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *Dashboard) Transactions() []core.Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.Transaction, len(d.transactions))
	copy(out, d.transactions)
	return out
}

func (d *Dashboard) SalesByDay() []core.DayTotal {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.DayTotal, len(d.salesByDay))
	copy(out, d.salesByDay)
	return out
}

func (d *Dashboard) TopProducts() []core.TopProduct {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.TopProduct, len(d.topProducts))
	copy(out, d.topProducts)
	return out
}
