package dashboard

import (
	"context"
	"errors"
	"testing"

	"storedash/internal/backend/memory"
	"storedash/internal/core"
	"storedash/internal/store"
)

func seededFake() *memory.Store {
	fake := memory.New()
	fake.Seed(
		nil,
		[]core.Product{{ProductID: 1, Name: "Rice", Price: 55, Category: "Grain"}},
		[]core.Sale{
			{SaleID: 1, SaleDate: "2024-01-01T10:00", TotalAmount: 100, PaymentMode: core.PayCash},
			{SaleID: 2, SaleDate: "2024-01-01T15:00", TotalAmount: 50, PaymentMode: core.PayUPI},
			{SaleID: 3, SaleDate: "2024-01-02T09:00", TotalAmount: 30, PaymentMode: core.PayCash},
		},
		[]core.SaleDetail{
			{SaleID: 1, CustomerName: "Asha", SaleDate: "2024-01-01T10:00", TotalAmount: 100,
				Items: []core.SaleItem{{ProductID: 1, Quantity: 2, UnitPrice: 50}}},
		},
		[]core.InventoryEntry{{InventoryID: 1}, {InventoryID: 2}},
		[]core.Expense{{ExpenseID: 9, Description: "Rent", Amount: 500, Category: "Fixed", ExpenseDate: "2024-01-03T08:00"}},
		nil,
		[]core.UdhaarRecord{
			{UdhaarID: 1, AmountDue: 200, Status: core.UdhaarPending},
			{UdhaarID: 2, AmountDue: 50, Status: core.UdhaarPaid},
		},
	)
	return fake
}

func TestLoadComputesStats(t *testing.T) {
	ctx := context.Background()
	fake := seededFake()
	s := store.New(ctx, fake, nil, nil)
	d := New(s, fake, nil)

	if d.State() != StateIdle {
		t.Fatalf("expected idle before load, got %s", d.State())
	}

	d.Load(ctx)

	if d.State() != StateReady {
		t.Fatalf("expected ready after load, got %s", d.State())
	}

	stats := d.Stats()
	if stats.TotalSales != 180 {
		t.Fatalf("expected total sales 180, got %v", stats.TotalSales)
	}
	if stats.TotalInventory != 2 {
		t.Fatalf("expected inventory 2, got %d", stats.TotalInventory)
	}
	if stats.PendingUdhaar != 200 {
		t.Fatalf("expected pending udhaar 200, got %v", stats.PendingUdhaar)
	}

	series := d.SalesByDay()
	if len(series) != 2 || series[0] != (core.DayTotal{Day: "2024-01-01", Total: 150}) {
		t.Fatalf("unexpected sales series %+v", series)
	}

	feed := d.Transactions()
	if len(feed) != 2 {
		t.Fatalf("expected 2 feed entries, got %d", len(feed))
	}
	if feed[0].Kind != core.KindExpense || feed[0].Label != "Rent" {
		t.Fatalf("newest entry should be the expense, got %+v", feed[0])
	}

	top := d.TopProducts()
	if len(top) != 1 || top[0].ProductName != "Rice" || top[0].QuantitySold != 2 {
		t.Fatalf("unexpected top products %+v", top)
	}
}

func TestLoadToleratesPartialFailure(t *testing.T) {
	ctx := context.Background()
	fake := seededFake()
	s := store.New(ctx, fake, nil, nil)
	d := New(s, fake, nil)

	fake.Fail(errors.New("backend down"))
	d.Load(ctx)

	// The page still reaches ready; stats reflect the empty caches.
	if d.State() != StateReady {
		t.Fatalf("expected ready, got %s", d.State())
	}
	if got := d.Stats(); got != (core.Stats{}) {
		t.Fatalf("expected zero stats with no data, got %+v", got)
	}
}

type countingTopReader struct {
	calls    int
	response []core.TopProduct
}

func (r *countingTopReader) TopProducts(ctx context.Context, period core.Period) ([]core.TopProduct, error) {
	r.calls++
	return r.response, nil
}

func TestUsePeriodBeforeLoadFetchesOnce(t *testing.T) {
	ctx := context.Background()
	fake := seededFake()
	s := store.New(ctx, fake, nil, nil)

	reader := &countingTopReader{response: []core.TopProduct{{ProductName: "Rice", QuantitySold: 2}}}
	d := New(s, reader, nil)

	if err := d.UsePeriod(core.PeriodMonth); err != nil {
		t.Fatalf("use period: %v", err)
	}
	if reader.calls != 0 {
		t.Fatalf("UsePeriod must not fetch, got %d calls", reader.calls)
	}
	if err := d.UsePeriod(core.Period("year")); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Fatalf("expected invalid period, got %v", err)
	}

	d.Load(ctx)

	if reader.calls != 1 {
		t.Fatalf("expected exactly one top-products fetch during load, got %d", reader.calls)
	}
	if d.Period() != core.PeriodMonth {
		t.Fatalf("period not applied: %s", d.Period())
	}
	if len(d.TopProducts()) != 1 {
		t.Fatalf("top products not populated: %+v", d.TopProducts())
	}
}

func TestSetPeriodRefetches(t *testing.T) {
	ctx := context.Background()
	fake := seededFake()
	s := store.New(ctx, fake, nil, nil)
	d := New(s, fake, nil)

	if err := d.SetPeriod(ctx, core.Period("year")); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Fatalf("expected invalid period, got %v", err)
	}

	if err := d.SetPeriod(ctx, core.PeriodWeek); err != nil {
		t.Fatalf("set period: %v", err)
	}
	if d.Period() != core.PeriodWeek {
		t.Fatalf("period not updated: %s", d.Period())
	}
	if len(d.TopProducts()) != 1 {
		t.Fatalf("expected top products after period switch, got %d", len(d.TopProducts()))
	}
}

func TestTopProductsFailureResetsToEmpty(t *testing.T) {
	ctx := context.Background()
	fake := seededFake()
	s := store.New(ctx, fake, nil, nil)
	d := New(s, fake, nil)

	d.Load(ctx)
	if len(d.TopProducts()) == 0 {
		t.Fatal("seed load should produce top products")
	}

	// Unlike the entity caches, the panel drops its data on a failed fetch.
	fake.Fail(errors.New("backend down"))
	if err := d.SetPeriod(ctx, core.PeriodMonth); err != nil {
		t.Fatalf("set period: %v", err)
	}
	if got := d.TopProducts(); len(got) != 0 {
		t.Fatalf("expected empty panel after failure, got %+v", got)
	}
}

type staleTopReader struct {
	onCall   func()
	response []core.TopProduct
}

func (r *staleTopReader) TopProducts(ctx context.Context, period core.Period) ([]core.TopProduct, error) {
	if r.onCall != nil {
		r.onCall()
	}
	return r.response, nil
}

func TestStaleTopProductsDiscarded(t *testing.T) {
	ctx := context.Background()
	fake := seededFake()
	s := store.New(ctx, fake, nil, nil)

	reader := &staleTopReader{response: []core.TopProduct{{ProductName: "Old", QuantitySold: 1}}}
	d := New(s, reader, nil)

	// While the first fetch is in flight the user switches period; the
	// first response must not overwrite the newer one.
	first := true
	reader.onCall = func() {
		if first {
			first = false
			reader.response = []core.TopProduct{{ProductName: "New", QuantitySold: 2}}
			if err := d.SetPeriod(ctx, core.PeriodWeek); err != nil {
				t.Errorf("nested set period: %v", err)
			}
			reader.response = []core.TopProduct{{ProductName: "Old", QuantitySold: 1}}
		}
	}

	d.fetchTopProducts(ctx, core.PeriodAll)

	top := d.TopProducts()
	if len(top) != 1 || top[0].ProductName != "New" {
		t.Fatalf("stale response overwrote newer one: %+v", top)
	}
}
