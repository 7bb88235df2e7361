package store

import (
	"context"

	"storedash/internal/core"
	applog "storedash/internal/log"
)

// Fetchers replace a whole list with the backend snapshot. A failed fetch
// is logged and swallowed so one bad read never crashes a page; the list
// keeps its last good snapshot. Calls are independent and may run
// concurrently; there is no coalescing and no TTL.

func (s *Store) FetchCustomers(ctx context.Context) {
	gen := s.generation()
	items, err := s.backend.ListCustomers(ctx)
	if !s.commit(ctx, gen, "customers", err) {
		return
	}
	s.Customers.Replace(items)
}

func (s *Store) FetchProducts(ctx context.Context) {
	gen := s.generation()
	items, err := s.backend.ListProducts(ctx)
	if !s.commit(ctx, gen, "products", err) {
		return
	}
	s.Products.Replace(items)
}

func (s *Store) FetchSales(ctx context.Context) {
	gen := s.generation()
	items, err := s.backend.ListSales(ctx)
	if !s.commit(ctx, gen, "sales", err) {
		return
	}
	s.Sales.Replace(items)
}

func (s *Store) FetchSaleDetails(ctx context.Context) {
	gen := s.generation()
	items, err := s.backend.ListSaleDetails(ctx)
	if !s.commit(ctx, gen, "salesDesc", err) {
		return
	}
	s.SaleDetails.Replace(items)
}

func (s *Store) FetchInventory(ctx context.Context) {
	gen := s.generation()
	items, err := s.backend.ListInventory(ctx)
	if !s.commit(ctx, gen, "inventory", err) {
		return
	}
	s.Inventory.Replace(items)
}

func (s *Store) FetchExpenses(ctx context.Context) {
	gen := s.generation()
	items, err := s.backend.ListExpenses(ctx)
	if !s.commit(ctx, gen, "expenses", err) {
		return
	}
	s.Expenses.Replace(items)
}

func (s *Store) FetchSuppliers(ctx context.Context) {
	gen := s.generation()
	items, err := s.backend.ListSuppliers(ctx)
	if !s.commit(ctx, gen, "suppliers", err) {
		return
	}
	s.Suppliers.Replace(items)
}

func (s *Store) FetchUdhaar(ctx context.Context) {
	gen := s.generation()
	items, err := s.backend.ListUdhaar(ctx)
	if !s.commit(ctx, gen, "udhaar", err) {
		return
	}
	s.Udhaar.Replace(items)
}

// FetchUnpaidUdhaar refreshes the unpaid credit feed the dashboard
// aggregates over: the full list with settled records filtered out.
func (s *Store) FetchUnpaidUdhaar(ctx context.Context) {
	gen := s.generation()
	items, err := s.backend.ListUdhaar(ctx)
	if !s.commit(ctx, gen, "unpaidUdhaar", err) {
		return
	}
	unpaid := items[:0:0]
	for _, u := range items {
		if u.Status != core.UdhaarPaid {
			unpaid = append(unpaid, u)
		}
	}
	s.UnpaidUdhaar.Replace(unpaid)
}

// commit reports whether a fetch result may be applied: the fetch must have
// succeeded and its generation must still be current.
func (s *Store) commit(ctx context.Context, gen uint64, entity string, err error) bool {
	if err != nil {
		s.log.ErrorContext(ctx, "Fetch failed, keeping cached snapshot",
			applog.FieldOperation, applog.OpFetch,
			applog.FieldEntity, entity,
			applog.FieldError, err)
		return false
	}
	if s.stale(gen) {
		s.log.DebugContext(ctx, "Discarding stale fetch result",
			applog.FieldOperation, applog.OpFetch,
			applog.FieldEntity, entity)
		return false
	}
	return true
}
