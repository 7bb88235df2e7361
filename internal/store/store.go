// Package store is the process-wide state container: the eight cached entity
// lists, the authenticated user and the theme preference. Views hold a
// reference to one Store instance; page-level code never talks to the
// backend for reads except through its fetchers.
package store

import (
	"context"
	"sync"
	"sync/atomic"

	"storedash/internal/backend"
	"storedash/internal/cache"
	"storedash/internal/core"
	applog "storedash/internal/log"
	"storedash/internal/storage"
)

type Store struct {
	backend backend.Backend
	state   *storage.StateDB // nil means no persistence (tests)
	log     *applog.Logger

	mu       sync.Mutex
	user     string
	darkMode bool

	// gen invalidates in-flight fetches: results from an older generation
	// are discarded instead of committed after teardown.
	gen atomic.Uint64

	Customers    *cache.List[core.Customer]
	Products     *cache.List[core.Product]
	Sales        *cache.List[core.Sale]
	SaleDetails  *cache.List[core.SaleDetail]
	Inventory    *cache.List[core.InventoryEntry]
	Expenses     *cache.List[core.Expense]
	Suppliers    *cache.List[core.Supplier]
	Udhaar       *cache.List[core.UdhaarRecord]
	UnpaidUdhaar *cache.List[core.UdhaarRecord]
}

// New creates the store and hydrates session and preference state from the
// state database. Hydration problems are logged, never surfaced: a broken
// local database means logged out with default theme, not a dead client.
func New(ctx context.Context, b backend.Backend, state *storage.StateDB, logger *applog.Logger) *Store {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	s := &Store{
		backend:  b,
		state:    state,
		log:      logger.WithComponent(applog.ComponentStore),
		darkMode: true,

		Customers:    cache.NewList(func(c core.Customer) int64 { return c.CustomerID }),
		Products:     cache.NewList(func(p core.Product) int64 { return p.ProductID }),
		Sales:        cache.NewList(func(s core.Sale) int64 { return s.SaleID }),
		SaleDetails:  cache.NewList(func(d core.SaleDetail) int64 { return d.SaleID }),
		Inventory:    cache.NewList(func(e core.InventoryEntry) int64 { return e.InventoryID }),
		Expenses:     cache.NewList(func(e core.Expense) int64 { return e.ExpenseID }),
		Suppliers:    cache.NewList(func(s core.Supplier) int64 { return s.SupplierID }),
		Udhaar:       cache.NewList(func(u core.UdhaarRecord) int64 { return u.UdhaarID }),
		UnpaidUdhaar: cache.NewList(func(u core.UdhaarRecord) int64 { return u.UdhaarID }),
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	if s.state == nil {
		return
	}
	sessionLog := s.log.WithComponent(applog.ComponentSession)

	username, ok, err := s.state.Username(ctx)
	if err != nil {
		sessionLog.ErrorContext(ctx, "Session hydration failed", applog.FieldOperation, applog.OpHydrate, applog.FieldError, err)
	} else if ok {
		s.mu.Lock()
		s.user = username
		s.mu.Unlock()
		sessionLog.InfoContext(ctx, "Session restored", applog.FieldUser, username)
	}

	dark, err := s.state.DarkMode(ctx)
	if err != nil {
		sessionLog.ErrorContext(ctx, "Preference hydration failed", applog.FieldOperation, applog.OpHydrate, applog.FieldError, err)
		return
	}
	s.mu.Lock()
	s.darkMode = dark
	s.mu.Unlock()
}

// User returns the current session identity; ok is false when logged out.
func (s *Store) User() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.user != ""
}

// Login sets the current user and persists it. Idempotent; performs no
// network call — the login request itself belongs to the backend client.
func (s *Store) Login(ctx context.Context, username string) {
	s.mu.Lock()
	s.user = username
	s.mu.Unlock()

	if s.state != nil {
		if err := s.state.SaveUsername(ctx, username); err != nil {
			s.log.ErrorContext(ctx, "Persisting session failed", applog.FieldOperation, applog.OpLogin, applog.FieldError, err)
		}
	}
}

// Authenticate posts the credentials and, on success, establishes the local
// session from the returned identity.
func (s *Store) Authenticate(ctx context.Context, creds core.Credentials) (core.Admin, error) {
	admin, err := s.backend.Login(ctx, creds)
	if err != nil {
		return core.Admin{}, err
	}
	s.Login(ctx, admin.Username)
	return admin, nil
}

// Logout notifies the backend best-effort and always clears the local
// session, persisted identity, stored cookies and cached entity lists — a
// failed notification never keeps the user logged in.
func (s *Store) Logout(ctx context.Context) {
	if err := s.backend.Logout(ctx); err != nil {
		s.log.WarnContext(ctx, "Logout notification failed", applog.FieldOperation, applog.OpLogout, applog.FieldError, err)
	}

	s.mu.Lock()
	s.user = ""
	s.mu.Unlock()

	s.Invalidate()
	s.clearCaches()

	if s.state != nil {
		if err := s.state.ClearSession(ctx); err != nil {
			s.log.ErrorContext(ctx, "Clearing persisted session failed", applog.FieldOperation, applog.OpLogout, applog.FieldError, err)
		}
	}
}

// clearCaches drops every cached entity list; the next session starts from
// empty state instead of the previous user's data.
func (s *Store) clearCaches() {
	s.Customers.Clear()
	s.Products.Clear()
	s.Sales.Clear()
	s.SaleDetails.Clear()
	s.Inventory.Clear()
	s.Expenses.Clear()
	s.Suppliers.Clear()
	s.Udhaar.Clear()
	s.UnpaidUdhaar.Clear()
}

// DarkMode returns the current theme preference.
func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// ToggleDarkMode flips and persists the theme preference, returning the new
// value.
func (s *Store) ToggleDarkMode(ctx context.Context) bool {
	s.mu.Lock()
	s.darkMode = !s.darkMode
	enabled := s.darkMode
	s.mu.Unlock()

	if s.state != nil {
		if err := s.state.SetDarkMode(ctx, enabled); err != nil {
			s.log.ErrorContext(ctx, "Persisting preference failed", applog.FieldOperation, applog.OpToggle, applog.FieldError, err)
		}
	}
	return enabled
}

// Invalidate bumps the fetch generation. In-flight fetches started before
// the bump discard their results; call it on page teardown.
func (s *Store) Invalidate() {
	s.gen.Add(1)
}

func (s *Store) generation() uint64 {
	return s.gen.Load()
}

func (s *Store) stale(gen uint64) bool {
	return s.gen.Load() != gen
}
