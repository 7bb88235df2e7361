package store

import (
	"context"
	"fmt"

	"storedash/internal/core"
)

// Write helpers validate first, call the backend, and mutate the cached
// list only after the backend confirms. A failed write leaves the cache
// exactly as it was; there is no speculative mutation to roll back.

func (s *Store) AddCustomer(ctx context.Context, c core.Customer) (core.Customer, error) {
	if err := c.Validate(); err != nil {
		return core.Customer{}, err
	}
	created, err := s.backend.AddCustomer(ctx, c)
	if err != nil {
		return core.Customer{}, fmt.Errorf("add customer: %w", err)
	}
	s.Customers.Append(created)
	return created, nil
}

func (s *Store) AddSupplier(ctx context.Context, sup core.Supplier) (core.Supplier, error) {
	if err := sup.Validate(); err != nil {
		return core.Supplier{}, err
	}
	created, err := s.backend.AddSupplier(ctx, sup)
	if err != nil {
		return core.Supplier{}, fmt.Errorf("add supplier: %w", err)
	}
	s.Suppliers.Append(created)
	return created, nil
}

func (s *Store) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	created, err := s.backend.AddExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	s.Expenses.Append(created)
	return created, nil
}

// RecordSale posts a new sale. When the payment mode is UDHAAR the request
// carries a pending credit marker so the backend opens the credit record.
func (s *Store) RecordSale(ctx context.Context, r core.SaleRequest) (core.Sale, error) {
	if err := r.Validate(); err != nil {
		return core.Sale{}, err
	}
	if r.PaymentMode == core.PayUdhaar && r.Udhaar == nil {
		r.Udhaar = &core.UdhaarMarker{Status: core.UdhaarPending}
	}
	created, err := s.backend.RecordSale(ctx, r)
	if err != nil {
		return core.Sale{}, fmt.Errorf("record sale: %w", err)
	}
	s.Sales.Append(created)
	return created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, p core.Product) (core.Product, error) {
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	updated, err := s.backend.UpdateProduct(ctx, id, p)
	if err != nil {
		return core.Product{}, fmt.Errorf("update product: %w", err)
	}
	if !s.Products.Update(updated) {
		s.Products.Append(updated)
	}
	return updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.Products.Remove(id)
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.backend.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.Expenses.Remove(id)
	return nil
}

// UpsertInventory creates or updates the stock row for a product and
// mirrors the confirmed entry into the cache, replacing by inventory id.
func (s *Store) UpsertInventory(ctx context.Context, productID int64, stockQuantity, minStockThreshold int) (core.InventoryEntry, error) {
	if stockQuantity < 0 || minStockThreshold < 0 {
		return core.InventoryEntry{}, core.ErrInvalidQuantity
	}
	entry, err := s.backend.UpsertInventory(ctx, productID, stockQuantity, minStockThreshold)
	if err != nil {
		return core.InventoryEntry{}, fmt.Errorf("upsert inventory: %w", err)
	}
	if !s.Inventory.Update(entry) {
		s.Inventory.Append(entry)
	}
	return entry, nil
}

func (s *Store) DeleteInventory(ctx context.Context, id int64) error {
	if err := s.backend.DeleteInventory(ctx, id); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	s.Inventory.Remove(id)
	return nil
}

// MarkUdhaarPaid settles a credit record. The confirmed record replaces the
// cached one and leaves the unpaid feed.
func (s *Store) MarkUdhaarPaid(ctx context.Context, id int64) (core.UdhaarRecord, error) {
	paid, err := s.backend.MarkUdhaarPaid(ctx, id)
	if err != nil {
		return core.UdhaarRecord{}, fmt.Errorf("mark udhaar paid: %w", err)
	}
	s.Udhaar.Update(paid)
	s.UnpaidUdhaar.Remove(id)
	return paid, nil
}

// CreateAdmin provisions a new admin user. The confirmation argument is the
// retyped password from the form; a mismatch fails before any request.
func (s *Store) CreateAdmin(ctx context.Context, signup core.AdminSignup, confirm string) error {
	if err := signup.Validate(); err != nil {
		return err
	}
	if signup.Password != confirm {
		return core.ErrPasswordMismatch
	}
	if err := s.backend.CreateAdmin(ctx, signup); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, change core.PasswordChange, confirm string) error {
	if err := change.Validate(); err != nil {
		return err
	}
	if change.NewPassword != confirm {
		return core.ErrPasswordMismatch
	}
	if err := s.backend.UpdatePassword(ctx, change); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
