// Package memory is an in-process implementation of the backend port, used
// by tests and for offline development against seeded data.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"storedash/internal/core"
)

type Store struct {
	mu     sync.Mutex
	err    error
	nextID int64

	customers []core.Customer
	products  []core.Product
	sales     []core.Sale
	details   []core.SaleDetail
	inventory []core.InventoryEntry
	expenses  []core.Expense
	suppliers []core.Supplier
	udhaar    []core.UdhaarRecord

	admins map[string]string
}

func New() *Store {
	return &Store{
		nextID: 1,
		admins: map[string]string{},
	}
}

// Fail forces every subsequent call to return err. Fail(nil) heals the store.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Seed replaces the seeded lists wholesale.
func (s *Store) Seed(
	customers []core.Customer,
	products []core.Product,
	sales []core.Sale,
	details []core.SaleDetail,
	inventory []core.InventoryEntry,
	expenses []core.Expense,
	suppliers []core.Supplier,
	udhaar []core.UdhaarRecord,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = customers
	s.products = products
	s.sales = sales
	s.details = details
	s.inventory = inventory
	s.expenses = expenses
	s.suppliers = suppliers
	s.udhaar = udhaar
}

// SeedAdmin registers a username/password accepted by Login.
func (s *Store) SeedAdmin(username, password string) {
	s.mu.Lock()
	s.admins[username] = password
	s.mu.Unlock()
}

func (s *Store) assign() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func copyOf[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func (s *Store) ListCustomers(_ context.Context) ([]core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return copyOf(s.customers), nil
}

func (s *Store) ListProducts(_ context.Context) ([]core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return copyOf(s.products), nil
}

func (s *Store) ListSales(_ context.Context) ([]core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return copyOf(s.sales), nil
}

func (s *Store) ListSaleDetails(_ context.Context) ([]core.SaleDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return copyOf(s.details), nil
}

func (s *Store) ListInventory(_ context.Context) ([]core.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return copyOf(s.inventory), nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return copyOf(s.expenses), nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]core.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return copyOf(s.suppliers), nil
}

func (s *Store) ListUdhaar(_ context.Context) ([]core.UdhaarRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return copyOf(s.udhaar), nil
}

// TopProducts aggregates quantity sold per product over the seeded sale
// details. The period is validated but not applied to the seeded window.
func (s *Store) TopProducts(_ context.Context, period core.Period) ([]core.TopProduct, error) {
	if !period.IsValid() {
		return nil, core.ErrInvalidPeriod
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	names := map[int64]string{}
	for _, p := range s.products {
		names[p.ProductID] = p.Name
	}

	index := map[string]int{}
	var out []core.TopProduct
	for _, d := range s.details {
		for _, it := range d.Items {
			name := names[it.ProductID]
			if name == "" {
				name = fmt.Sprintf("product-%d", it.ProductID)
			}
			if i, ok := index[name]; ok {
				out[i].QuantitySold += int(it.Quantity)
				continue
			}
			index[name] = len(out)
			out = append(out, core.TopProduct{ProductName: name, QuantitySold: int(it.Quantity)})
		}
	}
	return out, nil
}

func (s *Store) Login(_ context.Context, creds core.Credentials) (core.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.Admin{}, s.err
	}
	if pass, ok := s.admins[creds.Username]; !ok || pass != creds.Password {
		return core.Admin{}, fmt.Errorf("login failed for %q", creds.Username)
	}
	return core.Admin{Username: creds.Username}, nil
}

func (s *Store) Logout(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) CreateAdmin(_ context.Context, signup core.AdminSignup) error {
	if err := signup.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.admins[signup.Username] = signup.Password
	return nil
}

func (s *Store) UpdatePassword(_ context.Context, change core.PasswordChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if pass, ok := s.admins[change.Username]; !ok || pass != change.OldPassword {
		return fmt.Errorf("password change rejected for %q", change.Username)
	}
	s.admins[change.Username] = change.NewPassword
	return nil
}

func (s *Store) AddCustomer(_ context.Context, c core.Customer) (core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.Customer{}, s.err
	}
	c.CustomerID = s.assign()
	s.customers = append(s.customers, c)
	return c, nil
}

func (s *Store) AddSupplier(_ context.Context, sup core.Supplier) (core.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.Supplier{}, s.err
	}
	sup.SupplierID = s.assign()
	s.suppliers = append(s.suppliers, sup)
	return sup, nil
}

func (s *Store) AddExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.Expense{}, s.err
	}
	e.ExpenseID = s.assign()
	if e.ExpenseDate == "" {
		e.ExpenseDate = time.Now().UTC().Format("2006-01-02T15:04:05")
	}
	s.expenses = append(s.expenses, e)
	return e, nil
}

func (s *Store) RecordSale(_ context.Context, r core.SaleRequest) (core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.Sale{}, s.err
	}

	var total float64
	for _, it := range r.Items {
		total += it.Quantity * it.UnitPrice
	}
	sale := core.Sale{
		SaleID:      s.assign(),
		CustomerID:  r.CustomerID,
		SaleDate:    time.Now().UTC().Format("2006-01-02T15:04:05"),
		TotalAmount: total,
		PaymentMode: r.PaymentMode,
	}
	s.sales = append(s.sales, sale)
	s.details = append(s.details, core.SaleDetail{
		SaleID:      sale.SaleID,
		SaleDate:    sale.SaleDate,
		TotalAmount: sale.TotalAmount,
		PaymentMode: sale.PaymentMode,
		Items:       r.Items,
	})
	if r.PaymentMode == core.PayUdhaar {
		s.udhaar = append(s.udhaar, core.UdhaarRecord{
			UdhaarID:  s.assign(),
			AmountDue: total,
			Status:    core.UdhaarPending,
		})
	}
	return sale, nil
}

func (s *Store) UpdateProduct(_ context.Context, id int64, p core.Product) (core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.Product{}, s.err
	}
	for i := range s.products {
		if s.products[i].ProductID == id {
			p.ProductID = id
			s.products[i] = p
			return p, nil
		}
	}
	return core.Product{}, fmt.Errorf("product %d not found", id)
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for i := range s.products {
		if s.products[i].ProductID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("product %d not found", id)
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for i := range s.expenses {
		if s.expenses[i].ExpenseID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %d not found", id)
}

func (s *Store) UpsertInventory(_ context.Context, productID int64, stockQuantity, minStockThreshold int) (core.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.InventoryEntry{}, s.err
	}

	var product core.Product
	for _, p := range s.products {
		if p.ProductID == productID {
			product = p
			break
		}
	}
	for i := range s.inventory {
		if s.inventory[i].Product.ProductID == productID {
			s.inventory[i].StockQuantity = stockQuantity
			s.inventory[i].MinStockThreshold = minStockThreshold
			return s.inventory[i], nil
		}
	}
	entry := core.InventoryEntry{
		InventoryID:       s.assign(),
		Product:           product,
		StockQuantity:     stockQuantity,
		MinStockThreshold: minStockThreshold,
	}
	s.inventory = append(s.inventory, entry)
	return entry, nil
}

func (s *Store) DeleteInventory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for i := range s.inventory {
		if s.inventory[i].InventoryID == id {
			s.inventory = append(s.inventory[:i], s.inventory[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("inventory entry %d not found", id)
}

func (s *Store) MarkUdhaarPaid(_ context.Context, id int64) (core.UdhaarRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.UdhaarRecord{}, s.err
	}
	for i := range s.udhaar {
		if s.udhaar[i].UdhaarID == id {
			s.udhaar[i].Status = core.UdhaarPaid
			return s.udhaar[i], nil
		}
	}
	return core.UdhaarRecord{}, fmt.Errorf("udhaar record %d not found", id)
}

func (s *Store) SalesReport(_ context.Context, _ core.SalesReportFilter, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, "%PDF-1.4\n% seeded sales report\n")
	return err
}

func (s *Store) ExpensesReport(_ context.Context, _ core.ExpensesReportFilter, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, "%PDF-1.4\n% seeded expenses report\n")
	return err
}
