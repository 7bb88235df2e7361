package backend

import (
	"context"
	"io"

	"storedash/internal/core"
)

// Ports for the remote store-management API.
type (
	// ListReader fetches the full snapshot of each entity kind. Every call
	// re-reads from the source; there is no de-duplication and no TTL.
	ListReader interface {
		ListCustomers(ctx context.Context) ([]core.Customer, error)
		ListProducts(ctx context.Context) ([]core.Product, error)
		ListSales(ctx context.Context) ([]core.Sale, error)
		ListSaleDetails(ctx context.Context) ([]core.SaleDetail, error)
		ListInventory(ctx context.Context) ([]core.InventoryEntry, error)
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		ListSuppliers(ctx context.Context) ([]core.Supplier, error)
		ListUdhaar(ctx context.Context) ([]core.UdhaarRecord, error)
	}

	// TopProductsReader returns the server-computed best sellers for a period.
	TopProductsReader interface {
		TopProducts(ctx context.Context, period core.Period) ([]core.TopProduct, error)
	}

	// Authenticator covers the admin session and provisioning endpoints.
	Authenticator interface {
		// Login returns the session identity on success and establishes the
		// session cookie on the shared jar.
		Login(ctx context.Context, creds core.Credentials) (core.Admin, error)
		// Logout is best-effort; the response is ignored by callers.
		Logout(ctx context.Context) error
		CreateAdmin(ctx context.Context, signup core.AdminSignup) error
		UpdatePassword(ctx context.Context, change core.PasswordChange) error
	}

	// EntityWriter performs the write endpoints. Creates return the created
	// record including the server-assigned identifier.
	EntityWriter interface {
		AddCustomer(ctx context.Context, c core.Customer) (core.Customer, error)
		AddSupplier(ctx context.Context, s core.Supplier) (core.Supplier, error)
		AddExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		RecordSale(ctx context.Context, r core.SaleRequest) (core.Sale, error)
		UpdateProduct(ctx context.Context, id int64, p core.Product) (core.Product, error)
		DeleteProduct(ctx context.Context, id int64) error
		DeleteExpense(ctx context.Context, id int64) error
		UpsertInventory(ctx context.Context, productID int64, stockQuantity, minStockThreshold int) (core.InventoryEntry, error)
		DeleteInventory(ctx context.Context, id int64) error
		MarkUdhaarPaid(ctx context.Context, id int64) (core.UdhaarRecord, error)
	}

	// ReportReader streams PDF report binaries to the given writer.
	ReportReader interface {
		SalesReport(ctx context.Context, f core.SalesReportFilter, w io.Writer) error
		ExpensesReport(ctx context.Context, f core.ExpensesReportFilter, w io.Writer) error
	}

	// Backend is the unified interface the state store is wired against.
	Backend interface {
		ListReader
		TopProductsReader
		Authenticator
		EntityWriter
		ReportReader
	}
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// BackendType represents the type of backend
type BackendType string

const (
	RESTBackend   BackendType = "rest"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case RESTBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
