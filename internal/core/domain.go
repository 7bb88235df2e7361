package core

import (
	"errors"
	"strings"
)

const (
	PayCash   PaymentMode = "CASH"
	PayUPI    PaymentMode = "UPI"
	PayCard   PaymentMode = "CARD"
	PayUdhaar PaymentMode = "UDHAAR"
)

const (
	UdhaarPending UdhaarStatus = "PENDING"
	UdhaarPaid    UdhaarStatus = "PAID"
	UdhaarOverdue UdhaarStatus = "OVERDUE"
)

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

type (
	PaymentMode  string
	UdhaarStatus string
	Period       string

	// Customer mirrors the backend customer record. Field names follow the
	// backend's camelCase JSON; the client never reshapes records.
	Customer struct {
		CustomerID int64  `json:"customerId"`
		Fname      string `json:"fname"`
		Lname      string `json:"lname"`
		Phone      string `json:"phone"`
		Email      string `json:"email"`
	}

	Product struct {
		ProductID       int64   `json:"productId"`
		Name            string  `json:"name"`
		Price           float64 `json:"price"`
		Category        string  `json:"category"`
		Unit            string  `json:"unit"`
		QuantityPerUnit float64 `json:"quantityPerUnit"`
	}

	// Sale is the raw sale total record returned by /sales/allSales.
	Sale struct {
		SaleID      int64       `json:"saleId"`
		CustomerID  int64       `json:"customerId"`
		SaleDate    string      `json:"saleDate"`
		TotalAmount float64     `json:"totalAmount"`
		PaymentMode PaymentMode `json:"paymentMode"`
	}

	SaleItem struct {
		ProductID int64   `json:"productId"`
		Quantity  float64 `json:"quantity"`
		UnitPrice float64 `json:"unitPrice"`
	}

	// SaleDetail is the sale-description record: a sale enriched with the
	// resolved customer name and line items.
	SaleDetail struct {
		SaleID       int64       `json:"saleId"`
		CustomerName string      `json:"customerName"`
		SaleDate     string      `json:"saleDate"`
		TotalAmount  float64     `json:"totalAmount"`
		PaymentMode  PaymentMode `json:"paymentMode"`
		Items        []SaleItem  `json:"items"`
	}

	// UdhaarMarker is attached to a sale request when the payment mode is
	// UDHAAR so the backend opens a credit record alongside the sale.
	UdhaarMarker struct {
		Status UdhaarStatus `json:"status"`
	}

	// SaleRequest is the create payload for /sales/recordSale.
	SaleRequest struct {
		CustomerID  int64         `json:"customerId"`
		PaymentMode PaymentMode   `json:"paymentMode"`
		Items       []SaleItem    `json:"items"`
		Udhaar      *UdhaarMarker `json:"udhaar,omitempty"`
	}

	InventoryEntry struct {
		InventoryID       int64   `json:"inventoryId"`
		Product           Product `json:"product"`
		StockQuantity     int     `json:"stockQuantity"`
		MinStockThreshold int     `json:"minStockThreshold"`
	}

	Expense struct {
		ExpenseID   int64   `json:"expenseId"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		ExpenseDate string  `json:"expenseDate"`
	}

	Supplier struct {
		SupplierID int64  `json:"supplierId"`
		Name       string `json:"name"`
		Contact    string `json:"contact"`
		Email      string `json:"email"`
		Address    string `json:"address"`
	}

	// UdhaarRecord is a store-credit record, pending until marked paid.
	UdhaarRecord struct {
		UdhaarID     int64        `json:"udhaarId"`
		CustomerName string       `json:"customerName"`
		AmountDue    float64      `json:"amountDue"`
		DueDate      string       `json:"dueDate"`
		Status       UdhaarStatus `json:"status"`
	}

	TopProduct struct {
		ProductName  string `json:"productName"`
		QuantitySold int    `json:"quantitySold"`
	}

	// Admin is the identity returned by a successful login.
	Admin struct {
		Username string `json:"username"`
		Email    string `json:"email,omitempty"`
	}

	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	AdminSignup struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}

	PasswordChange struct {
		Username    string `json:"username"`
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}

	// SalesReportFilter narrows the sales PDF report. Zero values mean
	// "no filter" and are omitted from the query string.
	SalesReportFilter struct {
		From        string
		To          string
		CustomerID  int64
		PaymentMode PaymentMode
	}

	ExpensesReportFilter struct {
		From     string
		To       string
		Category string
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyUsername    = errors.New("empty username")
	ErrEmptyPassword    = errors.New("empty password")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrNoItems          = errors.New("sale has no items")
	ErrNoCustomer       = errors.New("sale has no customer")
	ErrInvalidPayment   = errors.New("invalid payment mode")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// IsValid reports whether the period is one the backend accepts.
func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodAll:
		return true
	default:
		return false
	}
}

func (p Period) String() string {
	return string(p)
}

func (m PaymentMode) IsValid() bool {
	switch m {
	case PayCash, PayUPI, PayCard, PayUdhaar:
		return true
	default:
		return false
	}
}

// validEmail performs the same shallow shape check the entry forms do: one
// "@" with a dot somewhere after it. Real validation belongs to the backend.
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at < 1 {
		return false
	}
	dot := strings.LastIndex(s, ".")
	return dot > at+1 && dot < len(s)-1
}

func validPhone(s string) bool {
	if len(s) < 7 {
		return false
	}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '+' || r == '-' || r == ' ' {
			continue
		}
		return false
	}
	return true
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Fname) == "" {
		return ErrEmptyName
	}
	if !validPhone(c.Phone) {
		return ErrInvalidPhone
	}
	if c.Email != "" && !validEmail(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (s Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Email != "" && !validEmail(s.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func (r SaleRequest) Validate() error {
	if r.CustomerID == 0 {
		return ErrNoCustomer
	}
	if !r.PaymentMode.IsValid() {
		return ErrInvalidPayment
	}
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range r.Items {
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if it.UnitPrice < 0 {
			return ErrInvalidPrice
		}
	}
	return nil
}

func (a AdminSignup) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if a.Password == "" {
		return ErrEmptyPassword
	}
	if a.Email != "" && !validEmail(a.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func (p PasswordChange) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return ErrEmptyUsername
	}
	if p.OldPassword == "" || p.NewPassword == "" {
		return ErrEmptyPassword
	}
	return nil
}
