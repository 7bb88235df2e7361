package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"storedash/internal/core"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client, err := New(srv.URL, 5*time.Second, jar, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New("ftp://example.com", time.Second, nil, nil); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
	if _, err := New("://bad", time.Second, nil, nil); err == nil {
		t.Fatal("expected error for unparsable URL")
	}
}

func TestListCustomers(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/customers/allCustomers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]core.Customer{
			{CustomerID: 1, Fname: "Asha", Lname: "Patel", Phone: "9876543210"},
		})
	}))

	customers, err := client.ListCustomers(context.Background())
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 1 || customers[0].Fname != "Asha" {
		t.Fatalf("unexpected customers %+v", customers)
	}
}

func TestStatusErrorOnServerFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.ListSales(context.Background())
	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if status.Code != http.StatusInternalServerError || status.Path != "/sales/allSales" {
		t.Fatalf("unexpected status error %+v", status)
	}
}

func TestLoginSuccessStoresSessionCookie(t *testing.T) {
	var sawCookie bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/login":
			var creds core.Credentials
			if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
				t.Errorf("decode credentials: %v", err)
			}
			if creds.Username != "admin" || creds.Password != "secret" {
				t.Errorf("unexpected credentials %+v", creds)
			}
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/"})
			json.NewEncoder(w).Encode(core.Admin{Username: "admin"})
		case "/customers/allCustomers":
			if _, err := r.Cookie("JSESSIONID"); err == nil {
				sawCookie = true
			}
			w.Write([]byte("[]"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	admin, err := client.Login(context.Background(), core.Credentials{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if admin.Username != "admin" {
		t.Fatalf("unexpected admin %+v", admin)
	}

	// The jar must replay the session cookie on the next request.
	if _, err := client.ListCustomers(context.Background()); err != nil {
		t.Fatalf("list after login: %v", err)
	}
	if !sawCookie {
		t.Fatal("session cookie was not sent on subsequent request")
	}
}

func TestLoginFailureMapsToSentinel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))

	_, err := client.Login(context.Background(), core.Credentials{Username: "admin", Password: "wrong"})
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
}

func TestTopProductsPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sales/top-products/week" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]core.TopProduct{{ProductName: "Rice", QuantitySold: 12}})
	}))

	top, err := client.TopProducts(context.Background(), core.PeriodWeek)
	if err != nil {
		t.Fatalf("top products: %v", err)
	}
	if len(top) != 1 || top[0].QuantitySold != 12 {
		t.Fatalf("unexpected top products %+v", top)
	}

	if _, err := client.TopProducts(context.Background(), core.Period("year")); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Fatalf("expected invalid period without a request, got %v", err)
	}
}

func TestUpsertInventoryUsesQueryParams(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/inventory/7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("stockQuantity") != "40" || q.Get("minStockThreshold") != "5" {
			t.Errorf("unexpected query %v", q)
		}
		json.NewEncoder(w).Encode(core.InventoryEntry{
			InventoryID:       3,
			Product:           core.Product{ProductID: 7, Name: "Sugar"},
			StockQuantity:     40,
			MinStockThreshold: 5,
		})
	}))

	entry, err := client.UpsertInventory(context.Background(), 7, 40, 5)
	if err != nil {
		t.Fatalf("upsert inventory: %v", err)
	}
	if entry.InventoryID != 3 || entry.StockQuantity != 40 {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestMarkUdhaarPaid(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/udhaar/12/pay" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(core.UdhaarRecord{UdhaarID: 12, Status: core.UdhaarPaid})
	}))

	record, err := client.MarkUdhaarPaid(context.Background(), 12)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if record.Status != core.UdhaarPaid {
		t.Fatalf("expected PAID, got %s", record.Status)
	}
}

func TestRecordSaleSendsUdhaarMarker(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sales/recordSale" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req core.SaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode sale request: %v", err)
		}
		if req.Udhaar == nil || req.Udhaar.Status != core.UdhaarPending {
			t.Errorf("expected pending udhaar marker, got %+v", req.Udhaar)
		}
		json.NewEncoder(w).Encode(core.Sale{SaleID: 5, TotalAmount: 250, PaymentMode: core.PayUdhaar})
	}))

	sale, err := client.RecordSale(context.Background(), core.SaleRequest{
		CustomerID:  1,
		PaymentMode: core.PayUdhaar,
		Items:       []core.SaleItem{{ProductID: 2, Quantity: 5, UnitPrice: 50}},
		Udhaar:      &core.UdhaarMarker{Status: core.UdhaarPending},
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if sale.SaleID != 5 {
		t.Fatalf("unexpected sale %+v", sale)
	}
}

func TestDeleteProduct(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/products/deleteProduct/9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteProduct(context.Background(), 9); err != nil {
		t.Fatalf("delete product: %v", err)
	}
}

func TestSalesReportStreamsPDF(t *testing.T) {
	const pdf = "%PDF-1.4 report body"
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reports/sales" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("from") != "2024-01-01" || q.Get("paymentMode") != "CASH" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Has("customerId") {
			t.Error("zero customer id must be omitted")
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte(pdf))
	}))

	var buf bytes.Buffer
	err := client.SalesReport(context.Background(), core.SalesReportFilter{
		From:        "2024-01-01",
		PaymentMode: core.PayCash,
	}, &buf)
	if err != nil {
		t.Fatalf("sales report: %v", err)
	}
	if buf.String() != pdf {
		t.Fatalf("unexpected report body %q", buf.String())
	}
}

func TestExpensesReportFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no data", http.StatusNotFound)
	}))

	var buf bytes.Buffer
	err := client.ExpensesReport(context.Background(), core.ExpensesReportFilter{Category: "Fixed"}, &buf)
	var status *StatusError
	if !errors.As(err, &status) || status.Code != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("failed download must not write to w, got %q", buf.String())
	}
}

func TestTracedTransportStats(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))

	transport, ok := client.http.Transport.(*tracedTransport)
	if !ok {
		t.Fatal("client transport is not traced")
	}
	if n, _ := transport.Stats(); n != 0 {
		t.Fatalf("expected zero requests before any call, got %d", n)
	}

	if _, err := client.ListProducts(context.Background()); err != nil {
		t.Fatalf("list products: %v", err)
	}
	if _, err := client.ListExpenses(context.Background()); err != nil {
		t.Fatalf("list expenses: %v", err)
	}

	if n, _ := transport.Stats(); n != 2 {
		t.Fatalf("expected 2 recorded requests, got %d", n)
	}
}
