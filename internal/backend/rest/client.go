// Package rest implements the backend port against the real store-management
// HTTP API. All calls carry the session cookie through a shared jar, the
// browser-credentials analog.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storedash/internal/core"
	applog "storedash/internal/log"
)

// ErrLoginFailed is returned for any non-200 login response.
var ErrLoginFailed = errors.New("login failed")

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// Client talks to the store-management REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *applog.Logger
}

// New creates a client rooted at baseURL (including the /api prefix). The
// jar carries the backend session cookie; pass the persisted jar so the
// session survives restarts.
func New(baseURL string, timeout time.Duration, jar http.CookieJar, logger *applog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base URL scheme %q", parsed.Scheme)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	backendLog := logger.WithComponent(applog.ComponentBackend)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: newTracedTransport(nil, backendLog),
		},
		log: backendLog,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	var out []core.Customer
	err := c.do(ctx, http.MethodGet, "/customers/allCustomers", nil, nil, &out)
	return out, err
}

func (c *Client) ListProducts(ctx context.Context) ([]core.Product, error) {
	var out []core.Product
	err := c.do(ctx, http.MethodGet, "/products/allProducts", nil, nil, &out)
	return out, err
}

func (c *Client) ListSales(ctx context.Context) ([]core.Sale, error) {
	var out []core.Sale
	err := c.do(ctx, http.MethodGet, "/sales/allSales", nil, nil, &out)
	return out, err
}

func (c *Client) ListSaleDetails(ctx context.Context) ([]core.SaleDetail, error) {
	var out []core.SaleDetail
	err := c.do(ctx, http.MethodGet, "/sales/allSalesDesc", nil, nil, &out)
	return out, err
}

func (c *Client) ListInventory(ctx context.Context) ([]core.InventoryEntry, error) {
	var out []core.InventoryEntry
	err := c.do(ctx, http.MethodGet, "/inventory/allInventory", nil, nil, &out)
	return out, err
}

func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var out []core.Expense
	err := c.do(ctx, http.MethodGet, "/expenses/allExpenses", nil, nil, &out)
	return out, err
}

func (c *Client) ListSuppliers(ctx context.Context) ([]core.Supplier, error) {
	var out []core.Supplier
	err := c.do(ctx, http.MethodGet, "/supplier/allSuppliers", nil, nil, &out)
	return out, err
}

func (c *Client) ListUdhaar(ctx context.Context) ([]core.UdhaarRecord, error) {
	var out []core.UdhaarRecord
	err := c.do(ctx, http.MethodGet, "/udhaar/allUdhaar", nil, nil, &out)
	return out, err
}

func (c *Client) TopProducts(ctx context.Context, period core.Period) ([]core.TopProduct, error) {
	if !period.IsValid() {
		return nil, core.ErrInvalidPeriod
	}
	var out []core.TopProduct
	err := c.do(ctx, http.MethodGet, "/sales/top-products/"+period.String(), nil, nil, &out)
	return out, err
}

// Login posts the credentials; a 200 response body becomes the session
// identity, any other status is a login failure.
func (c *Client) Login(ctx context.Context, creds core.Credentials) (core.Admin, error) {
	var admin core.Admin
	err := c.do(ctx, http.MethodPost, "/admin/login", nil, creds, &admin)
	if err != nil {
		var status *StatusError
		if errors.As(err, &status) {
			return core.Admin{}, fmt.Errorf("%w: status %d", ErrLoginFailed, status.Code)
		}
		return core.Admin{}, err
	}
	return admin, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/logout", nil, nil, nil)
}

func (c *Client) CreateAdmin(ctx context.Context, signup core.AdminSignup) error {
	return c.do(ctx, http.MethodPost, "/admin/createAdmin", nil, signup, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, change core.PasswordChange) error {
	return c.do(ctx, http.MethodPut, "/admin/update-password", nil, change, nil)
}

func (c *Client) AddCustomer(ctx context.Context, customer core.Customer) (core.Customer, error) {
	var out core.Customer
	err := c.do(ctx, http.MethodPost, "/customers/addCustomer", nil, customer, &out)
	return out, err
}

func (c *Client) AddSupplier(ctx context.Context, supplier core.Supplier) (core.Supplier, error) {
	var out core.Supplier
	err := c.do(ctx, http.MethodPost, "/supplier/addSupplier", nil, supplier, &out)
	return out, err
}

func (c *Client) AddExpense(ctx context.Context, expense core.Expense) (core.Expense, error) {
	var out core.Expense
	err := c.do(ctx, http.MethodPost, "/expenses/addExpense", nil, expense, &out)
	return out, err
}

func (c *Client) RecordSale(ctx context.Context, request core.SaleRequest) (core.Sale, error) {
	var out core.Sale
	err := c.do(ctx, http.MethodPost, "/sales/recordSale", nil, request, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, product core.Product) (core.Product, error) {
	var out core.Product
	err := c.do(ctx, http.MethodPut, "/products/updateProduct/"+strconv.FormatInt(id, 10), nil, product, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/products/deleteProduct/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/expenses/deleteExpense/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// UpsertInventory creates or updates the inventory row for a product. The
// endpoint takes its values as query parameters, not a body.
func (c *Client) UpsertInventory(ctx context.Context, productID int64, stockQuantity, minStockThreshold int) (core.InventoryEntry, error) {
	query := url.Values{}
	query.Set("stockQuantity", strconv.Itoa(stockQuantity))
	query.Set("minStockThreshold", strconv.Itoa(minStockThreshold))

	var out core.InventoryEntry
	err := c.do(ctx, http.MethodPost, "/inventory/"+strconv.FormatInt(productID, 10), query, nil, &out)
	return out, err
}

func (c *Client) DeleteInventory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/inventory/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) MarkUdhaarPaid(ctx context.Context, id int64) (core.UdhaarRecord, error) {
	var out core.UdhaarRecord
	err := c.do(ctx, http.MethodPut, "/udhaar/"+strconv.FormatInt(id, 10)+"/pay", nil, struct{}{}, &out)
	return out, err
}
