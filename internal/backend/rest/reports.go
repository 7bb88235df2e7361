package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"storedash/internal/core"
	applog "storedash/internal/log"
)

// SalesReport streams the sales PDF for the given filters into w.
func (c *Client) SalesReport(ctx context.Context, f core.SalesReportFilter, w io.Writer) error {
	query := url.Values{}
	if f.From != "" {
		query.Set("from", f.From)
	}
	if f.To != "" {
		query.Set("to", f.To)
	}
	if f.CustomerID != 0 {
		query.Set("customerId", strconv.FormatInt(f.CustomerID, 10))
	}
	if f.PaymentMode != "" {
		query.Set("paymentMode", string(f.PaymentMode))
	}
	return c.download(ctx, "/reports/sales", query, w)
}

// ExpensesReport streams the expenses PDF for the given filters into w.
func (c *Client) ExpensesReport(ctx context.Context, f core.ExpensesReportFilter, w io.Writer) error {
	query := url.Values{}
	if f.From != "" {
		query.Set("from", f.From)
	}
	if f.To != "" {
		query.Set("to", f.To)
	}
	if f.Category != "" {
		query.Set("category", f.Category)
	}
	return c.download(ctx, "/reports/expenses", query, w)
}

func (c *Client) download(ctx context.Context, path string, query url.Values, w io.Writer) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: http.MethodGet, Path: path, Code: resp.StatusCode}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("stream report %s: %w", path, err)
	}
	c.log.Info("Report downloaded", applog.FieldOperation, applog.OpReport,
		applog.FieldPath, path, applog.FieldCount, n)
	return nil
}
