package core

import (
	"sort"
	"strings"
	"time"
)

const (
	KindSale    TransactionKind = "sale"
	KindExpense TransactionKind = "expense"
)

// recentLimit caps the recent-transactions feed.
const recentLimit = 5

type (
	TransactionKind string

	// Stats is the dashboard stat summary derived from the cached lists.
	Stats struct {
		TotalSales     float64
		TotalInventory int
		PendingUdhaar  float64
	}

	// Transaction is a sale or expense normalized into one feed entry.
	Transaction struct {
		Kind   TransactionKind
		ID     int64
		Label  string
		Amount float64
		Date   string
	}

	// DayTotal is one bucket of the sales-by-day series.
	DayTotal struct {
		Day   string
		Total float64
	}
)

// TotalSales sums the total amount over all sales. An empty list yields 0.
func TotalSales(sales []Sale) float64 {
	var total float64
	for _, s := range sales {
		total += s.TotalAmount
	}
	return total
}

// TotalInventory counts inventory rows.
func TotalInventory(inventory []InventoryEntry) int {
	return len(inventory)
}

// PendingUdhaar sums the amount due over credit records not yet marked paid.
// The unpaid feed is expected to be pre-filtered by the data source; skipping
// PAID rows here keeps the result correct when it is not.
func PendingUdhaar(records []UdhaarRecord) float64 {
	var total float64
	for _, r := range records {
		if r.Status == UdhaarPaid {
			continue
		}
		total += r.AmountDue
	}
	return total
}

// ComputeStats derives the three dashboard stat cards.
func ComputeStats(sales []Sale, inventory []InventoryEntry, unpaid []UdhaarRecord) Stats {
	return Stats{
		TotalSales:     TotalSales(sales),
		TotalInventory: TotalInventory(inventory),
		PendingUdhaar:  PendingUdhaar(unpaid),
	}
}

// RecentTransactions merges sale-description and expense records into one
// feed, tags each entry by which date field was present, sorts descending by
// date and keeps the newest five. Entries with equal dates keep merge order
// (sales before expenses); the relative order of ties is not a contract.
func RecentTransactions(details []SaleDetail, expenses []Expense) []Transaction {
	merged := make([]Transaction, 0, len(details)+len(expenses))
	for _, d := range details {
		kind := KindSale
		if d.SaleDate == "" {
			kind = KindExpense
		}
		merged = append(merged, Transaction{
			Kind:   kind,
			ID:     d.SaleID,
			Label:  d.CustomerName,
			Amount: d.TotalAmount,
			Date:   d.SaleDate,
		})
	}
	for _, e := range expenses {
		merged = append(merged, Transaction{
			Kind:   KindExpense,
			ID:     e.ExpenseID,
			Label:  e.Description,
			Amount: e.Amount,
			Date:   e.ExpenseDate,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return parseWhen(merged[i].Date).After(parseWhen(merged[j].Date))
	})

	if len(merged) > recentLimit {
		merged = merged[:recentLimit]
	}
	return merged
}

// SalesByDay buckets sales by the calendar-day portion of their date (the
// substring before the time separator) and sums the amounts per bucket.
// Buckets appear in first-seen order of days in the source list.
func SalesByDay(sales []Sale) []DayTotal {
	index := make(map[string]int, len(sales))
	series := make([]DayTotal, 0, len(sales))
	for _, s := range sales {
		day := s.SaleDate
		if cut := strings.IndexByte(day, 'T'); cut >= 0 {
			day = day[:cut]
		}
		if i, ok := index[day]; ok {
			series[i].Total += s.TotalAmount
			continue
		}
		index[day] = len(series)
		series = append(series, DayTotal{Day: day, Total: s.TotalAmount})
	}
	return series
}

// dateLayouts covers the timestamp shapes the backend emits.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseWhen parses a record date, returning the zero time for values it
// cannot parse so they sort to the end of a descending feed.
func parseWhen(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
