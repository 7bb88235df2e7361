package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"storedash/internal/backend"
	"storedash/internal/cli"
	"storedash/internal/core"
	"storedash/internal/dashboard"
	applog "storedash/internal/log"
	"storedash/internal/store"
)

const usage = `Usage: storedash <command> [flags]

Commands:
  login      authenticate against the store-management API
  logout     end the session locally and remotely
  dashboard  fetch all entity lists and print the dashboard
  report     download a sales or expenses PDF report
  darkmode   toggle the persisted dark-mode preference
  status     show session and preference state
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	state := cli.InitStateDB(logger, cfg.StateDBPath)
	defer state.Close()

	jar, err := cli.NewSessionJar(ctx, state, cfg.BackendURL)
	if err != nil {
		logger.Error("Failed to restore session cookies", applog.FieldError, err)
		os.Exit(1)
	}

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	backendConfig.Jar = jar

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	s := store.New(ctx, result.Backend, state, logger)

	var cmdErr error
	persistJar := true
	switch os.Args[1] {
	case "login":
		cmdErr = runLogin(ctx, s, os.Args[2:])
	case "logout":
		// Logout already cleared the persisted cookies; writing the jar
		// back would resurrect the dead session.
		persistJar = false
		s.Logout(ctx)
		fmt.Println("Logged out.")
	case "dashboard":
		cmdErr = runDashboard(ctx, s, result.Backend, logger, os.Args[2:])
	case "report":
		cmdErr = runReport(ctx, result.Backend, os.Args[2:])
	case "darkmode":
		enabled := s.ToggleDarkMode(ctx)
		fmt.Printf("Dark mode: %v\n", enabled)
	case "status":
		runStatus(s, cfg.BackendURL)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if cmdErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", cmdErr)
		os.Exit(1)
	}

	// Session cookies may have been refreshed by any authenticated call.
	if persistJar {
		if err := cli.PersistSessionJar(ctx, state, jar, cfg.BackendURL); err != nil {
			logger.Warn("Failed to persist session cookies", applog.FieldError, err)
		}
	}
}

func runLogin(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "admin username")
	password := fs.String("p", "", "admin password (prompted when omitted)")
	fs.Parse(args)

	reader := bufio.NewReader(os.Stdin)
	if *username == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read username: %w", err)
		}
		*username = strings.TrimSpace(line)
	}
	if *password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimSpace(line)
	}

	admin, err := s.Authenticate(ctx, core.Credentials{Username: *username, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s.\n", admin.Username)
	return nil
}

func runDashboard(ctx context.Context, s *store.Store, b backend.Backend, logger *applog.Logger, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	period := fs.String("period", string(core.PeriodAll), "top products window: week, month or all")
	fs.Parse(args)

	if _, ok := s.User(); !ok {
		return errors.New("not logged in, run 'storedash login' first")
	}

	d := dashboard.New(s, b, logger)
	if err := d.UsePeriod(core.Period(*period)); err != nil {
		return err
	}
	d.Load(ctx)

	stats := d.Stats()
	fmt.Printf("Total sales:     %.2f\n", stats.TotalSales)
	fmt.Printf("Inventory items: %d\n", stats.TotalInventory)
	fmt.Printf("Pending udhaar:  %.2f\n", stats.PendingUdhaar)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Println("\nRecent transactions:")
	for _, tx := range d.Transactions() {
		fmt.Fprintf(w, "  %s\t%s\t%.2f\t%s\n", tx.Kind, tx.Label, tx.Amount, tx.Date)
	}
	w.Flush()

	fmt.Println("\nSales by day:")
	for _, day := range d.SalesByDay() {
		fmt.Fprintf(w, "  %s\t%.2f\n", day.Day, day.Total)
	}
	w.Flush()

	fmt.Printf("\nTop products (%s):\n", d.Period())
	for _, p := range d.TopProducts() {
		fmt.Fprintf(w, "  %s\t%d\n", p.ProductName, p.QuantitySold)
	}
	w.Flush()
	return nil
}

func runReport(ctx context.Context, b backend.Backend, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: storedash report <sales|expenses> [flags]")
	}
	kind := args[0]

	fs := flag.NewFlagSet("report", flag.ExitOnError)
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date (YYYY-MM-DD)")
	customer := fs.Int64("customer", 0, "customer id filter (sales only)")
	mode := fs.String("mode", "", "payment mode filter (sales only)")
	category := fs.String("category", "", "category filter (expenses only)")
	out := fs.String("o", "", "output file (defaults to <kind>-report.pdf)")
	fs.Parse(args[1:])

	path := *out
	if path == "" {
		path = kind + "-report.pdf"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch kind {
	case "sales":
		err = b.SalesReport(ctx, core.SalesReportFilter{
			From:        *from,
			To:          *to,
			CustomerID:  *customer,
			PaymentMode: core.PaymentMode(*mode),
		}, f)
	case "expenses":
		err = b.ExpensesReport(ctx, core.ExpensesReportFilter{
			From:     *from,
			To:       *to,
			Category: *category,
		}, f)
	default:
		err = fmt.Errorf("unknown report kind %q", kind)
	}
	if err != nil {
		os.Remove(path)
		return err
	}

	fmt.Printf("Report written to %s\n", path)
	return nil
}

func runStatus(s *store.Store, backendURL string) {
	if user, ok := s.User(); ok {
		fmt.Printf("Logged in as %s\n", user)
	} else {
		fmt.Println("Not logged in")
	}
	fmt.Printf("Dark mode: %v\n", s.DarkMode())
	fmt.Printf("Backend:   %s\n", backendURL)
}
