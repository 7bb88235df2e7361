package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storedash/internal/backend/memory"
	"storedash/internal/store"
)

func TestLogoutCommandFlow(t *testing.T) {
	ctx := context.Background()
	fake := memory.New()
	fake.SeedAdmin("admin", "secret")
	s := store.New(ctx, fake, nil, nil)

	if err := runLogin(ctx, s, []string{"-u", "admin", "-p", "secret"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, ok := s.User(); !ok {
		t.Fatal("login did not establish a session")
	}

	s.Logout(ctx)
	if _, ok := s.User(); ok {
		t.Fatal("logout did not clear the session")
	}
}

func TestRunReportWritesFile(t *testing.T) {
	ctx := context.Background()
	fake := memory.New()

	path := filepath.Join(t.TempDir(), "sales.pdf")
	if err := runReport(ctx, fake, []string{"sales", "-o", path}); err != nil {
		t.Fatalf("report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("report is not a PDF, starts with %q", string(data[:min(len(data), 8)]))
	}
}

func TestRunReportRejectsUnknownKind(t *testing.T) {
	fake := memory.New()
	path := filepath.Join(t.TempDir(), "balance.pdf")
	if err := runReport(context.Background(), fake, []string{"balance", "-o", path}); err == nil {
		t.Fatal("expected error for unknown report kind")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("failed report must not leave a file behind")
	}
}
