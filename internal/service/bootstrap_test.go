package service

import (
	"context"
	"errors"
	"testing"

	"searchadmin/internal/entity"
)

func TestBootstrap(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()
	cfg := testConfig()
	cfg.BootstrapUserName = "sa"
	cfg.BootstrapUserEmail = "sa@test.net"
	cfg.BootstrapUserPassword = "changeme"
	cfg.DefaultIndices = []string{"email", " "}

	for i := 0; i < 2; i++ {
		if err := svc.Bootstrap(ctx, cfg); err != nil {
			t.Fatalf("bootstrap run %d: %v", i, err)
		}
	}

	user, err := svc.Users.FindByName(ctx, "sa")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if user.Role == nil || user.Role.Name != "admin" {
		t.Errorf("expected admin role, got %+v", user.Role)
	}

	settings, err := svc.PageSettings.FindByName(ctx, "General")
	if err != nil {
		t.Fatalf("find settings: %v", err)
	}
	if n, _ := settings.DocsPerPage(); n != 50 {
		t.Errorf("expected docs_per_page 50, got %d", n)
	}
	if n, _ := settings.MaxColumnWidth(); n != 50 {
		t.Errorf("expected max_column_width 50, got %d", n)
	}
	if got := settings.Fields(); len(got) != 2 || got[0] != "tags" || got[1] != "comments" {
		t.Errorf("unexpected fields %v", got)
	}
	if got := settings.Indices(); len(got) != 1 || got[0] != "email" {
		t.Errorf("unexpected indices %v", got)
	}
}

func TestBootstrapSkippedWithoutUser(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()
	if err := svc.Bootstrap(ctx, testConfig()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := svc.PageSettings.FindByName(ctx, "General"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("expected nothing created, got %v", err)
	}
}

func TestBootstrapUnknownRole(t *testing.T) {
	svc, _ := setupServices(t)
	cfg := testConfig()
	cfg.BootstrapUserName = "sa"
	cfg.BootstrapUserEmail = "sa@test.net"
	cfg.BootstrapUserPassword = "changeme"
	cfg.BootstrapUserRole = "superadmin"

	if err := svc.Bootstrap(context.Background(), cfg); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
