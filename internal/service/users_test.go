package service

import (
	"context"
	"errors"
	"testing"

	"searchadmin/internal/auth"
	"searchadmin/internal/entity"
)

func TestUserDirectoryCreateDefaultRole(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	user := mustCreateUser(t, svc, "sa")
	if user.Role == nil || user.Role.Name != "user" {
		t.Fatalf("expected default role, got %+v", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret-sa" {
		t.Fatal("expected a hashed password")
	}
	if _, err := user.Password(); !errors.Is(err, entity.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation reading password, got %v", err)
	}

	loaded, err := svc.Users.FindByName(ctx, "sa")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Role == nil || loaded.Role.Name != "user" {
		t.Errorf("expected role to be loaded, got %+v", loaded.Role)
	}
}

func TestUserDirectoryCreateExplicitRole(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	admin, err := svc.Roles.FindByName(ctx, "admin")
	if err != nil {
		t.Fatalf("find role: %v", err)
	}
	user, err := svc.Users.Create(ctx, CreateUserParams{Name: "root", Email: "root@test.net", Password: "pw", RoleID: &admin.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.RoleID != admin.ID {
		t.Errorf("expected role %d, got %d", admin.ID, user.RoleID)
	}

	missing := uint(999)
	if _, err := svc.Users.Create(ctx, CreateUserParams{Name: "x", Email: "x@test.net", Password: "pw", RoleID: &missing}); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown role, got %v", err)
	}
}

func TestUserDirectoryCreateErrors(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()
	mustCreateUser(t, svc, "sa")

	tests := []struct {
		name    string
		params  CreateUserParams
		wantErr error
	}{
		{name: "duplicate name", params: CreateUserParams{Name: "sa", Email: "other@test.net", Password: "pw"}, wantErr: entity.ErrConstraintViolation},
		{name: "duplicate email", params: CreateUserParams{Name: "other", Email: "sa@test.net", Password: "pw"}, wantErr: entity.ErrConstraintViolation},
		{name: "empty name", params: CreateUserParams{Email: "e@test.net", Password: "pw"}, wantErr: entity.ErrInvalidInput},
		{name: "empty email", params: CreateUserParams{Name: "e", Password: "pw"}, wantErr: entity.ErrInvalidInput},
		{name: "blank password", params: CreateUserParams{Name: "e", Email: "e@test.net", Password: " "}, wantErr: entity.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Users.Create(ctx, tt.params); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	original, err := svc.Users.FindByName(ctx, "sa")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if original.Email != "sa@test.net" {
		t.Errorf("expected original email, got %q", original.Email)
	}
}

func TestUserDirectoryMissingDefaultRole(t *testing.T) {
	repo := setupTestRepo(t)
	users := NewUserDirectory(repo, NewRoleRegistry(repo, "user"))

	_, err := users.Create(context.Background(), CreateUserParams{Name: "sa", Email: "sa@test.net", Password: "pw"})
	if !errors.Is(err, entity.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestUserDirectoryPasswords(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()
	mustCreateUser(t, svc, "sa")

	if err := svc.Users.VerifyPassword(ctx, "sa", "secret-sa"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.Users.SetPassword(ctx, "sa", "rotated"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.Users.VerifyPassword(ctx, "sa", "secret-sa"); !errors.Is(err, auth.ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch for old password, got %v", err)
	}
	if err := svc.Users.VerifyPassword(ctx, "sa", "rotated"); err != nil {
		t.Errorf("verify new password: %v", err)
	}
	if err := svc.Users.SetPassword(ctx, "ghost", "pw"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserDirectoryListAndAssignRole(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()
	for _, name := range []string{"sa", "zed", "liz"} {
		mustCreateUser(t, svc, name)
	}

	if _, err := svc.Users.AssignRole(ctx, "zed", "moderator"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	mods, meta, err := svc.Users.ListByRole(ctx, "moderator", entity.BaseParams{})
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if meta.Total != 1 || mods[0].Name != "zed" {
		t.Errorf("expected only zed, got %d", meta.Total)
	}

	withZ, _, err := svc.Users.List(ctx, &entity.UserQuery{Keyword: "z"})
	if err != nil {
		t.Fatalf("list keyword: %v", err)
	}
	if len(withZ) != 2 {
		t.Errorf("expected zed and liz, got %d", len(withZ))
	}
}

func TestUserDirectoryDeleteRestricted(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()
	mustCreateUser(t, svc, "sa")
	mustCreateUser(t, svc, "temp")
	mustCreateSettings(t, svc, "General email", "sa")

	if err := svc.Users.Delete(ctx, "sa"); !errors.Is(err, entity.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
	if err := svc.Users.Delete(ctx, "temp"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Users.FindByName(ctx, "temp"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
