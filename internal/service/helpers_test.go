package service

import (
	"context"
	"testing"

	"searchadmin/internal/config"
	"searchadmin/internal/entity"
	"searchadmin/internal/entity/common"
	"searchadmin/internal/model"
	"searchadmin/internal/model/sql"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRepo(t *testing.T) model.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=1"), model.NewGormConfig(logger.Default.LogMode(logger.Silent)))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := model.MigrateSchema(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return sql.NewGormRepository(db)
}

func testConfig() config.Config {
	return config.Config{
		DefaultRole:           "user",
		SeedRoles:             []string{"admin", "user", "moderator"},
		BootstrapUserRole:     "admin",
		BootstrapPageSettings: "General",
		DefaultDocsPerPage:    50,
		DefaultMaxColumnWidth: 50,
		DefaultFields:         []string{"tags", "comments"},
	}
}

// setupServices returns services over a fresh database with the default roles seeded.
func setupServices(t *testing.T) (*Services, model.Repository) {
	t.Helper()
	repo := setupTestRepo(t)
	cfg := testConfig()
	if err := model.SeedDefaultRoles(context.Background(), repo, cfg); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return NewServices(repo, cfg), repo
}

func mustCreateUser(t *testing.T, svc *Services, name string) *entity.DbUser {
	t.Helper()
	user, err := svc.Users.Create(context.Background(), CreateUserParams{
		Name:     name,
		Email:    name + "@test.net",
		Password: "secret-" + name,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func mustCreateSettings(t *testing.T, svc *Services, name, owner string) *entity.DbPageSettings {
	t.Helper()
	settings, err := svc.PageSettings.Create(context.Background(), name, owner, entity.Document{
		entity.SettingsKeyIndices: common.Strings("email"),
	})
	if err != nil {
		t.Fatalf("create page settings %s: %v", name, err)
	}
	return settings
}

func matchAll(value string) entity.Document {
	return entity.Document{"query": common.Map(entity.Document{
		"match": common.Map(entity.Document{"_all": common.String(value)}),
	})}
}
