package model

import (
	"context"
	"errors"
	"strings"

	"searchadmin/internal/config"
	"searchadmin/internal/entity"

	"github.com/sirupsen/logrus"
)

var roleDescriptions = map[string]string{
	"admin":      "Administrator with full access",
	"user":       "Regular user",
	"moderator":  "Curates shared views and saved queries",
	"superadmin": "Superuser to handle non-standard situations",
}

// SeedDefaultRoles ensures the configured roles exist, including the default role
// assigned to users created without an explicit role.
func SeedDefaultRoles(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	candidates := make([]string, 0, len(cfg.SeedRoles)+1)
	candidates = append(candidates, cfg.SeedRoles...)
	candidates = append(candidates, cfg.DefaultRole)

	names := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, name := range candidates {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		names = append(names, trimmed)
	}

	for _, name := range names {
		_, err := repo.GetRoleByName(ctx, name)
		switch {
		case err == nil:
			continue
		case errors.Is(err, entity.ErrNotFound):
			role := entity.DbRole{
				Name:        name,
				Description: roleDescriptions[strings.ToLower(name)],
			}
			err := repo.CreateRole(ctx, &role)
			switch {
			case err == nil:
				logrus.WithField("role", name).Info("seeded role")
			case errors.Is(err, entity.ErrConstraintViolation):
				logrus.WithField("role", name).Debug("role created concurrently")
			default:
				return err
			}
		default:
			return err
		}
	}
	return nil
}
