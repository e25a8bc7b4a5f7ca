package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"searchadmin/internal/config"
	"searchadmin/internal/entity"
	"searchadmin/internal/entity/common"
	"searchadmin/internal/model"

	"github.com/sirupsen/logrus"
)

// Services 汇总各个领域服务，共享同一个仓库
type Services struct {
	Roles        *RoleRegistry
	Users        *UserDirectory
	PageSettings *PageSettingsManager
	Queries      *SavedQueryStore
}

// NewServices 按依赖顺序创建服务
func NewServices(repo model.Repository, cfg config.Config) *Services {
	roles := NewRoleRegistry(repo, cfg.DefaultRole)
	users := NewUserDirectory(repo, roles)
	settings := NewPageSettingsManager(repo, users)
	return &Services{
		Roles:        roles,
		Users:        users,
		PageSettings: settings,
		Queries:      NewSavedQueryStore(repo, users, settings),
	}
}

// DefaultViewOptions 由配置生成新视图的默认设置
func DefaultViewOptions(cfg config.Config) entity.Document {
	options := entity.Document{
		entity.SettingsKeyFields:  common.Strings(nonEmpty(cfg.DefaultFields)...),
		entity.SettingsKeyIndices: common.Strings(nonEmpty(cfg.DefaultIndices)...),
	}
	if cfg.DefaultDocsPerPage > 0 {
		options[entity.SettingsKeyDocsPerPage] = common.Int(cfg.DefaultDocsPerPage)
	}
	if cfg.DefaultMaxColumnWidth > 0 {
		options[entity.SettingsKeyMaxColumnWidth] = common.Int(cfg.DefaultMaxColumnWidth)
	}
	return options
}

// Bootstrap 在配置了 BOOTSTRAP_USER_NAME 时创建初始用户及其默认视图。已存在的记录保持不变
func (s *Services) Bootstrap(ctx context.Context, cfg config.Config) error {
	name := strings.TrimSpace(cfg.BootstrapUserName)
	if name == "" {
		return nil
	}

	user, err := s.Users.FindByName(ctx, name)
	switch {
	case err == nil:
		logrus.WithField("user", name).Debug("bootstrap user already exists")
	case errors.Is(err, entity.ErrNotFound):
		role, err := s.Roles.FindByName(ctx, cfg.BootstrapUserRole)
		if err != nil {
			return fmt.Errorf("bootstrap role %q: %w", cfg.BootstrapUserRole, err)
		}
		user, err = s.Users.Create(ctx, CreateUserParams{
			Name:     name,
			Email:    cfg.BootstrapUserEmail,
			Password: cfg.BootstrapUserPassword,
			RoleID:   &role.ID,
		})
		if err != nil {
			return fmt.Errorf("bootstrap user %q: %w", name, err)
		}
	default:
		return err
	}

	settingsName := strings.TrimSpace(cfg.BootstrapPageSettings)
	if settingsName == "" {
		return nil
	}
	_, err = s.PageSettings.FindByName(ctx, settingsName)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, entity.ErrNotFound):
		return err
	}
	if _, err := s.PageSettings.Create(ctx, settingsName, user.Name, DefaultViewOptions(cfg)); err != nil {
		return fmt.Errorf("bootstrap page settings %q: %w", settingsName, err)
	}
	return nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
