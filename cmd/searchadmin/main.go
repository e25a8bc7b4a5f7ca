package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"searchadmin/internal/config"
	"searchadmin/internal/model"
	"searchadmin/internal/service"
	"searchadmin/internal/storage"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		os.Exit(1)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.WithField("level", cfg.LogLevel).Warn("unknown log level, keeping info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.WithError(err).Error("searchadmin failed")
		stop()
		os.Exit(1)
	}
}

// run 迁移数据库、写入种子数据，并按配置导出归档
func run(ctx context.Context, cfg config.Config) error {
	repo, err := model.InitRepository(&cfg)
	if err != nil {
		return err
	}

	if err := model.SeedDefaultRoles(ctx, repo, cfg); err != nil {
		return err
	}

	services := service.NewServices(repo, cfg)
	if _, err := services.Roles.ResolveDefault(ctx); err != nil {
		return err
	}
	if err := services.Bootstrap(ctx, cfg); err != nil {
		return err
	}

	if cfg.ArchiveOnStart {
		store, err := storage.NewStorage(cfg)
		if err != nil {
			return err
		}
		if _, err := service.NewArchiveService(repo, store).ExportAll(ctx); err != nil {
			return err
		}
	}

	roles, err := services.Roles.List(ctx)
	if err != nil {
		return err
	}
	_, userMeta, err := services.Users.List(ctx, nil)
	if err != nil {
		return err
	}
	queries, err := services.Queries.List(ctx, nil)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"db_type": cfg.DBType,
		"roles":   len(roles),
		"users":   userMeta.Total,
		"queries": queries.Meta.Total,
	}).Info("searchadmin ready")
	return nil
}
