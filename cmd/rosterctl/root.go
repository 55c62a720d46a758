package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/huming2207/Teammates-SEPT/config"
	"github.com/huming2207/Teammates-SEPT/internal/repository"
	"github.com/huming2207/Teammates-SEPT/internal/service"
	"github.com/huming2207/Teammates-SEPT/pkg/database"
	applogger "github.com/huming2207/Teammates-SEPT/pkg/logger"
)

// app 子命令共享的运行时依赖，按需惰性初始化
type app struct {
	configPath string

	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "课程名册服务运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")

	root.AddCommand(
		newMigrateCmd(a),
		newExportCmd(a),
		newDeleteCourseCmd(a),
		newIssueTokenCmd(a),
	)
	return root
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) openDB() (*gorm.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.NewDB(&a.cfg.Database, a.cfg.Log.Level, a.logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	a.db = db
	return db, nil
}

func (a *app) sqlDB() (*sql.DB, error) {
	db, err := a.openDB()
	if err != nil {
		return nil, err
	}
	return db.DB()
}

// services 构建与 HTTP 服务相同的 Service 聚合（不上报指标）
func (a *app) services() (*service.Service, error) {
	db, err := a.openDB()
	if err != nil {
		return nil, err
	}
	return service.NewService(a.cfg, repository.NewRepository(db), nil, a.logger), nil
}

func (a *app) close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
