package main

import (
	"github.com/spf13/cobra"

	"github.com/huming2207/Teammates-SEPT/pkg/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "数据库迁移",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "应用全部未执行的迁移",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.sqlDB()
			if err != nil {
				return err
			}
			return database.RunMigrations(db, a.logger)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "回滚迁移",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.sqlDB()
			if err != nil {
				return err
			}
			return database.RollbackMigrations(db, steps, a.logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "回滚的版本数")

	cmd.AddCommand(up, down)
	return cmd
}
