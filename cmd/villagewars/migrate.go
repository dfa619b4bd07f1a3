package main

import (
	"VillageWars/internal/shared/infrastructure/db"
	mongox "VillageWars/internal/shared/infrastructure/mongo"
	"VillageWars/internal/shared/logs"
	"VillageWars/internal/shared/serverconfig"
	"VillageWars/internal/simulation/infra/persistence/mongodb"
	mysqlrepo "VillageWars/internal/simulation/infra/persistence/mysql"
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newMigrateCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "建表并创建战报索引",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(*cfgPath, "villagewars-migrate")
			if err != nil {
				return err
			}
			defer logs.Sync()
			return runMigrate(cmd.Context(), conf)
		},
	}
}

func runMigrate(ctx context.Context, conf serverconfig.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if conf.Storage.Driver == serverconfig.DriverMySQL || conf.Storage.ReportStore == serverconfig.DriverMySQL {
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return fmt.Errorf("open mysql: %w", err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := mysqlrepo.AutoMigrate(ctx, gdb); err != nil {
			return err
		}
		color.Green("mysql 表结构已同步")
	}

	if conf.Storage.ReportStore == serverconfig.DriverMongo {
		client, err := mongox.Open(ctx, conf.MongoDB, logs.Logger())
		if err != nil {
			return fmt.Errorf("open mongodb: %w", err)
		}
		defer client.Close()
		if err := mongodb.NewReportRepo(client.DB()).EnsureIndexes(ctx); err != nil {
			return err
		}
		color.Green("mongodb 战报索引已创建")
	}
	return nil
}
