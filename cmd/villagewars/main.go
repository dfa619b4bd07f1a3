package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "villagewars",
		Short:         "村庄战争模拟服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "配置文件路径，默认向上查找 configs/conf.yml")

	root.AddCommand(
		newServeCmd(&cfgPath),
		newTickCmd(&cfgPath),
		newMigrateCmd(&cfgPath),
		newBattleCmd(),
	)
	return root
}
