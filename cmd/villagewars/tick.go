package main

import (
	"VillageWars/internal/shared/logs"
	"VillageWars/internal/simulation/app"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newTickCmd(cfgPath *string) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "tick",
		Short: "执行一次结算后退出",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				now = t
			}
			return runTickOnce(cmd.Context(), *cfgPath, now)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "结算时间点（RFC3339），默认当前时间")
	return cmd
}

func runTickOnce(ctx context.Context, cfgPath string, now time.Time) error {
	conf, err := loadConfig(cfgPath, "villagewars-tick")
	if err != nil {
		return err
	}
	defer logs.Sync()

	if ctx == nil {
		ctx = context.Background()
	}
	c, err := buildContainer(ctx, conf, logs.Logger())
	if err != nil {
		return err
	}
	defer c.Close()

	tickCtx, cancel := context.WithTimeout(ctx, conf.Game.TickTimeout)
	defer cancel()
	sum, err := c.tick.RunTick(tickCtx, now)
	printSummary(sum)
	if err != nil {
		color.Red("结算中止: %v", err)
		return err
	}
	color.New(color.FgGreen, color.Bold).Println("结算完成")
	return nil
}

func printSummary(sum app.TickSummary) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Now", "Resources", "Queues", "Movements", "Battles", "Failures", "Duration"}),
	)
	_ = table.Append([]string{
		sum.Now.UTC().Format(time.RFC3339),
		strconv.Itoa(sum.ResourcesUpdated),
		strconv.Itoa(sum.QueuesCompleted),
		strconv.Itoa(sum.MovementsResolved),
		strconv.Itoa(sum.BattlesResolved),
		strconv.Itoa(sum.Failures),
		sum.Duration.String(),
	})
	_ = table.Render()
}
