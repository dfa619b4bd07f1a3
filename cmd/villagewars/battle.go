package main

import (
	"VillageWars/internal/shared/serverconfig"
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/engine"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type battleFlags struct {
	attacker map[string]int
	defender map[string]int
	bonus    float64
	seed     uint64
}

func newBattleCmd() *cobra.Command {
	f := &battleFlags{}
	cmd := &cobra.Command{
		Use:     "battle",
		Short:   "用内置数值表模拟一场战斗，不读写存储",
		Example: "villagewars battle --attacker legionnaire=100,imperian=20 --defender praetorian=80 --bonus 0.15",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBattle(cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringToIntVar(&f.attacker, "attacker", nil, "进攻方兵力，如 legionnaire=100")
	cmd.Flags().StringToIntVar(&f.defender, "defender", nil, "防守方兵力")
	cmd.Flags().Float64Var(&f.bonus, "bonus", 0, "防守加成，0.15 表示 +15%")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "随机种子，0 表示按时间")
	_ = cmd.MarkFlagRequired("attacker")
	return cmd
}

func runBattle(out io.Writer, f *battleFlags) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	seed := f.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	game := serverconfig.DefaultGameConfig()
	resolver := engine.NewBattleResolver(catalog, engine.NewRandomSource(seed), game.VarianceMin, game.VarianceMax)

	attacker, defender := rosterOf(f.attacker), rosterOf(f.defender)
	outcome, err := resolver.Resolve(attacker, defender, f.bonus)
	if err != nil {
		return err
	}
	printOutcome(out, attacker, defender, outcome)
	return nil
}

func rosterOf(in map[string]int) domain.Roster {
	r := make(domain.Roster, len(in))
	for k, n := range in {
		if n > 0 {
			r[domain.UnitKind(k)] = n
		}
	}
	return r
}

func printOutcome(out io.Writer, attacker, defender domain.Roster, o domain.BattleOutcome) {
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintf(out, "进攻战力 %.1f (x%.3f)  防守战力 %.1f (x%.3f)\n",
		o.AttackerPower, o.AttackerVariance, o.DefenderPower, o.DefenderVariance)

	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Side", "Unit", "Count", "Lost", "Survived"}),
	)
	appendSide(table, "attacker", attacker, o.AttackerLosses)
	appendSide(table, "defender", defender, o.DefenderLosses)
	_ = table.Render()

	switch o.Winner {
	case domain.AttackerWins:
		color.New(color.FgGreen, color.Bold).Fprintln(out, "进攻方胜")
	case domain.DefenderWins:
		color.New(color.FgRed, color.Bold).Fprintln(out, "防守方胜")
	default:
		color.New(color.FgYellow, color.Bold).Fprintln(out, "平局")
	}
}

func appendSide(table *tablewriter.Table, side string, roster, losses domain.Roster) {
	units := make([]string, 0, len(roster))
	for u := range roster {
		units = append(units, string(u))
	}
	sort.Strings(units)
	for _, u := range units {
		n := roster[domain.UnitKind(u)]
		lost := losses[domain.UnitKind(u)]
		_ = table.Append([]string{side, u, strconv.Itoa(n), strconv.Itoa(lost), strconv.Itoa(n - lost)})
	}
}
