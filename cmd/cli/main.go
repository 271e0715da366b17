package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"energy-market/internal/analysis"
	"energy-market/internal/config"
	"energy-market/internal/model"
	"energy-market/internal/report"
	"energy-market/internal/simulation"
	"energy-market/internal/strategy"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "simulate":
		err = cmdSimulate(ctx, os.Args[2:])
	case "compare":
		err = cmdCompare(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "cmd", os.Args[1], "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/scenario.yaml --out results/trades.csv [--participants-out results/participants.csv] [--table]")
	fmt.Println("  cli compare --config examples/scenario.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --config the built-in defaults are used (36 participants, 96 slots, 15 rounds)")
	fmt.Println("  - compare runs every strategy x battery policy on the same seed, ranked by community welfare")
}

// loadConfig loads path, or the defaults when path is empty, and installs the
// configured logger. Environment overrides apply either way.
func loadConfig(path string, verbose bool, format string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if format != "" {
		cfg.Log.Format = format
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))
	return cfg, nil
}

func cmdSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML scenario (defaults when empty)")
	outPath := fs.String("out", "results/trades.csv", "Trade ledger CSV path")
	partPath := fs.String("participants-out", "", "Optional per-participant CSV path")
	table := fs.Bool("table", false, "Print per-participant table")
	verbose := fs.Bool("verbose", false, "Debug logging")
	logFormat := fs.String("format", "", "Log format: text|json (overrides config)")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*cfgPath, *verbose, *logFormat)
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	res, err := simulation.New().Run(ctx, sc)
	if err != nil {
		return err
	}

	if err := simulation.WriteLedgerCSV(*outPath, res.Ledger); err != nil {
		return err
	}
	fmt.Printf("Wrote %d trades to %s\n", len(res.Ledger), *outPath)
	if *partPath != "" {
		if err := simulation.WriteParticipantsCSV(*partPath, res.Participants); err != nil {
			return err
		}
		fmt.Printf("Wrote %d participants to %s\n", len(res.Participants), *partPath)
	}

	console := report.NewConsole()
	console.PrintSummary(fmt.Sprintf("%s / %s / %s", sc.Strategy.Name(), sc.Policy, sc.Market.Matching), analysis.Summarize(res))
	if *table {
		console.PrintParticipants(res.Participants)
	}
	return nil
}

func cmdCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML scenario (defaults when empty)")
	verbose := fs.Bool("verbose", false, "Debug logging")
	logFormat := fs.String("format", "", "Log format: text|json (overrides config)")
	_ = fs.Parse(args)

	base, err := loadConfig(*cfgPath, *verbose, *logFormat)
	if err != nil {
		return err
	}

	engine := simulation.New()
	var summaries []analysis.NamedSummary
	for _, info := range strategy.Available() {
		for _, policy := range model.BatteryPolicies {
			name, pol := info.Name, string(policy)
			cfg := config.MergeScenario(*base, config.Override{
				Strategy:      config.StrategyOverride{Name: &name},
				BatteryPolicy: &pol,
			})
			sc, err := cfg.Scenario()
			if err != nil {
				return err
			}
			res, err := engine.Run(ctx, sc)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", info.Name, policy, err)
			}
			summaries = append(summaries, analysis.NamedSummary{
				Name:    fmt.Sprintf("%s/%s", info.Name, policy),
				Summary: analysis.Summarize(res),
			})
		}
	}

	report.NewConsole().PrintRanking(analysis.RankByWelfare(summaries))
	return nil
}
