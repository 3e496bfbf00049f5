package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/momentgrid/internal/adapters/catalog"
	app "github.com/okian/momentgrid/internal/app"
	"github.com/okian/momentgrid/internal/config"
	"github.com/okian/momentgrid/internal/domain/model"
	"github.com/okian/momentgrid/internal/testcatalog"
	"github.com/okian/momentgrid/pkg/logger"
)

type rootFlags struct {
	catalogPath string
	format      string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "gridctl",
		Short:        "Generate and inspect daily moment grids",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("read .env: %w", err)
			}
			if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return logger.SetLevelString(flags.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&flags.catalogPath, "catalog", "", "catalog snapshot path (default: MOMENTGRID_CATALOG_PATH)")
	root.PersistentFlags().StringVar(&flags.format, "format", "", "catalog format: json or sqlite (default: by extension)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newGenerateCmd(flags),
		newValidateCmd(flags),
		newStatsCmd(flags),
		newSynthCmd(),
	)
	return root
}

// openService loads configuration, applies the catalog flags and loads the catalog.
func openService(ctx context.Context, flags *rootFlags, attempts int) (*app.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if flags.catalogPath != "" {
		cfg.CatalogPath = flags.catalogPath
	}
	if cfg.CatalogPath == "" {
		return nil, errors.New("no catalog: pass --catalog or set MOMENTGRID_CATALOG_PATH")
	}
	switch {
	case flags.format != "":
		cfg.CatalogFormat = flags.format
	case flags.catalogPath != "":
		cfg.CatalogFormat = formatFor(flags.catalogPath)
	}
	if attempts > 0 {
		cfg.SearchAttempts = attempts
	}
	cfg.PrewarmEnabled = false

	opts, err := app.ConfigOptions(cfg, logger.Get())
	if err != nil {
		return nil, err
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func formatFor(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3") {
		return catalog.FormatSQLite
	}
	return catalog.FormatJSON
}

func parseLeague(raw string) (model.League, error) {
	league, ok := model.ParseLeague(raw)
	if !ok {
		return model.LeagueAll, fmt.Errorf("unknown league %q", raw)
	}
	return league, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newGenerateCmd(flags *rootFlags) *cobra.Command {
	var (
		date     string
		league   string
		attempts int
		analyze  bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the grid for a date and league",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := parseLeague(league)
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), flags, attempts)
			if err != nil {
				return err
			}
			defer svc.Stop()
			if analyze {
				a, err := svc.AnalyzeGrid(cmd.Context(), date, l)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), a)
			}
			res, err := svc.DailyGrid(cmd.Context(), date, l)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "grid date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&league, "league", "", "NBA, WNBA or empty for all")
	cmd.Flags().IntVar(&attempts, "attempts", 0, "override search attempts")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "include per-cell difficulty")
	return cmd
}

func newValidateCmd(flags *rootFlags) *cobra.Command {
	var player, row, col, league string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a player answer for a cell",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := parseLeague(league)
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), flags, 0)
			if err != nil {
				return err
			}
			defer svc.Stop()
			rowLabel, err := svc.ResolveLabel(row)
			if err != nil {
				return fmt.Errorf("row: %w", err)
			}
			colLabel, err := svc.ResolveLabel(col)
			if err != nil {
				return fmt.Errorf("col: %w", err)
			}
			v, err := svc.Validate(cmd.Context(), player, rowLabel, colLabel, l)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player name")
	cmd.Flags().StringVar(&row, "row", "", "row label, type:value or bare value")
	cmd.Flags().StringVar(&col, "col", "", "column label, type:value or bare value")
	cmd.Flags().StringVar(&league, "league", "", "NBA, WNBA or empty for all")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("row")
	_ = cmd.MarkFlagRequired("col")
	return cmd
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print catalog statistics per league",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openService(cmd.Context(), flags, 0)
			if err != nil {
				return err
			}
			defer svc.Stop()
			return printJSON(cmd.OutOrStdout(), svc.Stats())
		},
	}
}

func newSynthCmd() *cobra.Command {
	cfg := testcatalog.DefaultConfig()
	var out string
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a deterministic synthetic catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := testcatalog.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if formatFor(out) == catalog.FormatSQLite {
				err = catalog.WriteSQLite(cmd.Context(), out, records)
			} else {
				err = testcatalog.SaveJSON(out, records)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d moments to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "moments.json", "output path (.json, .db or .sqlite)")
	cmd.Flags().IntVar(&cfg.Players, "players", cfg.Players, "number of players")
	cmd.Flags().IntVar(&cfg.PrimaryTeams, "teams", cfg.PrimaryTeams, "number of primary league teams")
	cmd.Flags().IntVar(&cfg.SecondaryTeams, "secondary-teams", cfg.SecondaryTeams, "number of secondary league teams")
	cmd.Flags().IntVar(&cfg.Seasons, "seasons", cfg.Seasons, "number of seasons")
	cmd.Flags().IntVar(&cfg.MomentsPerPlayer, "moments", cfg.MomentsPerPlayer, "moments per player")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed")
	return cmd
}
