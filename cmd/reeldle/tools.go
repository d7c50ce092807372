package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/amaumene/reeldle/internal/config"
	"github.com/amaumene/reeldle/internal/engine"
	"github.com/amaumene/reeldle/internal/services/tmdb"
	"github.com/amaumene/reeldle/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [date]",
		Short: "Print the daily seed and catalog pick for a date (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.AutomaticEnv()
			config.SetDefaults()

			loc, err := time.LoadLocation(viper.GetString("TIMEZONE"))
			if err != nil {
				return fmt.Errorf("invalid TIMEZONE: %w", err)
			}

			dateKey := engine.DateKey(time.Now(), loc)
			if len(args) == 1 {
				day, err := time.Parse(engine.DateKeyLayout, args[0])
				if err != nil {
					return fmt.Errorf("date must be formatted as YYYY-MM-DD: %w", err)
				}
				dateKey = day.Format(engine.DateKeyLayout)
			}

			titles := utils.DefaultCatalog()
			if path := viper.GetString("CATALOG_FILE"); path != "" {
				if titles, err = utils.LoadCatalog(path); err != nil {
					return fmt.Errorf("failed to load catalog: %w", err)
				}
			}

			pool, err := engine.NewPool(titles, nil)
			if err != nil {
				return err
			}

			index, title := pool.Daily(dateKey)
			fmt.Fprintf(cmd.OutOrStdout(), "date:  %s\nseed:  %d\nindex: %d of %d\ntitle: %s\n",
				dateKey, engine.DailySeed(dateKey), index, pool.Size(), title)
			return nil
		},
	}
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <target-id> <guess-id>",
		Short: "Fetch two movies and print how the guess compares to the target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid target id %q", args[0])
			}
			guessID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid guess id %q", args[1])
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := utils.NewLoggerWithOutput(cfg.LogLevel, os.Stderr)

			client, err := tmdb.NewClient(cfg, nil, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize TMDB client: %w", err)
			}

			ctx := cmd.Context()
			target, err := client.GetDetails(ctx, targetID)
			if err != nil {
				return fmt.Errorf("failed to fetch target %d: %w", targetID, err)
			}
			guess, err := client.GetDetails(ctx, guessID)
			if err != nil {
				return fmt.Errorf("failed to fetch guess %d: %w", guessID, err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(engine.Compare(target, guess))
		},
	}
}
