package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toptal0212/clinic-analysis-sub002/internal/cli"
	"github.com/toptal0212/clinic-analysis-sub002/internal/engine"
)

func transitionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transitions",
		Short: "Compute cross-sell transition matrices",
		Long: `Compute the two cross-sell matrices over a date range: first visit to
the immediately following visit, and first visit to every later visit.
Visits on the same calendar day count as one visit.`,
		RunE: runTransitions,
	}

	cmd.Flags().StringP("from", "f", "", "Start date (format: 2006-01-02)")
	cmd.Flags().StringP("to", "t", "", "End date (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 30, "Number of days to analyze (used if from/to not specified)")
	cmd.Flags().Bool("json", false, "Emit the matrices as JSON")

	_ = viper.BindPFlag("transitions.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("transitions.to", cmd.Flags().Lookup("to"))
	_ = viper.BindPFlag("transitions.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("transitions.json", cmd.Flags().Lookup("json"))

	return cmd
}

func runTransitions(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := parseDateRange("transitions")
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	visits, _, err := loadClassifiedVisits(ctx, store, rng)
	if err != nil {
		return err
	}

	transitions := engine.BuildTransitions(visits)

	if viper.GetBool("transitions.json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(transitions)
	}

	fmt.Println(cli.RenderTransitionMatrix("クロスセル（次回来院）", transitions.ImmediateNext))
	fmt.Println(cli.RenderTransitionMatrix("クロスセル（以降すべての来院）", transitions.AnyLater))
	return nil
}
