package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toptal0212/clinic-analysis-sub002/internal/cli"
	"github.com/toptal0212/clinic-analysis-sub002/internal/engine"
	"github.com/toptal0212/clinic-analysis-sub002/internal/taxonomy"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report data-quality problems in stored records",
		Long: `Run every data-quality check over all stored records. A record can
produce multiple findings; findings are reported, never fatal.`,
		RunE: runValidate,
	}

	cmd.Flags().Bool("json", false, "Emit findings as JSON")
	_ = viper.BindPFlag("validate.json", cmd.Flags().Lookup("json"))

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.GetAllVisitRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load visit records: %w", err)
	}

	classifier := taxonomy.NewClassifier(taxonomy.Default())
	findings := engine.ValidateRecords(records, classifier)

	if viper.GetBool("validate.json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(findings)
	}

	fmt.Println(cli.RenderRecordErrors(findings))
	return nil
}
