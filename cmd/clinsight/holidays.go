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

func holidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Detect clinic holidays from appointment gaps",
		Long: `Scan every stored record and mark each day between the earliest and
latest observed dates. A day with zero appointments is a holiday.`,
		RunE: runHolidays,
	}

	cmd.Flags().Bool("json", false, "Emit the calendar as JSON")
	cmd.Flags().Bool("all", false, "List every day, not only holidays")

	_ = viper.BindPFlag("holidays.json", cmd.Flags().Lookup("json"))
	_ = viper.BindPFlag("holidays.all", cmd.Flags().Lookup("all"))

	return cmd
}

func runHolidays(cmd *cobra.Command, _ []string) error {
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

	calendar := engine.DetectHolidays(records)

	if viper.GetBool("holidays.json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(calendar)
	}

	if viper.GetBool("holidays.all") {
		fmt.Println(cli.RenderHolidayCalendar(calendar))
		return nil
	}

	if calendar.HolidayCount() == 0 {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("休診日なし（全%d日）", len(calendar))))
		return nil
	}
	fmt.Println(cli.FormatTitle(fmt.Sprintf("休診日 %d日 / 全%d日", calendar.HolidayCount(), len(calendar))))
	for _, entry := range calendar {
		if entry.IsHoliday {
			fmt.Println(entry.Date.Format("2006-01-02"))
		}
	}
	return nil
}
