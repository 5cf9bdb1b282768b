package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/recurhq/recur/internal/cli"
	"github.com/recurhq/recur/internal/rates"
	"github.com/recurhq/recur/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show detected subscriptions and spending totals",
		Long: `Aggregate the detected subscriptions for a processing year into
monthly and yearly USD totals, a category breakdown, and upcoming
renewals.`,
		RunE: runReport,
	}

	cmd.Flags().Int("year", time.Now().Year(), "processing year to report on")
	cmd.Flags().Duration("upcoming", 30*24*time.Hour, "window for upcoming renewals (0 to disable)")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, _ := cmd.Flags().GetInt("year")
	upcoming, _ := cmd.Flags().GetDuration("upcoming")

	user, err := requireUser()
	if err != nil {
		return err
	}

	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	converter := rates.NewConverter(nil)
	summary, err := report.NewBuilder(store, converter, nil).Build(ctx, user, year, upcoming)
	if err != nil {
		return err
	}

	if len(summary.Subscriptions) == 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("No subscriptions detected for %d; run 'recur scan' first", year)))
		return nil
	}

	fmt.Println(cli.RenderReport(summary))
	return nil
}
