package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/recurhq/recur/internal/cli"
	"github.com/recurhq/recur/internal/common"
	"github.com/recurhq/recur/internal/detect"
	"github.com/recurhq/recur/internal/engine"
	"github.com/recurhq/recur/internal/gmail"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the mailbox for subscription receipts",
		Long: `Search the user's mailbox for subscription payment receipts in a
processing year, confirm candidates with the configured LLM, and save
the detected subscriptions.

Re-running a scan is safe: already-detected receipts are updated in
place, never duplicated.`,
		RunE: runScan,
	}

	cmd.Flags().Int("year", time.Now().Year(), "processing year to scan")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, _ := cmd.Flags().GetInt("year")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	user, err := requireUser()
	if err != nil {
		return err
	}

	creds, err := newTokenProvider()
	if err != nil {
		return err
	}

	tokenSource, err := creds.TokenSource(ctx, user)
	if err != nil {
		return common.NewUserError("not authenticated; run 'recur auth' first", err)
	}

	mailbox, err := gmail.NewClient(ctx, tokenSource, nil)
	if err != nil {
		return err
	}

	validator, err := newValidator()
	if err != nil {
		return err
	}

	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	classifier := detect.NewClassifier(detect.DefaultConfig(), nil)
	scanner := engine.New(creds, mailbox, classifier, validator, store, nil)

	if !noProgress {
		progress := cli.NewScanProgress(nil)
		scanner.SetProgressFunc(progress.Update)
	}

	subs, stats, err := scanner.Scan(ctx, user, year)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderScanSummary(stats))
	if len(subs) > 0 {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Detected %d subscription(s); run 'recur report' for the breakdown", len(subs))))
	}

	return nil
}
