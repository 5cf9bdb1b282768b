package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recurhq/recur/internal/cli"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Gmail",
		Long: `Run the Google OAuth flow for read-only Gmail access.

This command will:
1. Start a local web server
2. Open the Google consent screen in your browser
3. Save the resulting token for future scans

Tokens are stored per user and refreshed automatically.`,
		RunE: runAuth,
	}

	return cmd
}

func runAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	user, err := requireUser()
	if err != nil {
		return err
	}

	creds, err := newTokenProvider()
	if err != nil {
		return err
	}

	if authorized, checkErr := creds.IsAuthorized(ctx, user); checkErr == nil && authorized {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Already authenticated as %s; re-running the flow replaces the stored token", user)))
	}

	if err := creds.AuthenticateInteractive(ctx, user); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Authenticated %s; you can now run 'recur scan'", user)))
	return nil
}
