package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prasadk/mailsift/internal/criterion"
	"github.com/prasadk/mailsift/internal/gmail"
	"github.com/prasadk/mailsift/internal/google"
	"github.com/prasadk/mailsift/internal/harvest"
)

func newSearchCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "search <criterion>",
		Short: "Find emails with attachments matching a criterion",
		Long: `Search Gmail for emails carrying attachments from a given sender.

The criterion may be an email address (alerts@example.com), a domain
(example.com), or a company name (acme). Company names expand to a
best-effort list of likely sender domains (acme.com, acme.in, ...) and the
search matches any of them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			crit, err := criterion.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("invalid criterion %q: %w", args[0], err)
			}

			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client: %w", err)
			}

			svc := harvest.NewService(client, slog.Default(), nil)
			result, err := svc.Search(ctx, crit)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if len(result.Emails) == 0 {
				fmt.Println("No emails with attachments found.")
				return nil
			}

			fmt.Printf("Found %d email(s) with attachments:\n\n", len(result.Emails))
			for _, email := range result.Emails {
				from := email.FromName
				if from == "" {
					from = email.FromEmail
				}
				fmt.Printf("  %s  %s\n", email.DisplayDate, from)
				fmt.Printf("    Subject: %s\n", email.Subject)
				for _, att := range email.Attachments {
					fmt.Printf("    - %s (%s, %d bytes)\n", att.Filename, att.MimeType, att.Size)
				}
				fmt.Println()
			}

			if result.Degraded > 0 {
				fmt.Printf("Warning: %d message(s) skipped due to fetch failures.\n", result.Degraded)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account name to use")
	return cmd
}
