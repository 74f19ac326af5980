package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prasadk/mailsift/internal/criterion"
	"github.com/prasadk/mailsift/internal/drive"
	"github.com/prasadk/mailsift/internal/gmail"
	"github.com/prasadk/mailsift/internal/google"
	"github.com/prasadk/mailsift/internal/harvest"
	"github.com/prasadk/mailsift/internal/organize"
)

func newOrganizeCmd() *cobra.Command {
	var (
		account string
		modeArg string
	)

	cmd := &cobra.Command{
		Use:   "organize <criterion> <destination>",
		Short: "File matching attachments into a Google Drive folder",
		Long: `Search Gmail for attachments matching a criterion and upload them into a
Google Drive folder.

Modes:
  flat         all attachments directly under the destination folder
  dated        year folders with "NN - MonthName" month subfolders, derived
               from each email's date; undated emails go to No-Date
  categorized  date/category/subcategory folders inferred from each
               attachment's filename (Financial, Reports, Sales, ...)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			crit, err := criterion.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("invalid criterion %q: %w", args[0], err)
			}

			mode, err := organize.ParseMode(modeArg)
			if err != nil {
				return fmt.Errorf("invalid mode %q: %w", modeArg, err)
			}

			gmailClient, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client: %w", err)
			}

			driveClient, err := drive.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Drive client: %w", err)
			}

			logger := slog.Default()
			harvested, err := harvest.NewService(gmailClient, logger, nil).Search(ctx, crit)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if len(harvested.Emails) == 0 {
				fmt.Println("No emails with attachments found; nothing to organize.")
				return nil
			}

			organizer := organize.NewOrganizer(driveClient, gmailClient, logger, nil)
			result, err := organizer.Run(ctx, harvested.Emails, args[1], mode, func(p organize.Progress) {
				if p.Total == 0 {
					return
				}
				fmt.Printf("Progress: %d/%d (%d%%)\n", p.Processed, p.Total, p.Processed*100/p.Total)
			})
			if err != nil {
				return fmt.Errorf("organize failed: %w", err)
			}

			fmt.Printf("\nOrganized %d of %d attachment(s) into folder %q (mode: %s)\n",
				result.Uploaded, result.Total, args[1], mode)
			if result.Failed > 0 {
				fmt.Printf("%d attachment(s) failed to upload.\n", result.Failed)
			}
			if harvested.Degraded > 0 {
				fmt.Printf("%d message(s) skipped due to fetch failures.\n", harvested.Degraded)
			}
			fmt.Printf("Drive folder ID: %s\n", result.RootFolderID)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account name to use")
	cmd.Flags().StringVar(&modeArg, "mode", "flat", "Organization mode: flat, dated, or categorized")
	return cmd
}
