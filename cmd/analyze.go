package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prasadk/mailsift/internal/analyze"
	"github.com/prasadk/mailsift/internal/drive"
	"github.com/prasadk/mailsift/internal/google"
)

func newAnalyzeCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "analyze <folder-id> <query>",
		Short: "Answer a question about spreadsheets in a Drive folder",
		Long: `Download the spreadsheets in a Google Drive folder, extract their financial
figures, and answer a natural-language question about them.

Requires OPENAI_API_KEY to be set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			driveClient, err := drive.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Drive client: %w", err)
			}

			analyzer, err := analyze.NewClient()
			if err != nil {
				return err
			}

			svc := analyze.NewService(driveClient, analyzer, slog.Default())
			answer, err := svc.AnalyzeFolder(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			fmt.Println(answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account name to use")
	return cmd
}
