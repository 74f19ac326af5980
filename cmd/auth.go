package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prasadk/mailsift/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Google OAuth authorization",
		Long: `Authorize mailsift to access Gmail and Google Drive.

Run 'mailsift auth url' to get the authorization URL, visit it in a browser,
then run 'mailsift auth save <code>' with the authorization code.`,
	}

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print the OAuth authorization URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			authURL := google.GetAuthURLForAccount(account)
			if authURL == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
			}

			fmt.Printf("Visit this URL to authorize account %q:\n\n  %s\n\n", account, authURL)
			fmt.Println("Then run: mailsift auth save <authorization-code>")
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save <authorization-code>",
		Short: "Exchange an authorization code and save the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := google.SaveTokenForAccount(cmd.Context(), account, args[0]); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", account, err)
			}

			fmt.Printf("Token saved for account %q. Gmail and Drive access is ready.\n", account)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a token is stored for the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if google.HasTokenForAccount(account) {
				fmt.Printf("Account %q is authorized.\n", account)
			} else {
				fmt.Printf("Account %q is not authorized. Run 'mailsift auth url' to begin.\n", account)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&account, "account", google.DefaultAccount, "Google account name to use")
	cmd.AddCommand(urlCmd)
	cmd.AddCommand(saveCmd)
	cmd.AddCommand(statusCmd)

	return cmd
}
