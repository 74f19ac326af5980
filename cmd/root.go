package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/prasadk/mailsift/internal/logging"
)

// rootCmd represents the base command for the mailsift application
var rootCmd = &cobra.Command{
	Use:   "mailsift",
	Short: "Sift Gmail attachments into organized Google Drive folders",
	Long: `mailsift finds emails with attachments from a sender, domain, or company,
downloads the attachments, and organizes them into Google Drive folders.
It can also analyze the financial spreadsheets it has filed.

It can run as:
  - A standalone CLI tool
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(os.Stderr, logging.ParseLevel(logLevel), logFormat)
	},
}

var (
	logLevel  string
	logFormat string
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailsift version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Credentials may live in a local .env file; a missing file is fine
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newOrganizeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
