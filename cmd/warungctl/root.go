package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kislikjeka/warungku/pkg/config"
	"github.com/kislikjeka/warungku/pkg/logger"
)

var (
	jsonLogs bool

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "warungctl",
	Short: "Operator tool for the Warungku cash ledger",
	Long: `warungctl manages the Warungku database.

Examples:
  warungctl migrate up
  warungctl migrate down --steps 1
  warungctl seed --file seed.yaml
  warungctl cache clear`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format := ""
		if jsonLogs {
			format = "json"
		}
		log = logger.NewWithFormat("cli", format, os.Stderr)

		var err error
		cfg, err = config.LoadDatabase()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "emit JSON logs")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(cacheCmd)
}
