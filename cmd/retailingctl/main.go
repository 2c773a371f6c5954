// Command retailingctl runs maintenance tasks against the retailing database:
// schema migrations, reference data loads, superuser bootstrap, payable
// settlement, ledger reconciliation and dead letter handling.
package main

import (
	"os"
	"time"

	"retailing/internal/config"
	"retailing/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "retailingctl",
	Short:         "Maintenance commands for the retailing backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		return err
	},
}

func openDB() (*gorm.DB, error) {
	return infra.NewDatabase(cfg.DatabaseURL)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	rootCmd.AddCommand(newMigrateCmd(), newLoadCountriesCmd(), newCreateSuperuserCmd(), newSettlePayableCmd(), newReconcileCmd(), newDeadLettersCmd())
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("retailingctl failed")
		os.Exit(1)
	}
}
