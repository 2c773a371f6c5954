package main

import (
	"encoding/json"
	"os"

	"retailing/internal/infra"
	"retailing/internal/repository"
	"retailing/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSettlePayableCmd() *cobra.Command {
	var id uint
	cmd := &cobra.Command{
		Use:   "settle-payable",
		Short: "Mark an open payable as paid today",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			p, err := service.NewPayableLedger(repository.NewPayableRepository(db)).Settle(cmd.Context(), id)
			if err != nil {
				return err
			}
			return json.NewEncoder(os.Stdout).Encode(p)
		},
	}
	cmd.Flags().UintVar(&id, "id", 0, "payable id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Report warehouse rows that disagree with the order journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			rec := service.NewReconciler(repository.NewOrderRepository(db), repository.NewWarehouseRepository(db), infra.NewMetrics())
			drift, err := rec.Run(cmd.Context())
			if err != nil {
				return err
			}
			if len(drift) == 0 {
				log.Info().Msg("ledgers consistent")
				return nil
			}
			log.Warn().Int("drift_rows", len(drift)).Msg("warehouse drift detected")
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(drift)
		},
	}
}
