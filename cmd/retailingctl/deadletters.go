package main

import (
	"encoding/json"
	"os"

	"retailing/internal/infra"
	"retailing/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newDeadLettersCmd() *cobra.Command {
	var (
		limit   int64
		requeue bool
	)
	cmd := &cobra.Command{
		Use:   "dead-letters",
		Short: "List parked order notifications, or push them back onto the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			rdb, err := infra.NewRedis(cfg.RedisURL)
			if err != nil {
				return err
			}
			defer rdb.Close()
			ctx := cmd.Context()

			if requeue {
				n, err := worker.Requeue(ctx, rdb, worker.QueueNotifications)
				if err != nil {
					return err
				}
				log.Info().Int("jobs", n).Msg("dead letters requeued")
				return nil
			}

			parked, err := worker.DeadLetters(ctx, rdb, worker.QueueNotifications, limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(parked)
		},
	}
	cmd.Flags().Int64Var(&limit, "limit", 50, "maximum entries to list")
	cmd.Flags().BoolVar(&requeue, "requeue", false, "move every parked job back onto the queue")
	return cmd
}
