package main

import (
	"context"

	"retailing/internal/infra"
	"retailing/internal/repository"
	"retailing/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newLoadCountriesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "load-countries",
		Short: "Replace the country table from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = cfg.CountriesFile
			}
			countries, err := infra.LoadCountriesFile(file)
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			n, err := service.NewCountryService(repository.NewCountryRepository(db)).Load(ctx, countries)
			if err != nil {
				return err
			}
			log.Info().Str("file", file).Int("countries", n).Msg("countries loaded")
			flushCountryCache(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the countries JSON (defaults to COUNTRIES_FILE)")
	return cmd
}

// flushCountryCache drops cached country lists so the API serves the new
// table immediately. Redis being down is not an error; entries expire anyway.
func flushCountryCache(ctx context.Context) {
	if cfg.RedisURL == "" {
		return
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("country cache not flushed")
		return
	}
	defer rdb.Close()

	deleted := 0
	iter := rdb.Scan(ctx, 0, "countries:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err == nil {
			deleted++
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("country cache scan failed")
		return
	}
	log.Info().Int("keys", deleted).Msg("country cache flushed")
}
