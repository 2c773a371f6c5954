package main

import (
	"errors"

	"retailing/internal/repository"
	"retailing/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newCreateSuperuserCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || len(password) < 8 {
				return errors.New("--email and a --password of at least 8 characters are required")
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			auth := service.NewAuthService(repository.NewUserRepository(db), repository.NewSupplierRepository(db), cfg)
			user, err := auth.CreateSuperuser(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			log.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("superuser created")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	return cmd
}
