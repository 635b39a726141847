package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventory-manager/internal/application/auth"
	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-manager/pkg/config"
)

var userFlags dto.CreateUserRequest

// inventoryctl create-user --email a@b.co --password secreto123 [--staff]
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Crea un usuario en PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()

		uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		})
		user, err := uc.CreateUser(ctx, userFlags)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "usuario %s creado (id=%s staff=%t)\n", user.Email, user.ID, user.IsStaff)
		return nil
	},
}

func init() {
	f := createUserCmd.Flags()
	f.StringVar(&userFlags.Email, "email", "", "email del usuario")
	f.StringVar(&userFlags.Password, "password", "", "password (mínimo 8 caracteres)")
	f.StringVar(&userFlags.Name, "name", "", "nombre visible")
	f.BoolVar(&userFlags.IsStaff, "staff", false, "marca el usuario como staff")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}
