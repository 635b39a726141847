package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventory-manager/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-manager/pkg/config"
)

var migrateSteps int

// databaseURL carga la configuración y devuelve el connection string de PostgreSQL.
func databaseURL() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DB.ConnectionString(), nil
}

// inventoryctl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Gestiona las migraciones de la base de datos",
}

// inventoryctl migrate up
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Aplicando migraciones…")
		return postgres.MigrateUp(url)
	},
}

// inventoryctl migrate down --steps N
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte migraciones (todas si --steps es 0)",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Revirtiendo %d migración(es)…\n", migrateSteps)
		return postgres.MigrateDown(url, migrateSteps)
	},
}

// inventoryctl migrate version
var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión de esquema aplicada",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		version, dirty, err := postgres.MigrationVersion(url)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "cantidad de migraciones a revertir (0 = todas)")
}
