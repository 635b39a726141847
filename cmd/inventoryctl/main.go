package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "inventoryctl",
	Short:        "Herramientas de administración del inventario",
	Long:         "inventoryctl aplica migraciones de PostgreSQL y da de alta usuarios sin pasar por la API.",
	SilenceUsage: true,
}

func init() {
	// Base de datos
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)

	// Usuarios
	rootCmd.AddCommand(createUserCmd)
}
