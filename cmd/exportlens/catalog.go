package main

import (
	"fmt"

	"github.com/exportlens/backend/internal/app"
	"github.com/exportlens/backend/internal/infrastructure/catalog"
	"github.com/exportlens/backend/internal/infrastructure/hscodes"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage category and HS code catalogs",
	}
	catalogCmd.AddCommand(newCatalogSeedCmd())
	catalogCmd.AddCommand(newCatalogExportCmd())
	return catalogCmd
}

func newCatalogSeedCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the HS database and load HS codes into it",
		Long: `Replace the contents of the HS database with codes from a TOML seed file.
Without --file the configured catalog.hs_seed_path is used, and without that the
built-in HS seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, true)
			if err != nil {
				return err
			}
			if seedFile == "" {
				seedFile = cfg.Catalog.HSSeedPath
			}

			store, err := hscodes.Open(cfg.Catalog.HSDatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := app.SeedStore(cmd.Context(), store, seedFile); err != nil {
				return err
			}

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d HS codes into %s\n", n, cfg.Catalog.HSDatabasePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "TOML HS seed file")
	return cmd
}

func newCatalogExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [categories.toml]",
		Short: "Write the active category catalog to a TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, true)
			if err != nil {
				return err
			}

			categories, err := catalog.LoadCategories(cfg.Catalog.CategoriesPath)
			if err != nil {
				return err
			}
			if err := catalog.WriteCategories(args[0], categories); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d categories to %s\n", len(categories), args[0])
			return nil
		},
	}
}
