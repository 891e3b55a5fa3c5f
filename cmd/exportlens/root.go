package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/exportlens/backend/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exportlens",
		Short: "ExportLens consolidates product listings and suggests HS codes",
		Long: `ExportLens groups an exporter's product listings into catalog categories and
suggests Harmonized System codes for them. Configuration is read from config.yaml,
the environment (EXPORTLENS_*) and a .env file.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: config.yaml in ., ./config or /etc/exportlens/)")
	rootCmd.PersistentFlags().BoolP("offline", "o", false, "Run without embedding or LLM API calls; products are classified by fallback rules")

	rootCmd.AddCommand(newConsolidateCmd())
	rootCmd.AddCommand(newHSCmd())
	rootCmd.AddCommand(newCatalogCmd())

	return rootCmd
}

// loadConfig reads configuration for a command. Offline mode (forced for commands
// that never embed) drops the API key requirements.
func loadConfig(cmd *cobra.Command, forceOffline bool) (*config.Config, error) {
	if err := config.LoadEnvFile(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	offline, _ := cmd.Flags().GetBool("offline")
	if offline || forceOffline {
		os.Setenv("EXPORTLENS_EMBEDDING_PROVIDER", config.ProviderNone)
		os.Setenv("EXPORTLENS_LLM_ENABLED", "false")
	}

	configFile, _ := cmd.Flags().GetString("config")
	return config.LoadFile(configFile)
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
