package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/exportlens/backend/internal/app"
	"github.com/exportlens/backend/internal/domain"
	"github.com/exportlens/backend/internal/usecase"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newConsolidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consolidate [products.json]",
		Short: "Group product listings into categories",
		Long: `Read a JSON array of products (or an object with a "products" array) and
print the consolidated category results as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := readProducts(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd, false)
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			runID := uuid.NewString()
			results, err := application.Consolidation.Consolidate(usecase.ContextWithRunID(cmd.Context(), runID), products)
			if err != nil {
				return err
			}

			return printJSON(cmd, map[string]any{"runId": runID, "results": results})
		},
	}
}

// readProducts accepts either a bare array or {"products": [...]}
func readProducts(path string) ([]domain.ProductVariant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading products file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var products []domain.ProductVariant
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("error parsing products file: %w", err)
		}
		return products, nil
	}

	var wrapper struct {
		Products []domain.ProductVariant `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("error parsing products file: %w", err)
	}
	return wrapper.Products, nil
}
