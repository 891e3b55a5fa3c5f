package main

import (
	"github.com/exportlens/backend/internal/app"
	"github.com/exportlens/backend/internal/domain"
	"github.com/spf13/cobra"
)

func newHSCmd() *cobra.Command {
	hsCmd := &cobra.Command{
		Use:   "hs",
		Short: "Suggest and browse HS codes",
	}
	hsCmd.AddCommand(newHSSuggestCmd())
	hsCmd.AddCommand(newHSChildrenCmd())
	return hsCmd
}

func newHSSuggestCmd() *cobra.Command {
	var req domain.HSSuggestionRequest

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank HS codes for a product in a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, true)
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			suggestions, err := application.HSCodes.GetSuggestedHSCodes(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"suggestions": suggestions})
		},
	}

	cmd.Flags().StringVar(&req.Category, "category", "", "Category id, name or alternate name (required)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&req.Description, "description", "", "Product description")
	cmd.MarkFlagRequired("category")

	return cmd
}

func newHSChildrenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "children [code]",
		Short: "List the HS codes one level below a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, true)
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			code := domain.NormalizeHSCode(args[0])
			return printJSON(cmd, map[string]any{
				"code":     code,
				"children": application.HSCodes.GetChildren(cmd.Context(), code),
			})
		},
	}
}
