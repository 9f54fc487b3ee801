package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alanherrera2015-beep/examexperts/server"

	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the product catalog",
	}
	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogValidateCmd())
	return cmd
}

func catalogListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchasable products (CATALOG_FILE or the embedded catalog)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := server.LoadCatalog(os.Getenv("CATALOG_FILE"))
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"currency": cat.Currency(),
					"products": cat.Products(),
				})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE")
			for _, p := range cat.Products() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, formatPrice(p.Price, cat.Currency()))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output as JSON")
	return cmd
}

func catalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a catalog file (defaults to the embedded catalog)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			cat, err := server.LoadCatalog(path)
			if err != nil {
				return fmt.Errorf("catalog invalid: %w", err)
			}
			source := path
			if source == "" {
				source = "embedded catalog"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d products OK\n", source, cat.Len())
			return nil
		},
	}
}

func formatPrice(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}
