package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newChartCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "chart <id>",
		Short: "Save a chart of a stored comparison",
		Long:  "Download a PNG chart of property value, ETF value and cumulative cash flow per year.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseComparisonID(args[0])
			if err != nil {
				return err
			}

			png, found, err := newAPIClient().GetChart(id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("comparison %d not found", id)
			}

			path := output
			if path == "" {
				path = fmt.Sprintf("comparison-%d.png", id)
			}
			if err := os.WriteFile(path, png, 0o644); err != nil {
				return fmt.Errorf("writing chart: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Chart saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: comparison-<id>.png)")

	return cmd
}
