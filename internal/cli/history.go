package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored comparisons",
		Long:  "List stored comparisons, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 || offset < 0 {
				return fmt.Errorf("--limit and --offset must not be negative")
			}

			list, err := newAPIClient().ListComparisons(limit, offset)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), list)
			}
			return printHistoryTable(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of comparisons (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of comparisons to skip")

	return cmd
}
