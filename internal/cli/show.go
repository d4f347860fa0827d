package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var schedule bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored comparison",
		Long:  "Show the inputs and results of a stored comparison.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseComparisonID(args[0])
			if err != nil {
				return err
			}
			return runShow(cmd, id, schedule)
		},
	}

	cmd.Flags().BoolVar(&schedule, "schedule", false, "also print the yearly breakdown")

	return cmd
}

// parseComparisonID parses a positive comparison ID argument.
func parseComparisonID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid comparison ID: %s", s)
	}
	return id, nil
}

func runShow(cmd *cobra.Command, id int64, schedule bool) error {
	w := cmd.OutOrStdout()
	c := newAPIClient()

	cmp, found, err := c.GetComparison(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("comparison %d not found", id)
	}

	if !schedule {
		if isJSON() {
			return printJSON(w, cmp)
		}
		printComparison(w, cmp)
		return nil
	}

	years, _, err := c.GetSchedule(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(w, map[string]interface{}{"comparison": cmp, "schedule": years})
	}
	printComparison(w, cmp)
	fmt.Fprintln(w)
	return printSchedule(w, years)
}
