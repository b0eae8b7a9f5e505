package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theapemachine/pqm"
)

func newDistributionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Print the predicted retrieval distribution",
		Long: `Print, for a query against a pattern set, the closed-form probability of
reading l of the control bits as 1, for l = 0..control.`,
		RunE: runDistribution,
	}

	cmd.Flags().String("query", "", "query pattern, e.g. 01")
	cmd.Flags().StringSlice("patterns", nil, "stored patterns, e.g. 00,11")
	cmd.Flags().Int("control", 1, "number of control qubits")
	cmd.Flags().Float64("scale", 1, "scale parameter")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("patterns")

	return cmd
}

func runDistribution(cmd *cobra.Command, args []string) error {
	query, patterns, err := queryAndPatterns(cmd)
	if err != nil {
		return err
	}

	control, _ := cmd.Flags().GetInt("control")
	scale, _ := cmd.Flags().GetFloat64("scale")

	dist, err := pqm.RetrievalDistribution(query, patterns, control, scale)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "l\tP(l)")
	for l, p := range dist {
		fmt.Fprintf(out, "%d\t%.6f\n", l, p)
	}

	return nil
}

func queryAndPatterns(cmd *cobra.Command) (pqm.Pattern, []pqm.Pattern, error) {
	rawQuery, _ := cmd.Flags().GetString("query")
	rawPatterns, _ := cmd.Flags().GetStringSlice("patterns")

	query, err := pqm.ParsePattern(rawQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}

	patterns, err := pqm.ParsePatterns(rawPatterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("patterns: %w", err)
	}

	return query, patterns, nil
}
