package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/theapemachine/pqm"
)

func newExperimentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Sweep inputs over the pattern catalog",
		Long: `Run every input against every catalog pattern set of the configured
memory size on the state-vector simulator, print the probability of
reading all control bits as 0 next to the oracle prediction, and the mean
squared error between the two per pattern set.`,
		RunE: runExperiment,
	}

	defaults := pqm.NewConfig()

	cmd.Flags().Int("memory-size", defaults.MemorySize, "memory size in qubits (1-4)")
	cmd.Flags().Int("control", defaults.ControlSize, "number of control qubits")
	cmd.Flags().Int("shots", defaults.Shots, "shots per circuit")
	cmd.Flags().Float64("scale", defaults.Scale, "scale parameter")
	cmd.Flags().IntSlice("inputs", nil, "inputs as integers (default all)")
	cmd.Flags().String("init", defaults.Init, "initialization method (manual, amplitude)")
	cmd.Flags().Int64("seed", defaults.Seed, "simulator seed")
	cmd.Flags().Int("concurrency", defaults.Concurrency, "jobs run in parallel")
	cmd.Flags().Duration("job-timeout", defaults.JobTimeout, "timeout per job")
	cmd.Flags().Int("retry-attempts", defaults.RetryAttempts, "attempts per job")
	cmd.Flags().Duration("retry-backoff", defaults.RetryBackoff, "initial retry backoff")
	cmd.Flags().Duration("job-interval", defaults.JobInterval, "minimum interval between job submissions per backend (0 disables)")

	return cmd
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	simulator := pqm.NewSimulator(cfg.Seed)

	runner, err := pqm.NewRunner(cfg, pqm.WithBackends(simulator))
	if err != nil {
		return err
	}

	results, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	inputs := runner.Inputs()
	out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(out, "backend\tinput\tpattern set\tP(0)")
	for _, backend := range results.BackendNames() {
		for _, input := range inputs {
			result := results[backend][input.String()]
			for _, name := range result.Names() {
				counts, _ := result.Counts(name)
				fmt.Fprintf(out, "%s\t%s\t%s\t%.4f\n", backend, input, name, pqm.ZeroProbability(counts, cfg.ControlSize))
			}
		}
	}

	if err := out.Flush(); err != nil {
		return err
	}

	mse, err := pqm.MSE(results, pqm.OracleBackendName, simulator.Name(), inputs, cfg.ControlSize)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(mse))
	for name := range mse {
		names = append(names, name)
	}
	sort.Strings(names)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\nMSE %s vs %s\n", pqm.OracleBackendName, simulator.Name())
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6f\n", name, mse[name])
	}

	return nil
}
