package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// NewRootCmd builds the pqm command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pqm",
		Short: "pqm - probabilistic quantum memory",
		Long: `pqm encodes binary patterns into a quantum memory circuit, retrieves
them by Hamming distance and compares simulated measurements against the
closed-form retrieval distribution.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (json, yaml or toml)")

	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)

	root.AddCommand(
		newDistributionCmd(),
		newCircuitCmd(),
		newExperimentCmd(),
	)

	return root
}

// Execute runs the command tree. This is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
