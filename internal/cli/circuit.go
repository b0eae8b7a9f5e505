package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/theapemachine/pqm"
)

func newCircuitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circuit",
		Short: "Print the memory circuit for a pattern set and query",
		Long: `Build the memory circuit that encodes a pattern set and retrieves a
query, and print it as OpenQASM 2.0. With --dump the raw operation
sequence is printed instead, which also covers amplitude initializers.`,
		RunE: runCircuit,
	}

	cmd.Flags().String("query", "", "query pattern, e.g. 01")
	cmd.Flags().StringSlice("patterns", nil, "stored patterns, e.g. 00,11")
	cmd.Flags().Int("control", 1, "number of control qubits")
	cmd.Flags().Float64("scale", 1, "scale parameter")
	cmd.Flags().String("init", pqm.InitManual, "initialization method (manual, amplitude)")
	cmd.Flags().Bool("dump", false, "dump the operation sequence instead of QASM")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("patterns")

	return cmd
}

func runCircuit(cmd *cobra.Command, args []string) error {
	query, patterns, err := queryAndPatterns(cmd)
	if err != nil {
		return err
	}

	control, _ := cmd.Flags().GetInt("control")
	scale, _ := cmd.Flags().GetFloat64("scale")
	initName, _ := cmd.Flags().GetString("init")
	dump, _ := cmd.Flags().GetBool("dump")

	initMethod, err := pqm.InitMethodByName(initName)
	if err != nil {
		return err
	}

	memory, err := pqm.NewMemory(len(query), pqm.WithControlSize(control))
	if err != nil {
		return err
	}

	if err := initMethod(memory, patterns); err != nil {
		return err
	}

	if err := memory.Recover(query, scale); err != nil {
		return err
	}

	circuit := memory.Circuit()
	out := cmd.OutOrStdout()

	if dump {
		fmt.Fprint(out, spew.Sdump(circuit.Operations()))
		return nil
	}

	qasm, err := circuit.QASM()
	if err != nil {
		return fmt.Errorf("%w (use --dump)", err)
	}

	fmt.Fprint(out, qasm)
	return nil
}
