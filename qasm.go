package pqm

import (
	"fmt"
	"strconv"
	"strings"
)

/*
QASM renders the circuit as an OpenQASM 2.0 program over the qelib1 gate
set, with a qreg for each register and one creg holding a bit per control
qubit. Amplitude initializers have no qelib1 form and are rejected.
*/
func (c *Circuit) QASM() (string, error) {
	var b strings.Builder

	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "qreg %s[%d];\n", MemoryRegister, c.MemorySize)
	fmt.Fprintf(&b, "qreg %s[%d];\n", ControlRegister, c.ControlSize)
	fmt.Fprintf(&b, "creg c0[%d];\n", c.ControlSize)
	b.WriteString("\n")

	for _, op := range c.ops {
		switch op.Kind {
		case OpX, OpH:
			fmt.Fprintf(&b, "%s %s;\n", op.Kind, op.Target)
		case OpCX:
			fmt.Fprintf(&b, "cx %s,%s;\n", op.Control, op.Target)
		case OpU1:
			fmt.Fprintf(&b, "u1(%s) %s;\n", formatAngle(op.Angle), op.Target)
		case OpCU1:
			fmt.Fprintf(&b, "cu1(%s) %s,%s;\n", formatAngle(op.Angle), op.Control, op.Target)
		case OpBarrier:
			fmt.Fprintf(&b, "barrier %s;\n", op.Register)
		case OpMeasure:
			fmt.Fprintf(&b, "measure %s -> c0[%d];\n", op.Target, op.Clbit)
		default:
			return "", &UnsupportedOperationError{Kind: op.Kind}
		}
	}

	return b.String(), nil
}

func formatAngle(angle float64) string {
	return strconv.FormatFloat(angle, 'g', 17, 64)
}
