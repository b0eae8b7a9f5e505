package pqm

import (
	"math"

	"github.com/theapemachine/errnie"
)

/*
Recover appends the retrieval for query to the memory circuit and measures
every control qubit into its classical bit.

The query is XORed into the memory register, every memory qubit gets the
phase π/(2ns), and each control qubit is split by a Hadamard before
applying the phase -π/(ns) to every memory qubit under its control. The
XOR is then undone and the control qubits are closed by a second Hadamard.
A stored basis state at Hamming distance d from the query leaves each
control qubit in cos(v)|0⟩ + i·sin(v)|1⟩ with v = πd/(2ns), so reading 0
gets likelier as the distance falls, and is certain at distance 0.

Control qubits act independently; with one control qubit the sequence is
the single-control retrieval gate for gate.
*/
func (m *Memory) Recover(query Pattern, scale float64) error {
	if len(query) != m.size {
		return &PatternLengthMismatchError{Expected: m.size, Actual: len(query)}
	}

	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return &InvalidParameterError{Name: "scale parameter", Value: scale}
	}

	m.query = query.Clone()
	m.scale = scale

	n := float64(m.size)

	m.xorQuery(query)

	for k := 0; k < m.size; k++ {
		m.circuit.U1(math.Pi/(2*n*scale), MemoryQubit(k))
	}

	for j := 0; j < m.controlSize; j++ {
		m.circuit.H(ControlQubit(j))

		for k := 0; k < m.size; k++ {
			m.circuit.CU1(-math.Pi/(n*scale), ControlQubit(j), MemoryQubit(k))
		}
	}

	m.xorQuery(query)

	for j := 0; j < m.controlSize; j++ {
		m.circuit.H(ControlQubit(j))
	}

	m.circuit.Barrier(MemoryRegister)

	for j := 0; j < m.controlSize; j++ {
		m.circuit.Measure(ControlQubit(j), j)
	}

	errnie.Info("Recover - circuit %s, query %s, scale %v, operations %d", m.circuit.Name, query, scale, m.circuit.Len())

	return nil
}

func (m *Memory) xorQuery(query Pattern) {
	for k, bit := range query {
		if bit == 1 {
			m.circuit.X(MemoryQubit(k))
		}
	}
}
