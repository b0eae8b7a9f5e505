package pqm

import "fmt"

// Register names one of the two quantum registers of a memory circuit.
type Register int

const (
	MemoryRegister  Register = iota // stored patterns
	ControlRegister                 // measurement channel
)

func (r Register) String() string {
	switch r {
	case MemoryRegister:
		return "memory"
	case ControlRegister:
		return "ancilla"
	default:
		return fmt.Sprintf("register(%d)", int(r))
	}
}

/*
Qubit addresses a single qubit by register and position. It carries no
amplitudes: state lives in a StateVector, and a Circuit only refers to
qubits by address.
*/
type Qubit struct {
	Register Register
	Index    int
}

func MemoryQubit(i int) Qubit  { return Qubit{Register: MemoryRegister, Index: i} }
func ControlQubit(i int) Qubit { return Qubit{Register: ControlRegister, Index: i} }

func (q Qubit) String() string {
	return fmt.Sprintf("%s[%d]", q.Register, q.Index)
}
