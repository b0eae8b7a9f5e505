package pqm

import "fmt"

// OpKind identifies a circuit operation.
type OpKind int

const (
	OpX OpKind = iota
	OpH
	OpCX
	OpU1
	OpCU1
	OpBarrier
	OpMeasure
	OpInitialize
)

func (k OpKind) String() string {
	switch k {
	case OpX:
		return "x"
	case OpH:
		return "h"
	case OpCX:
		return "cx"
	case OpU1:
		return "u1"
	case OpCU1:
		return "cu1"
	case OpBarrier:
		return "barrier"
	case OpMeasure:
		return "measure"
	case OpInitialize:
		return "initialize"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

/*
Operation is one step of a circuit. Only the fields relevant to Kind are set:
Angle for the phase rotations, Control for CX and CU1, Clbit for Measure, Register
for Barrier and Amplitudes for Initialize.
*/
type Operation struct {
	Kind       OpKind
	Target     Qubit
	Control    Qubit
	Angle      float64
	Clbit      int
	Register   Register
	Amplitudes []complex128
}

func (op Operation) String() string {
	switch op.Kind {
	case OpU1:
		return fmt.Sprintf("u1(%g) %s", op.Angle, op.Target)
	case OpCX:
		return fmt.Sprintf("cx %s,%s", op.Control, op.Target)
	case OpCU1:
		return fmt.Sprintf("cu1(%g) %s,%s", op.Angle, op.Control, op.Target)
	case OpBarrier:
		return fmt.Sprintf("barrier %s", op.Register)
	case OpMeasure:
		return fmt.Sprintf("measure %s -> c[%d]", op.Target, op.Clbit)
	case OpInitialize:
		return fmt.Sprintf("initialize(%d amplitudes) %s", len(op.Amplitudes), op.Register)
	default:
		return fmt.Sprintf("%s %s", op.Kind, op.Target)
	}
}

/*
Circuit is the ordered operation sequence over a memory register of
MemorySize qubits and a control register of ControlSize qubits, each control
qubit owning one classical bit. It is the executable description handed to
a Backend.
*/
type Circuit struct {
	Name        string
	MemorySize  int
	ControlSize int
	ops         []Operation
}

func NewCircuit(name string, memorySize, controlSize int) *Circuit {
	return &Circuit{
		Name:        name,
		MemorySize:  memorySize,
		ControlSize: controlSize,
		ops:         make([]Operation, 0),
	}
}

func (c *Circuit) X(q Qubit) {
	c.ops = append(c.ops, Operation{Kind: OpX, Target: q})
}

func (c *Circuit) H(q Qubit) {
	c.ops = append(c.ops, Operation{Kind: OpH, Target: q})
}

// CX flips target when control is |1⟩.
func (c *Circuit) CX(control, target Qubit) {
	c.ops = append(c.ops, Operation{Kind: OpCX, Target: target, Control: control})
}

// U1 applies the phase e^{iλ} to the |1⟩ component of q.
func (c *Circuit) U1(lambda float64, q Qubit) {
	c.ops = append(c.ops, Operation{Kind: OpU1, Target: q, Angle: lambda})
}

// CU1 applies U1(λ) to target when control is |1⟩.
func (c *Circuit) CU1(lambda float64, control, target Qubit) {
	c.ops = append(c.ops, Operation{Kind: OpCU1, Target: target, Control: control, Angle: lambda})
}

func (c *Circuit) Barrier(r Register) {
	c.ops = append(c.ops, Operation{Kind: OpBarrier, Register: r})
}

func (c *Circuit) Measure(q Qubit, clbit int) {
	c.ops = append(c.ops, Operation{Kind: OpMeasure, Target: q, Clbit: clbit})
}

// Initialize prepares the memory register in the given amplitude vector.
func (c *Circuit) Initialize(amplitudes []complex128) {
	amps := make([]complex128, len(amplitudes))
	copy(amps, amplitudes)
	c.ops = append(c.ops, Operation{Kind: OpInitialize, Register: MemoryRegister, Amplitudes: amps})
}

// Operations returns a copy of the operation sequence.
func (c *Circuit) Operations() []Operation {
	out := make([]Operation, len(c.ops))
	copy(out, c.ops)
	return out
}

func (c *Circuit) Len() int {
	return len(c.ops)
}

// Count returns how many operations of the given kind the circuit holds.
func (c *Circuit) Count(kind OpKind) int {
	n := 0
	for _, op := range c.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

/*
Clone returns an independent copy, so a prepared circuit can be handed to an
executor while the memory that built it keeps growing its own sequence.
*/
func (c *Circuit) Clone() *Circuit {
	out := NewCircuit(c.Name, c.MemorySize, c.ControlSize)
	out.ops = make([]Operation, len(c.ops))

	for i, op := range c.ops {
		if op.Amplitudes != nil {
			op.Amplitudes = append([]complex128(nil), op.Amplitudes...)
		}
		out.ops[i] = op
	}

	return out
}

// Qubits is the width of the circuit over both registers.
func (c *Circuit) Qubits() int {
	return c.MemorySize + c.ControlSize
}

// wire maps a register address onto the flat qubit index used by StateVector.
func (c *Circuit) wire(q Qubit) (int, error) {
	switch q.Register {
	case MemoryRegister:
		if q.Index < 0 || q.Index >= c.MemorySize {
			return 0, &InvalidParameterError{Name: "qubit", Value: q}
		}
		return q.Index, nil
	case ControlRegister:
		if q.Index < 0 || q.Index >= c.ControlSize {
			return 0, &InvalidParameterError{Name: "qubit", Value: q}
		}
		return c.MemorySize + q.Index, nil
	default:
		return 0, &InvalidParameterError{Name: "register", Value: q.Register}
	}
}
