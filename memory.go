package pqm

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/theapemachine/errnie"
)

/*
Memory is a probabilistic quantum memory: a memory register of size qubits,
a control register of controlSize qubits and the circuit that writes
patterns into the memory register and later queries it.

A Memory is built for a single encode, retrieve and measure cycle. It is not
safe for concurrent use; hand Circuit() snapshots to other goroutines.
*/
type Memory struct {
	size        int
	controlSize int
	circuit     *Circuit
	pattern     Pattern
	query       Pattern
	scale       float64
}

// MemoryOption configures a Memory.
type MemoryOption func(*Memory)

// WithControlSize sets the number of control qubits.
func WithControlSize(c int) MemoryOption {
	return func(m *Memory) {
		m.controlSize = c
	}
}

// WithName sets the circuit name, which executors report results under.
func WithName(name string) MemoryOption {
	return func(m *Memory) {
		m.circuit.Name = name
	}
}

/*
NewMemory creates a memory of size qubits with one control qubit unless
WithControlSize says otherwise. The memory register starts in |0…0⟩.
*/
func NewMemory(size int, opts ...MemoryOption) (*Memory, error) {
	if size < 1 {
		return nil, &InvalidParameterError{Name: "memory size", Value: size}
	}

	m := &Memory{
		size:        size,
		controlSize: 1,
		circuit:     NewCircuit("pqm", size, 1),
		pattern:     make(Pattern, size),
		scale:       1,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.controlSize < 1 {
		return nil, &InvalidParameterError{Name: "control size", Value: m.controlSize}
	}
	m.circuit.ControlSize = m.controlSize

	errnie.Info("NewMemory - name %s, size %d, control %d", m.circuit.Name, m.size, m.controlSize)

	return m, nil
}

func (m *Memory) Size() int        { return m.size }
func (m *Memory) ControlSize() int { return m.controlSize }
func (m *Memory) Pattern() Pattern { return m.pattern.Clone() }
func (m *Memory) Query() Pattern   { return m.query.Clone() }
func (m *Memory) Scale() float64   { return m.scale }

// Circuit returns a snapshot of the operations emitted so far.
func (m *Memory) Circuit() *Circuit {
	return m.circuit.Clone()
}

/*
EncodeSingle writes one pattern as a computational basis state by flipping
every qubit whose bit is 1.
*/
func (m *Memory) EncodeSingle(pattern Pattern) error {
	if len(pattern) != m.size {
		return &PatternLengthMismatchError{Expected: m.size, Actual: len(pattern)}
	}

	for i, bit := range pattern {
		if bit == 1 {
			m.circuit.X(MemoryQubit(i))
		}
	}

	return nil
}

/*
EncodePair writes the equal superposition (|a⟩+|b⟩)/√2. The first position
where the patterns disagree gets a Hadamard; every further disagreeing
position copies it with a CX, followed by a flip where that bit of a is the
complement of a's bit at the Hadamard position. Positions where both
patterns hold 1 get a flip. For patterns that differ in one position this
is a Hadamard on that position and flips on the shared ones.
*/
func (m *Memory) EncodePair(a, b Pattern) error {
	if len(a) != m.size {
		return &PatternLengthMismatchError{Expected: m.size, Actual: len(a)}
	}
	if len(b) != m.size {
		return &PatternLengthMismatchError{Expected: m.size, Actual: len(b)}
	}

	pivot := -1

	for i := range a {
		switch {
		case a[i] != b[i] && pivot < 0:
			pivot = i
			m.circuit.H(MemoryQubit(i))
		case a[i] != b[i]:
			m.circuit.CX(MemoryQubit(pivot), MemoryQubit(i))
			if a[i] != a[pivot] {
				m.circuit.X(MemoryQubit(i))
			}
		case a[i] == 1:
			m.circuit.X(MemoryQubit(i))
		}
	}

	return nil
}

/*
Encode picks the gate-level encoder for the pattern set. One and two
patterns are supported; larger sets need InitPatterns.
*/
func (m *Memory) Encode(patterns ...Pattern) error {
	switch len(patterns) {
	case 1:
		return m.EncodeSingle(patterns[0])
	case 2:
		return m.EncodePair(patterns[0], patterns[1])
	default:
		return &UnsupportedPatternCountError{Count: len(patterns), Max: 2}
	}
}

/*
Store records the raw pattern and flips the qubits at positions equal to 1.
It writes a single pattern literally and does not build a multi-pattern
superposition.
*/
func (m *Memory) Store(pattern Pattern) error {
	if len(pattern) > m.size {
		return &PatternTooLongError{Length: len(pattern), MemorySize: m.size}
	}

	m.pattern = pattern.Clone()

	for i, bit := range pattern {
		if bit == 1 {
			m.circuit.X(MemoryQubit(i))
		}
	}

	return nil
}

/*
SetMemory prepares the memory register in an arbitrary normalized amplitude
vector of 2^size entries, indexed as Pattern.Index.
*/
func (m *Memory) SetMemory(amplitudes []complex128) error {
	if len(amplitudes) != 1<<m.size {
		return &NormalizationError{Size: len(amplitudes), Norm: vectorNorm(amplitudes)}
	}

	if norm := vectorNorm(amplitudes); math.Abs(norm-1) > normTolerance {
		return &NormalizationError{Size: len(amplitudes), Norm: norm}
	}

	m.circuit.Initialize(amplitudes)
	return nil
}

/*
InitFromDistribution turns non-negative weights over basis states, keyed by
pattern string, into the amplitudes sqrt(w/Σw) and prepares them.
*/
func (m *Memory) InitFromDistribution(weights map[string]float64) error {
	amplitudes, err := AmplitudesFromDistribution(m.size, weights)
	if err != nil {
		return err
	}
	return m.SetMemory(amplitudes)
}

// InitPatterns prepares the equal superposition of the distinct patterns.
func (m *Memory) InitPatterns(patterns ...Pattern) error {
	if len(patterns) == 0 {
		return &UnsupportedPatternCountError{Count: 0}
	}

	weights := make(map[string]float64, len(patterns))
	for _, p := range patterns {
		if len(p) != m.size {
			return &PatternLengthMismatchError{Expected: m.size, Actual: len(p)}
		}
		weights[p.String()] = 1
	}

	return m.InitFromDistribution(weights)
}

/*
AmplitudesFromDistribution builds the normalized amplitude vector for a
size-qubit register from basis-state weights.
*/
func AmplitudesFromDistribution(size int, weights map[string]float64) ([]complex128, error) {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 0.0
	for _, k := range keys {
		w := weights[k]
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, &InvalidParameterError{Name: "weight " + k, Value: w}
		}
		total += w
	}

	if total == 0 {
		return nil, &NormalizationError{Size: 1 << size, Norm: 0}
	}

	amplitudes := make([]complex128, 1<<size)
	for _, k := range keys {
		p, err := ParsePattern(k)
		if err != nil {
			return nil, err
		}
		if len(p) != size {
			return nil, &PatternLengthMismatchError{Expected: size, Actual: len(p)}
		}
		amplitudes[p.Index()] = complex(math.Sqrt(weights[k]/total), 0)
	}

	return amplitudes, nil
}

const normTolerance = 1e-9

func vectorNorm(v []complex128) float64 {
	sum := 0.0
	for _, a := range v {
		abs := cmplx.Abs(a)
		sum += abs * abs
	}
	return math.Sqrt(sum)
}
