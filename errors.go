package pqm

import (
	"errors"
	"fmt"
)

var (
	// ErrInitializeNotReset is returned when an amplitude initializer is
	// executed against a memory register that already left |0…0⟩.
	ErrInitializeNotReset = errors.New("initialize requires the memory register in the zero state")

	// ErrCircuitOpen is returned by a RetryingBackend while its breaker rejects jobs.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// PatternTooLongError is returned by Store when the pattern does not fit the memory.
type PatternTooLongError struct {
	Length     int
	MemorySize int
}

func (e *PatternTooLongError) Error() string {
	return fmt.Sprintf("pattern too long: %d bits for a memory of %d qubits", e.Length, e.MemorySize)
}

// PatternLengthMismatchError is returned when a pattern or query does not
// have exactly the memory size.
type PatternLengthMismatchError struct {
	Expected int
	Actual   int
}

func (e *PatternLengthMismatchError) Error() string {
	return fmt.Sprintf("pattern length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// UnsupportedPatternCountError is returned by the manual encoders when the
// pattern set size has no gate-level encoding.
type UnsupportedPatternCountError struct {
	Count int
	Max   int
}

func (e *UnsupportedPatternCountError) Error() string {
	if e.Count == 0 {
		return "unsupported pattern count: empty pattern set"
	}
	return fmt.Sprintf("unsupported pattern count: %d (at most %d)", e.Count, e.Max)
}

// LengthMismatchError is returned when two bit sequences are compared over
// unequal lengths.
type LengthMismatchError struct {
	Left  int
	Right int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: %d != %d", e.Left, e.Right)
}

// InvalidParameterError reports a numeric argument outside its domain.
type InvalidParameterError struct {
	Name  string
	Value any
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Name, e.Value)
}

// InvalidBitError reports a pattern symbol that is neither 0 nor 1.
type InvalidBitError struct {
	Position int
	Value    rune
}

func (e *InvalidBitError) Error() string {
	return fmt.Sprintf("invalid bit %q at position %d", e.Value, e.Position)
}

// NormalizationError is returned when an amplitude vector cannot describe
// the memory register.
type NormalizationError struct {
	Size int
	Norm float64
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("amplitude vector of size %d has norm %g", e.Size, e.Norm)
}

// UnsupportedOperationError is returned by exporters and executors that
// cannot express an operation kind.
type UnsupportedOperationError struct {
	Kind OpKind
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Kind)
}
