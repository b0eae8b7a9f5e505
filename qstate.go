package pqm

import (
	"math"
	"math/cmplx"
	"math/rand"
)

/*
StateVector holds the 2^qubits amplitudes of a register. Bit q of a basis
index is the value of qubit q. Gate methods take flat qubit indices and
assume they are in range; Execute maps circuit addresses onto them.
*/
type StateVector struct {
	qubits int
	Vector []complex128
}

// NewStateVector returns the all-zero state |0…0⟩.
func NewStateVector(qubits int) *StateVector {
	v := make([]complex128, 1<<qubits)
	v[0] = 1
	return &StateVector{qubits: qubits, Vector: v}
}

func (sv *StateVector) Qubits() int {
	return sv.qubits
}

func (sv *StateVector) ApplyX(q int) {
	bit := 1 << q
	for i := range sv.Vector {
		if i&bit == 0 {
			sv.Vector[i], sv.Vector[i|bit] = sv.Vector[i|bit], sv.Vector[i]
		}
	}
}

func (sv *StateVector) ApplyH(q int) {
	// H = 1/√2 * [1  1]
	//           [1 -1]
	bit := 1 << q
	norm := complex(math.Sqrt(2), 0)
	for i := range sv.Vector {
		if i&bit == 0 {
			alpha, beta := sv.Vector[i], sv.Vector[i|bit]
			sv.Vector[i] = (alpha + beta) / norm
			sv.Vector[i|bit] = (alpha - beta) / norm
		}
	}
}

func (sv *StateVector) ApplyCX(control, target int) {
	cbit, tbit := 1<<control, 1<<target
	for i := range sv.Vector {
		if i&cbit != 0 && i&tbit == 0 {
			sv.Vector[i], sv.Vector[i|tbit] = sv.Vector[i|tbit], sv.Vector[i]
		}
	}
}

// ApplyU1 multiplies every component where q is |1⟩ by e^{iλ}.
func (sv *StateVector) ApplyU1(q int, lambda float64) {
	sv.phase(1<<q, lambda)
}

// ApplyCU1 multiplies every component where both qubits are |1⟩ by e^{iλ}.
func (sv *StateVector) ApplyCU1(control, target int, lambda float64) {
	sv.phase(1<<control|1<<target, lambda)
}

func (sv *StateVector) phase(mask int, lambda float64) {
	phase := cmplx.Exp(complex(0, lambda))
	for i := range sv.Vector {
		if i&mask == mask {
			sv.Vector[i] *= phase
		}
	}
}

/*
Initialize prepares the low width qubits in the given amplitudes, which
must have 2^width entries. Those qubits must still be |0…0⟩; the rest of
the register is left as it is.
*/
func (sv *StateVector) Initialize(width int, amplitudes []complex128) error {
	if len(amplitudes) != 1<<width {
		return &NormalizationError{Size: len(amplitudes), Norm: vectorNorm(amplitudes)}
	}

	mask := 1<<width - 1
	for i, a := range sv.Vector {
		if i&mask != 0 && cmplx.Abs(a) > normTolerance {
			return ErrInitializeNotReset
		}
	}

	next := make([]complex128, len(sv.Vector))
	for i, a := range sv.Vector {
		if i&mask != 0 || a == 0 {
			continue
		}
		for m, amp := range amplitudes {
			next[i|m] = a * amp
		}
	}

	sv.Vector = next
	return nil
}

func (sv *StateVector) Amplitude(index int) complex128 {
	return sv.Vector[index]
}

func (sv *StateVector) Probability(index int) float64 {
	abs := cmplx.Abs(sv.Vector[index])
	return abs * abs
}

func (sv *StateVector) Norm() float64 {
	return vectorNorm(sv.Vector)
}

/*
MarginalProbabilities sums the squared amplitudes over every qubit not
listed. Bit j of an outcome index is the value of qubits[j].
*/
func (sv *StateVector) MarginalProbabilities(qubits []int) []float64 {
	probs := make([]float64, 1<<len(qubits))

	for i := range sv.Vector {
		p := sv.Probability(i)
		if p == 0 {
			continue
		}

		outcome := 0
		for j, q := range qubits {
			if i&(1<<q) != 0 {
				outcome |= 1 << j
			}
		}
		probs[outcome] += p
	}

	return probs
}

/*
Sample draws an outcome index from a probability table the way a collapse
does: walk the cumulative probabilities until they pass a uniform draw.
The table is normalized first, so rounding drift in the inputs is ignored.
*/
func Sample(rng *rand.Rand, probs []float64) int {
	total := 0.0
	for _, p := range probs {
		total += p
	}

	if total == 0 {
		return 0
	}

	r := rng.Float64() * total
	cumulative := 0.0
	last := 0

	for i, p := range probs {
		if p == 0 {
			continue
		}
		cumulative += p
		last = i
		if r < cumulative {
			return i
		}
	}

	return last
}
