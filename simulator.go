package pqm

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
Execute runs the unitary part of a circuit on a fresh |0…0⟩ register and
returns the final state. Measurements are deferred: they are read from the
final state by OutcomeDistribution, which is exact as long as no gate acts
on a control qubit after it is measured.
*/
func Execute(c *Circuit) (*StateVector, error) {
	sv := NewStateVector(c.Qubits())

	for _, op := range c.ops {
		switch op.Kind {
		case OpX, OpH, OpU1:
			q, err := c.wire(op.Target)
			if err != nil {
				return nil, err
			}
			switch op.Kind {
			case OpX:
				sv.ApplyX(q)
			case OpH:
				sv.ApplyH(q)
			default:
				sv.ApplyU1(q, op.Angle)
			}
		case OpCX, OpCU1:
			ctrl, err := c.wire(op.Control)
			if err != nil {
				return nil, err
			}
			target, err := c.wire(op.Target)
			if err != nil {
				return nil, err
			}
			if op.Kind == OpCX {
				sv.ApplyCX(ctrl, target)
			} else {
				sv.ApplyCU1(ctrl, target, op.Angle)
			}
		case OpInitialize:
			if err := sv.Initialize(c.MemorySize, op.Amplitudes); err != nil {
				return nil, err
			}
		case OpBarrier, OpMeasure:
		default:
			return nil, &UnsupportedOperationError{Kind: op.Kind}
		}
	}

	return sv, nil
}

/*
OutcomeDistribution is the exact probability of every classical outcome of
the circuit, keyed like Counts. Classical bits that are never measured
read 0.
*/
func OutcomeDistribution(c *Circuit) (map[string]float64, error) {
	sv, err := Execute(c)
	if err != nil {
		return nil, err
	}

	measured := make(map[int]int)
	for _, op := range c.ops {
		if op.Kind != OpMeasure {
			continue
		}
		if op.Clbit < 0 || op.Clbit >= c.ControlSize {
			return nil, &InvalidParameterError{Name: "clbit", Value: op.Clbit}
		}
		q, err := c.wire(op.Target)
		if err != nil {
			return nil, err
		}
		measured[op.Clbit] = q
	}

	clbits := make([]int, 0, len(measured))
	for clbit := range measured {
		clbits = append(clbits, clbit)
	}
	sort.Ints(clbits)

	wires := make([]int, len(clbits))
	for j, clbit := range clbits {
		wires[j] = measured[clbit]
	}

	marginal := sv.MarginalProbabilities(wires)
	out := make(map[string]float64)

	for outcome, p := range marginal {
		if p == 0 {
			continue
		}

		bits := []byte(strings.Repeat("0", c.ControlSize))
		for j, clbit := range clbits {
			if outcome&(1<<j) != 0 {
				bits[c.ControlSize-1-clbit] = '1'
			}
		}
		out[string(bits)] += p
	}

	return out, nil
}

/*
Simulator is the in-process Backend: every circuit is executed exactly and
then sampled shot by shot from its outcome distribution. A seeded simulator
reproduces its histograms for the same sequence of jobs.
*/
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

func (s *Simulator) Name() string {
	return "statevector_simulator"
}

func (s *Simulator) Run(ctx context.Context, circuits []*Circuit, shots int) (*Result, error) {
	if shots < 1 {
		return nil, &InvalidParameterError{Name: "shots", Value: shots}
	}

	result := &Result{
		Backend:     s.Name(),
		Experiments: make([]ExperimentResult, 0, len(circuits)),
	}

	for _, c := range circuits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dist, err := OutcomeDistribution(c)
		if err != nil {
			return nil, err
		}

		result.Experiments = append(result.Experiments, ExperimentResult{
			Name:   c.Name,
			Counts: s.sample(dist, shots),
		})
	}

	errnie.Info("Simulator.Run - circuits %d, shots %d", len(circuits), shots)

	return result, nil
}

func (s *Simulator) sample(dist map[string]float64, shots int) Counts {
	outcomes := make([]string, 0, len(dist))
	for k := range dist {
		outcomes = append(outcomes, k)
	}
	sort.Strings(outcomes)

	probs := make([]float64, len(outcomes))
	for i, k := range outcomes {
		probs[i] = dist[k]
	}

	counts := make(Counts, len(outcomes))
	if len(outcomes) == 0 {
		return counts
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < shots; i++ {
		counts[outcomes[Sample(s.rng, probs)]]++
	}

	return counts
}
