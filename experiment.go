package pqm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/theapemachine/errnie"
	"golang.org/x/sync/errgroup"
)

// OracleBackendName labels the analytic predictions inside Results.
const OracleBackendName = "oracle"

// ErrMissingResult is returned when a comparison needs a histogram a sweep did not produce.
var ErrMissingResult = errors.New("missing result")

/*
PatternSet is a named pattern set. The name doubles as the circuit name, so
histograms of different backends line up by it.
*/
type PatternSet struct {
	Name     string
	Patterns []Pattern
}

// NewPatternSet names the set after its patterns, e.g. "00+01".
func NewPatternSet(patterns ...string) PatternSet {
	set := PatternSet{Name: strings.Join(patterns, "+")}
	for _, p := range patterns {
		set.Patterns = append(set.Patterns, MustPattern(p))
	}
	return set
}

// Catalog lists the pattern sets to sweep per memory size.
type Catalog map[int][]PatternSet

/*
DefaultCatalog holds the single patterns and pairs used to validate the
memory on one to four qubits. Every pair differs in exactly one position.
*/
func DefaultCatalog() Catalog {
	return Catalog{
		1: {
			NewPatternSet("0"),
			NewPatternSet("1"),
			NewPatternSet("0", "1"),
		},
		2: {
			NewPatternSet("00"),
			NewPatternSet("11"),
			NewPatternSet("00", "01"),
		},
		3: {
			NewPatternSet("000"),
			NewPatternSet("000", "010"),
			NewPatternSet("000", "100"),
			NewPatternSet("000", "001"),
			NewPatternSet("110", "111"),
			NewPatternSet("111"),
		},
		4: {
			NewPatternSet("0000"),
			NewPatternSet("0000", "0100"),
			NewPatternSet("1000"),
			NewPatternSet("0100", "1100"),
			NewPatternSet("1010"),
			NewPatternSet("0110", "1110"),
			NewPatternSet("1110"),
			NewPatternSet("0111", "1111"),
			NewPatternSet("1111"),
		},
	}
}

// InitMethod writes a pattern set into a fresh memory.
type InitMethod func(m *Memory, patterns []Pattern) error

// ManualInit uses the gate-level encoders, so it handles one or two patterns.
func ManualInit(m *Memory, patterns []Pattern) error {
	return m.Encode(patterns...)
}

// AmplitudeInit prepares the equal superposition with an amplitude initializer.
func AmplitudeInit(m *Memory, patterns []Pattern) error {
	return m.InitPatterns(patterns...)
}

func InitMethodByName(name string) (InitMethod, error) {
	switch name {
	case InitManual:
		return ManualInit, nil
	case InitAmplitude:
		return AmplitudeInit, nil
	default:
		return nil, &InvalidParameterError{Name: "init", Value: name}
	}
}

// DecimalInputs renders each value as a size-bit input pattern.
func DecimalInputs(values []int, size int) []Pattern {
	inputs := make([]Pattern, len(values))
	for i, v := range values {
		inputs[i] = DecimalPattern(v, size)
	}
	return inputs
}

// AllInputs enumerates the 2^size input patterns in counting order.
func AllInputs(size int) []Pattern {
	inputs := make([]Pattern, 1<<size)
	for v := range inputs {
		inputs[v] = DecimalPattern(v, size)
	}
	return inputs
}

/*
RandomAmplitudes draws a Gaussian amplitude vector over a size-qubit
register and normalizes it, for SetMemory.
*/
func RandomAmplitudes(rng *rand.Rand, size int, mu, sigma float64) []complex128 {
	amplitudes := make([]complex128, 1<<size)
	for i := range amplitudes {
		amplitudes[i] = complex(sigma*rng.NormFloat64()+mu, 0)
	}

	norm := vectorNorm(amplitudes)
	if norm == 0 {
		amplitudes[0] = 1
		return amplitudes
	}

	for i := range amplitudes {
		amplitudes[i] /= complex(norm, 0)
	}
	return amplitudes
}

// Results maps backend name to input pattern string to that job's result.
type Results map[string]map[string]*Result

/*
Runner sweeps every input of a configuration against every pattern set of
the catalog for its memory size. Each backend receives one job per input
holding a circuit per pattern set, and the oracle contributes the predicted
histogram of every pattern set under OracleBackendName.
*/
type Runner struct {
	config   *Config
	catalog  Catalog
	backends []Backend
	oracle   bool
	metrics  *Metrics

	mu    sync.Mutex
	cache map[string]*Result
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBackends adds execution backends. Each is wrapped with the configured retries and rate limit.
func WithBackends(backends ...Backend) RunnerOption {
	return func(r *Runner) {
		r.backends = append(r.backends, backends...)
	}
}

func WithCatalog(catalog Catalog) RunnerOption {
	return func(r *Runner) {
		r.catalog = catalog
	}
}

// WithoutOracle leaves the analytic predictions out of the results.
func WithoutOracle() RunnerOption {
	return func(r *Runner) {
		r.oracle = false
	}
}

func NewRunner(config *Config, opts ...RunnerOption) (*Runner, error) {
	if config == nil {
		config = NewConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		config:  config,
		catalog: DefaultCatalog(),
		oracle:  true,
		metrics: NewMetrics(),
		cache:   make(map[string]*Result),
	}

	for _, opt := range opts {
		opt(r)
	}

	backendOpts := []BackendOption{
		WithRetry(config.RetryAttempts, &ExponentialBackoff{Initial: config.RetryBackoff}),
		WithMetrics(r.metrics),
	}
	if config.JobInterval > 0 {
		backendOpts = append(backendOpts, WithRateLimit(config.Concurrency, config.JobInterval))
	}

	for i, b := range r.backends {
		r.backends[i] = NewRetryingBackend(b, backendOpts...)
	}

	return r, nil
}

func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// PatternSets returns the catalog entries swept for the configured memory size.
func (r *Runner) PatternSets() []PatternSet {
	return r.catalog[r.config.MemorySize]
}

// Inputs returns the configured inputs, or every input when none are listed.
func (r *Runner) Inputs() []Pattern {
	if len(r.config.Inputs) == 0 {
		return AllInputs(r.config.MemorySize)
	}
	return DecimalInputs(r.config.Inputs, r.config.MemorySize)
}

// Run executes the sweep. The first failing job cancels the rest.
func (r *Runner) Run(ctx context.Context) (Results, error) {
	sets := r.PatternSets()
	if len(sets) == 0 {
		return nil, &InvalidParameterError{Name: "memory_size (no catalog entry)", Value: r.config.MemorySize}
	}

	initMethod, err := InitMethodByName(r.config.Init)
	if err != nil {
		return nil, err
	}

	inputs := r.Inputs()
	results := make(Results)

	var mu sync.Mutex
	store := func(backend string, input Pattern, result *Result) {
		mu.Lock()
		defer mu.Unlock()
		if results[backend] == nil {
			results[backend] = make(map[string]*Result)
		}
		results[backend][input.String()] = result
	}

	if r.oracle {
		for _, input := range inputs {
			result, err := r.predict(input, sets)
			if err != nil {
				return nil, err
			}
			store(OracleBackendName, input, result)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)

	for _, backend := range r.backends {
		for _, input := range inputs {
			g.Go(func() error {
				result, err := r.execute(gctx, backend, input, sets, initMethod)
				if err != nil {
					return fmt.Errorf("input %s on %s: %w", input, backend.Name(), err)
				}
				store(backend.Name(), input, result)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	errnie.Info("Runner.Run - memory size %d, inputs %d, pattern sets %d, backends %d", r.config.MemorySize, len(inputs), len(sets), len(results))

	return results, nil
}

// JobName identifies a job by backend, input, init method and scale.
func (r *Runner) JobName(backend string, input Pattern) string {
	return fmt.Sprintf("%s_%s_%s_param%v", backend, input, r.config.Init, r.config.Scale)
}

func (r *Runner) execute(ctx context.Context, backend Backend, input Pattern, sets []PatternSet, initMethod InitMethod) (*Result, error) {
	name := r.JobName(backend.Name(), input)

	r.mu.Lock()
	cached, ok := r.cache[name]
	r.mu.Unlock()

	if ok {
		errnie.Info("Runner.execute - job %s served from cache", name)
		return cached, nil
	}

	circuits := make([]*Circuit, 0, len(sets))

	for _, set := range sets {
		m, err := NewMemory(r.config.MemorySize, WithControlSize(r.config.ControlSize), WithName(set.Name))
		if err != nil {
			return nil, err
		}
		if err := initMethod(m, set.Patterns); err != nil {
			return nil, fmt.Errorf("pattern set %s: %w", set.Name, err)
		}
		if err := m.Recover(input, r.config.Scale); err != nil {
			return nil, err
		}
		circuits = append(circuits, m.Circuit())
	}

	if r.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.JobTimeout)
		defer cancel()
	}

	result, err := backend.Run(ctx, circuits, r.config.Shots)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = result
	r.mu.Unlock()

	return result, nil
}

/*
predict builds the oracle histogram of every pattern set: each outcome
string with l ones gets the share P(l)/C(c,l) of the shots, since the
control qubits are independent and identical.
*/
func (r *Runner) predict(input Pattern, sets []PatternSet) (*Result, error) {
	c := r.config.ControlSize
	result := &Result{Backend: OracleBackendName}

	for _, set := range sets {
		dist, err := RetrievalDistribution(input, set.Patterns, c, r.config.Scale)
		if err != nil {
			return nil, fmt.Errorf("pattern set %s: %w", set.Name, err)
		}
		result.Experiments = append(result.Experiments, ExperimentResult{
			Name:   set.Name,
			Counts: PredictedCounts(dist, r.config.Shots),
		})
	}

	return result, nil
}

/*
PredictedCounts spreads a retrieval distribution over c = len(dist)-1
control bits into an expected histogram of shots.
*/
func PredictedCounts(dist []float64, shots int) Counts {
	c := len(dist) - 1
	counts := make(Counts)

	for outcome := 0; outcome < 1<<c; outcome++ {
		bits := make([]byte, c)
		ones := 0
		for j := 0; j < c; j++ {
			if outcome&(1<<j) != 0 {
				bits[c-1-j] = '1'
				ones++
			} else {
				bits[c-1-j] = '0'
			}
		}
		if n := int(math.Round(float64(shots) * dist[ones] / Binomial(c, ones))); n > 0 {
			counts[string(bits)] = n
		}
	}

	return counts
}

/*
MSE compares the probability of reading every control bit as 0 between a
reference backend and an observed backend, per pattern set, averaged over
the inputs.
*/
func MSE(results Results, reference, observed string, inputs []Pattern, controlSize int) (map[string]float64, error) {
	if len(inputs) == 0 {
		return nil, &InvalidParameterError{Name: "inputs", Value: 0}
	}

	refRuns, ok := results[reference]
	if !ok {
		return nil, fmt.Errorf("%w: backend %s", ErrMissingResult, reference)
	}
	obsRuns, ok := results[observed]
	if !ok {
		return nil, fmt.Errorf("%w: backend %s", ErrMissingResult, observed)
	}

	first, ok := refRuns[inputs[0].String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s input %s", ErrMissingResult, reference, inputs[0])
	}

	out := make(map[string]float64)

	for _, name := range first.Names() {
		sum := 0.0

		for _, input := range inputs {
			ref, err := countsFor(refRuns, reference, input, name)
			if err != nil {
				return nil, err
			}
			obs, err := countsFor(obsRuns, observed, input, name)
			if err != nil {
				return nil, err
			}

			diff := ZeroProbability(obs, controlSize) - ZeroProbability(ref, controlSize)
			sum += diff * diff
		}

		out[name] = sum / float64(len(inputs))
	}

	return out, nil
}

func countsFor(runs map[string]*Result, backend string, input Pattern, name string) (Counts, error) {
	result, ok := runs[input.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s input %s", ErrMissingResult, backend, input)
	}
	counts, ok := result.Counts(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s input %s pattern set %s", ErrMissingResult, backend, input, name)
	}
	return counts, nil
}

// BackendNames lists the backends present in the results, oracle first.
func (res Results) BackendNames() []string {
	names := make([]string, 0, len(res))
	for name := range res {
		if name != OracleBackendName {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if _, ok := res[OracleBackendName]; ok {
		names = append([]string{OracleBackendName}, names...)
	}
	return names
}
