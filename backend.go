package pqm

import (
	"context"
	"sort"
	"strings"
)

/*
Backend executes circuits and reports one histogram per circuit, keyed by
circuit name. Implementations decide how circuits run; the memory and the
oracle never depend on one.
*/
type Backend interface {
	Name() string
	Run(ctx context.Context, circuits []*Circuit, shots int) (*Result, error)
}

/*
Counts maps a measured outcome to how often it was seen. Outcome strings
list the highest classical bit first, so clbit 0 is the last character.
*/
type Counts map[string]int

func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Probability is the observed frequency of an outcome, 0 for an empty histogram.
func (c Counts) Probability(outcome string) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c[outcome]) / float64(total)
}

// Probabilities normalizes the histogram into frequencies summing to 1.
func (c Counts) Probabilities() map[string]float64 {
	out := make(map[string]float64, len(c))
	total := c.Total()
	if total == 0 {
		return out
	}
	for k, n := range c {
		out[k] = float64(n) / float64(total)
	}
	return out
}

// Outcomes returns the observed outcomes in lexical order.
func (c Counts) Outcomes() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

/*
ZeroProbability is the observed probability that every one of the c
control bits read 0.
*/
func ZeroProbability(counts Counts, c int) float64 {
	return counts.Probability(strings.Repeat("0", c))
}

// ExperimentResult is the histogram of one circuit.
type ExperimentResult struct {
	Name   string
	Counts Counts
}

// Result collects the histograms of one backend job, in submission order.
type Result struct {
	Backend     string
	Experiments []ExperimentResult
}

func (r *Result) Names() []string {
	names := make([]string, len(r.Experiments))
	for i, e := range r.Experiments {
		names[i] = e.Name
	}
	return names
}

func (r *Result) Counts(name string) (Counts, bool) {
	for _, e := range r.Experiments {
		if e.Name == name {
			return e.Counts, true
		}
	}
	return nil, false
}
