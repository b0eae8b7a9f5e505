package pqm

import "math"

/*
RetrievalDistribution is the closed-form law of a retrieval with c control
qubits and scale parameter s against a pattern set held in equal
superposition. Entry l is the probability of reading exactly l control bits
as 1:

	P(l) = C(c,l) · (1/p) · Σ cos(v)^(2c-2l) · sin(v)^(2l),  v = π·d/(2·n·s)

where p is the number of patterns, n the query length and d the Hamming
distance between the query and each pattern. The entries sum to 1.
*/
func RetrievalDistribution(query Pattern, patterns []Pattern, c int, s float64) ([]float64, error) {
	if c < 1 {
		return nil, &InvalidParameterError{Name: "control size", Value: c}
	}

	angles, err := retrievalAngles(query, patterns, s)
	if err != nil {
		return nil, err
	}

	p := float64(len(patterns))
	probs := make([]float64, c+1)

	for l := 0; l <= c; l++ {
		sum := 0.0
		for _, v := range angles {
			sum += math.Pow(math.Cos(v), float64(2*c-2*l)) * math.Pow(math.Sin(v), float64(2*l))
		}
		probs[l] = Binomial(c, l) * sum / p
	}

	return probs, nil
}

/*
RetrievalProbabilityZero is the single control qubit case: the probability
of reading the control bit as 0, (1/p) · Σ cos(v)^2.
*/
func RetrievalProbabilityZero(query Pattern, patterns []Pattern, s float64) (float64, error) {
	angles, err := retrievalAngles(query, patterns, s)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for _, v := range angles {
		cos := math.Cos(v)
		sum += cos * cos
	}

	return sum / float64(len(patterns)), nil
}

// Binomial returns n choose k as a float, 0 outside 0 <= k <= n.
func Binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}

	out := 1.0
	for i := 1; i <= k; i++ {
		out = out * float64(n-k+i) / float64(i)
	}

	return math.Round(out)
}

func retrievalAngles(query Pattern, patterns []Pattern, s float64) ([]float64, error) {
	if len(patterns) == 0 {
		return nil, &UnsupportedPatternCountError{Count: 0}
	}

	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return nil, &InvalidParameterError{Name: "scale parameter", Value: s}
	}

	if len(query) == 0 {
		return nil, &InvalidParameterError{Name: "query length", Value: 0}
	}

	step := math.Pi / (2 * float64(len(query)) * s)
	angles := make([]float64, len(patterns))

	for i, pattern := range patterns {
		d, err := HammingDistance(query, pattern)
		if err != nil {
			return nil, err
		}
		angles[i] = step * float64(d)
	}

	return angles, nil
}
