package pqm

import (
	"math/rand"
	"strings"
)

/*
Pattern is a fixed-length sequence of bits. Position i of a pattern is
written into memory qubit i, and the string form lists position 0 first.
*/
type Pattern []uint8

/*
ParsePattern reads a pattern from a string of '0' and '1' characters.
*/
func ParsePattern(s string) (Pattern, error) {
	p := make(Pattern, 0, len(s))

	for i, r := range s {
		switch r {
		case '0':
			p = append(p, 0)
		case '1':
			p = append(p, 1)
		default:
			return nil, &InvalidBitError{Position: i, Value: r}
		}
	}

	return p, nil
}

// MustPattern is ParsePattern for literals known to be valid.
func MustPattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePatterns parses every string of a pattern set.
func ParsePatterns(values ...string) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(values))

	for _, v := range values {
		p, err := ParsePattern(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	return patterns, nil
}

/*
DecimalPattern renders value as a size-bit binary string, most significant
bit first, and parses it as a pattern. Value 1 with size 3 is "001".
*/
func DecimalPattern(value, size int) Pattern {
	p := make(Pattern, size)

	for i := size - 1; i >= 0 && value > 0; i-- {
		p[i] = uint8(value & 1)
		value >>= 1
	}

	return p
}

// RandomPattern draws a uniformly random pattern of the given size.
func RandomPattern(rng *rand.Rand, size int) Pattern {
	p := make(Pattern, size)
	for i := range p {
		p[i] = uint8(rng.Intn(2))
	}
	return p
}

func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(len(p))

	for _, bit := range p {
		if bit == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}

	return b.String()
}

// Index maps the pattern onto the memory register basis index, where bit i
// of the index is qubit i.
func (p Pattern) Index() int {
	idx := 0
	for i, bit := range p {
		if bit == 1 {
			idx |= 1 << i
		}
	}
	return idx
}

func (p Pattern) Equal(other Pattern) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

/*
HammingDistance counts the positions at which u and v differ.
*/
func HammingDistance(u, v Pattern) (int, error) {
	if len(u) != len(v) {
		return 0, &LengthMismatchError{Left: len(u), Right: len(v)}
	}

	diff := 0
	for i := range u {
		if u[i] != v[i] {
			diff++
		}
	}

	return diff, nil
}
