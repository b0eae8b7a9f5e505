package pqm

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// memoryAmplitudes executes the circuit built so far and returns the state.
func memoryAmplitudes(m *Memory) *StateVector {
	sv, err := Execute(m.Circuit())
	So(err, ShouldBeNil)
	return sv
}

func TestNewMemory(t *testing.T) {
	Convey("Given memory sizes", t, func() {
		Convey("A positive size should create a memory in the zero state", func() {
			m, err := NewMemory(3)
			So(err, ShouldBeNil)
			So(m.Size(), ShouldEqual, 3)
			So(m.ControlSize(), ShouldEqual, 1)
			So(m.Pattern().String(), ShouldEqual, "000")
			So(m.Scale(), ShouldEqual, 1)
			So(m.Circuit().Len(), ShouldEqual, 0)
		})

		Convey("Options should set the control size and the circuit name", func() {
			m, err := NewMemory(2, WithControlSize(3), WithName("00+01"))
			So(err, ShouldBeNil)
			So(m.ControlSize(), ShouldEqual, 3)
			So(m.Circuit().Name, ShouldEqual, "00+01")
			So(m.Circuit().Qubits(), ShouldEqual, 5)
		})

		Convey("Non-positive sizes should be rejected", func() {
			_, err := NewMemory(0)
			var param *InvalidParameterError
			So(errors.As(err, &param), ShouldBeTrue)

			_, err = NewMemory(2, WithControlSize(0))
			So(errors.As(err, &param), ShouldBeTrue)
			So(param.Name, ShouldEqual, "control size")
		})
	})
}

func TestEncodeSingle(t *testing.T) {
	Convey("Given a three qubit memory", t, func() {
		m, err := NewMemory(3)
		So(err, ShouldBeNil)

		Convey("A pattern should become its basis state", func() {
			pattern := MustPattern("101")
			So(m.EncodeSingle(pattern), ShouldBeNil)
			So(m.Circuit().Count(OpX), ShouldEqual, 2)

			sv := memoryAmplitudes(m)
			So(sv.Probability(pattern.Index()), ShouldAlmostEqual, 1.0, tolerance)
		})

		Convey("A pattern of another length should be rejected", func() {
			err := m.EncodeSingle(MustPattern("10"))
			var mismatch *PatternLengthMismatchError
			So(errors.As(err, &mismatch), ShouldBeTrue)
			So(mismatch.Expected, ShouldEqual, 3)
			So(mismatch.Actual, ShouldEqual, 2)
		})
	})
}

func TestEncodePair(t *testing.T) {
	Convey("Given pattern pairs", t, func() {
		pairs := [][2]string{
			{"0", "1"},
			{"00", "01"},
			{"00", "11"},
			{"01", "10"},
			{"110", "111"},
			{"101", "010"},
			{"0110", "1110"},
			{"0011", "1001"},
		}

		Convey("Each pair should be held in equal superposition", func() {
			for _, pair := range pairs {
				a, b := MustPattern(pair[0]), MustPattern(pair[1])

				m, err := NewMemory(len(a))
				So(err, ShouldBeNil)
				So(m.EncodePair(a, b), ShouldBeNil)

				sv := memoryAmplitudes(m)
				So(real(sv.Amplitude(a.Index())), ShouldAlmostEqual, 1/math.Sqrt2, tolerance)
				So(real(sv.Amplitude(b.Index())), ShouldAlmostEqual, 1/math.Sqrt2, tolerance)

				total := sv.Probability(a.Index()) + sv.Probability(b.Index())
				So(total, ShouldAlmostEqual, 1.0, tolerance)
			}
		})

		Convey("A single differing position should need one Hadamard and no CX", func() {
			m, err := NewMemory(3)
			So(err, ShouldBeNil)
			So(m.EncodePair(MustPattern("110"), MustPattern("111")), ShouldBeNil)

			c := m.Circuit()
			So(c.Count(OpH), ShouldEqual, 1)
			So(c.Count(OpCX), ShouldEqual, 0)
			So(c.Count(OpX), ShouldEqual, 2)
		})

		Convey("00 and 11 should measure only 00 or 11", func() {
			m, err := NewMemory(2)
			So(err, ShouldBeNil)
			So(m.Encode(MustPattern("00"), MustPattern("11")), ShouldBeNil)

			sv := memoryAmplitudes(m)
			So(sv.Probability(MustPattern("01").Index()), ShouldAlmostEqual, 0, tolerance)
			So(sv.Probability(MustPattern("10").Index()), ShouldAlmostEqual, 0, tolerance)
		})

		Convey("Length mismatches should be rejected", func() {
			m, err := NewMemory(2)
			So(err, ShouldBeNil)

			var mismatch *PatternLengthMismatchError
			So(errors.As(m.EncodePair(MustPattern("0"), MustPattern("01")), &mismatch), ShouldBeTrue)
			So(errors.As(m.EncodePair(MustPattern("00"), MustPattern("011")), &mismatch), ShouldBeTrue)
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Given pattern sets of unsupported size", t, func() {
		m, err := NewMemory(2)
		So(err, ShouldBeNil)

		var count *UnsupportedPatternCountError

		So(errors.As(m.Encode(), &count), ShouldBeTrue)
		So(count.Count, ShouldEqual, 0)

		So(errors.As(m.Encode(MustPattern("00"), MustPattern("01"), MustPattern("11")), &count), ShouldBeTrue)
		So(count.Count, ShouldEqual, 3)
		So(count.Max, ShouldEqual, 2)
	})
}

func TestStore(t *testing.T) {
	Convey("Given a two qubit memory", t, func() {
		m, err := NewMemory(2)
		So(err, ShouldBeNil)

		Convey("A fitting pattern should be recorded and written", func() {
			So(m.Store(MustPattern("10")), ShouldBeNil)
			So(m.Pattern().String(), ShouldEqual, "10")
			So(m.Circuit().Count(OpX), ShouldEqual, 1)
		})

		Convey("A shorter pattern should fill the leading positions", func() {
			So(m.Store(MustPattern("1")), ShouldBeNil)
			sv := memoryAmplitudes(m)
			So(sv.Probability(1), ShouldAlmostEqual, 1.0, tolerance)
		})

		Convey("A longer pattern should be rejected", func() {
			err := m.Store(MustPattern("101"))
			var tooLong *PatternTooLongError
			So(errors.As(err, &tooLong), ShouldBeTrue)
			So(tooLong.Length, ShouldEqual, 3)
			So(tooLong.MemorySize, ShouldEqual, 2)
			So(m.Circuit().Len(), ShouldEqual, 0)
		})
	})
}

func TestSetMemory(t *testing.T) {
	Convey("Given a two qubit memory", t, func() {
		m, err := NewMemory(2)
		So(err, ShouldBeNil)

		Convey("A normalized vector should be prepared exactly", func() {
			amps := []complex128{0, complex(0.6, 0), 0, complex(0, 0.8)}
			So(m.SetMemory(amps), ShouldBeNil)
			So(m.Circuit().Count(OpInitialize), ShouldEqual, 1)

			sv := memoryAmplitudes(m)
			So(cmplx.Abs(sv.Amplitude(1)-complex(0.6, 0)), ShouldBeLessThan, tolerance)
			So(cmplx.Abs(sv.Amplitude(3)-complex(0, 0.8)), ShouldBeLessThan, tolerance)
		})

		Convey("Vectors of the wrong size or norm should be rejected", func() {
			var norm *NormalizationError

			So(errors.As(m.SetMemory([]complex128{1, 0}), &norm), ShouldBeTrue)
			So(errors.As(m.SetMemory([]complex128{1, 1, 0, 0}), &norm), ShouldBeTrue)
			So(norm.Norm, ShouldAlmostEqual, math.Sqrt2, tolerance)
		})
	})
}

func TestInitPatterns(t *testing.T) {
	Convey("Given a two qubit memory", t, func() {
		m, err := NewMemory(2)
		So(err, ShouldBeNil)

		Convey("Any number of patterns should be held in equal superposition", func() {
			patterns, err := ParsePatterns("00", "01", "11")
			So(err, ShouldBeNil)
			So(m.InitPatterns(patterns...), ShouldBeNil)

			sv := memoryAmplitudes(m)
			for _, p := range patterns {
				So(sv.Probability(p.Index()), ShouldAlmostEqual, 1.0/3, tolerance)
			}
			So(sv.Probability(MustPattern("10").Index()), ShouldAlmostEqual, 0, tolerance)
		})

		Convey("Duplicates should count once", func() {
			So(m.InitPatterns(MustPattern("01"), MustPattern("01")), ShouldBeNil)
			sv := memoryAmplitudes(m)
			So(sv.Probability(MustPattern("01").Index()), ShouldAlmostEqual, 1.0, tolerance)
		})

		Convey("An empty set should be rejected", func() {
			var count *UnsupportedPatternCountError
			So(errors.As(m.InitPatterns(), &count), ShouldBeTrue)
		})
	})
}

func TestInitFromDistribution(t *testing.T) {
	Convey("Given basis-state weights", t, func() {
		m, err := NewMemory(2)
		So(err, ShouldBeNil)

		Convey("Weights should become squared amplitudes", func() {
			So(m.InitFromDistribution(map[string]float64{"00": 3, "11": 1}), ShouldBeNil)
			sv := memoryAmplitudes(m)
			So(sv.Probability(0), ShouldAlmostEqual, 0.75, tolerance)
			So(sv.Probability(3), ShouldAlmostEqual, 0.25, tolerance)
		})

		Convey("Negative weights and empty totals should be rejected", func() {
			var param *InvalidParameterError
			So(errors.As(m.InitFromDistribution(map[string]float64{"00": -1}), &param), ShouldBeTrue)

			var norm *NormalizationError
			So(errors.As(m.InitFromDistribution(map[string]float64{"00": 0}), &norm), ShouldBeTrue)
		})

		Convey("Keys that are not patterns of the memory size should be rejected", func() {
			var bit *InvalidBitError
			So(errors.As(m.InitFromDistribution(map[string]float64{"0a": 1}), &bit), ShouldBeTrue)

			var mismatch *PatternLengthMismatchError
			So(errors.As(m.InitFromDistribution(map[string]float64{"011": 1}), &mismatch), ShouldBeTrue)
		})
	})
}
