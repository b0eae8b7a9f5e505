package pqm

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCircuitBreakerInitialState(t *testing.T) {
	Convey("Given a newly created circuit breaker", t, func() {
		breaker := NewCircuitBreaker(2, 100*time.Millisecond, 1)

		Convey("It should start in closed state", func() {
			So(breaker.Allow(), ShouldBeTrue)
			So(breaker.State(), ShouldEqual, CircuitClosed)
			So(breaker.State().String(), ShouldEqual, "closed")
		})
	})
}

func TestCircuitBreakerFailureThreshold(t *testing.T) {
	Convey("Given a circuit breaker with failure threshold", t, func() {
		breaker := NewCircuitBreaker(2, 100*time.Millisecond, 1)

		Convey("It should open after max failures", func() {
			breaker.RecordFailure()
			So(breaker.State(), ShouldEqual, CircuitClosed)
			breaker.RecordFailure()

			So(breaker.Allow(), ShouldBeFalse)
			So(breaker.State(), ShouldEqual, CircuitOpen)

			time.Sleep(150 * time.Millisecond)

			So(breaker.Allow(), ShouldBeTrue)
			So(breaker.State(), ShouldEqual, CircuitHalfOpen)
			So(breaker.State().String(), ShouldEqual, "half-open")
		})
	})
}

func TestCircuitBreakerHalfOpenSuccess(t *testing.T) {
	Convey("Given a circuit breaker in half-open state", t, func() {
		breaker := NewCircuitBreaker(2, 100*time.Millisecond, 2)
		breaker.RecordFailure()
		breaker.RecordFailure()

		time.Sleep(150 * time.Millisecond)
		So(breaker.Allow(), ShouldBeTrue)

		Convey("It should close after enough successful jobs", func() {
			breaker.RecordSuccess()
			So(breaker.State(), ShouldEqual, CircuitHalfOpen)

			breaker.RecordSuccess()
			So(breaker.State(), ShouldEqual, CircuitClosed)
			So(breaker.failureCount, ShouldEqual, 0)
		})

		Convey("It should stop admitting jobs once the probation is used up", func() {
			breaker.RecordSuccess()
			So(breaker.Allow(), ShouldBeTrue)
			breaker.halfOpenAttempts = breaker.halfOpenMax
			So(breaker.Allow(), ShouldBeFalse)
		})
	})
}

func TestCircuitBreakerHalfOpenFailure(t *testing.T) {
	Convey("Given a circuit breaker in half-open state", t, func() {
		breaker := NewCircuitBreaker(2, 100*time.Millisecond, 1)

		Convey("It should open again after failure", func() {
			breaker.RecordFailure()
			breaker.RecordFailure()

			time.Sleep(150 * time.Millisecond)

			So(breaker.Allow(), ShouldBeTrue)
			So(breaker.State(), ShouldEqual, CircuitHalfOpen)

			breaker.RecordFailure()

			So(breaker.State(), ShouldEqual, CircuitOpen)
			So(breaker.Allow(), ShouldBeFalse)
		})
	})
}

func TestCircuitBreakerSuccessReset(t *testing.T) {
	Convey("Given a circuit breaker in closed state", t, func() {
		breaker := NewCircuitBreaker(2, 100*time.Millisecond, 1)

		Convey("It should reset failure count on success", func() {
			breaker.RecordFailure()
			breaker.RecordSuccess()
			breaker.RecordFailure()

			So(breaker.Allow(), ShouldBeTrue)
			So(breaker.State(), ShouldEqual, CircuitClosed)
			So(breaker.failureCount, ShouldEqual, 1)
		})
	})
}
