package lci

import (
	"math"
	"strconv"
)

// Maybe is a float64 that may be undefined. The zero value is undefined.
// Non-finite values are never stored: Some(NaN) and Some(±Inf) are undefined.
type Maybe struct {
	v  float64
	ok bool
}

// Some wraps v. NaN and ±Inf yield an undefined Maybe.
func Some(v float64) Maybe {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Maybe{}
	}
	return Maybe{v: v, ok: true}
}

// None returns an undefined Maybe.
func None() Maybe {
	return Maybe{}
}

// Get returns the value and whether it is defined.
func (m Maybe) Get() (float64, bool) {
	return m.v, m.ok
}

// Valid reports whether the value is defined.
func (m Maybe) Valid() bool {
	return m.ok
}

// OrElse returns the value, or def when undefined.
func (m Maybe) OrElse(def float64) float64 {
	if !m.ok {
		return def
	}
	return m.v
}

// Map applies f to a defined value. The result is undefined when m is
// undefined or f produces a non-finite number.
func (m Maybe) Map(f func(float64) float64) Maybe {
	if !m.ok {
		return m
	}
	return Some(f(m.v))
}

// String formats a defined value with the shortest exact representation and
// an undefined value as the empty string.
func (m Maybe) String() string {
	if !m.ok {
		return ""
	}
	return strconv.FormatFloat(m.v, 'g', -1, 64)
}

// allValid reports whether every value is defined.
func allValid(ms ...Maybe) bool {
	for _, m := range ms {
		if !m.ok {
			return false
		}
	}
	return true
}
