package lci

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSome_NonFinite_IsUndefined(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.False(t, Some(v).Valid(), "Some(%v) should be undefined", v)
	}
}

func TestMaybe_ZeroValue_IsUndefined(t *testing.T) {
	var m Maybe
	_, ok := m.Get()
	assert.False(t, ok)
	assert.Equal(t, "", m.String())
	assert.Equal(t, 7.0, m.OrElse(7))
}

func TestMaybe_Map_PropagatesUndefined(t *testing.T) {
	double := func(v float64) float64 { return 2 * v }

	assert.False(t, None().Map(double).Valid())

	got, ok := Some(1.5).Map(double).Get()
	assert.True(t, ok)
	assert.Equal(t, 3.0, got)

	// THEN a non-finite result becomes undefined instead of leaking Inf
	assert.False(t, Some(1).Map(func(v float64) float64 { return v / 0 }).Valid())
}

func TestMaybe_String_ShortestRepresentation(t *testing.T) {
	assert.Equal(t, "1e-05", Some(1e-5).String())
	assert.Equal(t, "0.5", Some(0.5).String())
	assert.Equal(t, "0", Some(0).String())
}
