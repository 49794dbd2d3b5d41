/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: hyperloglog_test.go
Description: Unit tests for the HyperLogLog cardinality estimator. Covers
precision validation, register monotonicity, history integrity, estimate
behavior across counting regimes, and merge semantics.
*/

package estimator_test

import (
	"math"
	"testing"

	"github.com/kleascm/akaylee-harness/pkg/estimator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidPrecision(t *testing.T) {
	hll, err := estimator.New(6)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), hll.Precision())
	assert.Len(t, hll.Registers(), 64)
	assert.Equal(t, uint32(64), hll.Zeros())
	assert.Equal(t, 0, hll.HistoryLen())
}

func TestNewInvalidPrecision(t *testing.T) {
	for _, precision := range []uint8{0, 1, 3, 17, 32} {
		_, err := estimator.New(precision)
		assert.ErrorIs(t, err, estimator.ErrInvalidPrecision, "precision %d", precision)
	}
}

// A fresh estimator must report exactly zero: all registers are zero, so the
// linear-counting branch evaluates m*ln(m/m) = 0.
func TestFreshCountIsZero(t *testing.T) {
	hll, err := estimator.New(estimator.DefaultPrecision)
	require.NoError(t, err)
	assert.Equal(t, 0.0, hll.Count())
}

func TestSingleAddMovesOneRegister(t *testing.T) {
	hll, err := estimator.New(6)
	require.NoError(t, err)

	hll.Add(12345, 67890)

	moved := 0
	for _, reg := range hll.Registers() {
		if reg > 0 {
			moved++
			assert.GreaterOrEqual(t, reg, uint8(1))
		}
	}
	assert.Equal(t, 1, moved)

	count := hll.Count()
	assert.GreaterOrEqual(t, count, 0.5)
	assert.LessOrEqual(t, count, 3.0)
}

func TestHistoryIntegrity(t *testing.T) {
	hll, err := estimator.New(6)
	require.NoError(t, err)

	type pair struct{ seed, hash uint64 }
	pairs := []pair{
		{1, 100},
		{2, 200},
		{3, 100}, // duplicate hash still appends
		{4, 100},
		{5, 300},
	}
	for _, p := range pairs {
		hll.Add(p.seed, p.hash)
	}

	require.Equal(t, len(pairs), hll.HistoryLen())
	for i, p := range pairs {
		seed, hash := hll.HistoryAt(i)
		assert.Equal(t, p.seed, seed, "pair %d", i)
		assert.Equal(t, p.hash, hash, "pair %d", i)
	}
}

func TestDuplicateAddLeavesRegistersUnchanged(t *testing.T) {
	hll, err := estimator.New(6)
	require.NoError(t, err)

	hll.Add(1, 42)
	regs := hll.Registers()
	count := hll.Count()

	hll.Add(2, 42)
	assert.Equal(t, regs, hll.Registers())
	assert.Equal(t, count, hll.Count())
	assert.Equal(t, 2, hll.HistoryLen())
}

// Registers are running maxima, so the estimate computed after the full
// sequence is never below the estimate after any prefix.
func TestCountMonotonicity(t *testing.T) {
	hll, err := estimator.New(10)
	require.NoError(t, err)

	prev := hll.Count()
	for i := uint64(0); i < 300; i++ {
		hll.Add(i, i*0x9e3779b97f4a7c15+i)
		curr := hll.Count()
		assert.GreaterOrEqual(t, curr, prev-1e-9, "estimate dipped at add %d", i)
		prev = curr
	}
}

func TestRegistersMonotonic(t *testing.T) {
	hll, err := estimator.New(6)
	require.NoError(t, err)

	prev := hll.Registers()
	for i := uint64(0); i < 200; i++ {
		hll.Add(i, i*2654435761)
		curr := hll.Registers()
		for j := range curr {
			assert.GreaterOrEqual(t, curr[j], prev[j], "register %d regressed at add %d", j, i)
		}
		prev = curr
	}
}

func TestRegisterRunBound(t *testing.T) {
	hll, err := estimator.New(4)
	require.NoError(t, err)

	for i := uint64(0); i < 10000; i++ {
		hll.Add(i, i)
	}

	maxRun := uint8(64 - 4 + 1)
	for j, reg := range hll.Registers() {
		assert.LessOrEqual(t, reg, maxRun, "register %d", j)
	}
}

func TestEstimateAccuracy(t *testing.T) {
	hll, err := estimator.New(10)
	require.NoError(t, err)

	const distinct = 5000
	for i := uint64(0); i < distinct; i++ {
		hll.Add(i, i*0x9e3779b97f4a7c15)
	}

	// Standard error for m=1024 is ~3.25%; allow a generous band
	count := hll.Count()
	assert.InDelta(t, float64(distinct), count, float64(distinct)*0.2)
}

// saturatedEstimator builds an estimator whose registers all hold the given
// run value, going through the snapshot path so the state is one the loader
// itself accepts as valid.
func saturatedEstimator(t *testing.T, precision uint8, run uint16) *estimator.HyperLogLog {
	t.Helper()
	regs := make([]uint16, 1<<precision)
	for i := range regs {
		regs[i] = run
	}
	hll, err := estimator.FromSnapshot(&estimator.Snapshot{
		Precision: precision,
		Registers: regs,
	})
	require.NoError(t, err)
	return hll
}

func TestCountLargeRangeCorrection(t *testing.T) {
	// All registers at 55 puts the raw estimate above 2^64/30 but below 2^64,
	// exercising the log-based correction itself
	hll := saturatedEstimator(t, 6, 55)

	count := hll.Count()
	assert.False(t, math.IsNaN(count))
	assert.False(t, math.IsInf(count, 0))
	assert.Greater(t, count, math.Exp2(60))
	assert.Less(t, count, math.Exp2(64))
}

func TestCountSaturatedRegistersStaysFinite(t *testing.T) {
	// Precision 6 allows runs up to 59; with every register there the raw
	// estimate exceeds 2^64 and must clamp instead of going NaN
	hll := saturatedEstimator(t, 6, 59)

	count := hll.Count()
	assert.False(t, math.IsNaN(count))
	assert.False(t, math.IsInf(count, 0))
	assert.Equal(t, math.Exp2(64), count)
}

func TestMergePrecisionMismatch(t *testing.T) {
	a, err := estimator.New(6)
	require.NoError(t, err)
	b, err := estimator.New(8)
	require.NoError(t, err)

	assert.ErrorIs(t, a.Merge(b), estimator.ErrPrecisionMismatch)
}

func TestMergeCommutative(t *testing.T) {
	build := func(seeds []uint64) *estimator.HyperLogLog {
		hll, err := estimator.New(6)
		require.NoError(t, err)
		for _, s := range seeds {
			hll.Add(s, s*31)
		}
		return hll
	}

	setA := []uint64{1, 2, 3, 4, 5}
	setB := []uint64{100, 200, 300}

	ab := build(setA)
	require.NoError(t, ab.Merge(build(setB)))

	ba := build(setB)
	require.NoError(t, ba.Merge(build(setA)))

	assert.Equal(t, ab.Registers(), ba.Registers())
	assert.Equal(t, ab.Count(), ba.Count())
	assert.Equal(t, len(setA)+len(setB), ab.HistoryLen())
}

func TestMergeIdempotentRegisters(t *testing.T) {
	build := func() *estimator.HyperLogLog {
		hll, err := estimator.New(6)
		require.NoError(t, err)
		for i := uint64(0); i < 20; i++ {
			hll.Add(i, i*7919)
		}
		return hll
	}

	a := build()
	regs := a.Registers()
	require.NoError(t, a.Merge(build()))

	// Merging an identical estimator moves no register; only history grows
	assert.Equal(t, regs, a.Registers())
	assert.Equal(t, 40, a.HistoryLen())
}
