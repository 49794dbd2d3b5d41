/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: hyperloglog.go
Description: HyperLogLog cardinality estimator for the Akaylee Harness. Tracks
the approximate number of distinct output hashes observed across fuzzing rounds
in fixed memory, while retaining the full (seed, hash) history so every session
stays exactly replayable.
*/

package estimator

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/bits"
)

// DefaultPrecision is used for fresh estimators when no snapshot exists.
// 2^6 = 64 registers, enough for a progress heuristic.
const DefaultPrecision = 6

const (
	minPrecision = 4
	maxPrecision = 16
)

var (
	// ErrInvalidPrecision is returned when the requested precision is outside
	// the supported range.
	ErrInvalidPrecision = errors.New("precision out of supported range")

	// ErrPrecisionMismatch is returned when merging estimators of different
	// precision.
	ErrPrecisionMismatch = errors.New("precision mismatch")
)

// HyperLogLog estimates the number of distinct values observed using
// 2^precision small registers, each holding the maximum leading-zero run
// seen among values hashed into it. Alongside the registers it keeps an
// append-only history of every (seed, outputHash) pair added - a full audit
// log for replay, not a dedup set.
type HyperLogLog struct {
	precision uint8
	m         uint32
	alpha     float64
	registers []uint8
	seeds     []uint64
	hashes    []uint64
}

// New creates a HyperLogLog with 2^precision zeroed registers and empty history
func New(precision uint8) (*HyperLogLog, error) {
	if precision < minPrecision || precision > maxPrecision {
		return nil, fmt.Errorf("%w: %d (supported: %d-%d)", ErrInvalidPrecision, precision, minPrecision, maxPrecision)
	}

	m := uint32(1) << precision
	return &HyperLogLog{
		precision: precision,
		m:         m,
		alpha:     alphaFor(m),
		registers: make([]uint8, m),
	}, nil
}

// alphaFor returns the bias correction constant for m registers.
// Small register counts use the tabulated values, larger ones the
// closed-form asymptotic approximation.
func alphaFor(m uint32) float64 {
	switch {
	case m >= 128:
		return 0.7213 / (1 + 1.079/float64(m))
	case m >= 64:
		return 0.709
	case m >= 32:
		return 0.697
	default:
		return 0.673
	}
}

// digest re-hashes the raw output value before register derivation so the
// estimate stays sound even when the target's outputs are not uniformly
// distributed across 64 bits. The raw value is still what enters the history.
func digest(v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}

// Add records one successful invocation. The top precision bits of the digest
// select a register, the remaining bits feed its leading-zero run, and the
// (seed, outputHash) pair is appended to the history unconditionally - the
// history grows even when no register moves.
func (hll *HyperLogLog) Add(seed uint64, outputHash uint64) {
	d := digest(outputHash)

	idx := d >> (64 - hll.precision)

	// Remaining 64-b bits, shifted to the top so LeadingZeros64 counts
	// zeros within that width. Capped when the remainder is all zeros.
	w := d << hll.precision
	rho := uint8(bits.LeadingZeros64(w))
	if maxRun := 64 - hll.precision; rho > maxRun {
		rho = maxRun
	}
	rho++

	if rho > hll.registers[idx] {
		hll.registers[idx] = rho
	}

	hll.seeds = append(hll.seeds, seed)
	hll.hashes = append(hll.hashes, outputHash)
}

// Count returns the current cardinality estimate. The estimate is derived
// purely from the register array at call time: harmonic mean with bias
// correction, linear counting in the small range, and the 64-bit large-range
// correction (kept for correctness, not expected at fuzzing scales).
func (hll *HyperLogLog) Count() float64 {
	sum := 0.0
	for _, reg := range hll.registers {
		sum += math.Pow(2, -float64(reg))
	}
	estimate := hll.alpha * float64(hll.m) * float64(hll.m) / sum

	if estimate <= 2.5*float64(hll.m) {
		if zeros := hll.Zeros(); zeros > 0 {
			// ln(m/m) = 0 for a fresh estimator, so this yields exactly 0.0
			return float64(hll.m) * math.Log(float64(hll.m)/float64(zeros))
		}
	}

	two64 := math.Exp2(64)
	if estimate > two64/30.0 {
		// Saturated registers can push the raw estimate past 2^64, where the
		// log argument goes negative. The hash space itself bounds the answer.
		if estimate >= two64 {
			return two64
		}
		return -two64 * math.Log(1-estimate/two64)
	}

	return estimate
}

// Merge combines another estimator into this one: element-wise register max
// and history concatenation. Fails if the precisions differ.
func (hll *HyperLogLog) Merge(other *HyperLogLog) error {
	if hll.precision != other.precision {
		return fmt.Errorf("%w: %d vs %d", ErrPrecisionMismatch, hll.precision, other.precision)
	}

	for i, reg := range other.registers {
		if reg > hll.registers[i] {
			hll.registers[i] = reg
		}
	}

	hll.seeds = append(hll.seeds, other.seeds...)
	hll.hashes = append(hll.hashes, other.hashes...)
	return nil
}

// Precision returns the register-index width in bits
func (hll *HyperLogLog) Precision() uint8 {
	return hll.precision
}

// Registers returns a copy of the register array
func (hll *HyperLogLog) Registers() []uint8 {
	regs := make([]uint8, len(hll.registers))
	copy(regs, hll.registers)
	return regs
}

// Zeros returns the number of registers still at zero
func (hll *HyperLogLog) Zeros() uint32 {
	count := uint32(0)
	for _, reg := range hll.registers {
		if reg == 0 {
			count++
		}
	}
	return count
}

// HistoryLen returns the number of recorded (seed, hash) pairs
func (hll *HyperLogLog) HistoryLen() int {
	return len(hll.seeds)
}

// HistoryAt returns the i-th recorded (seed, outputHash) pair, in add order
func (hll *HyperLogLog) HistoryAt(i int) (seed uint64, outputHash uint64) {
	return hll.seeds[i], hll.hashes[i]
}
