/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: snapshot.go
Description: Snapshot persistence for the HyperLogLog estimator. Loads and
stores the full estimator state (precision, registers, seed/hash history) as a
per-target JSON file so fuzzing sessions accumulate across runs and verify mode
can replay exactly what was recorded.
*/

package estimator

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot is the serialized form of a HyperLogLog: registers plus the
// aligned seed/hash history. Registers are widened to uint16 so they encode
// as a JSON array of small integers rather than a base64 byte string.
type Snapshot struct {
	Precision uint8    `json:"precision"`
	Registers []uint16 `json:"registers"`
	Seeds     []uint64 `json:"seeds"`
	Hashes    []uint64 `json:"hashes"`
}

// ToSnapshot captures the estimator's full state
func (hll *HyperLogLog) ToSnapshot() *Snapshot {
	regs := make([]uint16, len(hll.registers))
	for i, r := range hll.registers {
		regs[i] = uint16(r)
	}
	seeds := make([]uint64, len(hll.seeds))
	copy(seeds, hll.seeds)
	hashes := make([]uint64, len(hll.hashes))
	copy(hashes, hll.hashes)

	return &Snapshot{
		Precision: hll.precision,
		Registers: regs,
		Seeds:     seeds,
		Hashes:    hashes,
	}
}

// FromSnapshot reconstructs an estimator, validating the snapshot's internal
// consistency: register count must match the precision, register values must
// fit the run-length bound, and the history must be index-aligned.
func FromSnapshot(s *Snapshot) (*HyperLogLog, error) {
	hll, err := New(s.Precision)
	if err != nil {
		return nil, err
	}

	if len(s.Registers) != int(hll.m) {
		return nil, fmt.Errorf("snapshot has %d registers, precision %d requires %d", len(s.Registers), s.Precision, hll.m)
	}
	maxRun := uint16(64-s.Precision) + 1
	for i, r := range s.Registers {
		if r > maxRun {
			return nil, fmt.Errorf("snapshot register %d holds %d, exceeds maximum run %d", i, r, maxRun)
		}
		hll.registers[i] = uint8(r)
	}

	if len(s.Seeds) != len(s.Hashes) {
		return nil, fmt.Errorf("snapshot history misaligned: %d seeds, %d hashes", len(s.Seeds), len(s.Hashes))
	}
	hll.seeds = make([]uint64, len(s.Seeds))
	copy(hll.seeds, s.Seeds)
	hll.hashes = make([]uint64, len(s.Hashes))
	copy(hll.hashes, s.Hashes)

	return hll, nil
}

// LoadSnapshot reads an estimator from the given path. A missing file is not
// an error: it returns (nil, nil) and callers substitute a fresh estimator.
// A malformed or inconsistent file is a fatal load error.
func LoadSnapshot(path string) (*HyperLogLog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("malformed snapshot %s: %w", path, err)
	}

	hll, err := FromSnapshot(&snapshot)
	if err != nil {
		return nil, fmt.Errorf("malformed snapshot %s: %w", path, err)
	}
	return hll, nil
}

// SaveSnapshot writes the estimator state to the given path, overwriting any
// prior snapshot wholesale. The old file is untouched until this single write.
func SaveSnapshot(path string, hll *HyperLogLog) error {
	data, err := json.MarshalIndent(hll.ToSnapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}

	return nil
}
