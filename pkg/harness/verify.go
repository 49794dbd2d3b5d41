/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: verify.go
Description: Replay/verify controller for the Akaylee Harness. Re-invokes the
target for every recorded (seed, hash) pair and halts on the first point of
divergence - a determinism regression check over the fuzzing history.
*/

package harness

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrMissingSnapshot is returned by Verify when no snapshot exists for the
// target - there is nothing to verify.
var ErrMissingSnapshot = errors.New("no snapshot recorded for target")

// VerificationError describes the first recorded pair whose replay diverged
// from the expected output hash.
type VerificationError struct {
	Index      int    // Position in the recorded history
	Seed       uint64 // The replayed seed
	Expected   uint64 // The hash recorded for that seed
	Actual     uint64 // The hash produced now (zero when the target failed)
	Diagnostic string // Failure diagnostic when the target did not succeed
}

func (e *VerificationError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("verification failed at pair %d: seed %d expected hash %d, target failed: %s", e.Index, e.Seed, e.Expected, e.Diagnostic)
	}
	return fmt.Sprintf("verification failed at pair %d: seed %d expected hash %d, got %d", e.Index, e.Seed, e.Expected, e.Actual)
}

// Verify replays every recorded (seed, hash) pair in recorded order and
// asserts the target still produces identical outputs. It assumes the target
// is a pure function of its seed: any divergence or target failure is a
// behavioral regression and stops the scan immediately with a
// VerificationError. A transport-level adapter error also aborts, but
// propagates as its own error class - the target was never exercised, so no
// verdict on its behavior is implied.
func (s *Session) Verify() error {
	if !s.resumed {
		return fmt.Errorf("%w: %s", ErrMissingSnapshot, s.config.Target)
	}

	total := s.hll.HistoryLen()
	s.logger.WithFields(logrus.Fields{
		"session_id": s.config.SessionID,
		"target":     s.config.Target,
		"pairs":      total,
	}).Info("Verification started")

	for i := 0; i < total; i++ {
		seed, expected := s.hll.HistoryAt(i)

		result, err := s.adapter.Invoke(seed)
		if err != nil {
			return fmt.Errorf("adapter transport failure at pair %d (seed %d): %w", i, seed, err)
		}
		s.stats.IncrementInvocations()

		if result.Failed() {
			s.stats.IncrementFailures()
			return &VerificationError{Index: i, Seed: seed, Expected: expected, Diagnostic: result.Diagnostic}
		}
		if result.Hash != expected {
			return &VerificationError{Index: i, Seed: seed, Expected: expected, Actual: result.Hash}
		}
	}

	s.logger.WithField("pairs", total).Info("Verification passed")
	return nil
}
