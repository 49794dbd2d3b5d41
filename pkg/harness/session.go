/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: session.go
Description: Fuzz loop controller for the Akaylee Harness. Owns one estimator
for the duration of a session, drives the requested number of pseudo-random
seeds through the execution adapter, feeds successful outcomes into the
estimator, and persists the snapshot at session end.
*/

package harness

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-harness/pkg/estimator"
	"github.com/kleascm/akaylee-harness/pkg/interfaces"
	"github.com/kleascm/akaylee-harness/pkg/utils"
	"github.com/sirupsen/logrus"
)

// progressInterval is how often long fuzz runs emit a stats line
var progressInterval = 5 * time.Second

// Session owns one estimator and one adapter for the duration of a fuzzing
// or verification run. Execution is single-threaded and synchronous: the
// adapter's capture buffers are not safely shared across concurrent calls.
type Session struct {
	config    *interfaces.HarnessConfig
	adapter   interfaces.Adapter
	hll       *estimator.HyperLogLog
	resumed   bool
	stats     *SessionStats
	logger    *logrus.Logger
	reporters []Reporter
	rng       *rand.Rand
}

// NewSession creates a session for the given adapter. Prior snapshot state is
// loaded if present; otherwise a fresh estimator at the default precision is
// substituted. A malformed snapshot is fatal.
func NewSession(config *interfaces.HarnessConfig, adapter interfaces.Adapter, logger *logrus.Logger) (*Session, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if config.SessionID == "" {
		config.SessionID = uuid.New().String()
	}
	if config.SnapshotPath == "" {
		config.SnapshotPath = config.Target + ".json"
	}

	hll, err := estimator.LoadSnapshot(config.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	resumed := hll != nil
	if hll == nil {
		hll, err = estimator.New(estimator.DefaultPrecision)
		if err != nil {
			return nil, err
		}
	}

	s := &Session{
		config:  config,
		adapter: adapter,
		hll:     hll,
		resumed: resumed,
		stats:   &SessionStats{},
		logger:  logger,
		rng:     newRNG(config.InitialSeed),
	}
	s.reporters = append(s.reporters, NewLoggerReporter(logger))

	logger.WithFields(logrus.Fields{
		"session_id": config.SessionID,
		"target":     config.Target,
		"resumed":    resumed,
		"history":    hll.HistoryLen(),
	}).Info("Session created")

	return s, nil
}

// AddReporter registers an additional telemetry hook
func (s *Session) AddReporter(reporter Reporter) {
	s.reporters = append(s.reporters, reporter)
}

// Stats returns the session statistics
func (s *Session) Stats() *SessionStats {
	return s.stats
}

// Estimator returns the estimator owned by this session
func (s *Session) Estimator() *estimator.HyperLogLog {
	return s.hll
}

// Run drives the configured number of fuzzing rounds. Target-reported
// failures are logged and skipped; only transport-level adapter errors or a
// failed snapshot write abort the session. Zero iterations is legal and
// amounts to a snapshot load/save round-trip.
func (s *Session) Run() error {
	s.stats.StartTime = time.Now()
	s.stats.StartEstimate = s.hll.Count()
	s.reportEstimate("start", s.stats.StartEstimate)

	lastProgress := time.Now()
	for i := uint64(0); i < s.config.Iterations; i++ {
		seed := s.rng.Uint64()

		result, err := s.adapter.Invoke(seed)
		if err != nil {
			return fmt.Errorf("adapter transport failure at round %d: %w", i, err)
		}
		s.stats.IncrementInvocations()
		for _, r := range s.reporters {
			r.OnInvocation(result)
		}

		if result.Failed() {
			// Crashing seeds are findings, not errors. Never fed to the
			// estimator.
			s.stats.IncrementFailures()
			for _, r := range s.reporters {
				r.OnFailure(result)
			}
		} else {
			s.hll.Add(seed, result.Hash)
		}

		if time.Since(lastProgress) >= progressInterval {
			s.logProgress(i + 1)
			lastProgress = time.Now()
		}
	}

	if err := estimator.SaveSnapshot(s.config.SnapshotPath, s.hll); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}

	s.stats.EndEstimate = s.hll.Count()
	s.reportEstimate("end", s.stats.EndEstimate)

	if err := s.writeReport(); err != nil {
		s.logger.WithError(err).Warn("Failed to write session report")
	}

	return nil
}

// logProgress emits a periodic stats line during long runs
func (s *Session) logProgress(round uint64) {
	s.logger.WithFields(logrus.Fields{
		"round":       round,
		"iterations":  s.config.Iterations,
		"failures":    s.stats.Failures,
		"rate":        s.stats.InvocationsPerSecond(),
		"history_len": s.hll.HistoryLen(),
	}).Info("Fuzzing progress")
}

func (s *Session) reportEstimate(stage string, estimate float64) {
	for _, r := range s.reporters {
		r.OnEstimate(stage, estimate)
	}
}

// writeReport persists the session summary as a timestamped JSON report
func (s *Session) writeReport() error {
	report := &utils.SessionReport{
		SessionID:     s.config.SessionID,
		Target:        s.config.Target,
		Iterations:    s.config.Iterations,
		Invocations:   s.stats.Invocations,
		Failures:      s.stats.Failures,
		StartEstimate: s.stats.StartEstimate,
		EndEstimate:   s.stats.EndEstimate,
		HistorySize:   s.hll.HistoryLen(),
		Duration:      time.Since(s.stats.StartTime).String(),
		Timestamp:     time.Now(),
	}

	path, err := utils.WriteSessionReport(s.config.ReportDir, report)
	if err != nil {
		return err
	}
	s.logger.WithField("path", path).Info("Session report written")
	return nil
}

// newRNG seeds the pseudo-random source either from the provided seed for
// reproducible sessions or from the system entropy source
func newRNG(initialSeed *uint64) *rand.Rand {
	if initialSeed != nil {
		return rand.New(rand.NewSource(int64(*initialSeed)))
	}

	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// Entropy read failures are vanishingly rare; fall back to the clock
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(buf[:]))))
}
