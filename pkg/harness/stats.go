/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: stats.go
Description: Session statistics for the Akaylee Harness. Tracks invocation and
failure counts with atomic operations alongside the estimator readings taken at
session boundaries.
*/

package harness

import (
	"sync/atomic"
	"time"
)

// SessionStats tracks overall session statistics
// Uses atomic operations for thread-safe updates
type SessionStats struct {
	Invocations   int64     `json:"invocations"`    // Total number of target invocations
	Failures      int64     `json:"failures"`       // Target-reported failures (sentinel, crash, timeout)
	StartTime     time.Time `json:"start_time"`     // When the session started
	StartEstimate float64   `json:"start_estimate"` // Distinct-output estimate before round 1
	EndEstimate   float64   `json:"end_estimate"`   // Distinct-output estimate after the final round
}

// IncrementInvocations atomically increments the invocation counter
func (s *SessionStats) IncrementInvocations() {
	atomic.AddInt64(&s.Invocations, 1)
}

// IncrementFailures atomically increments the failure counter
func (s *SessionStats) IncrementFailures() {
	atomic.AddInt64(&s.Failures, 1)
}

// InvocationsPerSecond returns the current invocation rate
func (s *SessionStats) InvocationsPerSecond() float64 {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&s.Invocations)) / elapsed
}
