/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces for the Akaylee Harness. Defines the execution
adapter contract, invocation outcomes, and harness configuration used across
all packages to break import cycles and enable proper modular design.
*/

package interfaces

import (
	"time"
)

// FailureSentinel is the value a target module returns to signal an internal
// or assertion failure. The adapter classifies it into an OutcomeFailure;
// callers never need to remember the magic value.
const FailureSentinel = ^uint64(0)

// OutcomeStatus represents the classification of a single target invocation
type OutcomeStatus int

const (
	OutcomeSuccess OutcomeStatus = iota
	OutcomeFailure
)

// InvocationResult represents the result of invoking the target with one seed.
// The sentinel-value protocol at the target boundary is resolved into this
// explicit tagged result before anything else sees it.
type InvocationResult struct {
	Seed       uint64        // The seed value passed to the target
	Hash       uint64        // The target's output hash (valid only on success)
	Status     OutcomeStatus // Success or target-reported failure
	Diagnostic string        // Captured stdout/stderr text on failure
	Duration   time.Duration // How long the invocation took
}

// Failed reports whether the target signaled a failure for this invocation
func (r *InvocationResult) Failed() bool {
	return r.Status == OutcomeFailure
}

// Adapter is the narrow contract to the sandboxed execution facility.
// Invoke either yields an InvocationResult (success or target-reported
// failure, both of which keep a fuzzing session alive) or a transport-level
// error, which is fatal to the session.
type Adapter interface {
	// Invoke runs the target entry point with the given seed
	Invoke(seed uint64) (*InvocationResult, error)

	// Target returns the target identifier this adapter was built for
	Target() string

	// Cleanup performs any necessary cleanup
	Cleanup() error
}

// HarnessConfig contains all configuration parameters for a harness session
// Supports both command-line flags and configuration files
type HarnessConfig struct {
	// Target configuration
	Target     string   `json:"target"`      // Path to the target module binary
	TargetArgs []string `json:"target_args"` // Extra command-line arguments for target
	TargetEnv  []string `json:"target_env"`  // Environment variables for target

	// Execution configuration
	Timeout     time.Duration `json:"timeout"`      // Maximum execution time per invocation
	Iterations  uint64        `json:"iterations"`   // Number of fuzzing rounds
	InitialSeed *uint64       `json:"initial_seed"` // Optional RNG seed for reproducible sessions

	// Persistence configuration
	SnapshotPath string `json:"snapshot_path"` // Snapshot file path (default: <target>.json)
	ReportDir    string `json:"report_dir"`    // Directory for session reports

	// Logging configuration
	LogLevel string `json:"log_level"` // Logging level (debug, info, warn, error)
	JSONLogs bool   `json:"json_logs"` // Use JSON log format

	// Session identity
	SessionID string `json:"session_id"` // Unique session identifier
}
