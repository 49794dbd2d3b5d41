/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: module_adapter.go
Description: Subprocess execution adapter for the Akaylee Harness. Invokes the
sandboxed target module once per seed with scoped output capture, per-invocation
timeout enforcement, and sentinel-value failure classification. Handles process
creation, monitoring, and cleanup with reliability.
*/

package execution

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/kleascm/akaylee-harness/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// DefaultInvocationTimeout bounds a single target invocation when the
// configuration does not specify one.
const DefaultInvocationTimeout = 30 * time.Second

// ModuleAdapter implements the Adapter interface over a subprocess target.
// The target is invoked as `target <seed> [args...]`; the final line it
// writes to stdout must be the decimal 64-bit result, everything else on
// stdout/stderr is diagnostic text. Each invocation owns its own capture
// buffers - nothing is shared between calls.
type ModuleAdapter struct {
	config *interfaces.HarnessConfig
	logger *logrus.Logger
}

// NewModuleAdapter creates an adapter for the configured target. Construction
// fails fatally when the target cannot serve as an entry point: missing file,
// directory, or not executable.
func NewModuleAdapter(config *interfaces.HarnessConfig, logger *logrus.Logger) (*ModuleAdapter, error) {
	info, err := os.Stat(config.Target)
	if err != nil {
		return nil, fmt.Errorf("target module not found: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("target module %s is a directory", config.Target)
	}
	if info.Mode()&0111 == 0 {
		return nil, fmt.Errorf("target module %s is not executable", config.Target)
	}

	if logger == nil {
		logger = logrus.New()
	}

	return &ModuleAdapter{
		config: config,
		logger: logger,
	}, nil
}

// Target returns the target path this adapter was built for
func (a *ModuleAdapter) Target() string {
	return a.config.Target
}

// Invoke runs the target entry point with the given seed. A crashing,
// timing-out, sentinel-returning, or garbage-emitting target yields an
// OutcomeFailure result with its captured diagnostics - discovering those is
// a fuzzing outcome, not an operational error. The error return is reserved
// for transport-level problems (the process could not be started at all).
func (a *ModuleAdapter) Invoke(seed uint64) (*interfaces.InvocationResult, error) {
	args := append([]string{strconv.FormatUint(seed, 10)}, a.config.TargetArgs...)
	cmd := exec.Command(a.config.Target, args...)
	cmd.Env = append(os.Environ(), a.config.TargetEnv...)

	// Scoped capture buffers, acquired per invocation and consumed before
	// the next call begins
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	startTime := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start target process: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	result := &interfaces.InvocationResult{Seed: seed}

	var waitErr error
	select {
	case waitErr = <-done:
		result.Duration = time.Since(startTime)

	case <-time.After(a.timeout()):
		cmd.Process.Kill()
		<-done
		result.Duration = a.timeout()
		result.Status = interfaces.OutcomeFailure
		result.Diagnostic = diagnostic(&stdout, &stderr, fmt.Sprintf("invocation timed out after %v", a.timeout()))
		return result, nil
	}

	if waitErr != nil {
		result.Status = interfaces.OutcomeFailure
		result.Diagnostic = diagnostic(&stdout, &stderr, fmt.Sprintf("target exited abnormally: %v", waitErr))
		return result, nil
	}

	hash, err := parseResultLine(stdout.String())
	if err != nil {
		result.Status = interfaces.OutcomeFailure
		result.Diagnostic = diagnostic(&stdout, &stderr, err.Error())
		return result, nil
	}

	if hash == interfaces.FailureSentinel {
		result.Status = interfaces.OutcomeFailure
		result.Diagnostic = diagnostic(&stdout, &stderr, "target reported internal failure")
		return result, nil
	}

	result.Status = interfaces.OutcomeSuccess
	result.Hash = hash
	return result, nil
}

// Cleanup performs any necessary cleanup operations. The adapter holds no
// persistent process, so there is nothing to tear down.
func (a *ModuleAdapter) Cleanup() error {
	return nil
}

func (a *ModuleAdapter) timeout() time.Duration {
	if a.config.Timeout > 0 {
		return a.config.Timeout
	}
	return DefaultInvocationTimeout
}

// parseResultLine extracts the target's 64-bit result from the final
// non-empty stdout line
func parseResultLine(output string) (uint64, error) {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		hash, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("target emitted no parsable result: %q", line)
		}
		return hash, nil
	}
	return 0, fmt.Errorf("target emitted no output")
}

// diagnostic assembles the captured streams into the failure report text
func diagnostic(stdout, stderr *bytes.Buffer, reason string) string {
	return fmt.Sprintf("%s\nstdout:\n%s\nstderr:\n%s", reason, stdout.String(), stderr.String())
}
