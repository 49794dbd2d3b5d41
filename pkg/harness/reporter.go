/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter interface and implementations for Akaylee Harness
telemetry and live reporting. Allows the session controller to notify listeners
of invocation outcomes and estimate movements.
*/

package harness

import (
	"github.com/kleascm/akaylee-harness/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// Reporter defines the interface for telemetry and reporting hooks.
// Allows the harness to notify listeners of invocation and estimate events.
type Reporter interface {
	// OnInvocation is called after every target invocation.
	OnInvocation(result *interfaces.InvocationResult)
	// OnFailure is called when the target reports a failure for a seed.
	OnFailure(result *interfaces.InvocationResult)
	// OnEstimate is called when a session boundary estimate is taken.
	OnEstimate(stage string, estimate float64)
}

// LoggerReporter logs invocation and estimate events using the standard logger.
type LoggerReporter struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter.
func NewLoggerReporter(logger *logrus.Logger) *LoggerReporter {
	return &LoggerReporter{logger: logger}
}

// OnInvocation logs invocation results at debug level to keep long runs quiet.
func (r *LoggerReporter) OnInvocation(result *interfaces.InvocationResult) {
	r.logger.WithFields(logrus.Fields{
		"seed":     result.Seed,
		"duration": result.Duration,
	}).Debug("Target invoked")
}

// OnFailure logs the captured diagnostic for a failing seed.
func (r *LoggerReporter) OnFailure(result *interfaces.InvocationResult) {
	r.logger.WithFields(logrus.Fields{
		"seed":       result.Seed,
		"diagnostic": result.Diagnostic,
	}).Warn("Target failure")
}

// OnEstimate logs the distinct-output estimate at a session boundary.
func (r *LoggerReporter) OnEstimate(stage string, estimate float64) {
	r.logger.WithFields(logrus.Fields{
		"stage":    stage,
		"estimate": estimate,
	}).Info("Distinct-output estimate")
}
