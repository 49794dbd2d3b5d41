/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: test.go
Description: Test command implementation for the Akaylee Harness. Drives the
fuzzing session against a target module with comprehensive configuration,
estimate reporting before and after the run, and final statistics.
*/

package commands

import (
	"fmt"
	"time"

	"github.com/kleascm/akaylee-harness/pkg/execution"
	"github.com/kleascm/akaylee-harness/pkg/harness"
	"github.com/spf13/cobra"
)

// RunTest executes the main fuzzing session
func RunTest(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Akaylee Harness - Starting Fuzzing Session")
	fmt.Println("=============================================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer CloseLogging()

	config := createHarnessConfig(cmd, args[0])

	fmt.Printf("Fuzzing target: %s, iterations: %d\n", config.Target, config.Iterations)

	// Adapter construction failure is fatal - the session cannot proceed
	adapter, err := execution.NewModuleAdapter(config, logger)
	if err != nil {
		return fmt.Errorf("failed to construct execution adapter: %w", err)
	}
	defer adapter.Cleanup()

	session, err := harness.NewSession(config, adapter, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Start count: %.2f\n", session.Estimator().Count())

	if err := session.Run(); err != nil {
		return err
	}

	fmt.Printf("End count: %.2f\n", session.Estimator().Count())
	printFinalStats(session)

	fmt.Println("\n✨ Fuzzing session completed!")
	return nil
}

// printFinalStats prints comprehensive final statistics
func printFinalStats(session *harness.Session) {
	stats := session.Stats()
	duration := time.Since(stats.StartTime)

	fmt.Println("\n📊 Final Statistics")
	fmt.Println("==================")
	fmt.Printf("Total Runtime: %v\n", duration)
	fmt.Printf("Total Invocations: %d\n", stats.Invocations)
	fmt.Printf("Target Failures: %d\n", stats.Failures)
	fmt.Printf("Recorded History: %d pairs\n", session.Estimator().HistoryLen())
	fmt.Printf("Distinct Outputs: %.2f -> %.2f (estimated)\n", stats.StartEstimate, stats.EndEstimate)
	fmt.Printf("Average Rate: %.1f invocations/sec\n", stats.InvocationsPerSecond())
}
