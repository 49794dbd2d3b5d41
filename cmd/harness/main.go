/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the Akaylee Harness. Provides
comprehensive command-line options, configuration management, and beautiful
user interface for controlling fuzzing and verification sessions against
sandboxed binary modules.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kleascm/akaylee-harness/cmd/harness/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Target configuration
	targetArgs []string
	targetEnv  []string

	// Execution configuration
	iterations  uint64
	initialSeed uint64
	timeout     time.Duration

	// Output configuration
	snapshotPath string
	reportDir    string

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
	logMaxSize  int64
	logCompress bool
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "akaylee-harness",
		Short: "Akaylee Harness - Seed-replay fuzzing harness for sandboxed binary modules",
		Long: `Akaylee Harness drives a sandboxed binary module's seed -> hash entry point
with pseudo-random 64-bit seeds, tracks how many distinct outputs have been
observed with a fixed-memory cardinality estimator, and records every
(seed, hash) pair so that any fuzzing session can be replayed as an exact
determinism regression test.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	// Add logging-specific flags
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int64Var(&logMaxSize, "log-max-size", 100*1024*1024, "Maximum log file size in bytes")
	rootCmd.PersistentFlags().BoolVar(&logCompress, "log-compress", false, "Compress rotated log files")

	// Add output flags
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "Snapshot file path (default: <target>.json)")
	rootCmd.PersistentFlags().StringVar(&reportDir, "report-dir", "./reports", "Directory for session reports")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))
	viper.BindPFlag("snapshot_path", rootCmd.PersistentFlags().Lookup("snapshot"))
	viper.BindPFlag("report_dir", rootCmd.PersistentFlags().Lookup("report-dir"))

	// Add test command
	testCmd := &cobra.Command{
		Use:   "test <target>",
		Short: "Fuzz a target module with pseudo-random seeds",
		Long: `Run the fuzzing loop on a target module. Each round draws a random 64-bit
seed, invokes the target's entry point, and feeds successful output hashes
into the cardinality estimator. The estimator state and full seed history
persist to the target's snapshot file between runs.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: bindTargetFlags,
		RunE:    commands.RunTest,
	}

	// Add test command flags
	testCmd.Flags().Uint64Var(&iterations, "iterations", 1000000, "Number of test iterations")
	testCmd.Flags().Uint64Var(&initialSeed, "initial-seed", 0, "Optional seed for a reproducible session")
	testCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Maximum execution time per invocation")
	testCmd.Flags().StringSliceVar(&targetArgs, "args", []string{}, "Extra command-line arguments for target")
	testCmd.Flags().StringSliceVar(&targetEnv, "env", []string{}, "Environment variables for target")

	viper.BindPFlag("iterations", testCmd.Flags().Lookup("iterations"))

	rootCmd.AddCommand(testCmd)

	// Add verify command
	verifyCmd := &cobra.Command{
		Use:   "verify <target>",
		Short: "Replay recorded seeds and verify unchanged outputs",
		Long: `Replay every (seed, hash) pair recorded in the target's snapshot, in order,
and assert the target still produces identical outputs. Halts on the first
divergence - a determinism regression check for the module under test.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: bindTargetFlags,
		RunE:    commands.RunVerify,
	}

	verifyCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Maximum execution time per invocation")
	verifyCmd.Flags().StringSliceVar(&targetArgs, "args", []string{}, "Extra command-line arguments for target")
	verifyCmd.Flags().StringSliceVar(&targetEnv, "env", []string{}, "Environment variables for target")

	rootCmd.AddCommand(verifyCmd)

	// Add merge command for combining snapshots across sessions
	mergeCmd := &cobra.Command{
		Use:   "merge <dest-snapshot> <src-snapshot>",
		Short: "Merge two estimator snapshots",
		Long: `Merge the source snapshot into the destination snapshot: element-wise
register maximum plus history concatenation. Both snapshots must have been
recorded at the same precision. Useful for combining estimator state from
fuzzing sessions run on separate machines.`,
		Args: cobra.ExactArgs(2),
		RunE: commands.RunMerge,
	}

	mergeCmd.Flags().String("output", "", "Write the merged snapshot here instead of overwriting the destination")
	viper.BindPFlag("merge_output", mergeCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(mergeCmd)

	// Add check command for built-in self-checks
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check <target>",
		Short: "Perform built-in self-checks for system validation",
		Long: `Perform system checks to validate target existence and executability,
snapshot readability, and report/log directory writability. Very useful for
CI/CD integration.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.PerformSelfCheck,
	})

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bindTargetFlags binds the per-command target flags into viper. Test and
// verify both declare timeout/args/env, so the binding has to happen against
// the command actually being run.
func bindTargetFlags(cmd *cobra.Command, _ []string) error {
	viper.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("target_args", cmd.Flags().Lookup("args"))
	viper.BindPFlag("target_env", cmd.Flags().Lookup("env"))
	return nil
}
