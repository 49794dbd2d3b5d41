/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Akaylee Harness commands. Provides common
configuration loading, logging setup, and harness configuration construction
used across all command implementations.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/akaylee-harness/pkg/interfaces"
	"github.com/kleascm/akaylee-harness/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// harnessLogger is the logging system for the running command, built once by
// SetupLogging and torn down by CloseLogging
var harnessLogger *logging.Logger

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("AKAYLEE")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging builds the logging system from the configured level, format,
// and output directory, and returns the logrus instance the session should
// log through. Rotation and retention run before the session starts writing.
func SetupLogging() (*logrus.Logger, error) {
	format := logging.LogFormat(viper.GetString("log_format"))
	if viper.GetBool("json_logs") {
		format = logging.LogFormatJSON
	}

	config := &logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    format,
		OutputDir: viper.GetString("log_dir"),
		MaxFiles:  viper.GetInt("log_max_files"),
		MaxSize:   viper.GetInt64("log_max_size"),
		Timestamp: true,
		Colors:    format == logging.LogFormatCustom,
		Compress:  viper.GetBool("log_compress"),
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}

	logger, err := logging.NewLogger(config)
	if err != nil {
		return nil, err
	}
	harnessLogger = logger

	manager := logging.NewLogManager(config.OutputDir, config.MaxFiles, config.MaxSize, config.Compress)
	if err := manager.RotateLogs(); err != nil {
		logger.GetLogger().WithError(err).Warn("Log rotation failed")
	}
	if err := manager.CleanupOldLogs(); err != nil {
		logger.GetLogger().WithError(err).Warn("Log cleanup failed")
	}

	return logger.GetLogger(), nil
}

// CloseLogging closes the logging system and prunes old log files
func CloseLogging() {
	if harnessLogger != nil {
		harnessLogger.Close()
		harnessLogger = nil
	}
}

// createHarnessConfig creates the harness configuration from viper and the
// positional target argument
func createHarnessConfig(cmd *cobra.Command, target string) *interfaces.HarnessConfig {
	config := &interfaces.HarnessConfig{
		Target:       target,
		TargetArgs:   viper.GetStringSlice("target_args"),
		TargetEnv:    viper.GetStringSlice("target_env"),
		Timeout:      viper.GetDuration("timeout"),
		Iterations:   viper.GetUint64("iterations"),
		SnapshotPath: viper.GetString("snapshot_path"),
		ReportDir:    viper.GetString("report_dir"),
		LogLevel:     viper.GetString("log_level"),
		JSONLogs:     viper.GetBool("json_logs"),
	}

	// An unset seed means nondeterministic entropy, so only a flag the user
	// actually passed becomes an initial seed
	if cmd.Flags().Changed("initial-seed") {
		seed, err := cmd.Flags().GetUint64("initial-seed")
		if err == nil {
			config.InitialSeed = &seed
		}
	}

	return config
}
