/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: check.go
Description: Self-check command implementation for the Akaylee Harness.
Validates target existence and executability, snapshot readability, and
output directory writability before a fuzzing campaign starts.
*/

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kleascm/akaylee-harness/pkg/estimator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformSelfCheck validates the system prerequisites for fuzzing a target
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Performing self-check validation...")
	fmt.Println()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	target := args[0]

	// Validate target module
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("target module validation failed: %w", err)
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return fmt.Errorf("target module is not an executable file: %s", target)
	}
	fmt.Printf("✅ Target module: %s\n", target)

	// Validate snapshot: absent is fine, malformed is not
	snapshotPath := viper.GetString("snapshot_path")
	if snapshotPath == "" {
		snapshotPath = target + ".json"
	}
	hll, err := estimator.LoadSnapshot(snapshotPath)
	if err != nil {
		return fmt.Errorf("snapshot validation failed: %w", err)
	}
	if hll == nil {
		fmt.Printf("✅ Snapshot: none yet (%s will be created)\n", snapshotPath)
	} else {
		fmt.Printf("✅ Snapshot: %s (%d pairs, estimate %.2f)\n", snapshotPath, hll.HistoryLen(), hll.Count())
	}

	// Validate output directories
	dirs := []string{viper.GetString("report_dir"), viper.GetString("log_dir")}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		probe := filepath.Join(dir, ".akaylee_check")
		if err := os.WriteFile(probe, []byte("check"), 0644); err != nil {
			return fmt.Errorf("directory not writable %s: %w", dir, err)
		}
		os.Remove(probe)
		fmt.Printf("✅ Output directory: %s\n", dir)
	}

	fmt.Println("\n✨ Self-check completed successfully!")
	fmt.Println("   Configuration is valid and ready for fuzzing.")
	return nil
}
