/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: merge.go
Description: Merge command implementation for the Akaylee Harness. Combines two
estimator snapshots recorded at the same precision into one, for aggregating
fuzzing sessions run across machines.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/akaylee-harness/pkg/estimator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunMerge merges the source snapshot into the destination snapshot
func RunMerge(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer CloseLogging()

	destPath, srcPath := args[0], args[1]

	dest, err := estimator.LoadSnapshot(destPath)
	if err != nil {
		return err
	}
	if dest == nil {
		return fmt.Errorf("destination snapshot not found: %s", destPath)
	}

	src, err := estimator.LoadSnapshot(srcPath)
	if err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("source snapshot not found: %s", srcPath)
	}

	if err := dest.Merge(src); err != nil {
		return fmt.Errorf("failed to merge snapshots: %w", err)
	}

	outputPath := viper.GetString("merge_output")
	if outputPath == "" {
		outputPath = destPath
	}

	if err := estimator.SaveSnapshot(outputPath, dest); err != nil {
		return err
	}

	fmt.Printf("✅ Merged %s into %s: %d pairs, estimate %.2f -> %s\n",
		srcPath, destPath, dest.HistoryLen(), dest.Count(), outputPath)
	return nil
}
