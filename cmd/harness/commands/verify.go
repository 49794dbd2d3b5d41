/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: verify.go
Description: Verify command implementation for the Akaylee Harness. Replays the
recorded seed history against the target and reports the first point of
divergence, if any.
*/

package commands

import (
	"errors"
	"fmt"

	"github.com/kleascm/akaylee-harness/pkg/execution"
	"github.com/kleascm/akaylee-harness/pkg/harness"
	"github.com/spf13/cobra"
)

// RunVerify executes the replay/verify session
func RunVerify(cmd *cobra.Command, args []string) error {
	fmt.Println("🔁 Akaylee Harness - Verifying Recorded History")
	fmt.Println("===============================================")
	fmt.Println()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer CloseLogging()

	config := createHarnessConfig(cmd, args[0])

	adapter, err := execution.NewModuleAdapter(config, logger)
	if err != nil {
		return fmt.Errorf("failed to construct execution adapter: %w", err)
	}
	defer adapter.Cleanup()

	session, err := harness.NewSession(config, adapter, logger)
	if err != nil {
		return err
	}

	if err := session.Verify(); err != nil {
		var mismatch *harness.VerificationError
		if errors.As(err, &mismatch) {
			fmt.Printf("Error: Seed: %d, hash: %d ❌\n", mismatch.Seed, mismatch.Expected)
		}
		return err
	}

	fmt.Printf("Verification passed ✅ (%d pairs)\n", session.Estimator().HistoryLen())
	return nil
}
