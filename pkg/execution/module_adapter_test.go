/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: module_adapter_test.go
Description: Tests for the subprocess execution adapter using throwaway shell
script targets. Covers result parsing, sentinel classification, crash and
timeout handling, and constructor validation of the target path.
*/

package execution_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/akaylee-harness/pkg/execution"
	"github.com/kleascm/akaylee-harness/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTarget drops an executable shell script into a temp dir and returns
// its path.
func writeTarget(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func newAdapter(t *testing.T, config *interfaces.HarnessConfig) *execution.ModuleAdapter {
	t.Helper()
	adapter, err := execution.NewModuleAdapter(config, nil)
	require.NoError(t, err)
	return adapter
}

func TestInvokeEchoesSeed(t *testing.T) {
	target := writeTarget(t, `echo "$1"`)
	adapter := newAdapter(t, &interfaces.HarnessConfig{Target: target})

	result, err := adapter.Invoke(42)
	require.NoError(t, err)
	assert.Equal(t, interfaces.OutcomeSuccess, result.Status)
	assert.Equal(t, uint64(42), result.Seed)
	assert.Equal(t, uint64(42), result.Hash)
	assert.False(t, result.Failed())
}

func TestInvokeParsesFinalLine(t *testing.T) {
	target := writeTarget(t, "echo debug noise\necho more noise\necho 9001")
	adapter := newAdapter(t, &interfaces.HarnessConfig{Target: target})

	result, err := adapter.Invoke(1)
	require.NoError(t, err)
	assert.Equal(t, interfaces.OutcomeSuccess, result.Status)
	assert.Equal(t, uint64(9001), result.Hash)
}

func TestInvokePassesExtraArgs(t *testing.T) {
	target := writeTarget(t, `echo "$2"`)
	adapter := newAdapter(t, &interfaces.HarnessConfig{
		Target:     target,
		TargetArgs: []string{"777"},
	})

	result, err := adapter.Invoke(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(777), result.Hash)
}

func TestInvokeSentinelIsFailure(t *testing.T) {
	target := writeTarget(t, "echo panicked in stage two\necho 18446744073709551615")
	adapter := newAdapter(t, &interfaces.HarnessConfig{Target: target})

	result, err := adapter.Invoke(5)
	require.NoError(t, err)
	assert.Equal(t, interfaces.OutcomeFailure, result.Status)
	assert.True(t, result.Failed())
	assert.Contains(t, result.Diagnostic, "internal failure")
	assert.Contains(t, result.Diagnostic, "panicked in stage two")
}

func TestInvokeCrashIsFailure(t *testing.T) {
	target := writeTarget(t, "echo dying >&2\nexit 3")
	adapter := newAdapter(t, &interfaces.HarnessConfig{Target: target})

	result, err := adapter.Invoke(5)
	require.NoError(t, err)
	assert.Equal(t, interfaces.OutcomeFailure, result.Status)
	assert.Contains(t, result.Diagnostic, "exited abnormally")
	assert.Contains(t, result.Diagnostic, "dying")
}

func TestInvokeGarbageOutputIsFailure(t *testing.T) {
	target := writeTarget(t, "echo not-a-number")
	adapter := newAdapter(t, &interfaces.HarnessConfig{Target: target})

	result, err := adapter.Invoke(5)
	require.NoError(t, err)
	assert.Equal(t, interfaces.OutcomeFailure, result.Status)
	assert.Contains(t, result.Diagnostic, "no parsable result")
}

func TestInvokeSilentTargetIsFailure(t *testing.T) {
	target := writeTarget(t, "true")
	adapter := newAdapter(t, &interfaces.HarnessConfig{Target: target})

	result, err := adapter.Invoke(5)
	require.NoError(t, err)
	assert.Equal(t, interfaces.OutcomeFailure, result.Status)
	assert.Contains(t, result.Diagnostic, "no output")
}

func TestInvokeTimeout(t *testing.T) {
	target := writeTarget(t, "sleep 5\necho 1")
	adapter := newAdapter(t, &interfaces.HarnessConfig{
		Target:  target,
		Timeout: 100 * time.Millisecond,
	})

	start := time.Now()
	result, err := adapter.Invoke(5)
	require.NoError(t, err)
	assert.Equal(t, interfaces.OutcomeFailure, result.Status)
	assert.Contains(t, result.Diagnostic, "timed out")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestNewModuleAdapterMissingTarget(t *testing.T) {
	_, err := execution.NewModuleAdapter(&interfaces.HarnessConfig{
		Target: filepath.Join(t.TempDir(), "nope"),
	}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNewModuleAdapterDirectoryTarget(t *testing.T) {
	_, err := execution.NewModuleAdapter(&interfaces.HarnessConfig{
		Target: t.TempDir(),
	}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestNewModuleAdapterNonExecutableTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	_, err := execution.NewModuleAdapter(&interfaces.HarnessConfig{Target: path}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not executable")
}

func TestAdapterCleanup(t *testing.T) {
	target := writeTarget(t, "echo 1")
	adapter := newAdapter(t, &interfaces.HarnessConfig{Target: target})
	assert.NoError(t, adapter.Cleanup())
}
