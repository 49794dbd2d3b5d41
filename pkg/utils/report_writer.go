/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_writer.go
Description: Utility for writing session reports to the reports directory.
Handles timestamped, session-specific file naming. Ensures directories exist
and writes JSON files for easy analysis.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SessionReport summarizes one harness session for offline analysis
type SessionReport struct {
	SessionID     string    `json:"session_id"`
	Target        string    `json:"target"`
	Iterations    uint64    `json:"iterations"`
	Invocations   int64     `json:"invocations"`
	Failures      int64     `json:"failures"`
	StartEstimate float64   `json:"start_estimate"`
	EndEstimate   float64   `json:"end_estimate"`
	HistorySize   int       `json:"history_size"`
	Duration      string    `json:"duration"`
	Timestamp     time.Time `json:"timestamp"`
}

// WriteSessionReport writes a report to the reports directory with timestamp
// and session ID in the filename
func WriteSessionReport(reportDir string, report *SessionReport) (string, error) {
	if reportDir == "" {
		reportDir = "reports"
	}
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	// Generate filename: 2024-06-11_01-30-00_session_<id>.json
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_session_%s.json", timestamp, report.SessionID)
	filePath := filepath.Join(reportDir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return filePath, nil
}
