// Package util provides general utility functions.
package util

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// WarnThresholdPercent is the percentage of available RAM above which we warn.
	WarnThresholdPercent = 25
	// AbortThresholdPercent is the percentage of available RAM above which we abort.
	AbortThresholdPercent = 80
)

// MemoryInfo contains information about system memory.
type MemoryInfo struct {
	TotalBytes     uint64
	AvailableBytes uint64
	UsedPercent    float64
}

// GetMemoryInfo returns information about system memory.
func GetMemoryInfo() (*MemoryInfo, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("get memory info: %w", err)
	}

	return &MemoryInfo{
		TotalBytes:     v.Total,
		AvailableBytes: v.Available,
		UsedPercent:    v.UsedPercent,
	}, nil
}

// GetAvailableMemory returns the available system memory in bytes.
func GetAvailableMemory() (uint64, error) {
	info, err := GetMemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.AvailableBytes, nil
}

// CheckResult contains the result of a memory check for an in-memory buffer.
type CheckResult struct {
	// OK is true if the operation can proceed.
	OK bool
	// Warning message if the operation should proceed with caution.
	Warning string
	// AbortReason is set if the operation should not proceed.
	AbortReason string
	// AvailableBytes is the amount of available memory.
	AvailableBytes uint64
	// RequiredBytes is the amount of memory required for the operation.
	RequiredBytes uint64
	// RequiredPercent is the percentage of available memory required.
	RequiredPercent float64
}

// CheckMemoryForSize checks whether a buffer of size bytes is safe to hold
// in memory, for flintsh's own in-memory buffers: a file being read by a
// native command, a pipe stage's intermediate output, or a backtick
// command-substitution capture (spec §4.3.1, §6's BUFFER_MAX).
//
// maxBytes is the configured BUFFER_MAX ([display] section, spec §6); when
// positive it is a hard cap checked before the available-RAM heuristic, so
// an operator can bound buffer size directly instead of relying only on the
// percentage-of-available-memory thresholds below. maxBytes <= 0 means no
// configured cap (only the RAM-percentage thresholds apply).
func CheckMemoryForSize(size int64, maxBytes int64) *CheckResult {
	result := &CheckResult{
		OK:            true,
		RequiredBytes: uint64(size),
	}

	if maxBytes > 0 && size > maxBytes {
		result.OK = false
		result.AbortReason = fmt.Sprintf(
			"buffer size (%s) exceeds configured BUFFER_MAX (%s)",
			FormatBytes(size),
			FormatBytes(maxBytes),
		)
		return result
	}

	available, err := GetAvailableMemory()
	if err != nil {
		// If we can't get memory info, proceed with a warning
		result.Warning = "Could not determine available memory; proceeding anyway"
		return result
	}

	result.AvailableBytes = available

	if available == 0 {
		result.Warning = "Could not determine available memory; proceeding anyway"
		return result
	}

	// Calculate percentage of available memory required
	result.RequiredPercent = (float64(size) / float64(available)) * 100

	if result.RequiredPercent >= AbortThresholdPercent {
		result.OK = false
		result.AbortReason = fmt.Sprintf(
			"buffer size (%s) requires %.0f%% of available memory (%s). "+
				"This operation would likely cause system instability. "+
				"Consider processing the input in smaller chunks or freeing memory.",
			FormatBytes(size),
			result.RequiredPercent,
			FormatBytes(int64(available)),
		)
		return result
	}

	if result.RequiredPercent >= WarnThresholdPercent {
		result.Warning = fmt.Sprintf(
			"Large buffer: %s requires %.0f%% of available memory (%s). "+
				"Downstream commands reading it may be slow.",
			FormatBytes(size),
			result.RequiredPercent,
			FormatBytes(int64(available)),
		)
	}

	return result
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
