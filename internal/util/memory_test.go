package util

import (
	"testing"
)

func TestGetMemoryInfo(t *testing.T) {
	info, err := GetMemoryInfo()
	if err != nil {
		t.Fatalf("GetMemoryInfo failed: %v", err)
	}

	if info.TotalBytes == 0 {
		t.Error("TotalBytes should not be 0")
	}

	if info.AvailableBytes == 0 {
		t.Error("AvailableBytes should not be 0")
	}

	if info.AvailableBytes > info.TotalBytes {
		t.Error("AvailableBytes should not exceed TotalBytes")
	}
}

func TestGetAvailableMemory(t *testing.T) {
	available, err := GetAvailableMemory()
	if err != nil {
		t.Fatalf("GetAvailableMemory failed: %v", err)
	}

	if available == 0 {
		t.Error("Available memory should not be 0")
	}
}

func TestCheckMemoryForSize(t *testing.T) {
	// Small buffer, no configured cap, should always be OK
	result := CheckMemoryForSize(1024, 0) // 1KB
	if !result.OK {
		t.Error("small buffer should be OK")
	}
	if result.Warning != "" {
		t.Errorf("small buffer should not have warning: %s", result.Warning)
	}
	if result.AbortReason != "" {
		t.Errorf("small buffer should not have abort reason: %s", result.AbortReason)
	}
}

func TestCheckMemoryForSizeLarge(t *testing.T) {
	// Get available memory to calculate a large buffer size
	available, err := GetAvailableMemory()
	if err != nil {
		t.Skip("Could not get available memory")
	}

	// 30% of available memory should trigger warning
	largeSize := int64(float64(available) * 0.30)
	result := CheckMemoryForSize(largeSize, 0)
	if !result.OK {
		t.Error("30% of available memory should still be OK")
	}
	if result.Warning == "" {
		t.Error("30% of available memory should have warning")
	}
}

func TestCheckMemoryForSizeHuge(t *testing.T) {
	// Get available memory
	available, err := GetAvailableMemory()
	if err != nil {
		t.Skip("Could not get available memory")
	}

	// 85% of available memory should abort
	hugeSize := int64(float64(available) * 0.85)
	result := CheckMemoryForSize(hugeSize, 0)
	if result.OK {
		t.Error("85% of available memory should abort")
	}
	if result.AbortReason == "" {
		t.Error("85% of available memory should have abort reason")
	}
}

func TestCheckMemoryForSizeBufferMax(t *testing.T) {
	// A configured BUFFER_MAX aborts well below any RAM-percentage
	// threshold, regardless of how much memory is actually available.
	result := CheckMemoryForSize(2048, 1024)
	if result.OK {
		t.Error("size exceeding BUFFER_MAX should abort")
	}
	if result.AbortReason == "" {
		t.Error("size exceeding BUFFER_MAX should have abort reason")
	}

	result = CheckMemoryForSize(512, 1024)
	if !result.OK {
		t.Error("size within BUFFER_MAX should be OK")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
		{1099511627776, "1.0 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatBytes(tt.bytes)
			if result != tt.expected {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, result, tt.expected)
			}
		})
	}
}
