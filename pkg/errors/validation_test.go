package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "y-left", false},
		{"numeric", "0", false},
		{"mixed", "axis_2", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 257), true},
		{"control char", "axis\x01", true},
		{"null byte", "axis\x00", true},
		{"traversal", "..", true},
		{"separator", "a/b", true},
		{"backslash", "a\\b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChartID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"uuid", "4f3a2b1c-aaaa-bbbb-cccc-000011112222", false},
		{"slug", "sales_2024", false},
		{"leading dash", "-chart", true},
		{"spaces", "my chart", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChartID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChartID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDataKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"plain", "uv", false},
		{"nested", "metrics.latency.p99", false},
		{"spaces allowed", "response time", false},
		{"empty", "", true},
		{"control char", "a\x07b", true},
		{"too long", strings.Repeat("k", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDataKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDataKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "out/layout.json", false},
		{"absolute", "/tmp/layout.json", false},
		{"empty", "", true},
		{"traversal", "../../etc/passwd", true},
		{"null byte", "out\x00.json", true},
		{"too long", strings.Repeat("p", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
