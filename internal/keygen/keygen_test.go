package keygen

import (
	"strings"
	"testing"
)

func TestNewLicenseKey_Format(t *testing.T) {
	const samples = 10000
	seen := make(map[string]struct{}, samples)

	for i := 0; i < samples; i++ {
		key, err := NewLicenseKey()
		if err != nil {
			t.Fatalf("NewLicenseKey: %v", err)
		}
		if !IsWellFormed(key) {
			t.Fatalf("key %q does not match the canonical format", key)
		}
		if strings.ContainsAny(key, "0O1I") {
			t.Fatalf("key %q contains an ambiguous character", key)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("collision after %d keys: %q", i, key)
		}
		seen[key] = struct{}{}
	}
}

func TestIsWellFormed(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"canonical", "ABCD-EFGH-JKLM-NPQR", true},
		{"lowercase", "abcd-efgh-jklm-npqr", false},
		{"ambiguous zero", "0BCD-EFGH-JKLM-NPQR", false},
		{"ambiguous oh", "OBCD-EFGH-JKLM-NPQR", false},
		{"missing group", "ABCD-EFGH-JKLM", false},
		{"no hyphens", "ABCDEFGHJKLMNPQR", false},
		{"empty", "", false},
		{"trailing junk", "ABCD-EFGH-JKLM-NPQRX", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWellFormed(tt.key); got != tt.want {
				t.Errorf("IsWellFormed(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
