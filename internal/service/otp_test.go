package service

import "testing"

func TestGenerateOTPCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code, err := GenerateOTPCode()
		if err != nil {
			t.Fatalf("GenerateOTPCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
		seen[code] = true
	}

	// 100 draws from a million-code space should essentially never collapse
	// to a single value
	if len(seen) < 2 {
		t.Error("generated codes show no variation")
	}
}
