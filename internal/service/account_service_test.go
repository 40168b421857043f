package service

import (
	"strings"
	"testing"
)

func TestNewAccountNumber(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		n := NewAccountNumber()
		if !strings.HasPrefix(n, "FXP-") {
			t.Fatalf("account number %q lacks FXP- prefix", n)
		}
		if len(n) != len("FXP-")+10 {
			t.Fatalf("account number %q has unexpected length %d", n, len(n))
		}
		if n != strings.ToUpper(n) {
			t.Fatalf("account number %q is not upper case", n)
		}
		if seen[n] {
			t.Fatalf("duplicate account number %q", n)
		}
		seen[n] = true
	}
}
