package service

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(42, false)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	userID, isAdmin, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
	if isAdmin {
		t.Error("isAdmin = true, want false")
	}
}

func TestJWTAdminClaim(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(7, true)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	userID, isAdmin, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if userID != 7 || !isAdmin {
		t.Errorf("got userID=%d isAdmin=%v, want 7 true", userID, isAdmin)
	}
}

func TestParseJWTRejectsTampered(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(1, false)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, _, err := ParseJWT(token + "x"); err == nil {
		t.Error("tampered token accepted")
	}
	if _, _, err := ParseJWT("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
}
