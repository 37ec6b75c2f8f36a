package utils

import "testing"

func TestSha256Hex(t *testing.T) {
	// Known vector for the empty string.
	if got := Sha256Hex(""); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Sha256Hex(\"\") = %s", got)
	}
	if Sha256Hex("a") == Sha256Hex("b") {
		t.Error("distinct inputs collided")
	}
}

func TestPasswordHashIsCaseInsensitiveOnEmail(t *testing.T) {
	a := PasswordHash("Owner@Example.com", "pw", "abcd1234")
	b := PasswordHash("  owner@example.com  ", "pw", "abcd1234")
	if a != b {
		t.Error("email casing or padding changed the hash")
	}

	if PasswordHash("owner@example.com", "pw", "abcd1234") == PasswordHash("owner@example.com", "pw", "ffff0000") {
		t.Error("salt did not change the hash")
	}
	if PasswordHash("owner@example.com", "pw1", "abcd1234") == PasswordHash("owner@example.com", "pw2", "abcd1234") {
		t.Error("password did not change the hash")
	}
}

func TestPasswordHashStableFormat(t *testing.T) {
	// The composite layout is shared with existing backup snapshots,
	// so the digest for a fixed input must never drift.
	want := Sha256Hex("owner@example.com::pw::abcd1234")
	if got := PasswordHash("owner@example.com", "pw", "abcd1234"); got != want {
		t.Errorf("PasswordHash() = %s, want %s", got, want)
	}
}

func TestSecureCompare(t *testing.T) {
	if !SecureCompare("abc", "abc") {
		t.Error("equal strings reported unequal")
	}
	if SecureCompare("abc", "abd") || SecureCompare("abc", "abcd") {
		t.Error("unequal strings reported equal")
	}
}

func TestGenerateSalt(t *testing.T) {
	a, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() error = %v", err)
	}
	b, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() error = %v", err)
	}
	if len(a) != 16 {
		t.Errorf("salt length = %d, want 16 hex chars", len(a))
	}
	if a == b {
		t.Error("two salts in a row were identical")
	}
}
