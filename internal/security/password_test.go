package security

import "testing"

func TestHashPasswordProducesDistinctHashes(t *testing.T) {
	first, err := HashPassword("Secret1@")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	second, err := HashPassword("Secret1@")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	// salted hashing: same input, different outputs
	if first == second {
		t.Fatalf("expected distinct hashes, got %q twice", first)
	}

	if err := CheckPassword(first, "Secret1@"); err != nil {
		t.Errorf("first hash did not verify: %v", err)
	}

	if err := CheckPassword(second, "Secret1@"); err != nil {
		t.Errorf("second hash did not verify: %v", err)
	}
}

func TestCheckPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("Secret1@")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if err := CheckPassword(hash, "Wrong1@x"); err == nil {
		t.Error("expected mismatch error, got nil")
	}

	if err := CheckPassword("not-a-bcrypt-hash", "Secret1@"); err == nil {
		t.Error("expected error for malformed hash, got nil")
	}
}
