package auth

import "testing"

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() must not return the plaintext")
	}

	if !hasher.Verify("correct horse battery staple", hash) {
		t.Error("Verify() = false for the right password")
	}
	if hasher.Verify("wrong password", hash) {
		t.Error("Verify() = true for the wrong password")
	}
}

func TestPasswordHasher_HashIsRandomized(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestPasswordHasher_VerifyNeverPanicsOnGarbage(t *testing.T) {
	hasher := NewPasswordHasher()

	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$xx$broken"} {
		if hasher.Verify("anything", hash) {
			t.Errorf("Verify() = true against garbage hash %q", hash)
		}
	}
}
