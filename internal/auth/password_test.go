package auth

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("opensesame1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "opensesame1" {
		t.Fatal("hash equals the plaintext password")
	}

	if !CheckPassword(hash, "opensesame1") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() accepted a wrong password")
	}
	if CheckPassword("not-a-hash", "opensesame1") {
		t.Error("CheckPassword() accepted a malformed hash")
	}
}
