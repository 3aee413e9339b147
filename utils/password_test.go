package utils

import "testing"

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatalf("correct password must verify")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatalf("wrong password must not verify")
	}
}

func TestSanitizeStripsScript(t *testing.T) {
	out := Sanitize(`hello <script>alert(1)</script>world`)
	if out != "hello world" {
		t.Fatalf("expected script stripped, got %q", out)
	}

	if got := SanitizePlain(`<b>bold</b> title`); got != "bold title" {
		t.Fatalf("expected markup stripped, got %q", got)
	}
}
