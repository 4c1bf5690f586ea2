package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileSetsVariablesAndSkipsCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	contents := "# a comment\n\nJRPCGO_ENV_TEST_A=one\nJRPCGO_ENV_TEST_B = two \n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv("JRPCGO_ENV_TEST_A")
	defer os.Unsetenv("JRPCGO_ENV_TEST_B")

	if err := LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := os.Getenv("JRPCGO_ENV_TEST_A"); got != "one" {
		t.Errorf("JRPCGO_ENV_TEST_A = %q, want %q", got, "one")
	}
	if got := os.Getenv("JRPCGO_ENV_TEST_B"); got != "two" {
		t.Errorf("JRPCGO_ENV_TEST_B = %q, want %q", got, "two")
	}
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	if err := LoadFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected an error for a missing .env file")
	}
}
