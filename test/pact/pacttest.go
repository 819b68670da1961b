//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "adoption-api"
	ConsumerName = "shelter-portal"

	StatePetsBaseline      = "pets baseline"
	StatePetAvailable      = "pet with id 101 is available"
	StatePetMissing        = "no pet with id 404"
	StateApplicationExists = "application for pet 101 exists"
	StateApplicationTaken  = "alice already applied for pet 101"
	StateUsersBase         = "users baseline"
)

const (
	AvailablePetID int64 = 101
	MissingPetID   int64 = 404

	ExistingApplicationID = "3f1a6c3e-54d2-4f3b-9a44-8b1f4a1f9f01"

	AdopterUsername = "pact-adopter"
	AdopterPassword = "pact-password"
	AdopterToken    = "pact-session-token"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the shelter portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
