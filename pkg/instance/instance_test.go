package instance

import "testing"

func TestGetIDPrefersEnv(t *testing.T) {
	t.Setenv(EnvWorkerID, " cron-1 ")
	if got := GetID(); got != "cron-1" {
		t.Fatalf("expected cron-1, got %q", got)
	}
}

func TestGetIDFallsBack(t *testing.T) {
	t.Setenv(EnvWorkerID, "")
	if got := GetID(); got == "" {
		t.Fatal("expected a non-empty fallback id")
	}
}
