package instance

import (
	"os"
	"strings"
)

// EnvWorkerID names the variable that labels a worker process in logs and lock values.
const EnvWorkerID = "SNACKS_WORKER_ID"

// GetID returns the worker instance identifier, falling back to the hostname.
func GetID() string {
	if id := strings.TrimSpace(os.Getenv(EnvWorkerID)); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
