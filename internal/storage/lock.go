package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ExclusiveLock is the lock file format used to claim exclusive write access
// to a plan database. SQLite handles statement-level locking, but two
// long-running processes propagating schedule changes against the same plan
// can still interleave recomputes, so the process level needs a claim too.
type ExclusiveLock struct {
	Holder    string    `json:"holder"`
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartedAt time.Time `json:"started_at"`
	Version   string    `json:"version"`
}

// AcquireExclusiveLock creates an exclusive lock file next to the database.
// Returns the lock file path for cleanup on shutdown.
func AcquireExclusiveLock(dbPath, version string) (lockPath string, err error) {
	dir := filepath.Dir(dbPath)
	if dir == "." || dbPath == ":memory:" {
		return "", nil
	}

	lockPath = filepath.Join(dir, ".exclusive-lock")

	// Check for existing lock
	if data, err := os.ReadFile(lockPath); err == nil {
		var existingLock ExclusiveLock
		if json.Unmarshal(data, &existingLock) == nil {
			if isProcessAlive(existingLock.PID, existingLock.Hostname) {
				return "", fmt.Errorf("another natapm process holds the plan database (PID %d on %s, started %s)",
					existingLock.PID, existingLock.Hostname, existingLock.StartedAt.Format(time.RFC3339))
			}
			// Stale lock - will overwrite
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to get hostname: %w", err)
	}

	lock := ExclusiveLock{
		Holder:    "natapm",
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartedAt: time.Now(),
		Version:   version,
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal lock: %w", err)
	}

	if err := os.WriteFile(lockPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to create exclusive lock: %w", err)
	}

	return lockPath, nil
}

// ReleaseExclusiveLock removes the exclusive lock file.
// Should be called on shutdown (use defer).
func ReleaseExclusiveLock(lockPath string) error {
	if lockPath == "" {
		return nil
	}

	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove exclusive lock: %w", err)
	}

	return nil
}

// isProcessAlive checks if a process with the given PID exists on the given
// hostname. Returns true if the process is alive, false otherwise.
func isProcessAlive(pid int, hostname string) bool {
	currentHost, err := os.Hostname()
	if err != nil {
		// Can't check hostname, assume remote/alive
		return true
	}

	if !strings.EqualFold(hostname, currentHost) {
		// Remote host - can't check, assume alive
		return true
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Send signal 0 to check if process exists
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}

	// EPERM means the process exists but belongs to another user
	if err == syscall.EPERM {
		return true
	}

	return false
}
