package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// AcquireRunLock takes the per-environment run lock under dir. The lock
// file is created with O_EXCL, so a second run against the same
// environment fails fast instead of queueing. The returned release
// function removes the lock.
func AcquireRunLock(dir, environment string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.lock", environment))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another run against environment %q is in progress (lock %s held); remove the lock file if that run is dead", environment, path)
		}
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}

	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return func() { os.Remove(path) }, nil
}
