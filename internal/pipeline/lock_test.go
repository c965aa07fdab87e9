package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRunLock(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	release, err := AcquireRunLock(dir, "staging")
	require.NoError(t, err)

	// Second acquisition against the same environment fails fast.
	_, err = AcquireRunLock(dir, "staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in progress")

	// A different environment is unaffected.
	releaseOther, err := AcquireRunLock(dir, "production")
	require.NoError(t, err)
	releaseOther()

	// Release makes the lock available again.
	release()
	release2, err := AcquireRunLock(dir, "staging")
	require.NoError(t, err)
	release2()
}
