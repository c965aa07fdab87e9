package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	objects map[string][]byte
	err     error

	missingBucket bool
	headCalls     int
}

func (f *fakeObjectStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	f.headCalls++
	return !f.missingBucket, nil
}

func (f *fakeObjectStore) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[bucket+"/"+key] = data
	return nil
}

func TestArchiver(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{}
	archiver := NewArchiver(store, "shipway-runs")

	run := &Run{ID: 42, Environment: "staging", Status: StatusSucceeded}
	err := archiver.Archive(context.Background(), run, "run 42 succeeded")
	require.NoError(t, err)

	assert.Equal(t, 1, store.headCalls)
	record, ok := store.objects["shipway-runs/runs/staging/run-42.yaml"]
	require.True(t, ok)
	assert.Contains(t, string(record), "id: 42")

	transcript, ok := store.objects["shipway-runs/runs/staging/run-42.log"]
	require.True(t, ok)
	assert.Equal(t, "run 42 succeeded", string(transcript))
}

func TestArchiver_EmptyTranscript(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{}
	archiver := NewArchiver(store, "shipway-runs")

	err := archiver.Archive(context.Background(), &Run{ID: 7, Environment: "staging"}, "")
	require.NoError(t, err)

	assert.Len(t, store.objects, 1)
}

func TestArchiver_MissingBucket(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{missingBucket: true}
	archiver := NewArchiver(store, "shipway-runs")

	err := archiver.Archive(context.Background(), &Run{ID: 7, Environment: "staging"}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `archive bucket "shipway-runs" not found`)
	assert.Empty(t, store.objects)
}

func TestArchiver_UploadFailure(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{err: errors.New("access denied")}
	archiver := NewArchiver(store, "shipway-runs")

	err := archiver.Archive(context.Background(), &Run{ID: 7, Environment: "staging"}, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.err)
}
