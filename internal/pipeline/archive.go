package pipeline

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ObjectStore uploads archive objects. Implemented by platform/s3.Client.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	PutObject(ctx context.Context, bucket, key string, data []byte) error
}

// Archiver uploads terminal run records and their log transcript to
// object storage. Archival is best-effort bookkeeping after the run; a
// failed upload never changes the run's outcome.
type Archiver struct {
	store  ObjectStore
	bucket string
}

// NewArchiver creates an archiver writing to bucket.
func NewArchiver(store ObjectStore, bucket string) *Archiver {
	return &Archiver{store: store, bucket: bucket}
}

// Archive uploads the run record and, when non-empty, the log transcript.
// The bucket is checked first so a misconfigured bucket name surfaces as
// one clear error instead of a per-object failure.
func (a *Archiver) Archive(ctx context.Context, run *Run, transcript string) error {
	exists, err := a.store.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("archive bucket %q not found", a.bucket)
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to serialize run %d for archive: %w", run.ID, err)
	}

	if err := a.store.PutObject(ctx, a.bucket, ArchiveRecordKey(run.Environment, run.ID), data); err != nil {
		return err
	}

	if transcript != "" {
		logKey := fmt.Sprintf("%srun-%d.log", ArchivePrefix(run.Environment), run.ID)
		if err := a.store.PutObject(ctx, a.bucket, logKey, []byte(transcript)); err != nil {
			return err
		}
	}
	return nil
}

// ArchivePrefix is the object key prefix under which an environment's
// run records live.
func ArchivePrefix(environment string) string {
	return fmt.Sprintf("runs/%s/", environment)
}

// ArchiveRecordKey is the object key of one archived run record.
func ArchiveRecordKey(environment string, id int) string {
	return ArchivePrefix(environment) + fmt.Sprintf("run-%d.yaml", id)
}
