package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingObserver(t *testing.T) {
	t.Parallel()

	observer := NewRecordingObserver(nil)

	observer.Printf("run %d starting", 7)
	LogStageStart(observer, "build")
	LogStageComplete(observer, "build", 1500*time.Millisecond)
	LogStageFailed(observer, "deploy", errors.New("pull failed"))

	lines := observer.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, "run 7 starting", lines[0])
	assert.Contains(t, lines[1], "stage.started [build]")
	assert.Contains(t, lines[2], "completed in 1.5s")
	assert.Contains(t, lines[3], "stage.failed [deploy]")
	assert.Contains(t, lines[3], "pull failed")

	events := observer.Events()
	require.Len(t, events, 3)
	assert.Equal(t, EventStageStarted, events[0].Type)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestRecordingObserver_WithFields(t *testing.T) {
	t.Parallel()

	base := NewRecordingObserver(nil)
	scoped := base.WithFields(map[string]string{"environment": "staging"})

	scoped.Event(Event{Type: EventProgress, Stage: "provision", Message: "applying"})

	recording, ok := scoped.(*RecordingObserver)
	require.True(t, ok)

	events := recording.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "staging", events[0].Fields["environment"])

	// Event-level fields win over context fields.
	scoped.Event(Event{
		Type:    EventProgress,
		Message: "x",
		Fields:  map[string]string{"environment": "production"},
	})
	events = recording.Events()
	assert.Equal(t, "production", events[1].Fields["environment"])
}

func TestRecordingObserver_PassThrough(t *testing.T) {
	t.Parallel()

	inner := NewRecordingObserver(nil)
	outer := NewRecordingObserver(inner)

	outer.Printf("hello")
	outer.Progress("build", 1, 2)

	assert.Equal(t, outer.Lines(), inner.Lines())
}

func TestFormatEvent(t *testing.T) {
	t.Parallel()

	line := formatEvent(Event{
		Type:     EventStageCompleted,
		Stage:    "build",
		Resource: "registry.example.com/app:run-42",
		Message:  "completed in 2s",
	})
	assert.Equal(t, "stage.completed [build] resource=registry.example.com/app:run-42 completed in 2s", line)
}
