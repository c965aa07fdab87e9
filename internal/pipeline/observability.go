package pipeline

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Logger is the minimal progress-line interface.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during a
// pipeline run.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a stage
	Progress(stage string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured pipeline event.
type Event struct {
	Type      EventType         // Type of event
	Stage     string            // Stage name (e.g. "build", "deploy")
	Message   string            // Human-readable message
	Resource  string            // Resource name/ID if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of pipeline event.
type EventType string

const (
	// EventRunStarted indicates a pipeline run has started.
	EventRunStarted EventType = "run.started"
	// EventRunCompleted indicates a pipeline run finished, in any terminal
	// status.
	EventRunCompleted EventType = "run.completed"

	// EventStageStarted indicates a pipeline stage has started.
	EventStageStarted EventType = "stage.started"
	// EventStageCompleted indicates a pipeline stage completed successfully.
	EventStageCompleted EventType = "stage.completed"
	// EventStageSkipped indicates a pipeline stage was skipped.
	EventStageSkipped EventType = "stage.skipped"
	// EventStageFailed indicates a pipeline stage failed.
	EventStageFailed EventType = "stage.failed"

	// EventStepStarted indicates a step within a stage has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a step within a stage completed.
	EventStepCompleted EventType = "step.completed"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		contextFields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	log.Print(formatEvent(mergeFields(event, o.contextFields)))
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(stage string, current, total int) {
	if total == 0 {
		log.Printf("[%s] Progress: %d/%d", stage, current, total)
		return
	}
	percentage := (current * 100) / total
	log.Printf("[%s] Progress: %d/%d (%d%%)", stage, current, total, percentage)
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	return &ConsoleObserver{contextFields: copyFields(o.contextFields, fields)}
}

// RecordingObserver captures the formatted log stream in memory. The
// captured lines back the run-record archive and assertions in tests.
// Safe for concurrent use.
type RecordingObserver struct {
	mu            sync.Mutex
	lines         []string
	events        []Event
	contextFields map[string]string
	next          Observer // optional pass-through, e.g. to the console
}

// NewRecordingObserver creates a recording observer. next may be nil;
// when set, everything recorded is also forwarded to it.
func NewRecordingObserver(next Observer) *RecordingObserver {
	return &RecordingObserver{
		contextFields: make(map[string]string),
		next:          next,
	}
}

// Printf implements Logger.
func (o *RecordingObserver) Printf(format string, v ...interface{}) {
	o.append(fmt.Sprintf(format, v...))
	if o.next != nil {
		o.next.Printf(format, v...)
	}
}

// Event implements Observer.
func (o *RecordingObserver) Event(event Event) {
	event = mergeFields(event, o.contextFields)
	o.mu.Lock()
	o.events = append(o.events, event)
	o.lines = append(o.lines, formatEvent(event))
	o.mu.Unlock()
	if o.next != nil {
		o.next.Event(event)
	}
}

// Progress implements Observer.
func (o *RecordingObserver) Progress(stage string, current, total int) {
	o.append(fmt.Sprintf("[%s] Progress: %d/%d", stage, current, total))
	if o.next != nil {
		o.next.Progress(stage, current, total)
	}
}

// WithFields implements Observer.
func (o *RecordingObserver) WithFields(fields map[string]string) Observer {
	o.mu.Lock()
	defer o.mu.Unlock()
	return &RecordingObserver{
		lines:         o.lines,
		events:        o.events,
		contextFields: copyFields(o.contextFields, fields),
		next:          o.next,
	}
}

// Lines returns a copy of the captured log lines.
func (o *RecordingObserver) Lines() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.lines))
	copy(out, o.lines)
	return out
}

// Events returns a copy of the captured structured events.
func (o *RecordingObserver) Events() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

// Transcript returns the captured log stream as one newline-joined string.
func (o *RecordingObserver) Transcript() string {
	return strings.Join(o.Lines(), "\n")
}

func (o *RecordingObserver) append(line string) {
	o.mu.Lock()
	o.lines = append(o.lines, line)
	o.mu.Unlock()
}

func mergeFields(event Event, contextFields map[string]string) Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}
	return event
}

func copyFields(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// formatEvent formats an event for console output.
func formatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))

	if event.Stage != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Stage))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}

	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		var fieldParts []string
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

// LogStageStart logs a stage start event.
func LogStageStart(observer Observer, stage string) {
	observer.Event(Event{
		Type:    EventStageStarted,
		Stage:   stage,
		Message: "starting",
	})
}

// LogStageComplete logs a stage completion event.
func LogStageComplete(observer Observer, stage string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStageCompleted,
		Stage:   stage,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStageSkipped logs a stage skip event.
func LogStageSkipped(observer Observer, stage, reason string) {
	observer.Event(Event{
		Type:    EventStageSkipped,
		Stage:   stage,
		Message: fmt.Sprintf("skipped: %s", reason),
	})
}

// LogStageFailed logs a stage failure event.
func LogStageFailed(observer Observer, stage string, err error) {
	observer.Event(Event{
		Type:    EventStageFailed,
		Stage:   stage,
		Message: fmt.Sprintf("failed: %v", err),
	})
}
