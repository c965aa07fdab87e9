package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Status is the terminal (or in-flight) status of a run or stage.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// StageOutcome records one stage of a run.
type StageOutcome struct {
	Name       string    `yaml:"name"`
	Status     Status    `yaml:"status"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Error      string    `yaml:"error,omitempty"`
}

// Run is the persistent record of one pipeline run. It is owned
// exclusively by the controller while the run is in flight and written to
// the state directory at completion.
type Run struct {
	ID          int            `yaml:"id"`
	Environment string         `yaml:"environment"`
	Trigger     string         `yaml:"trigger"`
	Status      Status         `yaml:"status"`
	StartedAt   time.Time      `yaml:"started_at"`
	FinishedAt  time.Time      `yaml:"finished_at"`
	Stages      []StageOutcome `yaml:"stages"`

	// Result summary, populated on success (image and host also on a
	// deploy-stage failure, since those stages completed).
	Image string `yaml:"image,omitempty"`
	Host  string `yaml:"host,omitempty"`
	URL   string `yaml:"url,omitempty"`
}

// Stage returns the outcome recorded for name, or nil.
func (r *Run) Stage(name string) *StageOutcome {
	for i := range r.Stages {
		if r.Stages[i].Name == name {
			return &r.Stages[i]
		}
	}
	return nil
}

const (
	counterFile = "counter"
	runsSubdir  = "runs"
)

// Store persists run records and the monotonic run counter under the
// state directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, runsSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// NextID increments and returns the run counter. Counter updates are
// serialized by the run lock, not by this method.
func (s *Store) NextID() (int, error) {
	path := filepath.Join(s.dir, counterFile)

	last := 0
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		last, err = strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			return 0, fmt.Errorf("corrupt run counter %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// first run
	default:
		return 0, fmt.Errorf("failed to read run counter: %w", err)
	}

	next := last + 1
	if err := os.WriteFile(path, []byte(strconv.Itoa(next)+"\n"), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write run counter: %w", err)
	}
	return next, nil
}

// Save writes a run record as one YAML file keyed by run id.
func (s *Store) Save(run *Run) error {
	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to serialize run %d: %w", run.ID, err)
	}

	path := filepath.Join(s.dir, runsSubdir, fmt.Sprintf("run-%d.yaml", run.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// Load reads the record of a single run.
func (s *Store) Load(id int) (*Run, error) {
	path := filepath.Join(s.dir, runsSubdir, fmt.Sprintf("run-%d.yaml", id))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run %d: %w", id, err)
	}

	var run Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("corrupt run record %s: %w", path, err)
	}
	return &run, nil
}

// Latest returns the most recent persisted run, or nil when none exist.
func (s *Store) Latest() (*Run, error) {
	ids, err := s.listIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.Load(ids[len(ids)-1])
}

// List returns all persisted runs ordered by id ascending.
func (s *Store) List() ([]*Run, error) {
	ids, err := s.listIDs()
	if err != nil {
		return nil, err
	}

	runs := make([]*Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *Store) listIDs() ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, runsSubdir))
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}

	ids := make([]int, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "run-") || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "run-"), ".yaml"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
