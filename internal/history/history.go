package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/khanhnv2901/headerguard/internal/analysis"
	"github.com/khanhnv2901/headerguard/internal/lifecycle"
	consts "github.com/khanhnv2901/headerguard/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/headerguard/internal/shared/errors"
	"github.com/khanhnv2901/headerguard/internal/shared/paths"
)

// OutcomeFailed marks a submission that ended in the Failed phase.
const OutcomeFailed = "failed"

// Record is one completed submission in the history log.
type Record struct {
	Timestamp       time.Time `json:"timestamp"`
	RequestID       string    `json:"request_id,omitempty"`
	URL             string    `json:"url"`
	BypassCache     bool      `json:"bypass_cache"`
	Outcome         string    `json:"outcome"`
	Score           *int      `json:"score,omitempty"`
	Tier            string    `json:"tier,omitempty"`
	WarningType     string    `json:"warning_type,omitempty"`
	IssueCount      int       `json:"issue_count"`
	Error           string    `json:"error,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// NewRecord summarizes a finished state. Idle and Loading states are not
// finished and yield ok=false.
func NewRecord(requestID string, s lifecycle.State, duration time.Duration) (Record, bool) {
	rec := Record{
		Timestamp:       time.Now().UTC(),
		RequestID:       requestID,
		URL:             s.URL,
		BypassCache:     s.BypassCache,
		DurationSeconds: duration.Seconds(),
	}

	switch s.Phase {
	case lifecycle.PhaseFailed:
		rec.Outcome = OutcomeFailed
		rec.Error = s.Error
	case lifecycle.PhaseSucceeded:
		out, ok := s.Outcome()
		if !ok {
			return Record{}, false
		}
		rec.Outcome = string(out.Kind)
		rec.IssueCount = len(out.Issues)
		if out.Kind == analysis.OutcomeWarning {
			rec.WarningType = string(out.Warning.Type)
		} else {
			rec.Score = out.Score
			rec.Tier = string(out.Tier)
		}
	default:
		return Record{}, false
	}
	return rec, true
}

// Store appends records to a JSON-lines file.
type Store struct {
	path string
}

// NewStore returns a store writing to dir/history.jsonl, creating dir if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: results directory not configured", sharederrors.ErrHistoryUnavailable)
	}
	root, err := paths.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharederrors.ErrHistoryUnavailable, err)
	}
	path, err := paths.ResolveWithin(root, consts.HistoryFileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharederrors.ErrHistoryUnavailable, err)
	}
	return &Store{path: path}, nil
}

// Path returns the history file location.
func (s *Store) Path() string {
	return s.path
}

// Append writes rec as a single line.
func (s *Store) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal history record: %v", sharederrors.ErrSerializationFailed, err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, consts.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// List returns the most recent records, oldest first. limit <= 0 returns all.
// A missing file is an empty history.
func (s *Store) List(limit int) ([]Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("%w: history line %d: %v", sharederrors.ErrDeserializationFailed, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}
