// Package memory records reasoning sessions and persists them through a
// pluggable store.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ErrNoSession is returned when an operation needs an active session and
// Start has not been called.
var ErrNoSession = errors.New("no active session")

// StepRecord is the persisted form of one reasoning step. Verification stays
// untyped here so the package does not depend on the loop controller.
type StepRecord struct {
	Step         int       `json:"step"`
	Timestamp    time.Time `json:"timestamp"`
	Thought      string    `json:"thought,omitempty"`
	Action       string    `json:"action,omitempty"`
	ActionInput  any       `json:"action_input,omitempty"`
	Observation  string    `json:"observation,omitempty"`
	FinalAnswer  string    `json:"final_answer,omitempty"`
	Verification any       `json:"verification,omitempty"`
}

// Session is one query's worth of reasoning history. EndedAt and TotalSteps
// are filled in at persist time.
type Session struct {
	ID         string       `json:"id"`
	Query      string       `json:"query"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    time.Time    `json:"ended_at"`
	Steps      []StepRecord `json:"steps"`
	TotalSteps int          `json:"total_steps"`
}

// Store persists a finished or in-progress session and returns a location
// string (a file path, a document id) for logging.
type Store interface {
	Save(ctx context.Context, session *Session) (string, error)
}

// SessionLog accumulates step records for the current session. It is safe for
// concurrent use, though the loop controller drives it from one goroutine.
type SessionLog struct {
	mu      sync.RWMutex
	store   Store
	current *Session
}

// NewSessionLog creates a log backed by store. A nil store is allowed; the
// log then only serves in-process summaries and Persist reports ErrNoSession
// semantics through a plain error.
func NewSessionLog(store Store) *SessionLog {
	return &SessionLog{store: store}
}

// Start opens a fresh session for query, discarding any previous one.
func (l *SessionLog) Start(query string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.current = &Session{
		ID:        now.Format("20060102_150405"),
		Query:     query,
		StartedAt: now,
	}
	return l.current.ID
}

// Append adds a step record to the active session. Records appended without
// an active session are dropped with a warning.
func (l *SessionLog) Append(step int, rec StepRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		slog.Warn("step record dropped, no active session", "step", step)
		return
	}
	rec.Step = step
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	l.current.Steps = append(l.current.Steps, rec)
}

// Persist stamps the end of the active session and writes it through the
// store.
func (l *SessionLog) Persist(ctx context.Context) (string, error) {
	l.mu.Lock()
	session := l.current
	if session != nil {
		session.EndedAt = time.Now()
		session.TotalSteps = len(session.Steps)
	}
	l.mu.Unlock()

	if session == nil {
		return "", ErrNoSession
	}
	if l.store == nil {
		return "", errors.New("no session store configured")
	}
	return l.store.Save(ctx, session)
}

// Summary renders a one-line digest of the active session.
func (l *SessionLog) Summary() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.current == nil {
		return "no active session"
	}

	var answered int
	var toolCalls int
	for _, rec := range l.current.Steps {
		if rec.FinalAnswer != "" {
			answered++
		}
		if rec.Action != "" && rec.Action != "none" {
			toolCalls++
		}
	}
	return fmt.Sprintf("session %s: %d steps, %d tool calls, %d answers",
		l.current.ID, len(l.current.Steps), toolCalls, answered)
}

// RecentContext renders the last n steps as prompt-ready text so a follow-up
// query can see what already happened.
func (l *SessionLog) RecentContext(n int) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.current == nil || len(l.current.Steps) == 0 {
		return ""
	}

	steps := l.current.Steps
	if n > 0 && len(steps) > n {
		steps = steps[len(steps)-n:]
	}

	var sb strings.Builder
	for _, rec := range steps {
		fmt.Fprintf(&sb, "Step %d:\n", rec.Step)
		if rec.Thought != "" {
			fmt.Fprintf(&sb, "  Thought: %s\n", rec.Thought)
		}
		if rec.Action != "" && rec.Action != "none" {
			fmt.Fprintf(&sb, "  Action: %s\n", rec.Action)
		}
		if rec.Observation != "" {
			fmt.Fprintf(&sb, "  Observation: %s\n", rec.Observation)
		}
		if rec.FinalAnswer != "" {
			fmt.Fprintf(&sb, "  Answer: %s\n", rec.FinalAnswer)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
