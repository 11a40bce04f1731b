// Package queue carries intents from the file tree to the host application.
//
// Producers only ever Add; the host drains the queue after each input event
// and reacts to every intent in order. Intents are plain comparable values so
// tests can assert on them with Contains.
package queue

import (
	"sync"

	"github.com/treykane/cli-files/internal/pending"
)

// Event is one intent recorded on the queue.
type Event interface {
	event()
}

// OpenFile asks the host to open a file in the user's editor.
type OpenFile struct {
	Path string
}

// OpenInput asks the host to open the input line for Op.
type OpenInput struct {
	Op InputOperation
}

// OpenPopup asks the host to confirm a pending operation.
type OpenPopup struct {
	Op pending.Operation
}

// PreviewFile asks the preview pane to show Path.
type PreviewFile struct {
	Path string
}

// TogglePreviewMode flips the preview pane between rendered and raw output.
type TogglePreviewMode struct{}

func (OpenFile) event()          {}
func (OpenInput) event()         {}
func (OpenPopup) event()         {}
func (PreviewFile) event()       {}
func (TogglePreviewMode) event() {}

// InputOperation is what the input line does with submitted text.
type InputOperation interface {
	inputOperation()
}

// Command runs the submitted shell command against To.
type Command struct {
	To string
}

// NewFile creates a file named by the submitted text inside At.
type NewFile struct {
	At string
}

// NewDir creates a directory named by the submitted text inside At.
type NewDir struct {
	At string
}

// SearchFiles filters the tree to paths matching the submitted text.
type SearchFiles struct{}

func (Command) inputOperation()     {}
func (NewFile) inputOperation()     {}
func (NewDir) inputOperation()      {}
func (SearchFiles) inputOperation() {}

// Queue is a FIFO of intents. Add never blocks and never fails; duplicates
// are kept.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

func New() *Queue {
	return &Queue{}
}

func (q *Queue) Add(ev Event) {
	if ev == nil {
		return
	}
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Drain returns every queued intent in insertion order and empties the queue.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}

// Contains reports whether an intent equal to ev is queued.
func (q *Queue) Contains(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, queued := range q.events {
		if queued == ev {
			return true
		}
	}
	return false
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
