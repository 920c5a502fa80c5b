package session

import (
	"time"

	"github.com/acastaldi/pedit/internal/diff"
	"github.com/acastaldi/pedit/internal/model"
)

// State is the navigator lifecycle phase.
type State int

// Navigator states.
const (
	StateIdle State = iota
	StateActive
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Navigator tracks the current segment, times the active segment, and
// appends exactly one edit record per transition. Records are a history:
// revisiting a segment appends a new record rather than overwriting.
//
// A Navigator is confined to one operator session and is not safe for
// concurrent use.
type Navigator struct {
	segments []model.Segment
	current  int
	records  []model.EditRecord
	state    State
	startAt  time.Time

	now func() time.Time
}

// NewNavigator returns an idle navigator with no segments loaded.
func NewNavigator() *Navigator {
	return &Navigator{now: time.Now}
}

// Load moves the navigator from idle to the first segment and starts its
// timer. Returns ErrEmptyCorpus when lines is empty.
func (n *Navigator) Load(lines []string) error {
	if n.state != StateIdle {
		return &InvalidStateError{Op: "load", State: n.state, Index: n.current}
	}
	if len(lines) == 0 {
		return ErrEmptyCorpus
	}
	segments := make([]model.Segment, len(lines))
	for i, text := range lines {
		segments[i] = model.Segment{Index: i, Text: text}
	}
	n.segments = segments
	n.records = nil
	n.current = 0
	n.state = StateActive
	n.startAt = n.now()
	return nil
}

// Advance records the active segment and moves forward. From the last
// segment it transitions to complete; advancing past that is an error.
func (n *Navigator) Advance(edited string) error {
	if n.state != StateActive {
		return &InvalidStateError{Op: "advance", State: n.state, Index: n.current}
	}
	n.record(edited)
	n.current++
	if n.current == len(n.segments) {
		n.state = StateComplete
		n.startAt = time.Time{}
		return nil
	}
	n.startAt = n.now()
	return nil
}

// Retreat records the active segment and moves back one. Rejected at the
// first segment.
func (n *Navigator) Retreat(edited string) error {
	if n.state != StateActive || n.current == 0 {
		return &InvalidStateError{Op: "retreat", State: n.state, Index: n.current}
	}
	n.record(edited)
	n.current--
	n.startAt = n.now()
	return nil
}

// Jump records the active segment and moves to an arbitrary segment. The
// target must be a valid index; jump never completes the session.
func (n *Navigator) Jump(target int, edited string) error {
	if n.state != StateActive || target < 0 || target >= len(n.segments) {
		return &InvalidStateError{Op: "jump", State: n.state, Index: n.current, Target: target}
	}
	n.record(edited)
	n.current = target
	n.startAt = n.now()
	return nil
}

func (n *Navigator) record(edited string) {
	segment := n.segments[n.current]
	elapsed := n.now().Sub(n.startAt).Seconds()
	insertions, deletions := diff.CountEdits(segment.Text, edited)
	n.records = append(n.records, model.EditRecord{
		SegmentID:  segment.Index,
		Original:   segment.Text,
		Edited:     edited,
		EditTime:   elapsed,
		Insertions: insertions,
		Deletions:  deletions,
	})
}

// State returns the current lifecycle phase.
func (n *Navigator) State() State {
	return n.state
}

// Index returns the current segment index. After completion it equals Len.
func (n *Navigator) Index() int {
	return n.current
}

// Len returns the number of loaded segments.
func (n *Navigator) Len() int {
	return len(n.segments)
}

// Current returns the active segment. ok is false when no segment is
// active.
func (n *Navigator) Current() (model.Segment, bool) {
	if n.state != StateActive {
		return model.Segment{}, false
	}
	return n.segments[n.current], true
}

// Segments returns the loaded segments.
func (n *Navigator) Segments() []model.Segment {
	return n.segments
}

// Records returns the append-only record history in transition order.
func (n *Navigator) Records() []model.EditRecord {
	return n.records
}

// Elapsed returns the time spent on the active segment so far.
func (n *Navigator) Elapsed() time.Duration {
	if n.state != StateActive {
		return 0
	}
	return n.now().Sub(n.startAt)
}
