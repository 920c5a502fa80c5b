// Package session implements the segment navigation state machine and
// record aggregation.
package session

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is returned by Load when there are no segments.
var ErrEmptyCorpus = errors.New("corpus has no segments")

// InvalidStateError reports an illegal navigation transition. The failed
// transition leaves the navigator unchanged.
type InvalidStateError struct {
	Op     string
	State  State
	Index  int
	Target int
}

func (e *InvalidStateError) Error() string {
	if e.Op == "jump" {
		return fmt.Sprintf("invalid transition %s(%d) in state %s at segment %d", e.Op, e.Target, e.State, e.Index)
	}
	return fmt.Sprintf("invalid transition %s in state %s at segment %d", e.Op, e.State, e.Index)
}
