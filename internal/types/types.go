// Package types defines core data structures for the lw dependency and
// snapshot engine.
package types

import (
	"fmt"
	"time"
)

// WorkItem represents a trackable unit of work in the remote tracker.
//
// Priority uses Linear's native scale: 0 = none, 1 = urgent, 2 = high,
// 3 = normal, 4 = low. Lower values are more urgent, except 0 which means
// "unset" and sorts after 4. Use PrioritySortKey when ordering; never
// compare raw priority values across that boundary.
type WorkItem struct {
	// LocalIndex is a transient positional reference used during batch
	// construction, before the remote tracker has assigned an ID.
	// Valid only when RemoteID is empty.
	LocalIndex int    `json:"local_index,omitempty"`
	RemoteID   string `json:"remote_id,omitempty"`
	Identifier string `json:"identifier,omitempty"` // human-readable key, e.g. "ENG-42"
	URL        string `json:"url,omitempty"`

	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    int      `json:"priority"` // no omitempty: 0 is a valid value (none)
	State       State    `json:"state,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	Labels      []string `json:"labels,omitempty"`  // label names, the cross-team join key
	Project     string   `json:"project,omitempty"` // project name; at most one
}

// Validate checks the work item's field values.
func (w *WorkItem) Validate() error {
	if len(w.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(w.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(w.Title))
	}
	if w.Priority < 0 || w.Priority > 4 {
		return fmt.Errorf("priority must be between 0 and 4 (got %d)", w.Priority)
	}
	if w.State != "" && !w.State.IsValid() {
		return fmt.Errorf("invalid state: %s", w.State)
	}
	return nil
}

// Ref returns the best available reference for log and report output.
func (w *WorkItem) Ref() string {
	if w.Identifier != "" {
		return w.Identifier
	}
	if w.RemoteID != "" {
		return w.RemoteID
	}
	return fmt.Sprintf("#%d", w.LocalIndex)
}

// PrioritySortKey maps a priority value to its urgency ordering.
// 1 (urgent) sorts first, 4 (low) after 3, and 0 (none) last.
func PrioritySortKey(priority int) int {
	if priority == 0 {
		return 5
	}
	return priority
}

// State represents the workflow state of a work item.
type State string

// Work item state constants, mirroring Linear's workflow state types.
const (
	StateBacklog   State = "backlog"
	StateUnstarted State = "unstarted"
	StateStarted   State = "started"
	StateCompleted State = "completed"
	StateCanceled  State = "canceled"
)

// IsValid checks if the state value is valid.
func (s State) IsValid() bool {
	switch s {
	case StateBacklog, StateUnstarted, StateStarted, StateCompleted, StateCanceled:
		return true
	}
	return false
}

// IsTerminal returns true if the state ends the item's lifecycle.
// Items in a terminal state no longer block anything.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCanceled
}

// RelationType categorizes a relation between two work items.
type RelationType string

// Relation type constants.
const (
	// RelBlocks means From must reach a terminal state before To is
	// considered unblocked. The only type that affects readiness.
	RelBlocks    RelationType = "blocks"
	RelRelated   RelationType = "related"
	RelDuplicate RelationType = "duplicate"
)

// IsValid checks if the relation type value is valid.
func (r RelationType) IsValid() bool {
	switch r {
	case RelBlocks, RelRelated, RelDuplicate:
		return true
	}
	return false
}

// AffectsReadiness returns true if this relation type blocks work.
func (r RelationType) AffectsReadiness() bool {
	return r == RelBlocks
}

// Relation is a directed edge between two work items, addressed by
// remote ID once both endpoints exist.
type Relation struct {
	FromID string       `json:"from_id"`
	ToID   string       `json:"to_id"`
	Type   RelationType `json:"type"`
}

// Label is a tag owned by a team. Name is the stable join key used when
// remapping across teams; remote IDs are never compared cross-team.
type Label struct {
	RemoteID    string `json:"remote_id,omitempty"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// Milestone is a named checkpoint within a project.
type Milestone struct {
	RemoteID   string     `json:"remote_id,omitempty"`
	Name       string     `json:"name"`
	TargetDate *time.Time `json:"target_date,omitempty"`
}

// Project groups work items. Name is the stable join key.
type Project struct {
	RemoteID    string      `json:"remote_id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	State       string      `json:"state,omitempty"`
	Milestones  []Milestone `json:"milestones,omitempty"`
}

// Team owns labels, projects, and work items.
type Team struct {
	RemoteID    string `json:"remote_id,omitempty"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// WorkItemSpec describes one work item in a bulk-creation batch.
// BlockedBy holds local indices of other specs in the same batch that must
// complete before this one; the batch engine translates them to remote IDs
// after node creation.
type WorkItemSpec struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    int      `json:"priority,omitempty" yaml:"priority,omitempty"`
	Labels      []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	BlockedBy   []int    `json:"blocked_by,omitempty" yaml:"blocked_by,omitempty"`
}

// Validate checks a spec against its position in a batch of n specs.
func (s *WorkItemSpec) Validate(index, n int) error {
	if len(s.Title) == 0 {
		return fmt.Errorf("spec %d: title is required", index)
	}
	if s.Priority < 0 || s.Priority > 4 {
		return fmt.Errorf("spec %d: priority must be between 0 and 4 (got %d)", index, s.Priority)
	}
	for _, b := range s.BlockedBy {
		if b < 0 || b >= n {
			return fmt.Errorf("spec %d: blocked_by index %d out of range [0,%d)", index, b, n)
		}
		if b == index {
			return fmt.Errorf("spec %d: cannot block itself", index)
		}
	}
	return nil
}

// ItemFilter selects work items in list queries.
type ItemFilter struct {
	TeamID    string
	ProjectID string
	NoProject bool // orphans: items with no project
	State     State
	Limit     int
}
