package linear

import (
	"context"
	"fmt"
	"sort"

	"github.com/linweave/linweave/internal/types"
)

// StateCache holds one team's workflow states, fetched once per run so
// that repeated state lookups don't cost a round trip each.
type StateCache struct {
	teamID string
	states []WorkflowState
}

// BuildStateCache fetches the team's workflow states and returns a cache
// ordered by position.
func BuildStateCache(ctx context.Context, c *Client, teamID string) (*StateCache, error) {
	states, err := c.GetTeamStates(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("build state cache for team %s: %w", teamID, err)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("team %s has no workflow states", teamID)
	}
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].Position < states[j].Position
	})
	return &StateCache{teamID: teamID, states: states}, nil
}

// DefaultStateID returns the team's first workflow state by position.
// Newly imported items land here.
func (sc *StateCache) DefaultStateID() string {
	return sc.states[0].ID
}

// IDForState returns the first workflow state whose type matches the
// given state, falling back to the default state when no type matches.
func (sc *StateCache) IDForState(s types.State) string {
	target := StateType(s)
	for _, ws := range sc.states {
		if ws.Type == target {
			return ws.ID
		}
	}
	return sc.DefaultStateID()
}

// StateType converts an engine state to Linear's workflow state type.
// The engine's canonical state names are Linear's type names, so this is
// the single boundary where that assumption lives.
func StateType(s types.State) string {
	if s.IsValid() {
		return string(s)
	}
	return string(types.StateBacklog)
}

// StateFromAPI converts a workflow state to the engine's state enum.
// Linear's extra "triage" type maps to backlog.
func StateFromAPI(ws *WorkflowState) types.State {
	if ws == nil {
		return types.StateBacklog
	}
	s := types.State(ws.Type)
	if s.IsValid() {
		return s
	}
	return types.StateBacklog
}

// IssueToWorkItem converts an API issue to the engine's work item shape,
// flattening label and project references to their names.
func IssueToWorkItem(is *Issue) *types.WorkItem {
	w := &types.WorkItem{
		RemoteID:    is.ID,
		Identifier:  is.Identifier,
		URL:         is.URL,
		Title:       is.Title,
		Description: is.Description,
		Priority:    is.Priority,
		State:       StateFromAPI(is.State),
	}
	if is.Assignee != nil {
		w.Assignee = is.Assignee.Name
	}
	if is.Project != nil {
		w.Project = is.Project.Name
	}
	if is.Labels != nil {
		for _, l := range is.Labels.Nodes {
			w.Labels = append(w.Labels, l.Name)
		}
	}
	return w
}
