package bulk

import (
	"context"
	"strings"

	"github.com/linweave/linweave/internal/debug"
	"github.com/linweave/linweave/internal/linear"
)

// RunContext carries the name->id caches for one batch run. It exists so
// repeated or concurrent runs never observe stale cross-run state; nothing
// is cached at package level.
type RunContext struct {
	client TrackerClient
	teamID string

	labelIDs     map[string]string // lowercase label name -> remote id
	labelsLoaded bool
	labelFailed  map[string]bool // names whose creation already failed this run
}

// NewRunContext creates an empty cache scope for one run.
func NewRunContext(client TrackerClient, teamID string) *RunContext {
	return &RunContext{
		client:      client,
		teamID:      teamID,
		labelIDs:    make(map[string]string),
		labelFailed: make(map[string]bool),
	}
}

// ResolveLabels maps label names to remote IDs, reusing existing team
// labels by name and creating missing ones. Created IDs are cached for
// the rest of the run so the same name is never created twice. Names that
// cannot be resolved are dropped; the item is still created without them.
func (r *RunContext) ResolveLabels(ctx context.Context, names []string) []string {
	if len(names) == 0 {
		return nil
	}
	r.loadLabels(ctx)

	var ids []string
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if id, ok := r.labelIDs[key]; ok {
			ids = append(ids, id)
			continue
		}
		if r.labelFailed[key] {
			continue
		}
		created, err := r.client.CreateLabel(ctx, linear.LabelCreateInput{TeamID: r.teamID, Name: name})
		if err != nil {
			debug.Logf("bulk: create label %q: %v\n", name, err)
			r.labelFailed[key] = true
			continue
		}
		r.labelIDs[key] = created.ID
		ids = append(ids, created.ID)
	}
	return ids
}

// loadLabels seeds the cache with the team's existing labels, once.
// A listing failure degrades to create-only resolution.
func (r *RunContext) loadLabels(ctx context.Context) {
	if r.labelsLoaded {
		return
	}
	r.labelsLoaded = true
	labels, err := r.client.ListLabels(ctx, r.teamID)
	if err != nil {
		debug.Logf("bulk: list labels for team %s: %v\n", r.teamID, err)
		return
	}
	for _, l := range labels {
		r.labelIDs[strings.ToLower(l.Name)] = l.ID
	}
}
