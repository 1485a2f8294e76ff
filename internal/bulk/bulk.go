// Package bulk creates batches of work items together with their blocking
// relations against a tracker that assigns identifiers only after creation.
//
// Creation runs in two strictly ordered phases. The node phase creates
// every work item in input order, recording localIndex -> remoteID as the
// tracker hands back identifiers. The edge phase then wires blocking
// relations between the created items. There is no rollback: a failure in
// either phase is logged and skipped, and the batch continues.
package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/linweave/linweave/internal/debug"
	"github.com/linweave/linweave/internal/graph"
	"github.com/linweave/linweave/internal/linear"
	"github.com/linweave/linweave/internal/types"
)

// TrackerClient is the subset of the tracker API the batch engine drives.
type TrackerClient interface {
	ListLabels(ctx context.Context, teamID string) ([]linear.Label, error)
	CreateLabel(ctx context.Context, input linear.LabelCreateInput) (*linear.Label, error)
	CreateIssue(ctx context.Context, input linear.IssueCreateInput) (*linear.IssueRef, error)
	CreateRelation(ctx context.Context, fromID, toID, relationType string) error
}

// CreatedItem records one successfully created work item.
type CreatedItem struct {
	LocalIndex int    `json:"local_index"`
	RemoteID   string `json:"remote_id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	URL        string `json:"url"`
}

// Failure records one work item that could not be created.
type Failure struct {
	LocalIndex int    `json:"local_index"`
	Title      string `json:"title"`
	Reason     string `json:"reason"`
}

// EdgeFailure records a blocking relation whose creation call failed.
// Edges whose endpoints never got a remote ID are skipped, not reported,
// because the node failure already covers them.
type EdgeFailure struct {
	FromIndex int    `json:"from_index"`
	ToIndex   int    `json:"to_index"`
	Reason    string `json:"reason"`
}

// Result reports the outcome of a batch. Success on a subset is the
// contract: the tracker has no multi-entity transaction primitive.
type Result struct {
	Created      []CreatedItem `json:"created"`
	Failures     []Failure     `json:"failures"`
	EdgesCreated int           `json:"edges_created"`
	EdgesSkipped int           `json:"edges_skipped"` // endpoint missing after node phase
	EdgeFailures []EdgeFailure `json:"edge_failures"`
}

// Creator runs two-phase batch creation against one team.
type Creator struct {
	client TrackerClient
	teamID string

	// Progress receives streaming per-entity markers. Optional.
	Progress func(format string, args ...interface{})
}

// NewCreator creates a batch engine for the given team.
func NewCreator(client TrackerClient, teamID string) *Creator {
	return &Creator{client: client, teamID: teamID}
}

func (c *Creator) progressf(format string, args ...interface{}) {
	if c.Progress != nil {
		c.Progress(format, args...)
	}
}

// Run validates the batch, then executes the node phase and the edge
// phase. Only a context error or an invalid batch aborts; everything else
// is reported per entity in the result.
func (c *Creator) Run(ctx context.Context, specs []types.WorkItemSpec) (*Result, error) {
	for i := range specs {
		if err := specs[i].Validate(i, len(specs)); err != nil {
			return nil, fmt.Errorf("invalid batch: %w", err)
		}
	}

	run := NewRunContext(c.client, c.teamID)
	result := &Result{}
	model := graph.New()

	// Node phase: create items in input order, binding remote IDs.
	for i := range specs {
		spec := &specs[i]
		model.AddWorkItem(&types.WorkItem{Title: spec.Title, Priority: spec.Priority})

		labelIDs := run.ResolveLabels(ctx, spec.Labels)

		ref, err := c.client.CreateIssue(ctx, linear.IssueCreateInput{
			TeamID:      c.teamID,
			Title:       spec.Title,
			Description: spec.Description,
			Priority:    spec.Priority,
			LabelIDs:    labelIDs,
		})
		if err != nil {
			if ctxErr := ctxCause(ctx, err); ctxErr != nil {
				return result, ctxErr
			}
			result.Failures = append(result.Failures, Failure{LocalIndex: i, Title: spec.Title, Reason: err.Error()})
			c.progressf("✗ [%d] %s: %v\n", i, spec.Title, err)
			continue
		}
		model.Bind(i, ref.ID)
		result.Created = append(result.Created, CreatedItem{
			LocalIndex: i,
			RemoteID:   ref.ID,
			Identifier: ref.Identifier,
			Title:      spec.Title,
			URL:        ref.URL,
		})
		c.progressf("✓ [%d] %s (%s)\n", i, spec.Title, ref.Identifier)
	}

	// Edge phase: wire blocks relations between items that both exist.
	for i := range specs {
		for _, blockerIdx := range specs[i].BlockedBy {
			from := model.ItemAt(blockerIdx)
			to := model.ItemAt(i)
			if from == nil || to == nil || from.RemoteID == "" || to.RemoteID == "" {
				result.EdgesSkipped++
				debug.Logf("bulk: skipping edge %d -> %d (endpoint not created)\n", blockerIdx, i)
				continue
			}
			err := c.client.CreateRelation(ctx, from.RemoteID, to.RemoteID, string(types.RelBlocks))
			if err != nil {
				if ctxErr := ctxCause(ctx, err); ctxErr != nil {
					return result, ctxErr
				}
				result.EdgeFailures = append(result.EdgeFailures, EdgeFailure{FromIndex: blockerIdx, ToIndex: i, Reason: err.Error()})
				c.progressf("✗ blocks %d -> %d: %v\n", blockerIdx, i, err)
				continue
			}
			model.AddRelation(from.RemoteID, to.RemoteID, types.RelBlocks)
			result.EdgesCreated++
			c.progressf("✓ blocks %d -> %d\n", blockerIdx, i)
		}
	}

	return result, nil
}

// ctxCause returns the context error when err stems from cancellation,
// nil otherwise. Cancellation is fatal to the run; everything else is
// entity-level.
func ctxCause(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return ctx.Err()
	}
	return nil
}
