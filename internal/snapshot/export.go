package snapshot

import (
	"context"
	"fmt"

	"github.com/linweave/linweave/internal/debug"
	"github.com/linweave/linweave/internal/linear"
)

// ExportClient is the subset of the tracker API the exporter reads from.
type ExportClient interface {
	GetTeam(ctx context.Context, teamID string) (*linear.Team, error)
	ListLabels(ctx context.Context, teamID string) ([]linear.Label, error)
	ListProjects(ctx context.Context, teamID string) ([]linear.Project, error)
	ListMilestones(ctx context.Context, projectID string) ([]linear.Milestone, error)
	ListIssues(ctx context.Context, filter linear.IssueFilter) ([]linear.Issue, error)
	ListRelations(ctx context.Context, issueID string) ([]linear.Relation, error)
}

// Exporter walks a live team's graph and serializes it into a Document.
type Exporter struct {
	client ExportClient

	// Progress receives streaming per-entity markers. Optional.
	Progress func(format string, args ...interface{})
}

// NewExporter creates an exporter reading through the given client.
func NewExporter(client ExportClient) *Exporter {
	return &Exporter{client: client}
}

func (e *Exporter) progressf(format string, args ...interface{}) {
	if e.Progress != nil {
		e.Progress(format, args...)
	}
}

// Export fetches the team's labels, projects with milestones, issues, and
// issue relations, and assembles the portable document. The team and
// issue fetches are fatal; failures on any narrower sub-fetch downgrade
// that slice of the document to absent rather than aborting the export.
func (e *Exporter) Export(ctx context.Context, teamID string) (*Document, error) {
	team, err := e.client.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if team == nil {
		return nil, fmt.Errorf("export: team %s not found", teamID)
	}

	doc := &Document{
		Version: DocumentVersion,
		Team: TeamDoc{
			Name:        team.Name,
			Key:         team.Key,
			Description: team.Description,
		},
		Labels:   []LabelDoc{},
		Projects: []ProjectDoc{},
		Issues:   []IssueDoc{},
	}

	labels, err := e.client.ListLabels(ctx, teamID)
	if err != nil {
		debug.Logf("export: list labels: %v (continuing without labels)\n", err)
	}
	for _, l := range labels {
		doc.Labels = append(doc.Labels, LabelDoc{Name: l.Name, Color: l.Color, Description: l.Description})
	}
	e.progressf("exported %d labels\n", len(doc.Labels))

	projects, err := e.client.ListProjects(ctx, teamID)
	if err != nil {
		debug.Logf("export: list projects: %v (continuing without projects)\n", err)
	}
	for _, p := range projects {
		pd := ProjectDoc{Name: p.Name, Description: p.Description, State: p.State}
		milestones, err := e.client.ListMilestones(ctx, p.ID)
		if err != nil {
			debug.Logf("export: milestones for project %q: %v (continuing without)\n", p.Name, err)
		}
		for _, m := range milestones {
			pd.Milestones = append(pd.Milestones, MilestoneDoc{Name: m.Name, TargetDate: m.TargetDate})
		}
		doc.Projects = append(doc.Projects, pd)
		e.progressf("exported project %q (%d milestones)\n", p.Name, len(pd.Milestones))
	}

	issues, err := e.client.ListIssues(ctx, linear.IssueFilter{TeamID: teamID})
	if err != nil {
		return nil, fmt.Errorf("export: list issues: %w", err)
	}

	// Index by remote ID so relations can be rewritten as positions in
	// the document, the only stable addressing that survives import.
	indexByID := make(map[string]int, len(issues))
	for i, is := range issues {
		id := IssueDoc{
			Title:       is.Title,
			Description: is.Description,
			Priority:    is.Priority,
			State:       string(linear.StateFromAPI(is.State)),
			Labels:      []NameRef{},
		}
		if is.Assignee != nil {
			id.Assignee = is.Assignee.Name
		}
		if is.Project != nil {
			id.Project = &NameRef{Name: is.Project.Name}
		}
		if is.Labels != nil {
			for _, l := range is.Labels.Nodes {
				id.Labels = append(id.Labels, NameRef{Name: l.Name})
			}
		}
		doc.Issues = append(doc.Issues, id)
		indexByID[is.ID] = i
	}
	e.progressf("exported %d issues\n", len(doc.Issues))

	for i, is := range issues {
		relations, err := e.client.ListRelations(ctx, is.ID)
		if err != nil {
			debug.Logf("export: relations for %s: %v (continuing without)\n", is.Identifier, err)
			continue
		}
		for _, r := range relations {
			if r.RelatedIssue == nil {
				continue
			}
			// Cross-team edges have no position in this document.
			to, ok := indexByID[r.RelatedIssue.ID]
			if !ok {
				continue
			}
			doc.Relations = append(doc.Relations, RelationDoc{From: i, To: to, Type: r.Type})
		}
	}
	if len(doc.Relations) > 0 {
		e.progressf("exported %d relations\n", len(doc.Relations))
	}

	return doc, nil
}
