package snapshot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linweave/linweave/internal/linear"
)

func exportFixture() *fakeAPI {
	fake := newFakeAPI()
	fake.team = &linear.Team{ID: "team-1", Name: "Platform", Key: "PLT", Description: "infra team"}
	fake.labels = []linear.Label{
		{ID: "l1", Name: "bug", Color: "#ff0000"},
		{ID: "l2", Name: "infra"},
	}
	fake.projects = []linear.Project{
		{ID: "p1", Name: "Rollout", Description: "v2 rollout"},
	}
	fake.milestonesByProject["p1"] = []linear.Milestone{
		{ID: "m1", Name: "Beta", TargetDate: "2026-09-15"},
	}
	fake.issues = []linear.Issue{
		{
			ID: "i1", Identifier: "PLT-1", Title: "design schema", Priority: 2,
			State:   &linear.WorkflowState{Type: "completed"},
			Project: &linear.Project{ID: "p1", Name: "Rollout"},
			Labels:  &linear.LabelNodes{Nodes: []linear.Label{{ID: "l2", Name: "infra"}}},
		},
		{
			ID: "i2", Identifier: "PLT-2", Title: "migrate data", Priority: 1,
			State:    &linear.WorkflowState{Type: "unstarted"},
			Assignee: &linear.User{Name: "sam"},
		},
	}
	fake.relationsByIssue["i1"] = []linear.Relation{
		{ID: "r1", Type: "blocks", RelatedIssue: &linear.IssueRef{ID: "i2"}},
	}
	return fake
}

func TestExportAssemblesDocument(t *testing.T) {
	fake := exportFixture()
	doc, err := NewExporter(fake).Export(context.Background(), "team-1")
	require.NoError(t, err)

	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, TeamDoc{Name: "Platform", Key: "PLT", Description: "infra team"}, doc.Team)

	require.Len(t, doc.Labels, 2)
	assert.Equal(t, "bug", doc.Labels[0].Name)
	assert.Equal(t, "#ff0000", doc.Labels[0].Color)

	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "Rollout", doc.Projects[0].Name)
	require.Len(t, doc.Projects[0].Milestones, 1)
	assert.Equal(t, "2026-09-15", doc.Projects[0].Milestones[0].TargetDate)

	require.Len(t, doc.Issues, 2)
	first := doc.Issues[0]
	assert.Equal(t, "design schema", first.Title)
	assert.Equal(t, "completed", first.State)
	require.NotNil(t, first.Project)
	assert.Equal(t, "Rollout", first.Project.Name)
	assert.Equal(t, []NameRef{{Name: "infra"}}, first.Labels)
	assert.Equal(t, "sam", doc.Issues[1].Assignee)
	assert.Nil(t, doc.Issues[1].Project)

	// Relations are rewritten to document positions.
	require.Len(t, doc.Relations, 1)
	assert.Equal(t, RelationDoc{From: 0, To: 1, Type: "blocks"}, doc.Relations[0])
}

func TestExportTeamNotFound(t *testing.T) {
	fake := newFakeAPI()
	_, err := NewExporter(fake).Export(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestExportIssueListFailureIsFatal(t *testing.T) {
	fake := exportFixture()
	fake.listIssuesErr = fmt.Errorf("server error")

	_, err := NewExporter(fake).Export(context.Background(), "team-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list issues")
}

func TestExportLabelListFailureDegrades(t *testing.T) {
	fake := exportFixture()
	fake.listLabelsErr = fmt.Errorf("server error")

	doc, err := NewExporter(fake).Export(context.Background(), "team-1")
	require.NoError(t, err)
	assert.Empty(t, doc.Labels)
	assert.Len(t, doc.Issues, 2, "issues still exported")
}

func TestExportRelationFetchFailureDegrades(t *testing.T) {
	fake := exportFixture()
	fake.listRelationsErr["i1"] = fmt.Errorf("server error")

	doc, err := NewExporter(fake).Export(context.Background(), "team-1")
	require.NoError(t, err)
	assert.Empty(t, doc.Relations)
}

func TestExportSkipsCrossTeamRelations(t *testing.T) {
	fake := exportFixture()
	fake.relationsByIssue["i2"] = []linear.Relation{
		{ID: "r2", Type: "related", RelatedIssue: &linear.IssueRef{ID: "other-team-issue"}},
		{ID: "r3", Type: "blocks", RelatedIssue: nil},
	}

	doc, err := NewExporter(fake).Export(context.Background(), "team-1")
	require.NoError(t, err)
	require.Len(t, doc.Relations, 1, "only the in-team edge survives")
	assert.Equal(t, 0, doc.Relations[0].From)
}
