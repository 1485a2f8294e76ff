package snapshot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linweave/linweave/internal/linear"
)

func targetStates() []linear.WorkflowState {
	return []linear.WorkflowState{
		{ID: "st-started", Name: "In Progress", Type: "started", Position: 2},
		{ID: "st-backlog", Name: "Backlog", Type: "backlog", Position: 0},
		{ID: "st-todo", Name: "Todo", Type: "unstarted", Position: 1},
	}
}

// snapshotFixture builds a document with 3 labels, 2 projects, and 10
// issues: six in project A, four in project B, label references spread
// across them.
func snapshotFixture() *Document {
	doc := &Document{
		Version: DocumentVersion,
		Team:    TeamDoc{Name: "Platform", Key: "PLT"},
		Labels: []LabelDoc{
			{Name: "bug", Color: "#ff0000"},
			{Name: "infra"},
			{Name: "urgent"},
		},
		Projects: []ProjectDoc{
			{Name: "A", Milestones: []MilestoneDoc{{Name: "Beta", TargetDate: "2026-09-15"}}},
			{Name: "B"},
		},
	}
	for i := 0; i < 10; i++ {
		project := "A"
		if i >= 6 {
			project = "B"
		}
		is := IssueDoc{
			Title:    fmt.Sprintf("task %d", i),
			Priority: 1 + i%4,
			Labels:   []NameRef{{Name: doc.Labels[i%3].Name}},
			Project:  &NameRef{Name: project},
		}
		doc.Issues = append(doc.Issues, is)
	}
	return doc
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"new team", Options{NewTeamName: "Copy"}, false},
		{"existing team", Options{ExistingTeamID: "team-1"}, false},
		{"neither target", Options{}, true},
		{"both targets", Options{NewTeamName: "Copy", ExistingTeamID: "team-1"}, true},
		{"conflicting project modes", Options{NewTeamName: "Copy", ProjectID: "p1", CreateImportProject: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestImportIntoFreshTeam(t *testing.T) {
	fake := newFakeAPI()
	fake.states = targetStates()
	doc := snapshotFixture()

	opts := DefaultOptions()
	opts.NewTeamName = "Platform Copy"
	report, err := NewImporter(fake).Import(context.Background(), doc, opts)
	require.NoError(t, err)

	assert.Equal(t, "team-new", report.TeamID)
	assert.True(t, report.TeamCreated)
	require.Len(t, fake.createdTeams, 1)
	assert.Equal(t, "PC", fake.createdTeams[0].Key)

	assert.Equal(t, Counts{Created: 3}, report.Labels)
	assert.Equal(t, Counts{Created: 2}, report.Projects)
	assert.Equal(t, Counts{Created: 1}, report.Milestones)
	assert.Equal(t, Counts{Created: 10}, report.Issues)
	assert.Empty(t, report.Failures)

	// Every issue lands in its mapped project with remapped label IDs and
	// the target team's first workflow state by position.
	require.Len(t, fake.createdIssues, 10)
	for i, in := range fake.createdIssues {
		assert.Equal(t, "team-new", in.TeamID)
		assert.Equal(t, "st-backlog", in.StateID)
		wantProject := "project-A"
		if i >= 6 {
			wantProject = "project-B"
		}
		assert.Equal(t, wantProject, in.ProjectID, "issue %d", i)
		require.Len(t, in.LabelIDs, 1, "issue %d", i)
		assert.Equal(t, "label-"+doc.Labels[i%3].Name, in.LabelIDs[0], "issue %d", i)
	}
}

func TestImportReusesExistingTeamEntities(t *testing.T) {
	fake := newFakeAPI()
	fake.team = &linear.Team{ID: "team-1", Name: "Platform"}
	fake.states = targetStates()
	fake.labels = []linear.Label{{ID: "existing-bug", Name: "Bug"}}
	fake.projects = []linear.Project{{ID: "existing-a", Name: "a"}}
	doc := snapshotFixture()

	opts := DefaultOptions()
	opts.ExistingTeamID = "team-1"
	report, err := NewImporter(fake).Import(context.Background(), doc, opts)
	require.NoError(t, err)

	assert.False(t, report.TeamCreated)
	// "bug" and "A" match existing entities case-insensitively by name.
	assert.Equal(t, Counts{Created: 2, Reused: 1}, report.Labels)
	assert.Equal(t, Counts{Created: 1, Reused: 1}, report.Projects)

	assert.Equal(t, "existing-bug", fake.createdIssues[0].LabelIDs[0])
	assert.Equal(t, "existing-a", fake.createdIssues[0].ProjectID)
}

func TestImportRejectedLabelDropsOnlyThatLabel(t *testing.T) {
	fake := newFakeAPI()
	fake.states = targetStates()
	fake.failLabelCreate["infra"] = fmt.Errorf("forbidden")
	doc := snapshotFixture()

	opts := DefaultOptions()
	opts.NewTeamName = "Copy"
	report, err := NewImporter(fake).Import(context.Background(), doc, opts)
	require.NoError(t, err)

	assert.Equal(t, Counts{Created: 2, Failed: 1}, report.Labels)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "label", report.Failures[0].Category)
	assert.Equal(t, "infra", report.Failures[0].Name)

	// All 10 issues are still created; those referencing only the rejected
	// label end up with no labels at all.
	assert.Equal(t, 10, report.Issues.Created)
	for i, in := range fake.createdIssues {
		if doc.Issues[i].Labels[0].Name == "infra" {
			assert.Empty(t, in.LabelIDs, "issue %d", i)
		} else {
			assert.Len(t, in.LabelIDs, 1, "issue %d", i)
		}
	}
}

func TestImportRelationsSkippedByDefault(t *testing.T) {
	fake := newFakeAPI()
	fake.states = targetStates()
	doc := snapshotFixture()
	doc.Relations = []RelationDoc{
		{From: 0, To: 1, Type: "blocks"},
		{From: 1, To: 2, Type: "blocks"},
	}

	opts := DefaultOptions()
	opts.NewTeamName = "Copy"
	report, err := NewImporter(fake).Import(context.Background(), doc, opts)
	require.NoError(t, err)

	assert.Equal(t, 2, report.RelationsSkipped)
	assert.Zero(t, report.Relations.Created)
	assert.Empty(t, fake.createdRelations)
}

func TestImportRecreatesRelations(t *testing.T) {
	fake := newFakeAPI()
	fake.states = targetStates()
	fake.failIssueCreate["task 1"] = fmt.Errorf("boom")
	doc := snapshotFixture()
	doc.Relations = []RelationDoc{
		{From: 0, To: 1, Type: "blocks"}, // endpoint failed: skipped
		{From: 2, To: 3, Type: "blocks"},
	}

	opts := DefaultOptions()
	opts.NewTeamName = "Copy"
	opts.RecreateRelations = true
	report, err := NewImporter(fake).Import(context.Background(), doc, opts)
	require.NoError(t, err)

	assert.Equal(t, 9, report.Issues.Created)
	assert.Equal(t, 1, report.Issues.Failed)
	assert.Equal(t, 1, report.Relations.Created)
	assert.Equal(t, 1, report.RelationsSkipped)
	require.Len(t, fake.createdRelations, 1)
	assert.Equal(t, "blocks", fake.createdRelations[0][2])
}

func TestImportForcedProjectOverridesDocument(t *testing.T) {
	fake := newFakeAPI()
	fake.states = targetStates()
	doc := snapshotFixture()

	opts := DefaultOptions()
	opts.NewTeamName = "Copy"
	opts.ProjectID = "forced-project"
	report, err := NewImporter(fake).Import(context.Background(), doc, opts)
	require.NoError(t, err)

	// Document projects are not recreated; every issue goes to the forced one.
	assert.Zero(t, report.Projects.Created)
	assert.Empty(t, fake.createdProjects)
	for _, in := range fake.createdIssues {
		assert.Equal(t, "forced-project", in.ProjectID)
	}
}

func TestImportCreateImportProject(t *testing.T) {
	fake := newFakeAPI()
	fake.states = targetStates()
	doc := snapshotFixture()

	opts := DefaultOptions()
	opts.NewTeamName = "Copy"
	opts.CreateImportProject = true
	report, err := NewImporter(fake).Import(context.Background(), doc, opts)
	require.NoError(t, err)

	// One fresh project named after the snapshot team, holding everything.
	assert.Equal(t, 1, report.Projects.Created)
	require.Len(t, fake.createdProjects, 1)
	assert.Equal(t, "Platform", fake.createdProjects[0].Name)
	for _, in := range fake.createdIssues {
		assert.Equal(t, "project-Platform", in.ProjectID)
	}
}

func TestImportTargetTeamNotFoundIsFatal(t *testing.T) {
	fake := newFakeAPI()
	doc := snapshotFixture()

	opts := DefaultOptions()
	opts.ExistingTeamID = "ghost"
	_, err := NewImporter(fake).Import(context.Background(), doc, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, fake.createdIssues)
}

func TestExportImportRoundTrip(t *testing.T) {
	source := exportFixture()
	doc, err := NewExporter(source).Export(context.Background(), "team-1")
	require.NoError(t, err)

	target := newFakeAPI()
	target.states = targetStates()
	opts := DefaultOptions()
	opts.NewTeamName = "Platform Copy"
	opts.RecreateRelations = true
	report, err := NewImporter(target).Import(context.Background(), doc, opts)
	require.NoError(t, err)

	// Every exported entity reappears by name in the target.
	assert.Equal(t, len(doc.Labels), report.Labels.Created)
	assert.Equal(t, len(doc.Projects), report.Projects.Created)
	assert.Equal(t, len(doc.Issues), report.Issues.Created)
	assert.Equal(t, len(doc.Relations), report.Relations.Created)

	var gotTitles []string
	for _, in := range target.createdIssues {
		gotTitles = append(gotTitles, in.Title)
	}
	assert.Equal(t, []string{"design schema", "migrate data"}, gotTitles)
	assert.Equal(t, [3]string{"new-issue-0", "new-issue-1", "blocks"}, target.createdRelations[0])
}

func TestTeamKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Platform Copy", "PC"},
		{"platform infrastructure team", "PIT"},
		{"One Two Three Four Five Six", "OTTFF"},
		{"Solo", "SOL"},
		{"ab", "AB"},
		{"x", "X"},
		{"", "TM"},
		{"!!!", "TM"},
		{"Team 9 Alpha", "T9A"},
	}
	for _, tt := range tests {
		if got := TeamKey(tt.name); got != tt.want {
			t.Errorf("TeamKey(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
