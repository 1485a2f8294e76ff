package snapshot

import (
	"context"
	"fmt"

	"github.com/linweave/linweave/internal/linear"
)

// fakeAPI implements ExportClient and ImportClient over in-memory fixtures,
// recording every write so tests can assert on exact call shapes.
type fakeAPI struct {
	team     *linear.Team
	states   []linear.WorkflowState
	labels   []linear.Label
	projects []linear.Project

	milestonesByProject map[string][]linear.Milestone
	issues              []linear.Issue
	relationsByIssue    map[string][]linear.Relation

	getTeamErr       error
	createTeamErr    error
	listLabelsErr    error
	listProjectsErr  error
	listIssuesErr    error
	listRelationsErr map[string]error

	failLabelCreate   map[string]error // label name -> error
	failProjectCreate map[string]error
	failIssueCreate   map[string]error // issue title -> error
	failRelationErr   error

	createdTeams      []linear.TeamCreateInput
	createdLabels     []linear.LabelCreateInput
	createdProjects   []linear.ProjectCreateInput
	createdMilestones []linear.MilestoneCreateInput
	createdIssues     []linear.IssueCreateInput
	createdRelations  [][3]string // fromID, toID, type
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		milestonesByProject: make(map[string][]linear.Milestone),
		relationsByIssue:    make(map[string][]linear.Relation),
		listRelationsErr:    make(map[string]error),
		failLabelCreate:     make(map[string]error),
		failProjectCreate:   make(map[string]error),
		failIssueCreate:     make(map[string]error),
	}
}

func (f *fakeAPI) GetTeam(ctx context.Context, teamID string) (*linear.Team, error) {
	if f.getTeamErr != nil {
		return nil, f.getTeamErr
	}
	if f.team != nil && f.team.ID == teamID {
		return f.team, nil
	}
	return nil, nil
}

func (f *fakeAPI) CreateTeam(ctx context.Context, input linear.TeamCreateInput) (*linear.Team, error) {
	f.createdTeams = append(f.createdTeams, input)
	if f.createTeamErr != nil {
		return nil, f.createTeamErr
	}
	return &linear.Team{ID: "team-new", Name: input.Name, Key: input.Key}, nil
}

func (f *fakeAPI) GetTeamStates(ctx context.Context, teamID string) ([]linear.WorkflowState, error) {
	return f.states, nil
}

func (f *fakeAPI) ListLabels(ctx context.Context, teamID string) ([]linear.Label, error) {
	if f.listLabelsErr != nil {
		return nil, f.listLabelsErr
	}
	return f.labels, nil
}

func (f *fakeAPI) ListProjects(ctx context.Context, teamID string) ([]linear.Project, error) {
	if f.listProjectsErr != nil {
		return nil, f.listProjectsErr
	}
	return f.projects, nil
}

func (f *fakeAPI) ListMilestones(ctx context.Context, projectID string) ([]linear.Milestone, error) {
	return f.milestonesByProject[projectID], nil
}

func (f *fakeAPI) ListIssues(ctx context.Context, filter linear.IssueFilter) ([]linear.Issue, error) {
	if f.listIssuesErr != nil {
		return nil, f.listIssuesErr
	}
	return f.issues, nil
}

func (f *fakeAPI) ListRelations(ctx context.Context, issueID string) ([]linear.Relation, error) {
	if err := f.listRelationsErr[issueID]; err != nil {
		return nil, err
	}
	return f.relationsByIssue[issueID], nil
}

func (f *fakeAPI) CreateLabel(ctx context.Context, input linear.LabelCreateInput) (*linear.Label, error) {
	f.createdLabels = append(f.createdLabels, input)
	if err := f.failLabelCreate[input.Name]; err != nil {
		return nil, err
	}
	return &linear.Label{ID: "label-" + input.Name, Name: input.Name}, nil
}

func (f *fakeAPI) CreateProject(ctx context.Context, input linear.ProjectCreateInput) (*linear.Project, error) {
	f.createdProjects = append(f.createdProjects, input)
	if err := f.failProjectCreate[input.Name]; err != nil {
		return nil, err
	}
	return &linear.Project{ID: "project-" + input.Name, Name: input.Name}, nil
}

func (f *fakeAPI) CreateMilestone(ctx context.Context, input linear.MilestoneCreateInput) (*linear.Milestone, error) {
	f.createdMilestones = append(f.createdMilestones, input)
	return &linear.Milestone{ID: "milestone-" + input.Name, Name: input.Name}, nil
}

func (f *fakeAPI) CreateIssue(ctx context.Context, input linear.IssueCreateInput) (*linear.IssueRef, error) {
	n := len(f.createdIssues)
	f.createdIssues = append(f.createdIssues, input)
	if err := f.failIssueCreate[input.Title]; err != nil {
		return nil, err
	}
	return &linear.IssueRef{
		ID:         fmt.Sprintf("new-issue-%d", n),
		Identifier: fmt.Sprintf("NEW-%d", n+1),
		Title:      input.Title,
	}, nil
}

func (f *fakeAPI) CreateRelation(ctx context.Context, fromID, toID, relationType string) error {
	f.createdRelations = append(f.createdRelations, [3]string{fromID, toID, relationType})
	return f.failRelationErr
}
