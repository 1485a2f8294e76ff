package linear

import (
	"context"
	"fmt"
)

// listPageSize is the page size for cursor-paginated list queries.
const listPageSize = 100

const teamQuery = `
query Team($id: String!) {
  team(id: $id) {
    id
    key
    name
    description
  }
}`

// GetTeam fetches a team by ID. Returns nil, nil when the team does not exist.
func (c *Client) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	var result struct {
		Team *Team `json:"team"`
	}
	if err := c.query(ctx, teamQuery, map[string]interface{}{"id": teamID}, &result); err != nil {
		return nil, fmt.Errorf("get team %s: %w", teamID, err)
	}
	return result.Team, nil
}

const teamStatesQuery = `
query TeamStates($id: String!) {
  team(id: $id) {
    states {
      nodes {
        id
        name
        type
        position
      }
    }
  }
}`

// GetTeamStates fetches a team's workflow states.
func (c *Client) GetTeamStates(ctx context.Context, teamID string) ([]WorkflowState, error) {
	var result struct {
		Team struct {
			States struct {
				Nodes []WorkflowState `json:"nodes"`
			} `json:"states"`
		} `json:"team"`
	}
	if err := c.query(ctx, teamStatesQuery, map[string]interface{}{"id": teamID}, &result); err != nil {
		return nil, fmt.Errorf("get team states: %w", err)
	}
	return result.Team.States.Nodes, nil
}

const teamLabelsQuery = `
query TeamLabels($id: String!, $first: Int!, $after: String) {
  team(id: $id) {
    labels(first: $first, after: $after) {
      nodes {
        id
        name
        color
        description
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}`

// ListLabels fetches all labels owned by a team.
func (c *Client) ListLabels(ctx context.Context, teamID string) ([]Label, error) {
	var all []Label
	var after interface{}
	for {
		var result struct {
			Team struct {
				Labels struct {
					Nodes    []Label  `json:"nodes"`
					PageInfo pageInfo `json:"pageInfo"`
				} `json:"labels"`
			} `json:"team"`
		}
		vars := map[string]interface{}{"id": teamID, "first": listPageSize, "after": after}
		if err := c.query(ctx, teamLabelsQuery, vars, &result); err != nil {
			return nil, fmt.Errorf("list labels: %w", err)
		}
		all = append(all, result.Team.Labels.Nodes...)
		if !result.Team.Labels.PageInfo.HasNextPage {
			return all, nil
		}
		after = result.Team.Labels.PageInfo.EndCursor
	}
}

const teamProjectsQuery = `
query TeamProjects($id: String!, $first: Int!, $after: String) {
  team(id: $id) {
    projects(first: $first, after: $after) {
      nodes {
        id
        name
        description
        state
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}`

// ListProjects fetches all projects attached to a team.
func (c *Client) ListProjects(ctx context.Context, teamID string) ([]Project, error) {
	var all []Project
	var after interface{}
	for {
		var result struct {
			Team struct {
				Projects struct {
					Nodes    []Project `json:"nodes"`
					PageInfo pageInfo  `json:"pageInfo"`
				} `json:"projects"`
			} `json:"team"`
		}
		vars := map[string]interface{}{"id": teamID, "first": listPageSize, "after": after}
		if err := c.query(ctx, teamProjectsQuery, vars, &result); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		all = append(all, result.Team.Projects.Nodes...)
		if !result.Team.Projects.PageInfo.HasNextPage {
			return all, nil
		}
		after = result.Team.Projects.PageInfo.EndCursor
	}
}

const projectMilestonesQuery = `
query ProjectMilestones($id: String!) {
  project(id: $id) {
    projectMilestones {
      nodes {
        id
        name
        targetDate
      }
    }
  }
}`

// ListMilestones fetches a project's milestones.
func (c *Client) ListMilestones(ctx context.Context, projectID string) ([]Milestone, error) {
	var result struct {
		Project struct {
			ProjectMilestones struct {
				Nodes []Milestone `json:"nodes"`
			} `json:"projectMilestones"`
		} `json:"project"`
	}
	if err := c.query(ctx, projectMilestonesQuery, map[string]interface{}{"id": projectID}, &result); err != nil {
		return nil, fmt.Errorf("list milestones for project %s: %w", projectID, err)
	}
	return result.Project.ProjectMilestones.Nodes, nil
}

const issuesQuery = `
query Issues($filter: IssueFilter!, $first: Int!, $after: String) {
  issues(filter: $filter, first: $first, after: $after) {
    nodes {
      id
      identifier
      url
      title
      description
      priority
      state {
        id
        name
        type
        position
      }
      assignee {
        id
        name
        email
      }
      project {
        id
        name
        description
        state
      }
      labels {
        nodes {
          id
          name
          color
          description
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

// ListIssues fetches issues matching the filter, following pagination.
func (c *Client) ListIssues(ctx context.Context, filter IssueFilter) ([]Issue, error) {
	gqlFilter := map[string]interface{}{}
	if filter.TeamID != "" {
		gqlFilter["team"] = map[string]interface{}{"id": map[string]interface{}{"eq": filter.TeamID}}
	}
	if filter.ProjectID != "" {
		gqlFilter["project"] = map[string]interface{}{"id": map[string]interface{}{"eq": filter.ProjectID}}
	} else if filter.NoProject {
		gqlFilter["project"] = map[string]interface{}{"null": true}
	}

	var all []Issue
	var after interface{}
	for {
		var result struct {
			Issues struct {
				Nodes    []Issue  `json:"nodes"`
				PageInfo pageInfo `json:"pageInfo"`
			} `json:"issues"`
		}
		vars := map[string]interface{}{"filter": gqlFilter, "first": listPageSize, "after": after}
		if err := c.query(ctx, issuesQuery, vars, &result); err != nil {
			return nil, fmt.Errorf("list issues: %w", err)
		}
		all = append(all, result.Issues.Nodes...)
		if !result.Issues.PageInfo.HasNextPage {
			return all, nil
		}
		after = result.Issues.PageInfo.EndCursor
	}
}

const issueRelationsQuery = `
query IssueRelations($id: String!) {
  issue(id: $id) {
    relations {
      nodes {
        id
        type
        relatedIssue {
          id
          identifier
          title
          url
        }
      }
    }
  }
}`

// ListRelations fetches the relations whose source is the given issue.
func (c *Client) ListRelations(ctx context.Context, issueID string) ([]Relation, error) {
	var result struct {
		Issue struct {
			Relations struct {
				Nodes []Relation `json:"nodes"`
			} `json:"relations"`
		} `json:"issue"`
	}
	if err := c.query(ctx, issueRelationsQuery, map[string]interface{}{"id": issueID}, &result); err != nil {
		return nil, fmt.Errorf("list relations for issue %s: %w", issueID, err)
	}
	return result.Issue.Relations.Nodes, nil
}

const issueCreateMutation = `
mutation IssueCreate($input: IssueCreateInput!) {
  issueCreate(input: $input) {
    success
    issue {
      id
      identifier
      title
      url
    }
  }
}`

// CreateIssue creates an issue and returns its remote reference.
func (c *Client) CreateIssue(ctx context.Context, input IssueCreateInput) (*IssueRef, error) {
	var result struct {
		IssueCreate struct {
			Success bool      `json:"success"`
			Issue   *IssueRef `json:"issue"`
		} `json:"issueCreate"`
	}
	vars := map[string]interface{}{"input": input}
	if err := c.mutate(ctx, issueCreateMutation, vars, &result); err != nil {
		return nil, fmt.Errorf("create issue %q: %w", input.Title, err)
	}
	if !result.IssueCreate.Success || result.IssueCreate.Issue == nil {
		return nil, fmt.Errorf("create issue %q: tracker reported failure", input.Title)
	}
	return result.IssueCreate.Issue, nil
}

const issueUpdateMutation = `
mutation IssueUpdate($id: String!, $input: IssueUpdateInput!) {
  issueUpdate(id: $id, input: $input) {
    success
  }
}`

// UpdateIssue applies a partial update to an issue.
func (c *Client) UpdateIssue(ctx context.Context, issueID string, input IssueUpdateInput) error {
	var result struct {
		IssueUpdate struct {
			Success bool `json:"success"`
		} `json:"issueUpdate"`
	}
	vars := map[string]interface{}{"id": issueID, "input": input}
	if err := c.mutate(ctx, issueUpdateMutation, vars, &result); err != nil {
		return fmt.Errorf("update issue %s: %w", issueID, err)
	}
	if !result.IssueUpdate.Success {
		return fmt.Errorf("update issue %s: tracker reported failure", issueID)
	}
	return nil
}

const relationCreateMutation = `
mutation IssueRelationCreate($input: IssueRelationCreateInput!) {
  issueRelationCreate(input: $input) {
    success
  }
}`

// CreateRelation creates a directed relation between two issues. For the
// "blocks" type, fromID is the blocker and toID the blocked issue.
func (c *Client) CreateRelation(ctx context.Context, fromID, toID, relationType string) error {
	var result struct {
		IssueRelationCreate struct {
			Success bool `json:"success"`
		} `json:"issueRelationCreate"`
	}
	vars := map[string]interface{}{"input": map[string]interface{}{
		"issueId":        fromID,
		"relatedIssueId": toID,
		"type":           relationType,
	}}
	if err := c.mutate(ctx, relationCreateMutation, vars, &result); err != nil {
		return fmt.Errorf("create %s relation %s -> %s: %w", relationType, fromID, toID, err)
	}
	if !result.IssueRelationCreate.Success {
		return fmt.Errorf("create %s relation %s -> %s: tracker reported failure", relationType, fromID, toID)
	}
	return nil
}

const labelCreateMutation = `
mutation LabelCreate($input: IssueLabelCreateInput!) {
  issueLabelCreate(input: $input) {
    success
    issueLabel {
      id
      name
      color
      description
    }
  }
}`

// CreateLabel creates a team label and returns it with its remote ID.
func (c *Client) CreateLabel(ctx context.Context, input LabelCreateInput) (*Label, error) {
	var result struct {
		IssueLabelCreate struct {
			Success    bool   `json:"success"`
			IssueLabel *Label `json:"issueLabel"`
		} `json:"issueLabelCreate"`
	}
	vars := map[string]interface{}{"input": input}
	if err := c.mutate(ctx, labelCreateMutation, vars, &result); err != nil {
		return nil, fmt.Errorf("create label %q: %w", input.Name, err)
	}
	if !result.IssueLabelCreate.Success || result.IssueLabelCreate.IssueLabel == nil {
		return nil, fmt.Errorf("create label %q: tracker reported failure", input.Name)
	}
	return result.IssueLabelCreate.IssueLabel, nil
}

const projectCreateMutation = `
mutation ProjectCreate($input: ProjectCreateInput!) {
  projectCreate(input: $input) {
    success
    project {
      id
      name
      description
      state
    }
  }
}`

// CreateProject creates a project attached to the input teams.
func (c *Client) CreateProject(ctx context.Context, input ProjectCreateInput) (*Project, error) {
	var result struct {
		ProjectCreate struct {
			Success bool     `json:"success"`
			Project *Project `json:"project"`
		} `json:"projectCreate"`
	}
	vars := map[string]interface{}{"input": input}
	if err := c.mutate(ctx, projectCreateMutation, vars, &result); err != nil {
		return nil, fmt.Errorf("create project %q: %w", input.Name, err)
	}
	if !result.ProjectCreate.Success || result.ProjectCreate.Project == nil {
		return nil, fmt.Errorf("create project %q: tracker reported failure", input.Name)
	}
	return result.ProjectCreate.Project, nil
}

const milestoneCreateMutation = `
mutation MilestoneCreate($input: ProjectMilestoneCreateInput!) {
  projectMilestoneCreate(input: $input) {
    success
    projectMilestone {
      id
      name
      targetDate
    }
  }
}`

// CreateMilestone creates a milestone inside a project.
func (c *Client) CreateMilestone(ctx context.Context, input MilestoneCreateInput) (*Milestone, error) {
	var result struct {
		ProjectMilestoneCreate struct {
			Success          bool       `json:"success"`
			ProjectMilestone *Milestone `json:"projectMilestone"`
		} `json:"projectMilestoneCreate"`
	}
	vars := map[string]interface{}{"input": input}
	if err := c.mutate(ctx, milestoneCreateMutation, vars, &result); err != nil {
		return nil, fmt.Errorf("create milestone %q: %w", input.Name, err)
	}
	if !result.ProjectMilestoneCreate.Success || result.ProjectMilestoneCreate.ProjectMilestone == nil {
		return nil, fmt.Errorf("create milestone %q: tracker reported failure", input.Name)
	}
	return result.ProjectMilestoneCreate.ProjectMilestone, nil
}

const teamCreateMutation = `
mutation TeamCreate($input: TeamCreateInput!) {
  teamCreate(input: $input) {
    success
    team {
      id
      key
      name
      description
    }
  }
}`

// CreateTeam creates a team.
func (c *Client) CreateTeam(ctx context.Context, input TeamCreateInput) (*Team, error) {
	var result struct {
		TeamCreate struct {
			Success bool  `json:"success"`
			Team    *Team `json:"team"`
		} `json:"teamCreate"`
	}
	vars := map[string]interface{}{"input": input}
	if err := c.mutate(ctx, teamCreateMutation, vars, &result); err != nil {
		return nil, fmt.Errorf("create team %q: %w", input.Name, err)
	}
	if !result.TeamCreate.Success || result.TeamCreate.Team == nil {
		return nil, fmt.Errorf("create team %q: tracker reported failure", input.Name)
	}
	return result.TeamCreate.Team, nil
}
