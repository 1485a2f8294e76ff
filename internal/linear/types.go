package linear

// Typed payloads for the Linear GraphQL API. Every operation the engine
// issues has an explicit input and response shape here; nothing reads
// optional fields out of untyped maps.

// Team is a Linear team.
type Team struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WorkflowState is one state in a team's workflow.
// Type is one of: triage, backlog, unstarted, started, completed, canceled.
type WorkflowState struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Position float64 `json:"position"`
}

// Label is an issue label owned by a team.
type Label struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Project is a Linear project.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
}

// Milestone is a project milestone.
type Milestone struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TargetDate string `json:"targetDate"` // ISO date or empty
}

// User is a Linear user, referenced by issue assignees.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Issue is a Linear issue as returned by list and fetch queries.
type Issue struct {
	ID          string         `json:"id"`
	Identifier  string         `json:"identifier"`
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    int            `json:"priority"`
	State       *WorkflowState `json:"state"`
	Assignee    *User          `json:"assignee"`
	Project     *Project       `json:"project"`
	Labels      *LabelNodes    `json:"labels"`
}

// LabelNodes is the connection wrapper Linear uses for issue labels.
type LabelNodes struct {
	Nodes []Label `json:"nodes"`
}

// Relation is one edge attached to an issue. Type is Linear's relation
// type: "blocks", "related", or "duplicate". The owning issue is the
// edge's source; RelatedIssue is its target.
type Relation struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	RelatedIssue *IssueRef `json:"relatedIssue"`
}

// IssueRef is the minimal issue shape returned by create mutations and
// relation lookups.
type IssueRef struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	URL        string `json:"url"`
}

// pageInfo drives cursor pagination on list queries.
type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// IssueCreateInput is the input to the issueCreate mutation.
type IssueCreateInput struct {
	TeamID      string   `json:"teamId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	StateID     string   `json:"stateId,omitempty"`
	LabelIDs    []string `json:"labelIds,omitempty"`
	ProjectID   string   `json:"projectId,omitempty"`
}

// IssueUpdateInput is the input to the issueUpdate mutation. Pointer
// fields distinguish "leave unchanged" (nil) from "set to zero value".
type IssueUpdateInput struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *int      `json:"priority,omitempty"`
	StateID     *string   `json:"stateId,omitempty"`
	ProjectID   *string   `json:"projectId,omitempty"`
	LabelIDs    *[]string `json:"labelIds,omitempty"`
}

// LabelCreateInput is the input to the issueLabelCreate mutation.
type LabelCreateInput struct {
	TeamID      string `json:"teamId"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProjectCreateInput is the input to the projectCreate mutation.
type ProjectCreateInput struct {
	TeamIDs     []string `json:"teamIds"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
}

// MilestoneCreateInput is the input to the projectMilestoneCreate mutation.
type MilestoneCreateInput struct {
	ProjectID  string `json:"projectId"`
	Name       string `json:"name"`
	TargetDate string `json:"targetDate,omitempty"`
}

// TeamCreateInput is the input to the teamCreate mutation.
type TeamCreateInput struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// IssueFilter selects issues in list queries.
type IssueFilter struct {
	TeamID    string
	ProjectID string
	NoProject bool // only issues with no project
}
