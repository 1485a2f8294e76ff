package snapshot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/linweave/linweave/internal/debug"
	"github.com/linweave/linweave/internal/linear"
)

// ImportClient is the subset of the tracker API the importer drives.
type ImportClient interface {
	GetTeam(ctx context.Context, teamID string) (*linear.Team, error)
	CreateTeam(ctx context.Context, input linear.TeamCreateInput) (*linear.Team, error)
	GetTeamStates(ctx context.Context, teamID string) ([]linear.WorkflowState, error)
	ListLabels(ctx context.Context, teamID string) ([]linear.Label, error)
	ListProjects(ctx context.Context, teamID string) ([]linear.Project, error)
	CreateLabel(ctx context.Context, input linear.LabelCreateInput) (*linear.Label, error)
	CreateProject(ctx context.Context, input linear.ProjectCreateInput) (*linear.Project, error)
	CreateMilestone(ctx context.Context, input linear.MilestoneCreateInput) (*linear.Milestone, error)
	CreateIssue(ctx context.Context, input linear.IssueCreateInput) (*linear.IssueRef, error)
	CreateRelation(ctx context.Context, fromID, toID, relationType string) error
}

// Options controls what an import run recreates and where.
type Options struct {
	// Exactly one of NewTeamName / ExistingTeamID must be set.
	NewTeamName    string
	ExistingTeamID string

	IncludeLabels   bool
	IncludeProjects bool
	IncludeIssues   bool

	// RecreateRelations restores the document's issue relations after the
	// issue phase. Off by default: the importer then reports how many
	// relations were skipped instead of dropping them silently.
	RecreateRelations bool

	// ProjectID assigns every imported issue to this existing project,
	// overriding the per-issue project names in the document.
	ProjectID string

	// CreateImportProject creates a single fresh project named after the
	// snapshot team and assigns every imported issue to it, instead of
	// recreating the document's projects.
	CreateImportProject bool
}

// DefaultOptions imports everything into the given target.
func DefaultOptions() Options {
	return Options{IncludeLabels: true, IncludeProjects: true, IncludeIssues: true}
}

// Validate checks the target descriptor.
func (o *Options) Validate() error {
	if (o.NewTeamName == "") == (o.ExistingTeamID == "") {
		return fmt.Errorf("exactly one of --new-team or --team-id must be given")
	}
	if o.ProjectID != "" && o.CreateImportProject {
		return fmt.Errorf("--project-id and --create-new-project are mutually exclusive")
	}
	return nil
}

// Counts tallies one entity category's outcomes.
type Counts struct {
	Created int `json:"created"`
	Reused  int `json:"reused,omitempty"`
	Failed  int `json:"failed"`
}

// FailureRecord identifies one entity that could not be recreated.
type FailureRecord struct {
	Category string `json:"category"` // label, project, milestone, issue, relation
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// Report summarizes an import run.
type Report struct {
	TeamID      string `json:"team_id"`
	TeamCreated bool   `json:"team_created"`

	Labels     Counts `json:"labels"`
	Projects   Counts `json:"projects"`
	Milestones Counts `json:"milestones"`
	Issues     Counts `json:"issues"`
	Relations  Counts `json:"relations"`

	// RelationsSkipped counts document relations not recreated because
	// RecreateRelations was off. Surfaced so the gap is visible.
	RelationsSkipped int `json:"relations_skipped,omitempty"`

	Failures []FailureRecord `json:"failures,omitempty"`
}

func (r *Report) fail(category, name string, err error) {
	r.Failures = append(r.Failures, FailureRecord{Category: category, Name: name, Reason: err.Error()})
}

// Importer reconstructs a snapshot document in a target team. Referential
// integrity rests entirely on phase ordering: labels, then projects, then
// issues, then (optionally) relations — each phase resolves only names the
// previous phases put in this run's maps.
type Importer struct {
	client ImportClient

	// Progress receives streaming per-entity markers. Optional.
	Progress func(format string, args ...interface{})
}

// NewImporter creates an importer writing through the given client.
func NewImporter(client ImportClient) *Importer {
	return &Importer{client: client}
}

func (im *Importer) progressf(format string, args ...interface{}) {
	if im.Progress != nil {
		im.Progress(format, args...)
	}
}

// Import runs the full restore. Only target-team resolution failures are
// fatal; every narrower failure is recorded in the report and the run
// continues with that entity omitted.
func (im *Importer) Import(ctx context.Context, doc *Document, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	report := &Report{}

	teamID, created, err := im.resolveTeam(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	report.TeamID = teamID
	report.TeamCreated = created

	// Name maps for this run only. Nothing survives across runs, so a
	// repeated import can never observe stale IDs.
	labelIDs := make(map[string]string)
	projectIDs := make(map[string]string)

	if opts.IncludeLabels {
		im.importLabels(ctx, doc, teamID, created, labelIDs, report)
	}
	if opts.IncludeProjects && opts.ProjectID == "" && !opts.CreateImportProject {
		im.importProjects(ctx, doc, teamID, created, projectIDs, report)
	}

	if opts.IncludeIssues {
		forcedProject, err := im.resolveForcedProject(ctx, doc, teamID, opts, report)
		if err != nil {
			return report, err
		}

		defaultStateID, err := im.defaultStateID(ctx, teamID)
		if err != nil {
			return report, fmt.Errorf("import: %w", err)
		}

		issueIDs := im.importIssues(ctx, doc, teamID, defaultStateID, forcedProject, labelIDs, projectIDs, report)

		if opts.RecreateRelations {
			im.importRelations(ctx, doc, issueIDs, report)
		} else if len(doc.Relations) > 0 {
			report.RelationsSkipped = len(doc.Relations)
		}
	}

	return report, nil
}

// resolveTeam creates or validates the target team. Failure here aborts
// the whole operation.
func (im *Importer) resolveTeam(ctx context.Context, doc *Document, opts Options) (string, bool, error) {
	if opts.ExistingTeamID != "" {
		team, err := im.client.GetTeam(ctx, opts.ExistingTeamID)
		if err != nil {
			return "", false, fmt.Errorf("import: resolve target team: %w", err)
		}
		if team == nil {
			return "", false, fmt.Errorf("import: target team %s not found", opts.ExistingTeamID)
		}
		return team.ID, false, nil
	}

	team, err := im.client.CreateTeam(ctx, linear.TeamCreateInput{
		Name:        opts.NewTeamName,
		Key:         TeamKey(opts.NewTeamName),
		Description: doc.Team.Description,
	})
	if err != nil {
		return "", false, fmt.Errorf("import: create target team: %w", err)
	}
	im.progressf("✓ created team %q (%s)\n", opts.NewTeamName, team.ID)
	return team.ID, true, nil
}

// importLabels recreates the document's labels, seeding the name map from
// the target team's existing labels when importing into one.
func (im *Importer) importLabels(ctx context.Context, doc *Document, teamID string, freshTeam bool, labelIDs map[string]string, report *Report) {
	if !freshTeam {
		existing, err := im.client.ListLabels(ctx, teamID)
		if err != nil {
			debug.Logf("import: list existing labels: %v (creating all)\n", err)
		}
		for _, l := range existing {
			labelIDs[strings.ToLower(l.Name)] = l.ID
		}
	}

	for _, l := range doc.Labels {
		key := strings.ToLower(l.Name)
		if _, ok := labelIDs[key]; ok {
			report.Labels.Reused++
			im.progressf("• label %q already exists\n", l.Name)
			continue
		}
		created, err := im.client.CreateLabel(ctx, linear.LabelCreateInput{
			TeamID:      teamID,
			Name:        l.Name,
			Color:       l.Color,
			Description: l.Description,
		})
		if err != nil {
			report.Labels.Failed++
			report.fail("label", l.Name, err)
			im.progressf("✗ label %q: %v\n", l.Name, err)
			continue
		}
		labelIDs[key] = created.ID
		report.Labels.Created++
		im.progressf("✓ label %q\n", l.Name)
	}
}

// importProjects recreates the document's projects and their milestones.
func (im *Importer) importProjects(ctx context.Context, doc *Document, teamID string, freshTeam bool, projectIDs map[string]string, report *Report) {
	if !freshTeam {
		existing, err := im.client.ListProjects(ctx, teamID)
		if err != nil {
			debug.Logf("import: list existing projects: %v (creating all)\n", err)
		}
		for _, p := range existing {
			projectIDs[strings.ToLower(p.Name)] = p.ID
		}
	}

	for _, p := range doc.Projects {
		key := strings.ToLower(p.Name)
		if _, ok := projectIDs[key]; ok {
			report.Projects.Reused++
			im.progressf("• project %q already exists\n", p.Name)
			continue
		}
		created, err := im.client.CreateProject(ctx, linear.ProjectCreateInput{
			TeamIDs:     []string{teamID},
			Name:        p.Name,
			Description: p.Description,
		})
		if err != nil {
			report.Projects.Failed++
			report.fail("project", p.Name, err)
			im.progressf("✗ project %q: %v\n", p.Name, err)
			continue
		}
		projectIDs[key] = created.ID
		report.Projects.Created++
		im.progressf("✓ project %q\n", p.Name)

		for _, m := range p.Milestones {
			_, err := im.client.CreateMilestone(ctx, linear.MilestoneCreateInput{
				ProjectID:  created.ID,
				Name:       m.Name,
				TargetDate: m.TargetDate,
			})
			if err != nil {
				report.Milestones.Failed++
				report.fail("milestone", p.Name+"/"+m.Name, err)
				im.progressf("✗ milestone %q: %v\n", m.Name, err)
				continue
			}
			report.Milestones.Created++
		}
	}
}

// resolveForcedProject handles the two project-override modes: reuse an
// existing project for all issues, or create one fresh project for the
// whole import.
func (im *Importer) resolveForcedProject(ctx context.Context, doc *Document, teamID string, opts Options, report *Report) (string, error) {
	if opts.ProjectID != "" {
		return opts.ProjectID, nil
	}
	if !opts.CreateImportProject {
		return "", nil
	}
	name := doc.Team.Name
	if name == "" {
		name = "Imported snapshot"
	}
	created, err := im.client.CreateProject(ctx, linear.ProjectCreateInput{
		TeamIDs: []string{teamID},
		Name:    name,
	})
	if err != nil {
		return "", fmt.Errorf("import: create project for import: %w", err)
	}
	report.Projects.Created++
	im.progressf("✓ project %q (import target)\n", name)
	return created.ID, nil
}

// defaultStateID returns the team's first workflow state by position.
func (im *Importer) defaultStateID(ctx context.Context, teamID string) (string, error) {
	states, err := im.client.GetTeamStates(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("fetch target team states: %w", err)
	}
	if len(states) == 0 {
		return "", fmt.Errorf("target team %s has no workflow states", teamID)
	}
	sort.SliceStable(states, func(i, j int) bool { return states[i].Position < states[j].Position })
	return states[0].ID, nil
}

// importIssues recreates every work item, resolving label and project
// names against this run's maps. Names absent from the maps (creation
// failed or excluded) are dropped rather than failing the item. Returns
// the remote IDs of created issues, indexed by document position, with ""
// marking failures.
func (im *Importer) importIssues(ctx context.Context, doc *Document, teamID, defaultStateID, forcedProject string, labelIDs, projectIDs map[string]string, report *Report) []string {
	issueIDs := make([]string, len(doc.Issues))

	for i, is := range doc.Issues {
		var itemLabelIDs []string
		for _, ref := range is.Labels {
			if id, ok := labelIDs[strings.ToLower(ref.Name)]; ok {
				itemLabelIDs = append(itemLabelIDs, id)
			}
		}

		projectID := forcedProject
		if projectID == "" && is.Project != nil {
			projectID = projectIDs[strings.ToLower(is.Project.Name)]
		}

		ref, err := im.client.CreateIssue(ctx, linear.IssueCreateInput{
			TeamID:      teamID,
			Title:       is.Title,
			Description: is.Description,
			Priority:    is.Priority,
			StateID:     defaultStateID,
			LabelIDs:    itemLabelIDs,
			ProjectID:   projectID,
		})
		if err != nil {
			report.Issues.Failed++
			report.fail("issue", is.Title, err)
			im.progressf("✗ issue %q: %v\n", is.Title, err)
			continue
		}
		issueIDs[i] = ref.ID
		report.Issues.Created++
		im.progressf("✓ issue %q (%s)\n", is.Title, ref.Identifier)
	}

	return issueIDs
}

// importRelations recreates document relations between issues that were
// both created this run. Edges touching a failed issue are skipped
// without a separate failure record; the issue failure already covers
// them.
func (im *Importer) importRelations(ctx context.Context, doc *Document, issueIDs []string, report *Report) {
	for _, r := range doc.Relations {
		fromID, toID := issueIDs[r.From], issueIDs[r.To]
		if fromID == "" || toID == "" {
			report.RelationsSkipped++
			debug.Logf("import: skipping relation %d -> %d (endpoint not created)\n", r.From, r.To)
			continue
		}
		if err := im.client.CreateRelation(ctx, fromID, toID, r.Type); err != nil {
			report.Relations.Failed++
			report.fail("relation", fmt.Sprintf("%d -> %d", r.From, r.To), err)
			im.progressf("✗ relation %d -> %d: %v\n", r.From, r.To, err)
			continue
		}
		report.Relations.Created++
	}
}

// TeamKey derives a short team key from a team name: the uppercase
// initials of the first words, at least two and at most five characters.
func TeamKey(name string) string {
	var key []rune
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			key = append(key, r)
		}
		if len(key) == 5 {
			break
		}
	}
	if len(key) >= 2 {
		return string(key)
	}
	upper := strings.ToUpper(strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, name))
	if len(upper) > 3 {
		upper = upper[:3]
	}
	if upper == "" {
		upper = "TM"
	}
	return upper
}
