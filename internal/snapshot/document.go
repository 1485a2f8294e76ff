// Package snapshot exports a team's full graph into a portable document
// and reconstructs it in another team, remapping every reference by
// stable name instead of remote ID.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocumentVersion is the current snapshot document version.
const DocumentVersion = 1

// Document is a portable, serializable aggregate of one team's labels,
// projects, and work items. Every association is carried by name, never
// by remote ID, so the document survives import into a team where every
// identifier differs.
type Document struct {
	Version  int          `json:"version" yaml:"version"`
	Team     TeamDoc      `json:"team" yaml:"team"`
	Labels   []LabelDoc   `json:"labels" yaml:"labels"`
	Projects []ProjectDoc `json:"projects" yaml:"projects"`
	Issues   []IssueDoc   `json:"issues" yaml:"issues"`
	// Relations are edges between issues in this document, addressed by
	// index into Issues. Importers recreate them only on request.
	Relations []RelationDoc `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// TeamDoc describes the source team.
type TeamDoc struct {
	Name        string `json:"name" yaml:"name"`
	Key         string `json:"key" yaml:"key"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// LabelDoc describes one team label.
type LabelDoc struct {
	Name        string `json:"name" yaml:"name"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ProjectDoc describes one project with its milestones.
type ProjectDoc struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	State       string         `json:"state,omitempty" yaml:"state,omitempty"`
	Milestones  []MilestoneDoc `json:"milestones,omitempty" yaml:"milestones,omitempty"`
}

// MilestoneDoc describes one project milestone.
type MilestoneDoc struct {
	Name       string `json:"name" yaml:"name"`
	TargetDate string `json:"target_date,omitempty" yaml:"target_date,omitempty"`
}

// NameRef is a by-name reference to a label or project.
type NameRef struct {
	Name string `json:"name" yaml:"name"`
}

// IssueDoc describes one work item. Labels and Project reference their
// entities by name only.
type IssueDoc struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    int       `json:"priority" yaml:"priority"`
	State       string    `json:"state,omitempty" yaml:"state,omitempty"`
	Assignee    string    `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Labels      []NameRef `json:"labels" yaml:"labels"`
	Project     *NameRef  `json:"project" yaml:"project"`
}

// RelationDoc is a directed edge between two issues in the document,
// identified by their positions in the Issues slice.
type RelationDoc struct {
	From int    `json:"from" yaml:"from"`
	To   int    `json:"to" yaml:"to"`
	Type string `json:"type" yaml:"type"`
}

// Validate checks that the document is structurally sound.
func (d *Document) Validate() error {
	if d.Version > DocumentVersion {
		return fmt.Errorf("snapshot version %d is newer than supported version %d", d.Version, DocumentVersion)
	}
	for i, r := range d.Relations {
		if r.From < 0 || r.From >= len(d.Issues) || r.To < 0 || r.To >= len(d.Issues) {
			return fmt.Errorf("relation %d references issue out of range [0,%d)", i, len(d.Issues))
		}
	}
	return nil
}

// ReadFile loads a snapshot document from a JSON or YAML file, chosen by
// extension (.yaml/.yml for YAML, JSON otherwise).
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse snapshot file: %w", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// WriteFile writes the document to path in the given format ("json" or
// "yaml"). JSON output is indented for diff-friendliness.
func WriteFile(doc *Document, path, format string) error {
	var data []byte
	var err error
	switch format {
	case "yaml", "yml":
		data, err = yaml.Marshal(doc)
	case "json", "":
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		return fmt.Errorf("unknown snapshot format %q (want json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}
