// Package graph holds the in-memory model of a team's work items and
// relations, plus pure dependency-resolution queries over it.
//
// The model performs no I/O and no cycle detection: adding a relation that
// would close a cycle is accepted silently. Queries follow direct edges
// only and never recurse, so cycles cannot cause non-termination.
package graph

import (
	"sort"

	"github.com/linweave/linweave/internal/types"
)

// Model is an in-memory representation of labels, projects, work items,
// and the relations between items. Items are addressable by local index
// before remote creation and by remote ID after.
type Model struct {
	items     []*types.WorkItem
	byID      map[string]*types.WorkItem
	relations []types.Relation
	labels    map[string]*types.Label
	projects  map[string]*types.Project
}

// New creates an empty model.
func New() *Model {
	return &Model{
		byID:     make(map[string]*types.WorkItem),
		labels:   make(map[string]*types.Label),
		projects: make(map[string]*types.Project),
	}
}

// AddWorkItem adds an item to the model, assigning its LocalIndex from the
// insertion position. If the item already carries a RemoteID it becomes
// addressable by it immediately; otherwise call Bind once the ID is known.
func (m *Model) AddWorkItem(w *types.WorkItem) {
	w.LocalIndex = len(m.items)
	m.items = append(m.items, w)
	if w.RemoteID != "" {
		m.byID[w.RemoteID] = w
	}
}

// Bind records the remote ID assigned to the item at the given local index.
func (m *Model) Bind(localIndex int, remoteID string) {
	if localIndex < 0 || localIndex >= len(m.items) {
		return
	}
	w := m.items[localIndex]
	w.RemoteID = remoteID
	m.byID[remoteID] = w
}

// Item returns the work item with the given remote ID, or nil.
func (m *Model) Item(remoteID string) *types.WorkItem {
	return m.byID[remoteID]
}

// ItemAt returns the work item at the given local index, or nil.
func (m *Model) ItemAt(localIndex int) *types.WorkItem {
	if localIndex < 0 || localIndex >= len(m.items) {
		return nil
	}
	return m.items[localIndex]
}

// Items returns all work items in insertion order.
func (m *Model) Items() []*types.WorkItem {
	return m.items
}

// AddRelation records a directed edge between two items by remote ID.
// Both endpoints must already exist in the model; unknown endpoints are
// ignored so that edges never precede their nodes.
func (m *Model) AddRelation(fromID, toID string, t types.RelationType) bool {
	if m.byID[fromID] == nil || m.byID[toID] == nil {
		return false
	}
	m.relations = append(m.relations, types.Relation{FromID: fromID, ToID: toID, Type: t})
	return true
}

// Relations returns all recorded relations.
func (m *Model) Relations() []types.Relation {
	return m.relations
}

// AddLabel indexes a label by name. A label with the same name replaces
// the previous entry; differently-named labels are never merged.
func (m *Model) AddLabel(l *types.Label) {
	m.labels[l.Name] = l
}

// Label returns the label with the given name, or nil.
func (m *Model) Label(name string) *types.Label {
	return m.labels[name]
}

// AddProject indexes a project by name.
func (m *Model) AddProject(p *types.Project) {
	m.projects[p.Name] = p
}

// Project returns the project with the given name, or nil.
func (m *Model) Project(name string) *types.Project {
	return m.projects[name]
}

// BlockersOf returns every item X with a blocks relation from X to the
// given item where X has not reached a terminal state. Direct edges only.
func (m *Model) BlockersOf(remoteID string) []*types.WorkItem {
	var blockers []*types.WorkItem
	for _, r := range m.relations {
		if !r.Type.AffectsReadiness() || r.ToID != remoteID {
			continue
		}
		from := m.byID[r.FromID]
		if from == nil || from.State.IsTerminal() {
			continue
		}
		blockers = append(blockers, from)
	}
	return blockers
}

// BlockedItemsOf returns every item this item directly blocks, regardless
// of either item's state.
func (m *Model) BlockedItemsOf(remoteID string) []*types.WorkItem {
	var blocked []*types.WorkItem
	for _, r := range m.relations {
		if !r.Type.AffectsReadiness() || r.FromID != remoteID {
			continue
		}
		if to := m.byID[r.ToID]; to != nil {
			blocked = append(blocked, to)
		}
	}
	return blocked
}

// IsBlocked reports whether the item has at least one incomplete blocker,
// returning the blockers when it does.
func IsBlocked(m *Model, remoteID string) (bool, []*types.WorkItem) {
	blockers := m.BlockersOf(remoteID)
	return len(blockers) > 0, blockers
}

// NextAvailable returns the unblocked, non-terminal items ordered by
// urgency (PrioritySortKey ascending), ties broken by original insertion
// order, truncated to limit. A limit <= 0 means no truncation.
func NextAvailable(m *Model, limit int) []*types.WorkItem {
	var ready []*types.WorkItem
	for _, w := range m.items {
		if w.State.IsTerminal() {
			continue
		}
		if blocked, _ := IsBlocked(m, w.RemoteID); blocked {
			continue
		}
		ready = append(ready, w)
	}
	sort.SliceStable(ready, func(i, j int) bool {
		return types.PrioritySortKey(ready[i].Priority) < types.PrioritySortKey(ready[j].Priority)
	})
	if limit > 0 && len(ready) > limit {
		ready = ready[:limit]
	}
	return ready
}

// Chain describes an item's direct dependency neighborhood.
type Chain struct {
	BlockedBy []*types.WorkItem `json:"blocked_by"`
	Blocks    []*types.WorkItem `json:"blocks"`
	CanStart  bool              `json:"can_start"`
}

// DependencyChain returns the item's direct blockers, the items it
// directly blocks, and whether it can start now. Callers needing the full
// transitive ancestry must traverse repeatedly themselves; this never
// recurses.
func DependencyChain(m *Model, remoteID string) Chain {
	blockedBy := m.BlockersOf(remoteID)
	return Chain{
		BlockedBy: blockedBy,
		Blocks:    m.BlockedItemsOf(remoteID),
		CanStart:  len(blockedBy) == 0,
	}
}
