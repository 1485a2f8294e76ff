package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linweave/linweave/internal/types"
)

func addItem(m *Model, id string, priority int, state types.State) *types.WorkItem {
	w := &types.WorkItem{RemoteID: id, Title: "item " + id, Priority: priority, State: state}
	m.AddWorkItem(w)
	return w
}

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		name         string
		blockerState types.State
		wantBlocked  bool
	}{
		{"open blocker blocks", types.StateUnstarted, true},
		{"started blocker blocks", types.StateStarted, true},
		{"backlog blocker blocks", types.StateBacklog, true},
		{"completed blocker does not block", types.StateCompleted, false},
		{"canceled blocker does not block", types.StateCanceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			addItem(m, "a", 2, tt.blockerState)
			addItem(m, "b", 2, types.StateUnstarted)
			m.AddRelation("a", "b", types.RelBlocks)

			blocked, blockers := IsBlocked(m, "b")
			if blocked != tt.wantBlocked {
				t.Errorf("IsBlocked = %v, want %v", blocked, tt.wantBlocked)
			}
			if tt.wantBlocked && len(blockers) != 1 {
				t.Errorf("blockers = %d, want 1", len(blockers))
			}
		})
	}
}

func TestIsBlockedOnlyBlocksTypeCounts(t *testing.T) {
	m := New()
	addItem(m, "a", 2, types.StateUnstarted)
	addItem(m, "b", 2, types.StateUnstarted)
	m.AddRelation("a", "b", types.RelRelated)
	m.AddRelation("a", "b", types.RelDuplicate)

	blocked, _ := IsBlocked(m, "b")
	assert.False(t, blocked, "related/duplicate edges must not affect readiness")
}

func TestIsBlockedDirectEdgesOnly(t *testing.T) {
	// a blocks b blocks c: c is blocked by b only, not transitively by a.
	m := New()
	addItem(m, "a", 2, types.StateUnstarted)
	addItem(m, "b", 2, types.StateUnstarted)
	addItem(m, "c", 2, types.StateUnstarted)
	m.AddRelation("a", "b", types.RelBlocks)
	m.AddRelation("b", "c", types.RelBlocks)

	_, blockers := IsBlocked(m, "c")
	require.Len(t, blockers, 1)
	assert.Equal(t, "b", blockers[0].RemoteID)
}

func TestAddRelationRequiresBothEndpoints(t *testing.T) {
	m := New()
	addItem(m, "a", 2, types.StateUnstarted)

	assert.False(t, m.AddRelation("a", "ghost", types.RelBlocks))
	assert.False(t, m.AddRelation("ghost", "a", types.RelBlocks))
	assert.Empty(t, m.Relations())
}

func TestAddRelationAcceptsCycles(t *testing.T) {
	// No cycle detection: mutual blocks edges are stored as-is and the
	// direct-edge queries still terminate.
	m := New()
	addItem(m, "a", 2, types.StateUnstarted)
	addItem(m, "b", 2, types.StateUnstarted)
	m.AddRelation("a", "b", types.RelBlocks)
	m.AddRelation("b", "a", types.RelBlocks)

	blockedA, _ := IsBlocked(m, "a")
	blockedB, _ := IsBlocked(m, "b")
	assert.True(t, blockedA)
	assert.True(t, blockedB)
	assert.Empty(t, NextAvailable(m, 0))
}

func TestNextAvailableFiltersAndSorts(t *testing.T) {
	m := New()
	addItem(m, "low", 4, types.StateUnstarted)
	addItem(m, "urgent", 1, types.StateUnstarted)
	addItem(m, "none", 0, types.StateUnstarted)
	addItem(m, "normal", 3, types.StateUnstarted)
	addItem(m, "done", 1, types.StateCompleted)
	addItem(m, "blocked", 1, types.StateUnstarted)
	m.AddRelation("low", "blocked", types.RelBlocks)

	got := NextAvailable(m, 0)
	require.Len(t, got, 4, "terminal and blocked items excluded")

	var ids []string
	for _, w := range got {
		ids = append(ids, w.RemoteID)
	}
	// Urgency order: 1, 3, 4, then 0 (none) last.
	assert.Equal(t, []string{"urgent", "normal", "low", "none"}, ids)
}

func TestNextAvailableStableSort(t *testing.T) {
	// Duplicate priorities keep their original insertion order.
	m := New()
	for i := 0; i < 20; i++ {
		addItem(m, fmt.Sprintf("i%02d", i), 1+i%2, types.StateUnstarted)
	}

	got := NextAvailable(m, 0)
	require.Len(t, got, 20)

	var lastP1, lastP2 int = -1, -1
	for _, w := range got {
		switch w.Priority {
		case 1:
			if w.LocalIndex < lastP1 {
				t.Fatalf("priority-1 items out of input order: %d after %d", w.LocalIndex, lastP1)
			}
			lastP1 = w.LocalIndex
		case 2:
			if w.LocalIndex < lastP2 {
				t.Fatalf("priority-2 items out of input order: %d after %d", w.LocalIndex, lastP2)
			}
			lastP2 = w.LocalIndex
		}
	}
	// And all priority-1 items come before any priority-2 item.
	seenP2 := false
	for _, w := range got {
		if w.Priority == 2 {
			seenP2 = true
		} else if seenP2 {
			t.Fatal("priority-1 item after a priority-2 item")
		}
	}
}

func TestNextAvailableLimit(t *testing.T) {
	m := New()
	for i := 0; i < 10; i++ {
		addItem(m, fmt.Sprintf("i%d", i), 2, types.StateUnstarted)
	}

	assert.Len(t, NextAvailable(m, 3), 3)
	assert.Len(t, NextAvailable(m, 0), 10)
	assert.Len(t, NextAvailable(m, 100), 10)
}

func TestDependencyChain(t *testing.T) {
	m := New()
	addItem(m, "a", 2, types.StateUnstarted)
	addItem(m, "b", 2, types.StateCompleted)
	addItem(m, "c", 2, types.StateUnstarted)
	addItem(m, "d", 2, types.StateUnstarted)
	m.AddRelation("a", "c", types.RelBlocks)
	m.AddRelation("b", "c", types.RelBlocks)
	m.AddRelation("c", "d", types.RelBlocks)

	chain := DependencyChain(m, "c")
	require.Len(t, chain.BlockedBy, 1, "completed blocker filtered out")
	assert.Equal(t, "a", chain.BlockedBy[0].RemoteID)
	require.Len(t, chain.Blocks, 1)
	assert.Equal(t, "d", chain.Blocks[0].RemoteID)
	assert.False(t, chain.CanStart)
}

func TestDependencyChainNoBlockers(t *testing.T) {
	m := New()
	addItem(m, "a", 2, types.StateUnstarted)

	chain := DependencyChain(m, "a")
	assert.Empty(t, chain.BlockedBy)
	assert.Empty(t, chain.Blocks)
	assert.True(t, chain.CanStart)
}

func TestBind(t *testing.T) {
	m := New()
	m.AddWorkItem(&types.WorkItem{Title: "pending"})
	require.Nil(t, m.Item("new-id"))

	m.Bind(0, "new-id")
	w := m.Item("new-id")
	require.NotNil(t, w)
	assert.Equal(t, "pending", w.Title)
	assert.Equal(t, 0, w.LocalIndex)

	// Out-of-range binds are ignored.
	m.Bind(5, "other")
	assert.Nil(t, m.Item("other"))
}

func TestLabelAndProjectIndexes(t *testing.T) {
	m := New()
	m.AddLabel(&types.Label{Name: "infra", RemoteID: "l1"})
	m.AddProject(&types.Project{Name: "Rollout", RemoteID: "p1"})

	require.NotNil(t, m.Label("infra"))
	assert.Equal(t, "l1", m.Label("infra").RemoteID)
	assert.Nil(t, m.Label("other"))
	require.NotNil(t, m.Project("Rollout"))
	assert.Nil(t, m.Project("rollout"), "project names are matched exactly")
}
