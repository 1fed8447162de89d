package pfx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestArenaRemoveKeepsSurvivors tests that removing any component leaves the
// other handles resolving to the same components
func TestArenaRemoveKeepsSurvivors(t *testing.T) {
	tests := []struct {
		name   string
		remove int
	}{
		{"first", 0},
		{"middle", 1},
		{"last", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effect, comps := newTestEffect(t, "a", "b", "c", "d")
			for _, c := range comps {
				addFeature(t, c, &DeclaredFeature{Stages: []Stage{StageUpdate}})
			}
			mustCompile(t, effect)
			removed := comps[tt.remove]

			require.NoError(t, effect.RemoveComponent(removed))

			_, err := effect.Component(removed.ID())
			assert.ErrorAs(t, err, &ComponentNotFoundError{})
			require.Equal(t, len(comps)-1, effect.NumComponents())
			for _, c := range comps {
				if c == removed {
					continue
				}
				found, err := effect.Component(c.ID())
				require.NoError(t, err, c.Name())
				assert.Same(t, c, found)
			}
			require.NoError(t, effect.Compile())
			for _, c := range effect.Components() {
				assert.Len(t, c.Compiled().UpdateList(StageUpdate), 1, c.Name())
			}
		})
	}
}

// TestArenaRemoveAll tests that every component can be removed in any order
func TestArenaRemoveAll(t *testing.T) {
	effect, comps := newTestEffect(t, "a", "b", "c")
	for _, i := range []int{1, 2, 0} {
		require.NoError(t, effect.RemoveComponent(comps[i]))
	}
	assert.Equal(t, 0, effect.NumComponents())
	assert.Equal(t, 0, effect.arena.len())

	again, err := effect.AddComponent("again")
	require.NoError(t, err)
	found, err := effect.Component(again.ID())
	require.NoError(t, err)
	assert.Same(t, again, found)
}

// TestRemoveSiblingKeepsParentLinks tests that removing a component does not
// rewire the parents of its siblings
func TestRemoveSiblingKeepsParentLinks(t *testing.T) {
	effect, comps := newTestEffect(t, "a", "parent", "kid")
	a, parent, kid := comps[0], comps[1], comps[2]
	require.NoError(t, kid.SetParentComponent(parent, false))
	addFeature(t, kid, &DeclaredFeature{Stages: []Stage{StageUpdate}})

	require.NoError(t, effect.RemoveComponent(a))

	assert.Same(t, parent, kid.Parent())
	assert.Nil(t, parent.Parent())
	assert.Equal(t, []*Component{kid}, parent.Children())

	done := make(chan bool, 1)
	go func() { done <- kid.IsDescendantOf(a) }()
	select {
	case descends := <-done:
		assert.False(t, descends)
	case <-time.After(2 * time.Second):
		t.Fatal("ancestor walk did not terminate")
	}
	assert.True(t, kid.IsDescendantOf(parent))

	require.NoError(t, effect.Compile())
	assert.Len(t, kid.Compiled().UpdateList(StageUpdate), 1)
}

// TestRemoveMiddleSubtree tests survivors around a removed subtree in the middle of the effect
func TestRemoveMiddleSubtree(t *testing.T) {
	effect, comps := newTestEffect(t, "root", "mid", "leaf", "other", "tail")
	root, mid, leaf, other, tail := comps[0], comps[1], comps[2], comps[3], comps[4]
	require.NoError(t, mid.SetParentComponent(root, false))
	require.NoError(t, leaf.SetParentComponent(mid, false))
	require.NoError(t, tail.SetParentComponent(other, false))
	addFeature(t, tail, &DeclaredFeature{Stages: []Stage{StageUpdate}})
	mustCompile(t, effect)

	require.NoError(t, effect.RemoveComponent(mid))

	assert.Equal(t, []*Component{root, other, tail}, effect.Components())
	assert.Empty(t, root.Children())
	assert.Same(t, other, tail.Parent())
	assert.Equal(t, []*Component{tail}, other.Children())
	for _, c := range []*Component{root, other, tail} {
		found, err := effect.Component(c.ID())
		require.NoError(t, err)
		assert.Same(t, c, found)
	}
	require.NoError(t, effect.Compile())
	assert.Len(t, tail.Compiled().UpdateList(StageUpdate), 1)
}

// TestRemoveComponentFailsWithoutSideEffects tests that a subtree with an
// unresolvable member is left untouched
func TestRemoveComponentFailsWithoutSideEffects(t *testing.T) {
	effect, comps := newTestEffect(t, "root", "mid", "leaf")
	root, mid, leaf := comps[0], comps[1], comps[2]
	require.NoError(t, mid.SetParentComponent(root, false))
	require.NoError(t, leaf.SetParentComponent(mid, false))
	mustCompile(t, effect)
	delete(effect.arena.live, leaf.ID())

	err := effect.RemoveComponent(mid)
	assert.ErrorIs(t, err, ComponentNotFoundError{ID: leaf.ID()})

	assert.Equal(t, []*Component{root, mid, leaf}, effect.Components())
	assert.Equal(t, []*Component{mid}, root.Children())
	assert.Same(t, effect, mid.Effect())
	assert.Same(t, effect, leaf.Effect())
	assert.False(t, root.IsDirty())
	found, err := effect.Component(mid.ID())
	require.NoError(t, err)
	assert.Same(t, mid, found)
}
