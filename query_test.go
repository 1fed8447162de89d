package pfx

import (
	"testing"
)

// TestQueryFiltering tests the basic query filtering capabilities
func TestQueryFiltering(t *testing.T) {
	spawner := &DeclaredFeature{Stages: []Stage{StageSpawn}, Data: []ParticleDataType{DataSpawnID}}
	mover := &DeclaredFeature{Stages: []Stage{StageUpdate}, Data: []ParticleDataType{DataPosition, DataVelocity}}
	drawer := &DeclaredFeature{Stages: []Stage{StageRender}, Data: []ParticleDataType{DataPosition, DataColor}}

	type componentSetup struct {
		features []Feature
		count    int
	}

	tests := []struct {
		name            string
		setups          []componentSetup
		queryType       string // "and", "or", "not", "complex"
		queryItems      []interface{}
		expectedMatches int
	}{
		{
			name: "And query matches exact",
			setups: []componentSetup{
				{[]Feature{spawner, mover}, 2},
				{[]Feature{spawner}, 3},
				{[]Feature{mover}, 4},
			},
			queryType:       "and",
			queryItems:      []interface{}{StageSpawn, StageUpdate},
			expectedMatches: 2,
		},
		{
			name: "Or query matches either",
			setups: []componentSetup{
				{[]Feature{spawner, mover}, 2},
				{[]Feature{spawner}, 3},
				{[]Feature{mover}, 4},
			},
			queryType:       "or",
			queryItems:      []interface{}{StageSpawn, StageUpdate},
			expectedMatches: 9,
		},
		{
			name: "Not query excludes",
			setups: []componentSetup{
				{[]Feature{spawner, mover}, 2},
				{[]Feature{spawner}, 3},
				{[]Feature{drawer}, 4},
			},
			queryType:       "not",
			queryItems:      []interface{}{StageUpdate},
			expectedMatches: 7,
		},
		{
			name: "Particle data matches across features",
			setups: []componentSetup{
				{[]Feature{mover}, 1},
				{[]Feature{drawer}, 2},
				{[]Feature{spawner}, 3},
			},
			queryType:       "and",
			queryItems:      []interface{}{DataPosition},
			expectedMatches: 3,
		},
		{
			name: "Mixed stages and data",
			setups: []componentSetup{
				{[]Feature{mover, drawer}, 1},
				{[]Feature{drawer}, 2},
				{[]Feature{spawner, drawer}, 3},
			},
			queryType:       "and",
			queryItems:      []interface{}{StageRender, []ParticleDataType{DataColor, DataVelocity}},
			expectedMatches: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effect := Factory.NewEffect(tt.name)
			for _, setup := range tt.setups {
				for i := 0; i < setup.count; i++ {
					c, err := effect.AddComponent("c")
					if err != nil {
						t.Fatalf("Failed to add component: %v", err)
					}
					for _, f := range setup.features {
						addFeature(t, c, f)
					}
				}
			}
			mustCompile(t, effect)

			query := Factory.NewQuery()
			var queryNode QueryNode
			switch tt.queryType {
			case "and":
				queryNode = query.And(tt.queryItems...)
			case "or":
				queryNode = query.Or(tt.queryItems...)
			case "not":
				queryNode = query.Not(tt.queryItems...)
			}

			cursor := Factory.NewCursor(queryNode, effect)
			matches := 0
			for cursor.Next() {
				matches++
			}
			if matches != tt.expectedMatches {
				t.Errorf("Expected %d matches, got %d", tt.expectedMatches, matches)
			}
			if effect.Locked() {
				t.Error("Effect still locked after the cursor finished")
			}
		})
	}
}

// TestComplexQueries tests nested query combinations
func TestComplexQueries(t *testing.T) {
	spawner := &DeclaredFeature{Stages: []Stage{StageSpawn}}
	mover := &DeclaredFeature{Stages: []Stage{StageUpdate}}
	drawer := &DeclaredFeature{Stages: []Stage{StageRender}}
	killer := &DeclaredFeature{Stages: []Stage{StageKillUpdate}}

	effect := Factory.NewEffect("complex")
	setups := []struct {
		features []Feature
		count    int
	}{
		{[]Feature{spawner, mover, drawer}, 1},
		{[]Feature{spawner, mover}, 2},
		{[]Feature{spawner, drawer}, 3},
		{[]Feature{mover, killer}, 4},
	}
	for _, setup := range setups {
		for i := 0; i < setup.count; i++ {
			c, err := effect.AddComponent("c")
			if err != nil {
				t.Fatalf("Failed to add component: %v", err)
			}
			for _, f := range setup.features {
				addFeature(t, c, f)
			}
		}
	}
	mustCompile(t, effect)

	tests := []struct {
		name     string
		build    func(q Query) QueryNode
		expected int
	}{
		{
			name: "(Spawn AND Update) OR KillUpdate",
			build: func(q Query) QueryNode {
				return q.Or(q.And(StageSpawn, StageUpdate), StageKillUpdate)
			},
			expected: 7,
		},
		{
			name: "Spawn AND NOT Render",
			build: func(q Query) QueryNode {
				return q.And(StageSpawn, q.Not(StageRender))
			},
			expected: 2,
		},
		{
			name: "Update AND NOT (Spawn OR KillUpdate)",
			build: func(q Query) QueryNode {
				return q.And(StageUpdate, q.Not(q.Or(StageSpawn, StageKillUpdate)))
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := Factory.NewCursor(tt.build(Factory.NewQuery()), effect)
			if got := cursor.TotalMatched(); got != tt.expected {
				t.Errorf("Expected %d matches, got %d", tt.expected, got)
			}
			cursor.Reset()
		})
	}
}

// TestCursorSkipsDisabledAndUncompiled tests which components a cursor visits
func TestCursorSkipsDisabledAndUncompiled(t *testing.T) {
	effect, comps := newTestEffect(t, "a", "b", "c")
	for _, c := range comps {
		addFeature(t, c, &DeclaredFeature{Stages: []Stage{StageUpdate}})
	}
	mustCompile(t, effect)

	comps[1].SetEnabled(false)
	fresh, err := effect.AddComponent("fresh")
	if err != nil {
		t.Fatalf("Failed to add component: %v", err)
	}
	addFeature(t, fresh, &DeclaredFeature{Stages: []Stage{StageUpdate}})

	cursor := Factory.NewCursor(Factory.NewQuery().And(StageUpdate), effect)
	var names []string
	for _, c := range cursor.Components() {
		names = append(names, c.Name())
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Errorf("Expected [a c], got %v", names)
	}
}

// TestCursorLocksEffect tests that edits during a walk are queued until it ends
func TestCursorLocksEffect(t *testing.T) {
	effect, comps := newTestEffect(t, "a", "b")
	for _, c := range comps {
		addFeature(t, c, &DeclaredFeature{Stages: []Stage{StageSpawn}})
	}
	mustCompile(t, effect)

	cursor := Factory.NewCursor(Factory.NewQuery().And(StageSpawn), effect)
	visited := 0
	for cursor.Next() {
		visited++
		if !effect.Locked() {
			t.Fatal("Effect not locked during walk")
		}
		if _, err := effect.AddComponent("late"); err == nil {
			t.Error("Expected AddComponent to fail while locked")
		}
		if err := cursor.Component().EnqueueRemoveFeature(0); err != nil {
			t.Errorf("EnqueueRemoveFeature failed: %v", err)
		}
		if cursor.Component().NumFeatures() != 1 {
			t.Error("Queued removal applied during walk")
		}
	}
	if visited != 2 {
		t.Fatalf("Expected 2 visits, got %d", visited)
	}
	for _, c := range comps {
		if c.NumFeatures() != 0 {
			t.Errorf("Component %s still has %d features after walk", c.Name(), c.NumFeatures())
		}
	}
}

// TestQueryPanicsOnUnknownItems tests that out of range stages and data and
// unsupported item types are rejected
func TestQueryPanicsOnUnknownItems(t *testing.T) {
	tests := []struct {
		name string
		item interface{}
	}{
		{"stage", StageCount},
		{"particle data", ParticleDataCount},
		{"stage in slice", []Stage{StageUpdate, StageCount}},
		{"particle data in slice", []ParticleDataType{ParticleDataCount}},
		{"int", 42},
		{"string", "Update"},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Expected panic")
				}
			}()
			Factory.NewQuery().And(tt.item)
		})
	}
}
