package pfx

import (
	"errors"
	"testing"
)

// TestFeatureRegistry tests registration and lookup of feature types
func TestFeatureRegistry(t *testing.T) {
	newParams := func(group, name string) FeatureParams {
		return FeatureParams{Group: group, Name: name, Create: func() Feature { return &DeclaredFeature{} }}
	}

	tests := []struct {
		name      string
		capacity  int
		items     []FeatureParams
		wantErrAt int // index of the first failing registration, -1 for none
	}{
		{"empty", 4, nil, -1},
		{"distinct names", 4, []FeatureParams{newParams("A", "x"), newParams("A", "y"), newParams("B", "x")}, -1},
		{"duplicate", 4, []FeatureParams{newParams("A", "x"), newParams("A", "x")}, 1},
		{"over capacity", 2, []FeatureParams{newParams("A", "x"), newParams("A", "y"), newParams("A", "z")}, 2},
		{"missing factory", 4, []FeatureParams{{Group: "A", Name: "x"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := FactoryNewFeatureRegistry(tt.capacity)
			for i, params := range tt.items {
				idx, err := registry.Register(params)
				if i == tt.wantErrAt {
					if err == nil {
						t.Fatalf("Expected registration %d to fail", i)
					}
					return
				}
				if err != nil {
					t.Fatalf("Register(%s) failed: %v", params.FullName(), err)
				}
				if idx != i {
					t.Errorf("Register(%s) = %d, want %d", params.FullName(), idx, i)
				}
				found, ok := registry.Lookup(params.FullName())
				if !ok || found.FullName() != params.FullName() {
					t.Errorf("Lookup(%s) = %v, %v", params.FullName(), found.FullName(), ok)
				}
				if registry.Entry(idx).FullName() != params.FullName() {
					t.Errorf("Entry(%d) = %s", idx, registry.Entry(idx).FullName())
				}
			}
			if tt.wantErrAt >= 0 {
				t.Fatal("Expected a registration to fail")
			}
			if registry.Len() != len(tt.items) {
				t.Errorf("Len() = %d, want %d", registry.Len(), len(tt.items))
			}
		})
	}
}

// TestDuplicateRegistrationError tests the error type of duplicate names
func TestDuplicateRegistrationError(t *testing.T) {
	registry := FactoryNewFeatureRegistry(2)
	params := FeatureParams{Group: "Spawn", Name: "Rate", Create: func() Feature { return NewSpawnRate() }}
	if _, err := registry.Register(params); err != nil {
		t.Fatal(err)
	}
	_, err := registry.Register(params)
	var exists FeatureExistsError
	if !errors.As(err, &exists) || exists.Name != "Spawn:Rate" {
		t.Errorf("Expected FeatureExistsError for Spawn:Rate, got %v", err)
	}
}

// TestBuiltinFeatures tests that the default registry creates working features
func TestBuiltinFeatures(t *testing.T) {
	names := []string{"Spawn:Count", "Spawn:Rate", "Life:Time", "Motion:Physics", "Render:Sprites"}
	if Features.Len() < len(names) {
		t.Fatalf("Default registry has %d entries, want at least %d", Features.Len(), len(names))
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			params, ok := Features.Lookup(name)
			if !ok {
				t.Fatalf("%s not registered", name)
			}
			effect, comps := newTestEffect(t, "emitter")
			if _, err := comps[0].AddFeature(0, params); err != nil {
				t.Fatalf("AddFeature failed: %v", err)
			}
			mustCompile(t, effect)
			if !comps[0].UsesGPU() {
				t.Errorf("%s should run on the GPU", name)
			}
			if _, ok := comps[0].features[0].feature.(Serializer); !ok {
				t.Errorf("%s does not serialize", name)
			}
		})
	}

	if err := RegisterBuiltinFeatures(Features); err == nil {
		t.Error("Expected registering builtins twice to fail")
	}
}

// TestFeatureEditing tests add, remove, reorder and bounds of feature lists
func TestFeatureEditing(t *testing.T) {
	_, comps := newTestEffect(t, "emitter")
	c := comps[0]
	a, b := &DeclaredFeature{}, &DeclaredFeature{}
	addFeature(t, c, a)
	if _, err := c.AddFeature(0, featureType("B", b)); err != nil {
		t.Fatal(err)
	}
	if f, _ := c.Feature(0); f != Feature(b) {
		t.Error("Expected B inserted at index 0")
	}
	if p, _ := c.FeatureParams(0); p.FullName() != "Test:B" {
		t.Errorf("FeatureParams(0) = %s", p.FullName())
	}

	var indexErr FeatureIndexError
	if _, err := c.AddFeature(5, featureType("C", a)); !errors.As(err, &indexErr) {
		t.Errorf("Expected FeatureIndexError, got %v", err)
	}
	if _, err := c.Feature(2); !errors.As(err, &indexErr) {
		t.Errorf("Expected FeatureIndexError, got %v", err)
	}
	if err := c.SwapFeatures([]int{0, 0}); !errors.As(err, &indexErr) {
		t.Errorf("Expected FeatureIndexError for a non permutation, got %v", err)
	}
	if err := c.RemoveFeature(0); err != nil {
		t.Fatal(err)
	}
	if f, _ := c.Feature(0); f != Feature(a) || c.NumFeatures() != 1 {
		t.Error("Expected only A to remain")
	}
}
