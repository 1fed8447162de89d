package pfx

import "fmt"

var _ FeatureRegistry = &featureRegistry{}

// FeatureParams describes a registered feature type.
type FeatureParams struct {
	Group  string
	Name   string
	Create func() Feature
}

// FullName is the registry key, "Group:Name".
func (p FeatureParams) FullName() string {
	return p.Group + ":" + p.Name
}

type featureRegistry struct {
	items       []FeatureParams
	itemIndices map[string]int
	maxCapacity int
}

func (r *featureRegistry) Register(params FeatureParams) (int, error) {
	if params.Create == nil {
		return -1, fmt.Errorf("feature type %s has no factory", params.FullName())
	}
	key := params.FullName()
	if _, exists := r.itemIndices[key]; exists {
		return -1, FeatureExistsError{Name: key}
	}
	if len(r.items) >= r.maxCapacity {
		return -1, fmt.Errorf("feature registry at maximum capacity (%d)", r.maxCapacity)
	}
	idx := len(r.items)
	r.itemIndices[key] = idx
	r.items = append(r.items, params)
	return idx, nil
}

func (r *featureRegistry) Lookup(name string) (FeatureParams, bool) {
	idx, ok := r.itemIndices[name]
	if !ok {
		return FeatureParams{}, false
	}
	return r.items[idx], true
}

func (r *featureRegistry) Entry(index int) FeatureParams {
	return r.items[index]
}

func (r *featureRegistry) Len() int {
	return len(r.items)
}
