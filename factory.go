package pfx

type factory struct{}

var Factory factory

// NewEffect creates an empty effect whose features come from the default registry.
func (f factory) NewEffect(name string) *Effect {
	return newEffect(name, Features)
}

func (f factory) NewEffectWithRegistry(name string, registry FeatureRegistry) *Effect {
	return newEffect(name, registry)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, effect *Effect) *Cursor {
	return newCursor(query, effect)
}

func FactoryNewFeatureRegistry(cap int) FeatureRegistry {
	return &featureRegistry{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
