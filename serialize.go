package pfx

import "fmt"

type field struct {
	name string
	ptr  any
}

func serializeValues(ar Archive, fields ...field) error {
	for _, f := range fields {
		if err := ar.Value(f.name, f.ptr); err != nil {
			return fmt.Errorf("field %s: %w", f.name, err)
		}
	}
	return nil
}

// Serialize reads or writes the authored state of the effect: components, their
// features and the hierarchy. Reading appends to the effect and marks everything dirty.
func (e *Effect) Serialize(ar Archive) error {
	if ar.IsInput() && e.Locked() {
		return LockedEffectError{}
	}
	var loaded []*Component
	var parents []int

	n := len(e.components)
	err := ar.Array("components", &n, func(i int, car Archive) error {
		var c *Component
		parent := -1
		if ar.IsInput() {
			created, err := e.AddComponent("")
			if err != nil {
				return err
			}
			c = created
		} else {
			c = e.components[i]
			if p := c.Parent(); p != nil {
				parent = e.indexOf(p)
			}
		}
		if err := car.Value("parent", &parent); err != nil {
			return err
		}
		if err := c.Serialize(car); err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		loaded = append(loaded, c)
		parents = append(parents, parent)
		return nil
	})
	if err != nil || !ar.IsInput() {
		return err
	}
	for i, c := range loaded {
		if parents[i] < 0 {
			continue
		}
		if parents[i] >= len(loaded) {
			return fmt.Errorf("component %q: parent index %d out of range", c.name, parents[i])
		}
		if err := c.SetParentComponent(loaded[parents[i]], false); err != nil {
			return err
		}
	}
	return nil
}

func (e *Effect) indexOf(c *Component) int {
	for i, existing := range e.components {
		if existing == c {
			return i
		}
	}
	return -1
}

// Serialize reads or writes name, flags, node position and features.
// Features are recreated by registry name when reading.
func (c *Component) Serialize(ar Archive) error {
	name := c.name
	enabled, visible := c.enabled.value, c.visible.value
	if err := serializeValues(ar,
		field{"name", &name},
		field{"enabled", &enabled},
		field{"visible", &visible},
		field{"nodePosition", &c.nodePosition},
	); err != nil {
		return err
	}
	if ar.IsInput() {
		c.SetName(name)
		c.enabled.value, c.visible.value = enabled, visible
		c.features = nil
		c.SetChanged()
	}

	n := len(c.features)
	return ar.Array("features", &n, func(i int, far Archive) error {
		slot := featureSlot{enabled: true}
		if !ar.IsInput() {
			slot = c.features[i]
		}
		typeName := slot.params.FullName()
		if err := serializeValues(far,
			field{"type", &typeName},
			field{"enabled", &slot.enabled},
		); err != nil {
			return err
		}
		if ar.IsInput() {
			params, ok := c.effect.registry.Lookup(typeName)
			if !ok {
				return FeatureNotRegisteredError{Name: typeName}
			}
			slot.params = params
			slot.feature = params.Create()
		}
		if serializer, ok := slot.feature.(Serializer); ok {
			if err := far.Object("params", serializer.Serialize); err != nil {
				return fmt.Errorf("feature %s: %w", typeName, err)
			}
		}
		if ar.IsInput() {
			c.features = append(c.features, slot)
		}
		return nil
	})
}
