package pfx

// MaxParticleCounts returns the worst case counts of the last compile, including
// the multiplication by parent particles for child components.
func (c *Component) MaxParticleCounts() ParticleCounts {
	return c.compiled("particle counts").ParticleCounts()
}

// scaleByParent multiplies own counts by the live particle count of the parent:
// a child emitter runs once per parent particle.
func (c *Component) scaleByParent(own ParticleCounts) ParticleCounts {
	parent := c.Parent()
	if parent == nil || own.Unbounded {
		return own
	}
	parentCounts := parent.compiled("particle counts").ParticleCounts()
	if parentCounts.Unbounded {
		return ParticleCounts{Unbounded: true}
	}
	parentTotal := float64(parentCounts.Total)
	return newParticleCounts(float64(own.Total)*parentTotal, float64(own.PerFrame)*parentTotal)
}

// EquilibriumTime is the time after which the expected live particle count of
// this component and its descendants stops changing. parentLife is the time
// range during which parent particles exist; use RootLife for top level
// components. Infinity means the population never stabilizes.
func (c *Component) EquilibriumTime(parentLife Range) float32 {
	params := c.Params()
	emitter := params.EmitterLifeTime
	start := parentLife.Start + emitter.Start
	end := min(parentLife.Start+emitter.End, parentLife.End)

	// growth stops when the first particles die or when emission stops
	ramp := min(params.MaxParticleLifeTime, emitter.Length())
	equilibrium := min(start+ramp, end)
	if equilibrium < start {
		equilibrium = start
	}

	childLife := Range{Start: start, End: end + params.MaxParticleLifeTime}
	for _, child := range c.children {
		if !child.IsEnabled() {
			continue
		}
		equilibrium = max(equilibrium, child.EquilibriumTime(childLife))
	}
	return equilibrium
}
