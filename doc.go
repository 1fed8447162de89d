/*
Package pfx compiles hierarchical particle components into per-stage execution plans.

An Effect owns a tree of Components. Each Component is an ordered list of pluggable
Features (spawners, motion, renderers, ...). Before a component can be simulated its
features are compiled into a Compilation: ordered update lists for each of the fourteen
update stages, the set of particle data fields that must be materialized, a per-instance
scratch layout and the aggregated ComponentParams.

Core Concepts:

  - Effect: owns components and drives compilation parent-before-children.
  - Component: a node of the effect tree, composed of features.
  - Feature: a behaviour that registers itself into stages and declares data needs.
  - Stage: one of the fixed points of the per-frame pipeline (Spawn, Update, Render, ...).
  - Compilation: the frozen result of one PreCompile → ResolveDependencies → Compile →
    FinalizeCompile pass. Edits never touch a published Compilation.

Basic Usage:

	effect := pfx.Factory.NewEffect("sparks")
	emitter, _ := effect.AddComponent("emitter")

	spawn, _ := pfx.Features.Lookup("Spawn:Rate")
	life, _ := pfx.Features.Lookup("Life:Time")
	emitter.AddFeature(0, spawn)
	emitter.AddFeature(1, life)

	if err := effect.Compile(); err != nil {
		// handle
	}

	for _, feature := range emitter.UpdateList(pfx.StageSpawn) {
		// hand the feature to the simulation driver
	}

Live editing is safe while runtimes hold an older Compilation: an edit marks the
component dirty and the next Compile publishes a new one.
*/
package pfx
