package pfx

import (
	"github.com/TheBitDrifter/mask"
	"github.com/sirupsen/logrus"
)

type compilePhase uint8

const (
	phaseIdle compilePhase = iota
	phasePreCompile
	phaseResolve
	phaseCompile
	phaseFinalize
)

var phaseNames = [...]string{"idle", "PreCompile", "ResolveDependencies", "Compile", "FinalizeCompile"}

func (p compilePhase) String() string {
	return phaseNames[p]
}

// Compilation is the frozen output of one compile pass of a component.
// Runtimes may keep a Compilation for as long as they need it; later edits and
// recompiles publish a new one instead of mutating it.
type Compilation struct {
	generation   uint64
	updateLists  updateLists
	particleData ParticleDataSet
	instanceData instanceDataAllocator
	params       ComponentParams
	gpuParams    GPUComponentParams
	gpuFeatures  []GPUFeature
	counts       ParticleCounts
}

func newCompilation() *Compilation {
	return &Compilation{params: DefaultComponentParams()}
}

// emptyCompilation is served to stale readers of never compiled components.
var emptyCompilation = newCompilation()

func (comp *Compilation) Generation() uint64 {
	return comp.generation
}

// UpdateList returns the features registered into stage, in registration order.
// The slice must not be modified.
func (comp *Compilation) UpdateList(stage Stage) []Feature {
	return comp.updateLists.get(stage)
}

func (comp *Compilation) UseParticleData(t ParticleDataType) bool {
	return comp.particleData.Has(t)
}

func (comp *Compilation) ParticleData() ParticleDataSet {
	return comp.particleData
}

// InstanceDataSize is the per-instance scratch size in bytes.
func (comp *Compilation) InstanceDataSize() uint32 {
	return comp.instanceData.total()
}

func (comp *Compilation) Params() ComponentParams {
	return comp.params
}

func (comp *Compilation) GPUParams() GPUComponentParams {
	return comp.gpuParams
}

func (comp *Compilation) GPUFeatures() []GPUFeature {
	return comp.gpuFeatures
}

func (comp *Compilation) ParticleCounts() ParticleCounts {
	return comp.counts
}

func (comp *Compilation) queryMask() mask.Mask {
	m := comp.updateLists.used
	for _, t := range comp.particleData.Types() {
		m.Mark(dataBit(t))
	}
	return m
}

// PreCompile starts a new compile pass, discarding any pass in flight.
func (c *Component) PreCompile() {
	c.state = StateCompiling
	c.phase = phasePreCompile
	c.build = newCompilation()
}

// ResolveDependencies lets features allocate instance data and connect to other
// components. Missing earlier phases run first.
func (c *Component) ResolveDependencies() {
	if c.phase != phasePreCompile {
		c.PreCompile()
	}
	c.phase = phaseResolve
	for _, feature := range c.activeFeatures() {
		if resolver, ok := feature.(DependencyResolver); ok {
			resolver.ResolveDependencies(c)
		}
	}
}

// Compile rebuilds the update lists and folds every active feature into the
// component params in registration order.
func (c *Component) Compile() {
	if c.phase != phaseResolve {
		c.ResolveDependencies()
	}
	c.phase = phaseCompile
	c.build.updateLists.reset()

	params := &c.build.params
	active := c.activeFeatures()
	usesGPU := len(active) > 0
	for _, feature := range active {
		feature.AddToComponent(c, params)
		if gpu, ok := feature.(GPUCapable); !ok || !gpu.SupportsGPU() {
			usesGPU = false
		}
	}
	if c.parent != 0 {
		c.AddParticleData(DataParentID)
	}
	params.UsesGPU = usesGPU
}

// FinalizeCompile freezes the pass and publishes it. Children may read the
// params of this component from now on.
func (c *Component) FinalizeCompile() {
	if c.phase != phaseCompile {
		c.Compile()
	}
	c.phase = phaseFinalize

	build := c.build
	params := &build.params
	for _, feature := range c.activeFeatures() {
		if finalizer, ok := feature.(Finalizer); ok {
			finalizer.FinalizeCompile(c, params)
		}
	}
	params.InstanceDataStride = build.instanceData.total()
	build.counts = c.scaleByParent(params.MaxParticleCounts(Config.FrameRates()))
	if params.UsesGPU {
		for _, feature := range c.activeFeatures() {
			if provider, ok := feature.(GPUFeatureProvider); ok {
				c.AddGPUFeature(provider.GPUFeature())
			}
		}
		build.gpuParams = newGPUComponentParams(*params, build.counts)
	}

	c.generation++
	build.generation = c.generation
	c.final = build
	c.build = nil
	c.phase = phaseIdle
	c.state = StateFinalized
	c.log.WithFields(logrus.Fields{
		"generation":   c.generation,
		"instanceData": params.InstanceDataStride,
		"gpu":          params.UsesGPU,
	}).Debug("component compiled")
}

// AddToUpdateList registers feature into stage. Only valid during Compile.
func (c *Component) AddToUpdateList(stage Stage, feature Feature) {
	c.requirePhase("AddToUpdateList", phaseCompile)
	c.build.updateLists.add(stage, feature)
}

// AddInstanceData reserves size bytes of per-instance scratch memory and returns
// their offset. Offsets are strictly increasing within one pass.
func (c *Component) AddInstanceData(size uint32) InstanceDataOffset {
	c.requirePhase("AddInstanceData", phasePreCompile, phaseResolve)
	if size == 0 {
		panic(InstanceDataSizeError{Component: c.name})
	}
	return c.build.instanceData.add(size)
}

// AddParticleData marks a particle field as used by this component.
func (c *Component) AddParticleData(t ParticleDataType) {
	c.requirePhase("AddParticleData", phasePreCompile, phaseResolve, phaseCompile)
	c.build.particleData.Add(t)
}

// AddGPUFeature appends a GPU side feature. Nil is ignored.
func (c *Component) AddGPUFeature(feature GPUFeature) {
	c.requirePhase("AddGPUFeature", phaseCompile, phaseFinalize)
	if feature != nil {
		c.build.gpuFeatures = append(c.build.gpuFeatures, feature)
	}
}

func (c *Component) requirePhase(op string, allowed ...compilePhase) {
	if c.phase == phaseIdle {
		panic(AllocationAfterFreezeError{Component: c.name, Op: op})
	}
	for _, p := range allowed {
		if c.phase == p {
			return
		}
	}
	panic(CompilePhaseError{Component: c.name, Op: op, Phase: c.phase.String()})
}

// Compiled returns the last finalized compilation. Reading before the first
// FinalizeCompile or after an unrecompiled edit panics in debug mode and
// otherwise returns the last finalized (possibly stale) state.
func (c *Component) Compiled() *Compilation {
	return c.compiled("compilation")
}

func (c *Component) compiled(access string) *Compilation {
	if c.final != nil && (c.state == StateClean || c.state == StateFinalized) {
		return c.final
	}
	err := StaleAccessError{Component: c.name, Access: access}
	if Config.Debug() {
		panic(err)
	}
	c.log.WithError(err).Warn("reading stale compiled state")
	if c.final == nil {
		return emptyCompilation
	}
	return c.final
}

// IsCompiled reports whether the finalized state reflects every edit.
func (c *Component) IsCompiled() bool {
	return c.final != nil && (c.state == StateClean || c.state == StateFinalized)
}

func (c *Component) Generation() uint64 {
	return c.generation
}

func (c *Component) UpdateList(stage Stage) []Feature {
	return c.compiled("update list").UpdateList(stage)
}

func (c *Component) UseParticleData(t ParticleDataType) bool {
	return c.compiled("particle data").UseParticleData(t)
}

func (c *Component) InstanceDataSize() uint32 {
	return c.compiled("instance data").InstanceDataSize()
}

func (c *Component) Params() ComponentParams {
	return c.compiled("component params").Params()
}

func (c *Component) UsesGPU() bool {
	return c.compiled("component params").params.UsesGPU
}

func (c *Component) GPUComponentParams() GPUComponentParams {
	return c.compiled("gpu params").GPUParams()
}

func (c *Component) GPUFeatures() []GPUFeature {
	return c.compiled("gpu features").GPUFeatures()
}
