package pfx

const maxFeatureTypes = 256

// Features is the default registry, preloaded with the built-in feature types.
var Features = newBuiltinRegistry()

func newBuiltinRegistry() FeatureRegistry {
	registry := FactoryNewFeatureRegistry(maxFeatureTypes)
	if err := RegisterBuiltinFeatures(registry); err != nil {
		panic(err)
	}
	return registry
}

// RegisterBuiltinFeatures adds the built-in feature types to registry.
func RegisterBuiltinFeatures(registry FeatureRegistry) error {
	builtins := []FeatureParams{
		{Group: "Spawn", Name: "Count", Create: func() Feature { return NewSpawnCount() }},
		{Group: "Spawn", Name: "Rate", Create: func() Feature { return NewSpawnRate() }},
		{Group: "Life", Name: "Time", Create: func() Feature { return NewLifeTime() }},
		{Group: "Motion", Name: "Physics", Create: func() Feature { return &Motion{} }},
		{Group: "Render", Name: "Sprites", Create: func() Feature { return NewRenderSprites() }},
	}
	for _, params := range builtins {
		if _, err := registry.Register(params); err != nil {
			return err
		}
	}
	return nil
}

// DeclaredFeature is a feature assembled from data: the stages and particle data
// it declares, the instance data it needs and an optional params contribution.
// Tools and tests use it where no dedicated feature type exists.
type DeclaredFeature struct {
	Stages       []Stage
	Data         []ParticleDataType
	InstanceData []uint32
	GPU          bool
	GPUHandle    GPUFeature
	Contribute   func(params *ComponentParams)
	OnRender     func(emitter Emitter, c *Component, runtime Runtime, ctx RenderContext)

	// Offsets holds the instance data offsets of the last compile, one per InstanceData entry
	Offsets []InstanceDataOffset
}

func (f *DeclaredFeature) ResolveDependencies(c *Component) {
	f.Offsets = f.Offsets[:0]
	for _, size := range f.InstanceData {
		f.Offsets = append(f.Offsets, c.AddInstanceData(size))
	}
}

func (f *DeclaredFeature) AddToComponent(c *Component, params *ComponentParams) {
	for _, stage := range f.Stages {
		c.AddToUpdateList(stage, f)
	}
	for _, t := range f.Data {
		c.AddParticleData(t)
	}
	if f.Contribute != nil {
		f.Contribute(params)
	}
}

func (f *DeclaredFeature) SupportsGPU() bool {
	return f.GPU
}

func (f *DeclaredFeature) GPUFeature() GPUFeature {
	return f.GPUHandle
}

func (f *DeclaredFeature) Render(emitter Emitter, c *Component, runtime Runtime, ctx RenderContext) {
	if f.OnRender != nil {
		f.OnRender(emitter, c, runtime, ctx)
	}
}

// SpawnCount emits Amount particles once Delay has elapsed, spread over Duration.
type SpawnCount struct {
	Amount   uint32
	Delay    float32
	Duration float32

	stateOffset InstanceDataOffset
}

func NewSpawnCount() *SpawnCount {
	return &SpawnCount{Amount: 1}
}

// spawner scratch: spawned-so-far counter and emitter age
const spawnStateSize = 8

func (f *SpawnCount) ResolveDependencies(c *Component) {
	f.stateOffset = c.AddInstanceData(spawnStateSize)
}

func (f *SpawnCount) AddToComponent(c *Component, params *ComponentParams) {
	c.AddToUpdateList(StageSpawn, f)
	c.AddParticleData(DataSpawnID)
	c.AddParticleData(DataSpawnFraction)
	params.AddSpawn(f.Amount, 0)
	params.AddEmitterLifeTime(Range{Start: f.Delay, End: f.Delay + f.Duration})
}

func (f *SpawnCount) SupportsGPU() bool { return true }

func (f *SpawnCount) StateOffset() InstanceDataOffset { return f.stateOffset }

func (f *SpawnCount) Serialize(ar Archive) error {
	return serializeValues(ar,
		field{"amount", &f.Amount},
		field{"delay", &f.Delay},
		field{"duration", &f.Duration},
	)
}

// SpawnRate emits Rate particles per second from Delay for Duration seconds.
type SpawnRate struct {
	Rate     float32
	Delay    float32
	Duration float32

	stateOffset InstanceDataOffset
}

func NewSpawnRate() *SpawnRate {
	return &SpawnRate{Rate: 10, Duration: Infinity}
}

func (f *SpawnRate) ResolveDependencies(c *Component) {
	f.stateOffset = c.AddInstanceData(spawnStateSize)
}

func (f *SpawnRate) AddToComponent(c *Component, params *ComponentParams) {
	c.AddToUpdateList(StageSpawn, f)
	c.AddParticleData(DataSpawnID)
	c.AddParticleData(DataSpawnFraction)
	params.AddSpawn(0, f.Rate)
	params.AddEmitterLifeTime(Range{Start: f.Delay, End: f.Delay + f.Duration})
}

func (f *SpawnRate) SupportsGPU() bool { return true }

func (f *SpawnRate) StateOffset() InstanceDataOffset { return f.stateOffset }

func (f *SpawnRate) Serialize(ar Archive) error {
	return serializeValues(ar,
		field{"rate", &f.Rate},
		field{"delay", &f.Delay},
		field{"duration", &f.Duration},
	)
}

// LifeTime gives every particle a lifetime. Infinity makes particles immortal.
type LifeTime struct {
	LifeTime float32
}

func NewLifeTime() *LifeTime {
	return &LifeTime{LifeTime: 1}
}

func (f *LifeTime) AddToComponent(c *Component, params *ComponentParams) {
	c.AddToUpdateList(StageInitUpdate, f)
	c.AddParticleData(DataNormalAge)
	c.AddParticleData(DataLifeTime)
	if isFinite(f.LifeTime) {
		c.AddParticleData(DataInvLifeTime)
	}
	params.AddParticleLifeTime(f.LifeTime)
}

func (f *LifeTime) SupportsGPU() bool { return true }

func (f *LifeTime) Serialize(ar Archive) error {
	return serializeValues(ar, field{"lifeTime", &f.LifeTime})
}

// Motion integrates velocity with gravity and drag.
type Motion struct {
	Gravity float32
	Drag    float32
}

func (f *Motion) AddToComponent(c *Component, params *ComponentParams) {
	c.AddToUpdateList(StageUpdate, f)
	c.AddToUpdateList(StageComputeBounds, f)
	c.AddParticleData(DataPosition)
	c.AddParticleData(DataVelocity)
	if f.Gravity != 0 || f.Drag != 0 {
		c.AddParticleData(DataAcceleration)
	}
}

func (f *Motion) SupportsGPU() bool { return true }

func (f *Motion) Serialize(ar Archive) error {
	return serializeValues(ar,
		field{"gravity", &f.Gravity},
		field{"drag", &f.Drag},
	)
}

// RenderSprites draws camera facing sprites from a tiled, optionally animated texture.
type RenderSprites struct {
	DiffuseMap string
	MaxSize    float32
	SortBias   float32
	Animation  TextureAnimation
	Visibility VisibilityParams
}

func NewRenderSprites() *RenderSprites {
	return &RenderSprites{
		MaxSize:    1,
		Animation:  NewTextureAnimation(),
		Visibility: DefaultVisibilityParams(),
	}
}

func (f *RenderSprites) AddToComponent(c *Component, params *ComponentParams) {
	c.AddToUpdateList(StageRender, f)
	c.AddParticleData(DataPosition)
	c.AddParticleData(DataSize)
	c.AddParticleData(DataColor)
	c.AddParticleData(DataAlpha)
	if f.Animation.IsAnimating() {
		c.AddParticleData(DataTile)
		if !f.Animation.HasAbsoluteFrameRate() {
			c.AddParticleData(DataNormalAge)
		}
	}

	params.RequireShader(ShaderParticle)
	if params.DiffuseMap == "" {
		params.DiffuseMap = f.DiffuseMap
	}
	params.AddParticleSize(f.MaxSize)
	params.TextureAnimation = f.Animation
	params.ShaderData.TileCount = float32(f.Animation.FrameCount())
	params.ShaderData.FrameCount = float32(f.Animation.FrameCount())
	params.ShaderData.FrameBlending = f.Animation.FrameBlending()
	params.RenderObjectSortBias = f.SortBias
	params.Visibility.Combine(f.Visibility)
}

func (f *RenderSprites) SupportsGPU() bool { return true }

func (f *RenderSprites) Serialize(ar Archive) error {
	if err := serializeValues(ar,
		field{"diffuseMap", &f.DiffuseMap},
		field{"maxSize", &f.MaxSize},
		field{"sortBias", &f.SortBias},
	); err != nil {
		return err
	}
	if err := ar.Object("animation", f.Animation.Serialize); err != nil {
		return err
	}
	return ar.Object("visibility", f.Visibility.Serialize)
}
