package pfx

import "math"

// Range is a closed time interval in seconds. End may be Infinity.
type Range struct {
	Start float32
	End   float32
}

// RootLife is the parent life range of a top level component.
var RootLife = Range{Start: 0, End: Infinity}

func (r Range) Length() float32 {
	return r.End - r.Start
}

type ShaderType uint8

const (
	ShaderNone ShaderType = iota
	ShaderParticle
	ShaderMesh
	ShaderRibbon
)

// ShaderData is the per-component constant block handed to particle shaders.
type ShaderData struct {
	TileCount     float32
	FrameCount    float32
	FrameBlending bool
	SoftParticles float32
}

// ComponentParams is the aggregated contribution of all active features of a
// component. It is rebuilt on every compile and frozen at FinalizeCompile.
type ComponentParams struct {
	UsesGPU              bool
	ShaderData           ShaderData
	Material             Material
	Mesh                 Mesh
	RequiredShaderType   ShaderType
	DiffuseMap           string
	RenderObjectFlags    uint64
	InstanceDataStride   uint32
	TextureAnimation     TextureAnimation
	MaxParticlesBurst    uint32
	MaxParticleSpawnRate float32
	ScaleParticleCount   float32
	EmitterLifeTime      Range
	MaxParticleLifeTime  float32
	MaxParticleSize      float32
	RenderObjectSortBias float32
	Visibility           VisibilityParams
	RenderStateFlags     int
	ParticleObjFlags     uint8
	MeshCentered         bool

	hasEmitterLife bool
}

func DefaultComponentParams() ComponentParams {
	return ComponentParams{
		TextureAnimation:   NewTextureAnimation(),
		ScaleParticleCount: 1,
		Visibility:         DefaultVisibilityParams(),
	}
}

// IsImmortal reports whether the component can outlive any finite time:
// its emitter never stops or its particles never die.
func (p ComponentParams) IsImmortal() bool {
	return !isFinite(p.EmitterLifeTime.End + p.MaxParticleLifeTime)
}

// AddEmitterLifeTime widens the emitter life range to include r.
func (p *ComponentParams) AddEmitterLifeTime(r Range) {
	if !p.hasEmitterLife {
		p.EmitterLifeTime = r
		p.hasEmitterLife = true
		return
	}
	p.EmitterLifeTime.Start = min(p.EmitterLifeTime.Start, r.Start)
	p.EmitterLifeTime.End = max(p.EmitterLifeTime.End, r.End)
}

// AddParticleLifeTime keeps the longest particle lifetime.
func (p *ComponentParams) AddParticleLifeTime(life float32) {
	p.MaxParticleLifeTime = max(p.MaxParticleLifeTime, life)
}

func (p *ComponentParams) AddParticleSize(size float32) {
	p.MaxParticleSize = max(p.MaxParticleSize, size)
}

// AddSpawn accumulates spawner output. Spawners add up since they all emit.
func (p *ComponentParams) AddSpawn(burst uint32, rate float32) {
	p.MaxParticlesBurst += burst
	p.MaxParticleSpawnRate += max(rate, 0)
}

// RequireShader records the shader a render feature needs. The first request wins.
func (p *ComponentParams) RequireShader(shader ShaderType) {
	if p.RequiredShaderType == ShaderNone {
		p.RequiredShaderType = shader
	}
}

// ParticleCounts are worst case particle counts for buffer pre-allocation.
// Unbounded means the estimate overflowed: both counts are zero and the caller
// must treat the population as immortal rather than small.
type ParticleCounts struct {
	Total     int
	PerFrame  int
	Unbounded bool
}

// MaxParticleCounts estimates the live and per-frame particle counts for frame
// rates in [minFPS, maxFPS]. The estimate errs on the high side.
func (p ComponentParams) MaxParticleCounts(minFPS, maxFPS float32) ParticleCounts {
	if minFPS <= 0 || maxFPS < minFPS {
		minFPS, maxFPS = defaultMinFPS, defaultMaxFPS
	}
	scale := float64(max(p.ScaleParticleCount, 0))
	burst := float64(p.MaxParticlesBurst) * scale
	rate := float64(p.MaxParticleSpawnRate) * scale
	maxFrameTime := 1 / float64(minFPS)
	minFrameTime := 1 / float64(maxFPS)

	perFrame := burst
	total := burst
	if rate > 0 {
		perFrame += rate * maxFrameTime
		// every particle occupies a slot for at least one frame
		life := max(float64(p.MaxParticleLifeTime), minFrameTime)
		if p.hasEmitterLife {
			life = min(life, float64(p.EmitterLifeTime.Length()))
		}
		total += rate * (life + maxFrameTime)
	}
	return newParticleCounts(total, perFrame)
}

func newParticleCounts(total, perFrame float64) ParticleCounts {
	if !countUsable(total) || !countUsable(perFrame) {
		return ParticleCounts{Unbounded: true}
	}
	return ParticleCounts{
		Total:    int(math.Ceil(total)),
		PerFrame: int(math.Ceil(perFrame)),
	}
}

func countUsable(n float64) bool {
	return !math.IsInf(n, 0) && !math.IsNaN(n) && n >= 0 && n <= math.MaxInt32
}

// GPUComponentParams is the compiled configuration handed to the GPU particle service.
type GPUComponentParams struct {
	MaxParticles  int
	MaxNewBorns   int
	Immortal      bool
	LifeTime      float32
	EmitterLife   Range
	SortBias      float32
	UsesAnimation bool
}

func newGPUComponentParams(p ComponentParams, counts ParticleCounts) GPUComponentParams {
	return GPUComponentParams{
		MaxParticles:  counts.Total,
		MaxNewBorns:   counts.PerFrame,
		Immortal:      p.IsImmortal() || counts.Unbounded,
		LifeTime:      p.MaxParticleLifeTime,
		EmitterLife:   p.EmitterLifeTime,
		SortBias:      p.RenderObjectSortBias,
		UsesAnimation: p.TextureAnimation.IsAnimating(),
	}
}
