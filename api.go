package pfx

import "iter"

// Feature is a pluggable behaviour of a component. During Compile it registers
// itself into update stages, declares the particle data it needs and folds its
// contribution into params.
type Feature interface {
	AddToComponent(c *Component, params *ComponentParams)
}

// DependencyResolver features run during ResolveDependencies, typically to
// allocate instance data or to reach their parent component.
type DependencyResolver interface {
	ResolveDependencies(c *Component)
}

// Finalizer features run during FinalizeCompile. The parent of c is already
// finalized at that point.
type Finalizer interface {
	FinalizeCompile(c *Component, params *ComponentParams)
}

// GPUCapable features can run on the GPU particle path. A component uses the
// GPU only when every active feature reports true.
type GPUCapable interface {
	SupportsGPU() bool
}

// GPUFeatureProvider features hand an opaque GPU side counterpart to the
// component when it compiles for the GPU.
type GPUFeatureProvider interface {
	GPUFeature() GPUFeature
}

type Serializer interface {
	Serialize(ar Archive) error
}

type Renderer interface {
	Render(emitter Emitter, c *Component, runtime Runtime, ctx RenderContext)
}

type DeferredRenderer interface {
	RenderDeferred(emitter Emitter, c *Component, runtime Runtime, ctx RenderContext)
}

type RenderObjectPreparer interface {
	PrepareRenderObjects(emitter Emitter, c *Component)
	ResetRenderObjects(emitter Emitter, c *Component)
}

// Archive is a structured persistence archive. The same calls read or write
// depending on IsInput; missing fields are left untouched when reading.
type Archive interface {
	IsInput() bool
	Value(name string, ptr any) error
	Object(name string, fn func(Archive) error) error
	// Array calls fn for each element. When reading, n receives the element count.
	Array(name string, n *int, fn func(i int, ar Archive) error) error
}

// Opaque handles owned by collaborator services.
type (
	Material      interface{}
	Mesh          interface{}
	GPUFeature    interface{}
	GPURuntime    interface{}
	Emitter       interface{}
	Runtime       interface{}
	RenderContext interface{}
)

type MaterialRequest struct {
	Component         string
	Shader            ShaderType
	DiffuseMap        string
	RenderObjectFlags uint64
}

type MaterialService interface {
	MakeMaterial(req MaterialRequest) (Material, error)
}

type GPUService interface {
	CreateRuntime(params GPUComponentParams, features []GPUFeature) (GPURuntime, error)
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(c *Component) bool
}

type iCursor interface {
	Components() iter.Seq2[int, *Component]
	Next() bool
}

type FeatureRegistry interface {
	Register(FeatureParams) (int, error)
	Lookup(name string) (FeatureParams, bool)
	Entry(index int) FeatureParams
	Len() int
}
