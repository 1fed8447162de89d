package pfx

import "fmt"

// MakeMaterial returns the material of the compiled component, requesting it
// from materials once per compilation. A material set by a feature during
// compile wins. Components that need no material return nil. The published
// Compilation is never modified.
func (c *Component) MakeMaterial(materials MaterialService) (Material, error) {
	comp := c.compiled("material")
	params := &comp.params
	if params.Material != nil {
		return params.Material, nil
	}
	if c.materialFor == comp {
		return c.material, nil
	}
	if params.RequiredShaderType == ShaderNone && params.DiffuseMap == "" {
		return nil, nil
	}
	material, err := materials.MakeMaterial(MaterialRequest{
		Component:         c.name,
		Shader:            params.RequiredShaderType,
		DiffuseMap:        params.DiffuseMap,
		RenderObjectFlags: params.RenderObjectFlags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make material for component %q: %w", c.name, err)
	}
	c.material, c.materialFor = material, comp
	return material, nil
}

// CanMakeRuntime reports whether an emitter may instantiate this component.
// GPU components additionally need a GPU service.
func (c *Component) CanMakeRuntime(gpu GPUService) bool {
	if !c.IsEnabled() || c.final == nil {
		return false
	}
	if c.final.params.UsesGPU {
		return gpu != nil
	}
	return true
}

// MakeGPURuntime hands the compiled GPU params and GPU features to gpu.
func (c *Component) MakeGPURuntime(gpu GPUService) (GPURuntime, error) {
	if !c.CanMakeRuntime(gpu) || !c.final.params.UsesGPU {
		return nil, fmt.Errorf("component %q cannot run on the GPU", c.name)
	}
	comp := c.compiled("gpu params")
	runtime, err := gpu.CreateRuntime(comp.gpuParams, comp.gpuFeatures)
	if err != nil {
		return nil, fmt.Errorf("failed to create gpu runtime for component %q: %w", c.name, err)
	}
	return runtime, nil
}

func (c *Component) PrepareRenderObjects(emitter Emitter) {
	for _, feature := range c.renderFeatures() {
		if preparer, ok := feature.(RenderObjectPreparer); ok {
			preparer.PrepareRenderObjects(emitter, c)
		}
	}
}

func (c *Component) ResetRenderObjects(emitter Emitter) {
	for _, feature := range c.renderFeatures() {
		if preparer, ok := feature.(RenderObjectPreparer); ok {
			preparer.ResetRenderObjects(emitter, c)
		}
	}
}

// Render runs the Render stage features of a visible component.
func (c *Component) Render(emitter Emitter, runtime Runtime, ctx RenderContext) {
	if !c.IsVisible() {
		return
	}
	for _, feature := range c.UpdateList(StageRender) {
		if renderer, ok := feature.(Renderer); ok {
			renderer.Render(emitter, c, runtime, ctx)
		}
	}
}

// RenderDeferred runs the RenderDeferred stage features. The caller must only
// invoke it after every update stage of the frame has completed.
func (c *Component) RenderDeferred(emitter Emitter, runtime Runtime, ctx RenderContext) {
	if !c.IsVisible() {
		return
	}
	for _, feature := range c.UpdateList(StageRenderDeferred) {
		if renderer, ok := feature.(DeferredRenderer); ok {
			renderer.RenderDeferred(emitter, c, runtime, ctx)
		}
	}
}

func (c *Component) renderFeatures() []Feature {
	comp := c.compiled("update list")
	render := comp.UpdateList(StageRender)
	deferred := comp.UpdateList(StageRenderDeferred)
	features := make([]Feature, 0, len(render)+len(deferred))
	features = append(features, render...)
	return append(features, deferred...)
}
