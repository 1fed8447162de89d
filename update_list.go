package pfx

import "github.com/TheBitDrifter/mask"

// Stage is one of the fixed points of the per-frame pipeline at which registered
// features execute.
type Stage uint8

const (
	StageMainPreUpdate    Stage = iota // once per frame on the main thread
	StageInitSubInstances              // feature has sub instance data to initialize
	StageGetExtents                    // feature has a spatial extent
	StageGetEmitOffset                 // feature moves the effective emit location
	StageSpawn                         // feature creates new particles
	StageInitUpdate                    // feature initializes newborn particle data
	StagePostInitUpdate                // runs after the main InitUpdate
	StageKillUpdate                    // feature runs logic for particles being killed
	StagePreUpdate                     // changes particles before the main update
	StageUpdate                        // changes particle data over time
	StagePostUpdate                    // changes particles after the main update
	StageComputeBounds                 // augments the bounding box for rendering
	StageRender                        // has geometry to render
	StageRenderDeferred                // renders only after all updates of the frame are done

	StageCount
)

var stageNames = [StageCount]string{
	"MainPreUpdate",
	"InitSubInstances",
	"GetExtents",
	"GetEmitOffset",
	"Spawn",
	"InitUpdate",
	"PostInitUpdate",
	"KillUpdate",
	"PreUpdate",
	"Update",
	"PostUpdate",
	"ComputeBounds",
	"Render",
	"RenderDeferred",
}

func (s Stage) Valid() bool {
	return s < StageCount
}

func (s Stage) String() string {
	if !s.Valid() {
		return "Stage(invalid)"
	}
	return stageNames[s]
}

// Stages returns every stage in pipeline order.
func Stages() []Stage {
	stages := make([]Stage, StageCount)
	for i := range stages {
		stages[i] = Stage(i)
	}
	return stages
}

// updateLists holds the ordered features of every stage for one compile pass.
type updateLists struct {
	lists [StageCount][]Feature
	used  mask.Mask
}

func (l *updateLists) add(stage Stage, feature Feature) {
	if !stage.Valid() {
		panic(UnknownStageError{Stage: stage})
	}
	l.lists[stage] = append(l.lists[stage], feature)
	l.used.Mark(stageBit(stage))
}

func (l *updateLists) reset() {
	for i := range l.lists {
		l.lists[i] = nil
	}
	l.used = mask.Mask{}
}

func (l *updateLists) get(stage Stage) []Feature {
	if !stage.Valid() {
		panic(UnknownStageError{Stage: stage})
	}
	return l.lists[stage]
}

func stageBit(stage Stage) uint32 {
	return uint32(stage)
}
