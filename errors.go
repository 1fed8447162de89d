package pfx

import "fmt"

type LockedEffectError struct{}

func (e LockedEffectError) Error() string {
	return "effect is currently locked"
}

// InvalidHierarchyError reports a rejected reparent. No mutation was applied.
type InvalidHierarchyError struct {
	Child, Parent string
	Reason        string
}

func (e InvalidHierarchyError) Error() string {
	return fmt.Sprintf("cannot parent %q under %q: %s", e.Child, e.Parent, e.Reason)
}

// StaleAccessError is raised when compiled state is read before the first
// FinalizeCompile or after an edit that has not been recompiled.
type StaleAccessError struct {
	Component string
	Access    string
}

func (e StaleAccessError) Error() string {
	return fmt.Sprintf("stale access to %s of component %q: recompile first", e.Access, e.Component)
}

type AllocationAfterFreezeError struct {
	Component string
	Op        string
}

func (e AllocationAfterFreezeError) Error() string {
	return fmt.Sprintf("%s on component %q outside of a compile pass", e.Op, e.Component)
}

type CompilePhaseError struct {
	Component string
	Op        string
	Phase     string
}

func (e CompilePhaseError) Error() string {
	return fmt.Sprintf("%s on component %q is not allowed during %s", e.Op, e.Component, e.Phase)
}

type UnknownStageError struct {
	Stage Stage
}

func (e UnknownStageError) Error() string {
	return fmt.Sprintf("unknown update stage: %d", e.Stage)
}

type UnknownParticleDataError struct {
	Type ParticleDataType
}

func (e UnknownParticleDataError) Error() string {
	return fmt.Sprintf("unknown particle data type: %d", e.Type)
}

type UnsupportedQueryItemError struct {
	Item interface{}
}

func (e UnsupportedQueryItemError) Error() string {
	return fmt.Sprintf("unsupported query item of type %T", e.Item)
}

type InstanceDataSizeError struct {
	Component string
}

func (e InstanceDataSizeError) Error() string {
	return fmt.Sprintf("zero sized instance data requested on component %q", e.Component)
}

type ComponentNotFoundError struct {
	ID ComponentID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %d does not exist in effect", e.ID)
}

type FeatureIndexError struct {
	Index, Len int
}

func (e FeatureIndexError) Error() string {
	return fmt.Sprintf("feature index %d out of range [0, %d)", e.Index, e.Len)
}

type FeatureNotRegisteredError struct {
	Name string
}

func (e FeatureNotRegisteredError) Error() string {
	return fmt.Sprintf("feature type is not registered: %s", e.Name)
}

type FeatureExistsError struct {
	Name string
}

func (e FeatureExistsError) Error() string {
	return fmt.Sprintf("feature type already registered: %s", e.Name)
}
