package pfx

import (
	"github.com/sirupsen/logrus"
)

// ComponentState is the compile lifecycle of a component.
type ComponentState uint8

const (
	StateDirty ComponentState = iota
	StateCompiling
	StateFinalized
	StateClean
)

var stateNames = [...]string{"Dirty", "Compiling", "Finalized", "Clean"}

func (s ComponentState) String() string {
	if int(s) >= len(stateNames) {
		return "ComponentState(invalid)"
	}
	return stateNames[s]
}

// Vec2 is an authoring canvas position. It has no effect on simulation.
type Vec2 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// enableFlag is an authored boolean with a forced override latch.
type enableFlag struct {
	value       bool
	forced      bool
	forcedValue bool
}

func (f enableFlag) get() bool {
	if f.forced {
		return f.forcedValue
	}
	return f.value
}

func (f *enableFlag) force(v bool) {
	f.forced, f.forcedValue = true, v
}

func (f *enableFlag) release() {
	f.forced = false
}

type featureSlot struct {
	feature Feature
	params  FeatureParams
	enabled bool
}

// Component is a node of an effect tree, composed of an ordered list of features.
// Components are created by Effect.AddComponent.
type Component struct {
	name     string
	id       ComponentID
	effect   *Effect
	parent   ComponentID
	children []*Component

	nodePosition Vec2
	enabled      enableFlag
	visible      enableFlag
	features     []featureSlot

	state      ComponentState
	phase      compilePhase
	generation uint64
	build      *Compilation
	final      *Compilation

	// material made for materialFor
	material    Material
	materialFor *Compilation

	log *logrus.Entry
}

func newComponent(effect *Effect, name string) *Component {
	return &Component{
		name:    name,
		effect:  effect,
		enabled: enableFlag{value: true},
		visible: enableFlag{value: true},
		state:   StateDirty,
	}
}

func (c *Component) ID() ComponentID {
	return c.id
}

func (c *Component) Name() string {
	return c.name
}

// SetName renames the component, made unique within its effect.
func (c *Component) SetName(name string) {
	if c.effect != nil {
		name = c.effect.uniqueName(name, c)
	}
	c.name = name
	c.log = c.log.WithField("component", name)
}

func (c *Component) Effect() *Effect {
	return c.effect
}

func (c *Component) State() ComponentState {
	return c.state
}

func (c *Component) IsDirty() bool {
	return c.state == StateDirty
}

// SetChanged marks the component dirty so the next compile rebuilds it.
func (c *Component) SetChanged() {
	if c.state != StateDirty {
		c.log.Debug("component changed")
	}
	c.state = StateDirty
}

func (c *Component) IsEnabled() bool {
	return c.enabled.get()
}

func (c *Component) SetEnabled(enabled bool) {
	c.SetChanged()
	c.enabled.value = enabled
}

// ForceEnabled overrides the authored enabled value until ReleaseEnabled.
func (c *Component) ForceEnabled(enabled bool) {
	c.SetChanged()
	c.enabled.force(enabled)
}

func (c *Component) ReleaseEnabled() {
	c.SetChanged()
	c.enabled.release()
}

func (c *Component) IsVisible() bool {
	return c.visible.get()
}

// SetVisible only affects rendering and does not require a recompile.
func (c *Component) SetVisible(visible bool) {
	c.visible.value = visible
}

func (c *Component) ForceVisible(visible bool) {
	c.visible.force(visible)
}

func (c *Component) ReleaseVisible() {
	c.visible.release()
}

func (c *Component) NodePosition() Vec2 {
	return c.nodePosition
}

func (c *Component) SetNodePosition(position Vec2) {
	c.nodePosition = position
}

func (c *Component) NumFeatures() int {
	return len(c.features)
}

func (c *Component) Feature(index int) (Feature, error) {
	if index < 0 || index >= len(c.features) {
		return nil, FeatureIndexError{Index: index, Len: len(c.features)}
	}
	return c.features[index].feature, nil
}

// FeatureParams returns the registry entry the feature at index was created from.
func (c *Component) FeatureParams(index int) (FeatureParams, error) {
	if index < 0 || index >= len(c.features) {
		return FeatureParams{}, FeatureIndexError{Index: index, Len: len(c.features)}
	}
	return c.features[index].params, nil
}

// AddFeature creates a feature of the given type and inserts it at placeIdx.
// placeIdx may equal NumFeatures to append.
func (c *Component) AddFeature(placeIdx int, params FeatureParams) (Feature, error) {
	if err := c.checkEditable(); err != nil {
		return nil, err
	}
	return c.addFeature(placeIdx, params)
}

// EnqueueAddFeature adds the feature now, or once the effect is unlocked.
func (c *Component) EnqueueAddFeature(placeIdx int, params FeatureParams) error {
	if c.effect == nil {
		return ComponentNotFoundError{ID: c.id}
	}
	if !c.effect.Locked() {
		_, err := c.addFeature(placeIdx, params)
		return err
	}
	c.effect.opQueue.enqueueFeatureOp(operation{
		typ:       opAddFeature,
		component: c,
		index:     placeIdx,
		params:    params,
	})
	return nil
}

func (c *Component) addFeature(placeIdx int, params FeatureParams) (Feature, error) {
	if placeIdx < 0 || placeIdx > len(c.features) {
		return nil, FeatureIndexError{Index: placeIdx, Len: len(c.features) + 1}
	}
	if params.Create == nil {
		return nil, FeatureNotRegisteredError{Name: params.FullName()}
	}
	feature := params.Create()
	slot := featureSlot{feature: feature, params: params, enabled: true}
	c.features = append(c.features, featureSlot{})
	copy(c.features[placeIdx+1:], c.features[placeIdx:])
	c.features[placeIdx] = slot
	c.SetChanged()
	return feature, nil
}

func (c *Component) RemoveFeature(index int) error {
	if err := c.checkEditable(); err != nil {
		return err
	}
	return c.removeFeature(index)
}

func (c *Component) EnqueueRemoveFeature(index int) error {
	if c.effect == nil {
		return ComponentNotFoundError{ID: c.id}
	}
	if !c.effect.Locked() {
		return c.removeFeature(index)
	}
	c.effect.opQueue.enqueueFeatureOp(operation{
		typ:       opRemoveFeature,
		component: c,
		index:     index,
	})
	return nil
}

func (c *Component) removeFeature(index int) error {
	if index < 0 || index >= len(c.features) {
		return FeatureIndexError{Index: index, Len: len(c.features)}
	}
	c.features = append(c.features[:index], c.features[index+1:]...)
	c.SetChanged()
	return nil
}

// SwapFeatures reorders the features: the feature at order[i] moves to index i.
// order must be a permutation of [0, NumFeatures).
func (c *Component) SwapFeatures(order []int) error {
	if err := c.checkEditable(); err != nil {
		return err
	}
	if len(order) != len(c.features) {
		return FeatureIndexError{Index: len(order), Len: len(c.features)}
	}
	seen := make([]bool, len(order))
	reordered := make([]featureSlot, len(order))
	for i, from := range order {
		if from < 0 || from >= len(c.features) || seen[from] {
			return FeatureIndexError{Index: from, Len: len(c.features)}
		}
		seen[from] = true
		reordered[i] = c.features[from]
	}
	c.features = reordered
	c.SetChanged()
	return nil
}

func (c *Component) IsFeatureEnabled(index int) bool {
	if index < 0 || index >= len(c.features) {
		return false
	}
	return c.features[index].enabled
}

func (c *Component) SetFeatureEnabled(index int, enabled bool) error {
	if err := c.checkEditable(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.features) {
		return FeatureIndexError{Index: index, Len: len(c.features)}
	}
	c.features[index].enabled = enabled
	c.SetChanged()
	return nil
}

func (c *Component) checkEditable() error {
	if c.effect == nil {
		return ComponentNotFoundError{ID: c.id}
	}
	if c.effect.Locked() {
		return LockedEffectError{}
	}
	return nil
}

// activeFeatures yields the enabled features in registration order
func (c *Component) activeFeatures() []Feature {
	active := make([]Feature, 0, len(c.features))
	for _, slot := range c.features {
		if slot.enabled {
			active = append(active, slot.feature)
		}
	}
	return active
}
