package pfx

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Effect owns a tree of components and compiles them parent-before-children.
// An effect is not safe for concurrent use: edits and compiles belong to one
// authoring goroutine, and simulation readers hold the lock while reading.
type Effect struct {
	name       string
	locks      int
	arena      *componentArena
	components []*Component
	registry   FeatureRegistry
	opQueue    opQueue
	generation uint64
	log        *logrus.Entry
}

func newEffect(name string, registry FeatureRegistry) *Effect {
	return &Effect{
		name:     name,
		registry: registry,
		opQueue:  newOpQueue(),
		log:      Config.Logger().WithField("effect", name),
	}
}

func (e *Effect) Name() string {
	return e.name
}

func (e *Effect) Registry() FeatureRegistry {
	return e.registry
}

// Generation counts effect compiles that rebuilt at least one component.
func (e *Effect) Generation() uint64 {
	return e.generation
}

// AddComponent creates a top level component. The name is made unique.
func (e *Effect) AddComponent(name string) (*Component, error) {
	if e.Locked() {
		return nil, LockedEffectError{}
	}
	if e.arena == nil {
		arena, err := newComponentArena()
		if err != nil {
			return nil, fmt.Errorf("failed to create component arena: %w", err)
		}
		e.arena = arena
	}
	c := newComponent(e, e.uniqueName(name, nil))
	id, err := e.arena.insert(c)
	if err != nil {
		return nil, err
	}
	c.id = id
	c.log = e.log.WithField("component", c.name)
	e.components = append(e.components, c)
	return c, nil
}

// Component looks a component up by id.
func (e *Effect) Component(id ComponentID) (*Component, error) {
	if e.arena == nil {
		return nil, ComponentNotFoundError{ID: id}
	}
	c, ok := e.arena.get(id)
	if !ok {
		return nil, ComponentNotFoundError{ID: id}
	}
	return c, nil
}

func (e *Effect) ComponentByName(name string) (*Component, bool) {
	for _, c := range e.components {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Components returns all components in creation order.
func (e *Effect) Components() []*Component {
	return e.components
}

func (e *Effect) NumComponents() int {
	return len(e.components)
}

// TopComponents returns the components without a parent, in creation order.
func (e *Effect) TopComponents() []*Component {
	var top []*Component
	for _, c := range e.components {
		if c.parent == 0 {
			top = append(top, c)
		}
	}
	return top
}

// RemoveComponent removes c together with its subtree. Runtimes still holding
// the removed components or their compilations keep working on them.
func (e *Effect) RemoveComponent(c *Component) error {
	if e.Locked() {
		return LockedEffectError{}
	}
	return e.removeComponent(c)
}

func (e *Effect) EnqueueRemoveComponent(c *Component) error {
	if !e.Locked() {
		return e.removeComponent(c)
	}
	if c == nil || c.effect != e {
		return ComponentNotFoundError{}
	}
	e.opQueue.enqueueRemove(c)
	return nil
}

func (e *Effect) removeComponent(c *Component) error {
	if c == nil || c.effect != e {
		return ComponentNotFoundError{}
	}
	subtree := c.appendSubtree(nil)
	for _, removed := range subtree {
		if _, err := e.arena.resolve(removed.id); err != nil {
			return err
		}
	}
	if parent := c.Parent(); parent != nil {
		parent.detachChild(c)
		parent.markDirtyWithAncestors()
	}
	gone := make(map[*Component]struct{}, len(subtree))
	for _, removed := range subtree {
		if err := e.arena.remove(removed.id); err != nil {
			return err
		}
		gone[removed] = struct{}{}
	}
	kept := make([]*Component, 0, len(e.components)-len(gone))
	for _, existing := range e.components {
		if _, ok := gone[existing]; !ok {
			kept = append(kept, existing)
		}
	}
	e.components = kept
	for _, removed := range subtree {
		removed.effect = nil
		removed.log.Debug("component removed")
	}
	return nil
}

func (e *Effect) Locked() bool {
	return e.locks > 0
}

// Lock marks the compiled state as being read. Locks nest.
func (e *Effect) Lock() {
	e.locks++
}

// Unlock releases one lock. Once no lock is held, queued edits are applied.
func (e *Effect) Unlock() error {
	if e.locks > 0 {
		e.locks--
	}
	if e.locks > 0 {
		return nil
	}
	return e.processOperationQueue()
}

// compileOrder lists every component with parents before their children.
func (e *Effect) compileOrder() []*Component {
	order := make([]*Component, 0, len(e.components))
	for _, c := range e.TopComponents() {
		order = c.appendSubtree(order)
	}
	return order
}

// Compile applies queued edits and runs the compile pipeline on every component
// that is dirty or below a dirty component. Each phase runs over all of them
// before the next phase starts.
func (e *Effect) Compile() error {
	if e.Locked() {
		return LockedEffectError{}
	}
	if err := e.processOperationQueue(); err != nil {
		return err
	}
	pending := e.pendingCompile()
	if len(pending) == 0 {
		return nil
	}
	for _, c := range pending {
		c.PreCompile()
	}
	for _, c := range pending {
		c.ResolveDependencies()
	}
	for _, c := range pending {
		c.Compile()
	}
	for _, c := range pending {
		c.FinalizeCompile()
	}
	for _, c := range pending {
		c.state = StateClean
	}
	e.generation++
	e.log.WithFields(logrus.Fields{
		"generation": e.generation,
		"components": len(pending),
	}).Debug("effect compiled")
	return nil
}

func (e *Effect) pendingCompile() []*Component {
	var pending []*Component
	queued := make(map[*Component]bool)
	for _, c := range e.compileOrder() {
		parent := c.Parent()
		if !c.IsCompiled() || (parent != nil && queued[parent]) {
			queued[c] = true
			pending = append(pending, c)
		}
	}
	return pending
}

// EquilibriumTime is the latest equilibrium time of the enabled top level components.
func (e *Effect) EquilibriumTime() float32 {
	var equilibrium float32
	for _, c := range e.TopComponents() {
		if c.IsEnabled() {
			equilibrium = max(equilibrium, c.EquilibriumTime(RootLife))
		}
	}
	return equilibrium
}

func (e *Effect) uniqueName(name string, self *Component) string {
	if name == "" {
		name = "Component"
	}
	candidate := name
	for n := 2; ; n++ {
		existing, found := e.ComponentByName(candidate)
		if !found || existing == self {
			return candidate
		}
		candidate = name + strconv.Itoa(n)
	}
}
