package pfx

// Parent returns the parent component, or nil for a top level component.
func (c *Component) Parent() *Component {
	if c.parent == 0 || c.effect == nil {
		return nil
	}
	parent, _ := c.effect.arena.get(c.parent)
	return parent
}

// Children returns the child components in their stored order.
func (c *Component) Children() []*Component {
	return c.children
}

// IsDescendantOf reports whether c lies strictly below ancestor.
func (c *Component) IsDescendantOf(ancestor *Component) bool {
	for p := c.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

// SetParentComponent moves c under parent, or to the top level when parent is nil.
// Targets that would create a cycle or that belong to another effect are
// rejected with InvalidHierarchyError. When delayed is true the move is queued
// and applied at the next Unlock or Compile; otherwise it is applied now and the
// old and new ancestors are marked dirty.
func (c *Component) SetParentComponent(parent *Component, delayed bool) error {
	if c.effect == nil {
		return ComponentNotFoundError{ID: c.id}
	}
	if err := c.validateParent(parent); err != nil {
		return err
	}
	if delayed {
		c.effect.opQueue.enqueueHierarchyOp(operation{
			typ:       opSetParent,
			component: c,
			target:    parent,
		})
		return nil
	}
	if c.effect.Locked() {
		return LockedEffectError{}
	}
	c.attach(parent)
	return nil
}

func (c *Component) validateParent(parent *Component) error {
	if parent == nil {
		return nil
	}
	err := InvalidHierarchyError{Child: c.name, Parent: parent.name}
	switch {
	case parent.effect != c.effect:
		err.Reason = "parent belongs to a different effect"
	case parent == c:
		err.Reason = "component cannot be its own parent"
	case parent.IsDescendantOf(c):
		err.Reason = "parent is a descendant of the component"
	default:
		return nil
	}
	return err
}

func (c *Component) attach(parent *Component) {
	if old := c.Parent(); old != nil {
		old.detachChild(c)
		old.markDirtyWithAncestors()
	}
	c.parent = 0
	if parent != nil {
		c.parent = parent.id
		parent.children = append(parent.children, c)
		parent.markDirtyWithAncestors()
	}
	c.SetChanged()
}

func (c *Component) detachChild(child *Component) {
	for i, existing := range c.children {
		if existing == child {
			c.children = append(c.children[:i:i], c.children[i+1:]...)
			return
		}
	}
}

func (c *Component) markDirtyWithAncestors() {
	for p := c; p != nil; p = p.Parent() {
		p.SetChanged()
	}
}

// appendSubtree appends the subtree of c in parent-before-children order.
func (c *Component) appendSubtree(order []*Component) []*Component {
	order = append(order, c)
	for _, child := range c.children {
		order = child.appendSubtree(order)
	}
	return order
}
