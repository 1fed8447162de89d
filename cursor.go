package pfx

import (
	"iter"
)

var _ iCursor = &Cursor{}

// Cursor walks the enabled components of an effect that match a query, in
// compile order. The effect stays locked while a walk is in progress.
type Cursor struct {
	query  QueryNode
	effect *Effect

	current int
	matched []*Component

	initialized bool
}

func newCursor(query QueryNode, effect *Effect) *Cursor {
	return &Cursor{
		query:  query,
		effect: effect,
	}
}

func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	if c.current < len(c.matched) {
		c.current++
		return true
	}
	c.Reset()
	return false
}

// Component returns the component the cursor points at after Next returned true.
func (c *Cursor) Component() *Component {
	if c.current == 0 || c.current > len(c.matched) {
		return nil
	}
	return c.matched[c.current-1]
}

func (c *Cursor) Components() iter.Seq2[int, *Component] {
	return func(yield func(int, *Component) bool) {
		c.initialize()
		defer c.Reset()

		for i, component := range c.matched {
			c.current = i + 1
			if !yield(i, component) {
				return
			}
		}
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.effect.Lock()
	c.matched = make([]*Component, 0)
	for _, component := range c.effect.compileOrder() {
		if component.IsEnabled() && c.query.Evaluate(component) {
			c.matched = append(c.matched, component)
		}
	}
	c.current = 0
	c.initialized = true
}

// Reset ends the walk and releases the effect lock.
func (c *Cursor) Reset() {
	if !c.initialized {
		return
	}
	c.current = 0
	c.matched = nil
	c.initialized = false
	if err := c.effect.Unlock(); err != nil {
		c.effect.log.WithError(err).Warn("queued edits failed after cursor walk")
	}
}

func (c *Cursor) RemainingMatched() int {
	return len(c.matched) - c.current
}

func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.initialize()
	}
	return len(c.matched)
}
