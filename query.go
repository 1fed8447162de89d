package pfx

import (
	"github.com/TheBitDrifter/mask"
)

// Particle data bits live above the stage bits in query masks.
const dataBitOffset = 16

func dataBit(t ParticleDataType) uint32 {
	return dataBitOffset + uint32(t)
}

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op       Operation
	children []QueryNode
	bits     mask.Mask
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func newCompositeNode(op Operation, bits mask.Mask, children []QueryNode) *compositeNode {
	return &compositeNode{
		op:       op,
		children: children,
		bits:     bits,
	}
}

// Evaluate matches against the last finalized stages and particle data of c.
// Components that were never compiled match nothing.
func (n *compositeNode) Evaluate(c *Component) bool {
	if c.final == nil {
		return false
	}
	componentMask := c.final.queryMask()

	switch n.op {
	case OpAnd:
		if !componentMask.ContainsAll(n.bits) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(c) {
				return false
			}
		}
		return true

	case OpOr:
		if componentMask.ContainsAny(n.bits) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(c) {
				return true
			}
		}
		return false

	case OpNot:
		for _, child := range n.children {
			if child.Evaluate(c) {
				return false
			}
		}
		return componentMask.ContainsNone(n.bits)
	}
	return false
}

// And matches components using every listed Stage and ParticleDataType and
// matching every child node.
func (q *query) And(items ...interface{}) QueryNode {
	return q.node(OpAnd, items)
}

func (q *query) Or(items ...interface{}) QueryNode {
	return q.node(OpOr, items)
}

func (q *query) Not(items ...interface{}) QueryNode {
	return q.node(OpNot, items)
}

func (q *query) node(op Operation, items []interface{}) QueryNode {
	bits, children := q.processItems(items...)
	node := newCompositeNode(op, bits, children)
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) processItems(items ...interface{}) (mask.Mask, []QueryNode) {
	var bits mask.Mask
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case Stage:
			if !v.Valid() {
				panic(UnknownStageError{Stage: v})
			}
			bits.Mark(stageBit(v))
		case []Stage:
			for _, stage := range v {
				if !stage.Valid() {
					panic(UnknownStageError{Stage: stage})
				}
				bits.Mark(stageBit(stage))
			}
		case ParticleDataType:
			if !v.Valid() {
				panic(UnknownParticleDataError{Type: v})
			}
			bits.Mark(dataBit(v))
		case []ParticleDataType:
			for _, t := range v {
				if !t.Valid() {
					panic(UnknownParticleDataError{Type: t})
				}
				bits.Mark(dataBit(t))
			}
		case QueryNode:
			children = append(children, v)
		default:
			panic(UnsupportedQueryItemError{Item: item})
		}
	}

	return bits, children
}

func (q *query) Evaluate(c *Component) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(c)
}
