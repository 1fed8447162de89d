package pfx

import (
	"fmt"
)

type operation struct {
	typ       operationType
	component *Component
	target    *Component
	index     int
	params    FeatureParams
}

type operationType int

const (
	opAddFeature operationType = iota
	opRemoveFeature
	opSetParent
	opRemoveComponent
	opCancelled operationType = -1
)

type opQueue struct {
	featureOps    []operation
	hierarchyOps  []operation
	removeOps     []operation
	pendingRemove map[*Component]struct{}
	pendingParent map[*Component]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingRemove: make(map[*Component]struct{}),
		pendingParent: make(map[*Component]int),
	}
}

func (q *opQueue) enqueueFeatureOp(op operation) {
	if _, removed := q.pendingRemove[op.component]; removed {
		return
	}
	q.featureOps = append(q.featureOps, op)
}

// enqueueHierarchyOp queues a reparent. A later reparent of the same component
// replaces the earlier one.
func (q *opQueue) enqueueHierarchyOp(op operation) {
	if _, removed := q.pendingRemove[op.component]; removed {
		return
	}
	if idx, exists := q.pendingParent[op.component]; exists {
		q.hierarchyOps[idx].target = op.target
		return
	}
	q.pendingParent[op.component] = len(q.hierarchyOps)
	q.hierarchyOps = append(q.hierarchyOps, op)
}

// enqueueRemove queues a removal and cancels queued edits of the component.
func (q *opQueue) enqueueRemove(c *Component) {
	if _, exists := q.pendingRemove[c]; exists {
		return
	}
	q.pendingRemove[c] = struct{}{}
	for i := range q.featureOps {
		if q.featureOps[i].component == c {
			q.featureOps[i].typ = opCancelled
		}
	}
	if idx, hasParentOp := q.pendingParent[c]; hasParentOp {
		q.hierarchyOps[idx].typ = opCancelled
		delete(q.pendingParent, c)
	}
	q.removeOps = append(q.removeOps, operation{typ: opRemoveComponent, component: c})
}

func (q *opQueue) empty() bool {
	return len(q.featureOps) == 0 &&
		len(q.hierarchyOps) == 0 &&
		len(q.removeOps) == 0
}

func (q *opQueue) clear() {
	q.featureOps = q.featureOps[:0]
	q.hierarchyOps = q.hierarchyOps[:0]
	q.removeOps = q.removeOps[:0]
	clear(q.pendingRemove)
	clear(q.pendingParent)
}

// processOperationQueue applies feature edits, then reparents, then removals.
// The queue is cleared even when an operation fails; the first error is returned.
func (e *Effect) processOperationQueue() error {
	if e.opQueue.empty() {
		return nil
	}
	defer e.opQueue.clear()

	var firstErr error
	fail := func(op operation, err error) {
		e.log.WithError(err).WithField("component", op.component.name).Warn("queued edit rejected")
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, op := range e.opQueue.featureOps {
		// Skip components removed directly since the op was queued
		if op.typ == opCancelled || op.component.effect != e {
			continue
		}
		switch op.typ {
		case opAddFeature:
			if _, err := op.component.addFeature(op.index, op.params); err != nil {
				fail(op, fmt.Errorf("failed to add queued feature: %w", err))
			}
		case opRemoveFeature:
			if err := op.component.removeFeature(op.index); err != nil {
				fail(op, fmt.Errorf("failed to remove queued feature: %w", err))
			}
		}
	}

	for _, op := range e.opQueue.hierarchyOps {
		if op.typ == opCancelled || op.component.effect != e {
			continue
		}
		// the tree may have changed since the op was validated
		if err := op.component.validateParent(op.target); err != nil {
			fail(op, err)
			continue
		}
		op.component.attach(op.target)
	}

	for _, op := range e.opQueue.removeOps {
		if op.component.effect != e {
			continue
		}
		if err := e.removeComponent(op.component); err != nil {
			fail(op, fmt.Errorf("failed to remove queued component: %w", err))
		}
	}
	return firstErr
}
