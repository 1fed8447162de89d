package pfx

import (
	"fmt"

	"github.com/TheBitDrifter/table"
)

// ComponentID is the stable handle of a component within its effect.
// Zero is never a valid id.
type ComponentID uint32

type componentNode struct {
	component *Component
}

var (
	nodeElement  = table.FactoryNewElementType[componentNode]()
	nodeAccessor = table.FactoryNewAccessor[componentNode](nodeElement)
)

// componentArena stores the components of one effect in a table. Table entry
// ids double as component ids. Rows move on delete, so every lookup resolves
// the current row through the entry index.
type componentArena struct {
	table      table.Table
	entryIndex table.EntryIndex
	live       map[ComponentID]struct{}
}

func newComponentArena() (*componentArena, error) {
	schema := table.Factory.NewSchema()
	entryIndex := table.Factory.NewEntryIndex()
	tbl, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(entryIndex).
		WithElementTypes(nodeElement).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return nil, err
	}
	return &componentArena{
		table:      tbl,
		entryIndex: entryIndex,
		live:       make(map[ComponentID]struct{}),
	}, nil
}

func (a *componentArena) insert(c *Component) (ComponentID, error) {
	entries, err := a.table.NewEntries(1)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate component slot: %w", err)
	}
	entry := entries[0]
	id := ComponentID(entry.ID())
	nodeAccessor.Get(entry.Index(), a.table).component = c
	a.live[id] = struct{}{}
	return id, nil
}

// resolve returns the current entry of a live id. Ids start at 1.
func (a *componentArena) resolve(id ComponentID) (table.Entry, error) {
	if _, ok := a.live[id]; !ok {
		return nil, ComponentNotFoundError{ID: id}
	}
	entry, err := a.entryIndex.Entry(int(id) - 1)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve component %d: %w", id, err)
	}
	if entry.Index() < 0 || entry.Index() >= a.table.Length() {
		return nil, ComponentNotFoundError{ID: id}
	}
	return entry, nil
}

func (a *componentArena) get(id ComponentID) (*Component, bool) {
	entry, err := a.resolve(id)
	if err != nil {
		return nil, false
	}
	return nodeAccessor.Get(entry.Index(), a.table).component, true
}

func (a *componentArena) remove(id ComponentID) error {
	entry, err := a.resolve(id)
	if err != nil {
		return err
	}
	if _, err := a.table.DeleteEntries(entry.Index()); err != nil {
		return fmt.Errorf("failed to delete component slot: %w", err)
	}
	delete(a.live, id)
	return nil
}

func (a *componentArena) len() int {
	return len(a.live)
}
