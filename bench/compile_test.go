package bench

import (
	"testing"

	"github.com/TheBitDrifter/pfx"
)

const (
	nEmitters = 200
	nChildren = 4
)

func newEffect(b *testing.B) *pfx.Effect {
	effect := pfx.Factory.NewEffect("bench")
	for i := 0; i < nEmitters; i++ {
		emitter, err := effect.AddComponent("emitter")
		if err != nil {
			b.Fatal(err)
		}
		addFeatures(b, emitter, "Spawn:Rate", "Life:Time", "Motion:Physics", "Render:Sprites")
		for j := 0; j < nChildren; j++ {
			child, err := effect.AddComponent("child")
			if err != nil {
				b.Fatal(err)
			}
			addFeatures(b, child, "Spawn:Count", "Life:Time", "Render:Sprites")
			if err := child.SetParentComponent(emitter, false); err != nil {
				b.Fatal(err)
			}
		}
	}
	return effect
}

func addFeatures(b *testing.B, c *pfx.Component, names ...string) {
	for _, name := range names {
		params, ok := pfx.Features.Lookup(name)
		if !ok {
			b.Fatalf("%s not registered", name)
		}
		if _, err := c.AddFeature(c.NumFeatures(), params); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileAll(b *testing.B) {
	b.StopTimer()
	effect := newEffect(b)
	top := effect.TopComponents()
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for _, c := range top {
			c.SetChanged()
		}
		if err := effect.Compile(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileOne(b *testing.B) {
	b.StopTimer()
	effect := newEffect(b)
	if err := effect.Compile(); err != nil {
		b.Fatal(err)
	}
	target := effect.TopComponents()[nEmitters/2]
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		target.SetChanged()
		if err := effect.Compile(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCursorRender(b *testing.B) {
	b.StopTimer()
	effect := newEffect(b)
	if err := effect.Compile(); err != nil {
		b.Fatal(err)
	}
	query := pfx.Factory.NewQuery()
	query.And(pfx.StageRender, pfx.DataPosition)
	cursor := pfx.Factory.NewCursor(query, effect)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for cursor.Next() {
			_ = cursor.Component().UpdateList(pfx.StageRender)
		}
	}
}
