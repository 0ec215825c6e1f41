// Package ecs is a small entity-component store.
//
// The render pass and the surface reconciler only depend on the [Store]
// interface, so any entity system that can answer "component of kind K on
// entity E" can drive them. [World] is the in-memory implementation used by
// the ggstage plugin, its tests and the command-line demo.
//
// Components are stored as pointers and keyed by the reflect.Type of the
// pointed-to struct:
//
//	w := ecs.NewWorld()
//	e := w.Spawn(&geom.Transform{}, &sprite.Sprite{Kind: sprite.Rectangle})
//	tr, ok := ecs.Get[geom.Transform](w, e)
//
// Resources are world-global values keyed by their static type:
//
//	ecs.SetResource[clock.Clock](w, clock.System())
//	clk, ok := ecs.GetResource[clock.Clock](w)
//
// World is safe for concurrent use.
package ecs
