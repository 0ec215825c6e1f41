// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggstage renders a hierarchy of 2D sprites onto a resizable,
// zoomable surface.
//
// # Overview
//
// A stage is a Plugin installed into an ecs.World. Startup checks that the
// world provides a clock and the geom.Transform component, creates the
// drawing surface inside a viewport.Host and spawns the root entity of the
// scene. Every frame, three systems run in order:
//
//   - resize follows changes of the host's client size
//   - zoom applies a changed zoom factor
//   - render draws the scene below the root
//
// # Quick Start
//
//	w := ecs.NewWorld()
//	w.Register(ecs.KindOf[geom.Transform]())
//	ecs.SetResource[clock.Clock](w, clock.System())
//
//	host := viewport.NewStaticHost(800, 600, 1)
//	stage := ggstage.New(ggstage.WithHost(host))
//	if err := stage.Startup(w); err != nil {
//	    log.Fatal(err)
//	}
//
//	box := w.Spawn(
//	    sprite.New(sprite.Rectangle, sprite.WithFill("tomato")),
//	    geom.NewTransform(geom.V(0, 0), geom.V(200, 100)),
//	    &scene.Node{},
//	)
//	_ = scene.Attach(w, stage.Root(), box)
//
//	if err := stage.Frame(w); err != nil {
//	    log.Fatal(err)
//	}
//
// # Coordinate System
//
// Logical coordinates are centred on the surface with y pointing up. The
// surface is Settings.Width units wide; its height follows the host's
// aspect ratio. Each entity's transform is relative to its parent.
package ggstage
