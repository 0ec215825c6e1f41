// Package render draws a scene hierarchy onto a viewport surface.
//
// A Pass walks the tree below the surface's root entity in pre-order,
// composing each entity's geom.Transform onto the transform of its parent
// and handing its sprite to the renderer registered for the sprite's kind.
// Children are visited in the order stored in their parent's scene.Node.
//
// The pass keeps the active matrices on an explicit stack instead of
// relying on canvas Save/Restore, so the canvas transform after a frame is
// exactly the surface's base transform.
package render
