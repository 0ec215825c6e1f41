// Package viewport keeps a drawing surface consistent with the host it is
// displayed in.
//
// A Surface has a logical size in viewport units, centred on the origin
// with y pointing up. Its canvas buffer is the logical size multiplied by
// the host's device pixel ratio, and its base transform maps logical
// coordinates to buffer pixels:
//
//	x' =  dpr*x + bufferWidth/2
//	y' = -dpr*y + bufferHeight/2
//
// ReconcileSize follows host resizes, keeping the logical width and
// deriving the height from the host aspect ratio. ReconcileZoom scales the
// logical width by the change in zoom. Both are idempotent: with nothing
// changed they do nothing.
package viewport
