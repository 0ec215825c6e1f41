package ggstage

import "errors"

// Startup and frame errors.
var (
	// ErrMissingClock is returned by Startup when the world has no
	// clock.Clock resource.
	ErrMissingClock = errors.New("ggstage: requires a clock resource (time source)")

	// ErrMissingTransform is returned by Startup when the geom.Transform
	// component is not registered in the world.
	ErrMissingTransform = errors.New("ggstage: requires the geom.Transform component")

	// ErrAlreadyStarted is returned by a second call to Startup.
	ErrAlreadyStarted = errors.New("ggstage: already started")

	// ErrNoSurface is returned by frame systems when no surface exists.
	ErrNoSurface = errors.New("ggstage: no surface")

	// ErrMultipleSurfaces is returned when more than one surface exists.
	ErrMultipleSurfaces = errors.New("ggstage: more than one surface")
)
