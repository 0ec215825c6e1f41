package ecs

import "fmt"

// System is a unit of work scheduled against a world, once at startup or
// once per frame.
type System struct {
	Name string
	Run  func(w *World) error
}

// RunSystems runs systems in order and stops at the first error, which is
// wrapped with the failing system's name.
func RunSystems(w *World, systems ...System) error {
	for _, s := range systems {
		if err := s.Run(w); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return nil
}
