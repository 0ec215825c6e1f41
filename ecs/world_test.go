package ecs

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

type position struct{ X, Y float64 }
type label struct{ Name string }

type greeter interface{ Greet() string }
type english struct{}

func (english) Greet() string { return "hello" }

func TestWorldSpawnAndGet(t *testing.T) {
	w := NewWorld()
	e := w.Spawn(&position{1, 2}, &label{"a"})

	if !e.Valid() {
		t.Fatal("Spawn returned Nil")
	}
	p, ok := Get[position](w, e)
	if !ok || p.X != 1 || p.Y != 2 {
		t.Fatalf("Get[position] = %v, %v", p, ok)
	}
	// Components are stored by pointer: writes are visible to later reads.
	p.X = 10
	p2, _ := Get[position](w, e)
	if p2.X != 10 {
		t.Errorf("component write not visible, got X=%v", p2.X)
	}
	if !Has[label](w, e) {
		t.Error("Has[label] = false")
	}
}

func TestWorldAddErrors(t *testing.T) {
	w := NewWorld()
	if err := w.Add(42, &position{}); !errors.Is(err, ErrNoEntity) {
		t.Errorf("Add to unknown entity: err = %v, want ErrNoEntity", err)
	}
	e := w.Spawn()
	if err := w.Add(e, position{}); !errors.Is(err, ErrNotPointer) {
		t.Errorf("Add non-pointer: err = %v, want ErrNotPointer", err)
	}
	var nilPos *position
	if err := w.Add(e, nilPos); !errors.Is(err, ErrNotPointer) {
		t.Errorf("Add nil pointer: err = %v, want ErrNotPointer", err)
	}
}

func TestWorldSpawnPanicsOnValue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Spawn(value) did not panic")
		}
	}()
	NewWorld().Spawn(position{})
}

func TestWorldQueryOrder(t *testing.T) {
	w := NewWorld()
	var want []Entity
	for i := range 5 {
		e := w.Spawn(&label{fmt.Sprint(i)})
		if i%2 == 0 {
			if err := w.Add(e, &position{}); err != nil {
				t.Fatal(err)
			}
			want = append(want, e)
		}
	}
	if got := Query[position](w); !slices.Equal(got, want) {
		t.Errorf("Query[position] = %v, want %v", got, want)
	}
}

func TestWorldRemoveAndDespawn(t *testing.T) {
	w := NewWorld()
	e := w.Spawn(&position{}, &label{})
	w.Remove(e, KindOf[label]())
	if Has[label](w, e) {
		t.Error("label still attached after Remove")
	}
	w.Despawn(e)
	if w.Alive(e) || w.Len() != 0 {
		t.Error("entity alive after Despawn")
	}
	if _, ok := Get[position](w, e); ok {
		t.Error("Get on despawned entity succeeded")
	}
}

func TestWorldRegistered(t *testing.T) {
	w := NewWorld()
	if Registered[position](w) {
		t.Error("position registered in empty world")
	}
	w.Register(KindOf[position]())
	if !Registered[position](w) {
		t.Error("Register did not register kind")
	}
	w.Spawn(&label{})
	if !Registered[label](w) {
		t.Error("Spawn did not register kind")
	}
}

func TestWorldResources(t *testing.T) {
	w := NewWorld()
	if _, ok := GetResource[greeter](w); ok {
		t.Error("resource present in empty world")
	}
	SetResource[greeter](w, english{})
	g, ok := GetResource[greeter](w)
	if !ok || g.Greet() != "hello" {
		t.Fatalf("GetResource[greeter] = %v, %v", g, ok)
	}
	RemoveResource[greeter](w)
	if _, ok := GetResource[greeter](w); ok {
		t.Error("resource present after RemoveResource")
	}
}

func TestRunSystemsStopsAtFirstError(t *testing.T) {
	w := NewWorld()
	errBoom := errors.New("boom")
	var ran []string
	err := RunSystems(w,
		System{Name: "a", Run: func(*World) error { ran = append(ran, "a"); return nil }},
		System{Name: "b", Run: func(*World) error { ran = append(ran, "b"); return errBoom }},
		System{Name: "c", Run: func(*World) error { ran = append(ran, "c"); return nil }},
	)
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if err.Error() != "b: boom" {
		t.Errorf("err = %q, want %q", err.Error(), "b: boom")
	}
	if !slices.Equal(ran, []string{"a", "b"}) {
		t.Errorf("ran = %v", ran)
	}
}
