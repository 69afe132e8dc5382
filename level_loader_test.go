// Copyright © 2024 Galvanized Logic Inc.

package forge

import (
	"testing"

	"github.com/ninthmoon/forge/object"
	"github.com/ninthmoon/forge/physics"
)

type torchClass struct{ desc *object.Descriptor }

func (t *torchClass) Class() *object.Descriptor { return t.desc }
func (t *torchClass) InitializeActor(a *Actor) {
	NewLight(a, 1, LightPoint)
}

func TestLoadLevelSpawnsRegisteredClasses(t *testing.T) {
	classes := object.NewFactory("actors")
	var desc *object.Descriptor
	desc = classes.Register("torch", nil, func() object.Object { return &torchClass{desc: desc} })

	w := NewWorld(60, physics.AccumulatorMode)
	manifest := []byte("actors:\n  - class: torch\n    position: [1, 2, 3]\n")

	if err := LoadLevel(w.Persistent, classes, manifest); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if len(w.Persistent.Actors()) != 1 {
		t.Fatalf("expected one spawned actor, got %d", len(w.Persistent.Actors()))
	}
	a := w.Persistent.Actors()[0]
	pos := a.Root().Position()
	if pos.X != 1 || pos.Y != 2 || pos.Z != 3 {
		t.Fatalf("spawn position = %+v, want (1,2,3)", pos)
	}
	if len(a.Components()) != 1 {
		t.Fatalf("expected InitializeActor to attach a component, got %d", len(a.Components()))
	}
}

func TestLoadLevelRejectsUnknownClass(t *testing.T) {
	classes := object.NewFactory("actors")
	w := NewWorld(60, physics.AccumulatorMode)
	manifest := []byte("actors:\n  - class: nonexistent\n")

	if err := LoadLevel(w.Persistent, classes, manifest); err == nil {
		t.Fatalf("expected an error for an unregistered class")
	}
}
