// Copyright © 2024 Galvanized Logic Inc.

package forge

// level_loader.go: loading a level's actor manifest from YAML. Grounded
// on gazed-vu/load/shd.go's yaml.Unmarshal-into-a-config-struct pattern
// (string-keyed config kept readable rather than binary), applied here to
// spawning actors from class names via the object package's factories
// instead of vu's shader stage config.

import (
	"fmt"

	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/object"
	"gopkg.in/yaml.v3"
)

// actorSpawn is one entry of a level manifest: the registered class name
// to construct plus its spawn transform.
type actorSpawn struct {
	Class    string    `yaml:"class"`
	Position []float64 `yaml:"position"`
}

// levelManifest is the top-level shape of a level YAML file: a flat list
// of actors to spawn into the level on load.
type levelManifest struct {
	Actors []actorSpawn `yaml:"actors"`
}

// LoadLevel parses a level manifest and spawns its actors into level,
// resolving each entry's class name against classes, per spec §4.4's
// spawn_actor contract (resolve descriptor by name, fail if unknown).
func LoadLevel(level *Level, classes *object.Factory, data []byte) error {
	var manifest levelManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("forge: level manifest: %w", err)
	}
	for i, spawn := range manifest.Actors {
		obj := classes.CreateByName(spawn.Class)
		if obj == nil {
			return fmt.Errorf("forge: level manifest entry %d: unknown class %q", i, spawn.Class)
		}
		spawner, ok := obj.(ActorSpawner)
		if !ok {
			return fmt.Errorf("forge: level manifest entry %d: class %q does not spawn an actor", i, spawn.Class)
		}
		a := level.SpawnActor()
		if len(spawn.Position) == 3 {
			a.Root().SetPosition(lin.V3{X: spawn.Position[0], Y: spawn.Position[1], Z: spawn.Position[2]})
		}
		spawner.InitializeActor(a)
	}
	return nil
}

// ActorSpawner is implemented by a registered class's constructed object
// when it wants to attach components to a freshly spawned Actor, per
// spec §4.4 step 4's "clone attributes, then call actor.initialize".
type ActorSpawner interface {
	InitializeActor(a *Actor)
}
