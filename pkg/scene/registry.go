package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// Builder creates a scene. Seed only affects scenes with random layouts.
type Builder func(seed uint64) (*Scene, error)

// SceneInfo describes a built-in scene for listings
type SceneInfo struct {
	ID          string `json:"id"`          // Registry key, e.g. "three-spheres"
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
	Seeded      bool   `json:"seeded"` // Layout changes with the seed
}

type entry struct {
	info  SceneInfo
	build Builder
}

var registry = map[string]entry{}

func register(id, description string, seeded bool, build Builder) {
	registry[id] = entry{
		info: SceneInfo{
			ID:          id,
			DisplayName: titleCase(id),
			Description: description,
			Seeded:      seeded,
		},
		build: build,
	}
}

func init() {
	register("two-spheres", "Diffuse sphere on a ground sphere, pinhole camera", false,
		func(uint64) (*Scene, error) { return NewTwoSphereScene(), nil })
	register("three-spheres", "Diffuse, hollow glass and gold spheres with depth of field", false,
		func(uint64) (*Scene, error) { return NewThreeSphereScene(), nil })
	register("random-world", "Hundreds of small random spheres around three large ones", true,
		func(seed uint64) (*Scene, error) { return NewRandomWorldScene(seed), nil })
	register("palette", "Named SVG colors on diffuse spheres", false,
		func(uint64) (*Scene, error) { return NewPaletteScene() })
}

// New builds the scene registered under name
func New(name string, seed uint64) (*Scene, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return e.build(seed)
}

// Names returns the registered scene names, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for every registered scene, sorted by ID
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(registry))
	for _, name := range Names() {
		infos = append(infos, registry[name].info)
	}
	return infos
}

// titleCase converts a registry key to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}
