package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when no built-in scene has the requested name
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name passed to New
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
}

type builtin struct {
	description string
	create      func() *Scene
}

var builtins = map[string]builtin{
	"default": {
		description: "Diffuse sphere resting on a large ground sphere",
		create:      NewDefaultScene,
	},
	"materials": {
		description: "Diffuse, hollow glass and metal spheres with depth of field",
		create:      NewMaterialsScene,
	},
	"checker": {
		description: "Two large spheres with a checker texture",
		create:      NewCheckerScene,
	},
	"random": {
		description: "Hundreds of random small spheres around three large ones, accelerated by a BVH",
		create:      func() *Scene { return NewRandomScene(DefaultRandomSeed) },
	},
}

// New creates the built-in scene with the given name
func New(name string) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return b.create(), nil
}

// Exists reports whether a built-in scene has the given name, without building it
func Exists(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Names returns the names of all built-in scenes in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for all built-in scenes, sorted by name
func List() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range Names() {
		scenes = append(scenes, SceneInfo{
			ID:          name,
			DisplayName: titleCase(name),
			Description: builtins[name].description,
		})
	}
	return scenes
}

// titleCase converts a scene name to title case
// e.g., "random-spheres" -> "Random Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
