// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/core"
)

// ErrUnknownScene is returned by Create for an unregistered ID.
var ErrUnknownScene = errors.New("registry: unknown scene")

// Scene is a workload driven by a fixed-step loop. It keeps two copies of its
// simulated state, the one before the last fixed step and the one after, so
// Render can blend them by alpha.
// Scenes contain pure logic with no Bubble Tea dependency.
type Scene interface {
	// ID returns a unique identifier (e.g. "bounce"), used by the CLI and
	// the run store.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes the scene for the given viewport and seed.
	Reset(cfg core.RuntimeConfig)

	// Update runs once per frame with the raw frame delta and the input
	// collected since the previous frame.
	Update(in core.InputFrame, deltaTime time.Duration)

	// FixedUpdate advances the simulation by exactly one fixed step.
	FixedUpdate(fixedDeltaTime time.Duration)

	// Render draws the state interpolated by alpha into dst.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen, alpha float64)

	// State reports simulation progress.
	State() core.SceneState
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
}

// Factory creates a new scene instance from its configuration section.
type Factory func(cfg config.ScenesConfig) Scene

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f
	titles[id] = f(config.Default().Scenes).Title()
}

// List returns all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SceneInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a scene by its ID.
func Create(id string, cfg config.ScenesConfig) (Scene, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, id)
	}
	return f(cfg), nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
