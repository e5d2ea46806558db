// Package script drives cameras from tengo scripts.
//
// A Director compiles one script and runs it every frame. The script
// must define two top-level functions:
//
//	on_start := func(camera, state) { ... }
//	on_update := func(camera, state, dt) { ... }
//
// on_start runs once before the first on_update. camera is a module of
// store operations, state is a persistent map for script data. The
// whole program re-executes on every phase, so top-level variables
// reset each run; anything that must survive a frame goes in state.
//
//	on_update := func(camera, state, dt) {
//		if state.intro_done == undefined {
//			camera.follow("main", "player", 0.15)
//			camera.deadzone("main", 40, 60, 40, 30)
//			state.intro_done = true
//		}
//	}
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/notbadgun/orthocam"
	"github.com/notbadgun/orthocam/scene"
)

const directorDispatch = `
if __phase == "start" {
	on_start(__camera, __state)
} else if __phase == "update" {
	on_update(__camera, __state, __dt)
}
`

// Director owns a compiled camera script and the state it accumulates.
// Not safe for concurrent use.
type Director struct {
	store    *orthocam.Store
	graph    *scene.Graph
	compiled *tengo.Compiled
	state    *tengo.Map
	names    map[string]scene.ID
	started  bool
}

// NewDirector compiles src and runs its top level once, so compile and
// load-time errors surface here rather than on the first frame.
func NewDirector(store *orthocam.Store, graph *scene.Graph, src []byte) (*Director, error) {
	if store == nil {
		return nil, errors.New("script: camera store is required")
	}
	if graph == nil {
		return nil, errors.New("script: scene graph is required")
	}

	program := tengo.NewScript(append(append([]byte{}, src...), directorDispatch...))
	_ = program.Add("__phase", "")
	_ = program.Add("__camera", map[string]any{})
	_ = program.Add("__state", map[string]any{})
	_ = program.Add("__dt", 0.0)
	program.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := program.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}

	d := &Director{
		store:    store,
		graph:    graph,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		names:    map[string]scene.ID{},
	}
	if err := d.runPhase("noop", 0); err != nil {
		return nil, fmt.Errorf("script: load: %w", err)
	}
	return d, nil
}

// Bind exposes a scene node to the script under name. Scripts pass the
// name to follow, position and set_position. Rebinding replaces the
// node.
func (d *Director) Bind(name string, node scene.ID) {
	d.names[name] = node
}

// Update runs on_start on the first call, then on_update every call.
func (d *Director) Update(dt float64) error {
	if !d.started {
		if err := d.runPhase("start", dt); err != nil {
			return fmt.Errorf("script: on_start: %w", err)
		}
		d.started = true
	}
	if err := d.runPhase("update", dt); err != nil {
		return fmt.Errorf("script: on_update: %w", err)
	}
	return nil
}

func (d *Director) runPhase(phase string, dt float64) error {
	if err := d.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := d.compiled.Set("__camera", d.cameraModule()); err != nil {
		return err
	}
	if err := d.compiled.Set("__state", d.state); err != nil {
		return err
	}
	if err := d.compiled.Set("__dt", dt); err != nil {
		return err
	}
	return d.compiled.Run()
}

// cameraModule builds the store bindings handed to the script. Every
// function tolerates bad arguments and unknown cameras by returning
// false; scripts should not be able to crash the game.
func (d *Director) cameraModule() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	reg := func(name string, fn tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: fn}
	}

	reg("follow", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		node, bound := d.names[objectAsString(args[1])]
		if !bound {
			return tengo.FalseValue, nil
		}
		if len(args) > 2 {
			lerp, ok := floatArg(args[2])
			if !ok {
				return tengo.FalseValue, nil
			}
			d.store.FollowWithLerp(id, node, lerp)
		} else {
			d.store.Follow(id, node)
		}
		return tengo.TrueValue, nil
	})

	reg("unfollow", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok {
			return tengo.FalseValue, nil
		}
		d.store.Unfollow(id)
		return tengo.TrueValue, nil
	})

	reg("deadzone", func(args ...tengo.Object) (tengo.Object, error) {
		id, edges, ok := edgesArg(d.store, args)
		if !ok {
			return tengo.FalseValue, nil
		}
		d.store.SetDeadzone(id, edges[0], edges[1], edges[2], edges[3])
		return tengo.TrueValue, nil
	})

	reg("clear_deadzone", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok {
			return tengo.FalseValue, nil
		}
		d.store.ClearDeadzone(id)
		return tengo.TrueValue, nil
	})

	reg("bounds", func(args ...tengo.Object) (tengo.Object, error) {
		id, edges, ok := edgesArg(d.store, args)
		if !ok {
			return tengo.FalseValue, nil
		}
		d.store.SetBounds(id, edges[0], edges[1], edges[2], edges[3])
		return tengo.TrueValue, nil
	})

	reg("clear_bounds", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok {
			return tengo.FalseValue, nil
		}
		d.store.ClearBounds(id)
		return tengo.TrueValue, nil
	})

	reg("use_projection", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		d.store.UseProjection(id, objectAsString(args[1]))
		return tengo.TrueValue, nil
	})

	reg("zoom_to", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		zoom, ok := floatArg(args[1])
		if !ok || zoom <= 0 {
			return tengo.FalseValue, nil
		}
		d.store.SetZoom(id, zoom)
		return tengo.TrueValue, nil
	})

	reg("zoom", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Float{Value: d.store.Zoom(id)}, nil
	})

	reg("shake", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok {
			return tengo.FalseValue, nil
		}
		var intensity, duration float64
		dir := orthocam.ShakeBoth
		if len(args) > 1 {
			intensity, _ = floatArg(args[1])
		}
		if len(args) > 2 {
			duration, _ = floatArg(args[2])
		}
		if len(args) > 3 {
			dir = parseDirection(objectAsString(args[3]))
		}
		d.store.Shake(id, intensity, duration, dir, nil)
		return tengo.TrueValue, nil
	})

	reg("stop_shaking", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok {
			return tengo.FalseValue, nil
		}
		d.store.StopShaking(id)
		return tengo.TrueValue, nil
	})

	reg("recoil", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		x, okX := floatArg(args[1])
		y, okY := floatArg(args[2])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		var duration float64
		if len(args) > 3 {
			duration, _ = floatArg(args[3])
		}
		d.store.Recoil(id, mgl64.Vec3{x, y, 0}, duration)
		return tengo.TrueValue, nil
	})

	reg("snap", func(args ...tengo.Object) (tengo.Object, error) {
		id, ok := cameraArg(d.store, args)
		if !ok {
			return tengo.FalseValue, nil
		}
		d.store.Snap(id)
		return tengo.TrueValue, nil
	})

	reg("position", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		node, bound := d.names[objectAsString(args[0])]
		if !bound {
			return tengo.UndefinedValue, nil
		}
		pos, alive := d.graph.WorldPosition(node)
		if !alive {
			return tengo.UndefinedValue, nil
		}
		return vec2Array(pos), nil
	})

	reg("set_position", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 {
			return tengo.FalseValue, nil
		}
		node, bound := d.names[objectAsString(args[0])]
		if !bound {
			return tengo.FalseValue, nil
		}
		x, okX := floatArg(args[1])
		y, okY := floatArg(args[2])
		local, alive := d.graph.LocalPosition(node)
		if !okX || !okY || !alive {
			return tengo.FalseValue, nil
		}
		d.graph.SetLocalPosition(node, mgl64.Vec3{x, y, local[2]})
		return tengo.TrueValue, nil
	})

	reg("screen_to_world", func(args ...tengo.Object) (tengo.Object, error) {
		id, sx, sy, ok := pointArg(d.store, args)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return vec2Array(d.store.ScreenToWorld(id, mgl64.Vec3{sx, sy, 0.5})), nil
	})

	reg("world_to_screen", func(args ...tengo.Object) (tengo.Object, error) {
		id, x, y, ok := pointArg(d.store, args)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return vec2Array(d.store.WorldToScreen(id, mgl64.Vec3{x, y, 0})), nil
	})

	reg("display_size", func(args ...tengo.Object) (tengo.Object, error) {
		w, h := d.store.DisplaySize()
		return vec2Array(mgl64.Vec3{float64(w), float64(h), 0}), nil
	})

	reg("window_size", func(args ...tengo.Object) (tengo.Object, error) {
		w, h := d.store.WindowSize()
		return vec2Array(mgl64.Vec3{w, h, 0}), nil
	})

	return &tengo.ImmutableMap{Value: values}
}

// cameraArg pulls the leading camera id and checks it is registered.
func cameraArg(store *orthocam.Store, args []tengo.Object) (string, bool) {
	if len(args) < 1 {
		return "", false
	}
	id := objectAsString(args[0])
	if id == "" || !store.Registered(id) {
		return "", false
	}
	return id, true
}

// edgesArg pulls a camera id and four edge values.
func edgesArg(store *orthocam.Store, args []tengo.Object) (string, [4]float64, bool) {
	var edges [4]float64
	id, ok := cameraArg(store, args)
	if !ok || len(args) < 5 {
		return "", edges, false
	}
	for i := range edges {
		v, ok := floatArg(args[i+1])
		if !ok {
			return "", edges, false
		}
		edges[i] = v
	}
	return id, edges, true
}

// pointArg pulls a camera id and an x, y pair.
func pointArg(store *orthocam.Store, args []tengo.Object) (string, float64, float64, bool) {
	id, ok := cameraArg(store, args)
	if !ok || len(args) < 3 {
		return "", 0, 0, false
	}
	x, okX := floatArg(args[1])
	y, okY := floatArg(args[2])
	if !okX || !okY {
		return "", 0, 0, false
	}
	return id, x, y, true
}

func parseDirection(s string) orthocam.Direction {
	switch s {
	case "horizontal":
		return orthocam.ShakeHorizontal
	case "vertical":
		return orthocam.ShakeVertical
	default:
		return orthocam.ShakeBoth
	}
}

func vec2Array(v mgl64.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v[0]},
		&tengo.Float{Value: v[1]},
	}}
}

func floatArg(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	}
	return 0, false
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return strings.Trim(obj.String(), "\"")
}
