package orthocam

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/notbadgun/orthocam/bus"
	"github.com/notbadgun/orthocam/config"
	"github.com/notbadgun/orthocam/projection"
	"github.com/notbadgun/orthocam/scene"
)

type fixture struct {
	store *Store
	graph *scene.Graph
	bus   *bus.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := scene.NewGraph()
	b := bus.New()
	s, err := NewStore(g, b, config.Display{Width: testDisplayW, Height: testDisplayH})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return &fixture{store: s, graph: g, bus: b}
}

// addCamera registers a camera at pos with default settings and returns
// its node.
func (f *fixture) addCamera(t *testing.T, id string, pos mgl64.Vec3) scene.ID {
	t.Helper()
	node := f.graph.Spawn(scene.Nil)
	f.graph.SetLocalPosition(node, pos)
	if err := f.store.Init(id, node, config.NewEndpoint(config.Defaults())); err != nil {
		t.Fatalf("Init(%q): %v", id, err)
	}
	return node
}

// viewCenter returns the world point at the center of the camera's
// frame, which for an unrotated camera is its position plus the combined
// effect offset.
func (f *fixture) viewCenter(id string) mgl64.Vec3 {
	return f.store.ScreenToWorld(id, mgl64.Vec3{testDisplayW / 2, testDisplayH / 2, 0.5})
}

func TestNewStorePreconditions(t *testing.T) {
	g := scene.NewGraph()
	b := bus.New()
	disp := config.Display{Width: 800, Height: 600}

	if _, err := NewStore(nil, b, disp); err == nil {
		t.Fatalf("NewStore with nil graph did not fail")
	}
	if _, err := NewStore(g, nil, disp); err == nil {
		t.Fatalf("NewStore with nil bus did not fail")
	}
	if _, err := NewStore(g, b, config.Display{Width: 0, Height: 600}); err == nil {
		t.Fatalf("NewStore with zero display width did not fail")
	}
}

func TestInitSeedsMatrices(t *testing.T) {
	f := newFixture(t)
	f.addCamera(t, "main", mgl64.Vec3{50, 60, 0})

	// The first projection exists before any update.
	wantProj := mgl64.Ortho(0, testDisplayW, 0, testDisplayH, -1, 1)
	if got := f.store.Projection("main"); !matNear(got, wantProj, 1e-9) {
		t.Fatalf("initial projection = %v, want %v", got, wantProj)
	}

	// The first view centers the frame on the owner's position.
	if got := f.viewCenter("main"); !vecNear(got, mgl64.Vec3{50, 60, 0}, 1e-9) {
		t.Fatalf("initial view center = %v, want owner position", got)
	}
	if f.store.Zoom("main") != 1 {
		t.Fatalf("initial zoom = %v", f.store.Zoom("main"))
	}
}

func TestInitErrors(t *testing.T) {
	f := newFixture(t)
	node := f.graph.Spawn(scene.Nil)
	endpoint := config.NewEndpoint(config.Defaults())

	if err := f.store.Init("cam", node, nil); !errors.Is(err, ErrNilEndpoint) {
		t.Fatalf("nil endpoint error = %v", err)
	}

	dead := f.graph.Spawn(scene.Nil)
	f.graph.Destroy(dead)
	if err := f.store.Init("cam", dead, endpoint); !errors.Is(err, ErrUnknownOwner) {
		t.Fatalf("dead owner error = %v", err)
	}

	if err := f.store.Init("cam", node, endpoint); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := f.store.Init("cam", node, endpoint); !errors.Is(err, ErrCameraExists) {
		t.Fatalf("duplicate id error = %v", err)
	}
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	f.addCamera(t, "main", mgl64.Vec3{})

	f.store.Remove("main")
	if f.store.Registered("main") {
		t.Fatalf("camera registered after Remove")
	}
	// Neutral getters after removal.
	if got := f.store.View("main"); !matNear(got, mgl64.Ident4(), 0) {
		t.Fatalf("View after Remove = %v, want identity", got)
	}
	if got := f.store.Projection("main"); !matNear(got, mgl64.Ident4(), 0) {
		t.Fatalf("Projection after Remove = %v, want identity", got)
	}
	if got := f.store.Zoom("main"); got != 1 {
		t.Fatalf("Zoom after Remove = %v, want 1", got)
	}
	// Update tolerates the stale id; Remove again is a no-op.
	f.store.Update("main", 1.0/60)
	f.store.Remove("main")
}

func TestReinitAfterRemove(t *testing.T) {
	f := newFixture(t)
	node := f.addCamera(t, "main", mgl64.Vec3{})
	f.store.Remove("main")

	second := config.NewEndpoint(config.Defaults())
	if err := f.store.Init("main", node, second); err != nil {
		t.Fatalf("re-Init: %v", err)
	}

	// Config messages still land on the new endpoint.
	f.store.SetZoom("main", 3)
	f.bus.Dispatch()
	if got := second.Settings().Zoom; got != 3 {
		t.Fatalf("zoom after re-init dispatch = %v, want 3", got)
	}
}

func TestEmptyIDPanics(t *testing.T) {
	f := newFixture(t)
	calls := map[string]func(){
		"Init":    func() { _ = f.store.Init("", scene.Nil, nil) },
		"Update":  func() { f.store.Update("", 0.016) },
		"View":    func() { f.store.View("") },
		"Follow":  func() { f.store.Follow("", scene.Nil) },
		"Shake":   func() { f.store.Shake("", 0, 0, ShakeBoth, nil) },
		"SetZoom": func() { f.store.SetZoom("", 2) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s with empty id did not panic", name)
				}
			}()
			call()
		})
	}
}

func TestUnknownCameraPanics(t *testing.T) {
	f := newFixture(t)
	defer func() {
		if recover() == nil {
			t.Fatalf("Shake on unknown camera did not panic")
		}
	}()
	f.store.Shake("ghost", 0, 0, ShakeBoth, nil)
}

func TestWindowSize(t *testing.T) {
	f := newFixture(t)
	if w, h := f.store.WindowSize(); w != testDisplayW || h != testDisplayH {
		t.Fatalf("initial window size = %vx%v, want display size", w, h)
	}
	f.store.SetWindowSize(1920, 1080)
	if w, h := f.store.WindowSize(); w != 1920 || h != 1080 {
		t.Fatalf("window size = %vx%v after set", w, h)
	}
	if w, h := f.store.DisplaySize(); w != testDisplayW || h != testDisplayH {
		t.Fatalf("display size = %vx%v, want fixed", w, h)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("SetWindowSize(0, …) did not panic")
		}
	}()
	f.store.SetWindowSize(0, 100)
}

func TestSetZoomValidation(t *testing.T) {
	f := newFixture(t)
	f.addCamera(t, "main", mgl64.Vec3{})
	defer func() {
		if recover() == nil {
			t.Fatalf("SetZoom(0) did not panic")
		}
	}()
	f.store.SetZoom("main", 0)
}

func TestSendViewProjection(t *testing.T) {
	f := newFixture(t)
	f.addCamera(t, "main", mgl64.Vec3{10, 20, 0})

	var got []ViewProjection
	f.bus.Subscribe(RenderTopic, func(msg any) {
		got = append(got, msg.(ViewProjection))
	})

	f.store.SendViewProjection("main")
	f.bus.Dispatch()

	if len(got) != 1 {
		t.Fatalf("received %d messages, want 1", len(got))
	}
	if got[0].Camera != "main" {
		t.Fatalf("message camera = %q", got[0].Camera)
	}
	if !matNear(got[0].View, f.store.View("main"), 0) ||
		!matNear(got[0].Projection, f.store.Projection("main"), 0) {
		t.Fatalf("published matrices differ from stored ones")
	}
}

func TestCustomProjectorViaRegistry(t *testing.T) {
	f := newFixture(t)
	f.addCamera(t, "main", mgl64.Vec3{})

	marker := mgl64.Ortho(-1, 1, -1, 1, -1, 1)
	f.store.Projectors().Register("HALF", func(projection.Env, float64, float64, float64) mgl64.Mat4 {
		return marker
	})
	f.store.UseProjection("main", "HALF")
	f.bus.Dispatch()
	f.store.Update("main", 1.0/60)

	if got := f.store.Projection("main"); !matNear(got, marker, 0) {
		t.Fatalf("custom projector not used: %v", got)
	}
}

func matNear(a, b mgl64.Mat4, eps float64) bool {
	for i := range a {
		if diff := a[i] - b[i]; diff > eps || diff < -eps {
			return false
		}
	}
	return true
}
