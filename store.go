package orthocam

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/notbadgun/orthocam/bus"
	"github.com/notbadgun/orthocam/config"
	"github.com/notbadgun/orthocam/projection"
	"github.com/notbadgun/orthocam/scene"
)

// RenderTopic is the bus topic SendViewProjection publishes to.
const RenderTopic = "render"

// Topic returns the bus topic a camera's configuration messages are
// delivered on. Posting config messages here by hand is equivalent to
// calling the corresponding Store method.
func Topic(id string) string {
	return "camera/" + id
}

// ViewProjection carries one camera's matrices to the render subsystem.
type ViewProjection struct {
	Camera     string
	View       mgl64.Mat4
	Projection mgl64.Mat4
}

// Init failure causes.
var (
	ErrCameraExists = errors.New("orthocam: camera id already registered")
	ErrUnknownOwner = errors.New("orthocam: owner node not alive in scene graph")
	ErrNilEndpoint  = errors.New("orthocam: config endpoint is required")
)

// Store registers cameras and runs their per-frame updates. It reads and
// writes node transforms through a scene graph, receives configuration
// over a bus, and resolves projection strategies against its registry.
//
// A Store is single-threaded by design: drive Init, Update and queries
// from one goroutine, the same one that dispatches the bus.
type Store struct {
	graph   *scene.Graph
	bus     *bus.Bus
	reg     *projection.Registry
	display config.Display
	windowW float64
	windowH float64
	rand    *rand.Rand

	cameras    map[string]*camera
	order      []string
	subscribed map[string]bool
}

// NewStore wires a camera store to its collaborators. The scene graph
// and bus are required and the display size must be positive; a bad
// argument is reported as an error before any camera can exist.
func NewStore(graph *scene.Graph, b *bus.Bus, display config.Display) (*Store, error) {
	if graph == nil {
		return nil, errors.New("orthocam: scene graph is required")
	}
	if b == nil {
		return nil, errors.New("orthocam: message bus is required")
	}
	if !display.Valid() {
		return nil, fmt.Errorf("orthocam: display size %dx%d must be positive", display.Width, display.Height)
	}
	return &Store{
		graph:      graph,
		bus:        b,
		reg:        projection.NewRegistry(),
		display:    display,
		windowW:    float64(display.Width),
		windowH:    float64(display.Height),
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		cameras:    map[string]*camera{},
		subscribed: map[string]bool{},
	}, nil
}

// Projectors returns the registry camera projection ids resolve against.
func (s *Store) Projectors() *projection.Registry {
	return s.reg
}

// Init registers a camera owned by the given scene node and seeds its
// first view and projection from the node's current transform. The
// endpoint stays owned by the caller; the store only reads it and routes
// bus messages to it.
func (s *Store) Init(id string, owner scene.ID, endpoint *config.Endpoint) error {
	mustID(id)
	if endpoint == nil {
		return fmt.Errorf("%w (camera %q)", ErrNilEndpoint, id)
	}
	if !s.graph.Alive(owner) {
		return fmt.Errorf("%w (camera %q)", ErrUnknownOwner, id)
	}
	if _, ok := s.cameras[id]; ok {
		return fmt.Errorf("%w (camera %q)", ErrCameraExists, id)
	}

	st := endpoint.Settings()
	world, _ := s.graph.WorldPosition(owner)
	rot, _ := s.graph.WorldRotation(owner)

	c := &camera{
		id:       id,
		node:     owner,
		endpoint: endpoint,
		view:     s.lookAt(world, rot, mgl64.Vec3{}),
		proj:     s.reg.Resolve(st.Projection)(s.projEnv(), st.NearZ, st.FarZ, st.Zoom),
		zoom:     st.Zoom,
	}
	s.cameras[id] = c
	s.order = append(s.order, id)

	// One routing subscription per topic, ever. It looks the camera up
	// at dispatch time so a Remove/Init cycle keeps working.
	if !s.subscribed[id] {
		s.subscribed[id] = true
		s.bus.Subscribe(Topic(id), func(msg any) {
			if cam, ok := s.cameras[id]; ok {
				cam.endpoint.Apply(msg)
			}
		})
	}
	return nil
}

// Remove unregisters a camera. Removing an unknown id is a no-op.
// After removal, Update on the id is harmless; other calls treat the id
// as unknown.
func (s *Store) Remove(id string) {
	mustID(id)
	if _, ok := s.cameras[id]; !ok {
		return
	}
	delete(s.cameras, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Registered reports whether id names a live camera.
func (s *Store) Registered(id string) bool {
	mustID(id)
	_, ok := s.cameras[id]
	return ok
}

// View returns the camera's view matrix from its last completed update,
// or the identity for ids that are not registered.
func (s *Store) View(id string) mgl64.Mat4 {
	mustID(id)
	if c, ok := s.cameras[id]; ok {
		return c.view
	}
	return mgl64.Ident4()
}

// Projection returns the camera's projection matrix from its last
// completed update, or the identity for ids that are not registered.
func (s *Store) Projection(id string) mgl64.Mat4 {
	mustID(id)
	if c, ok := s.cameras[id]; ok {
		return c.proj
	}
	return mgl64.Ident4()
}

// Zoom returns the zoom in effect at the camera's last update, or 1 for
// ids that are not registered.
func (s *Store) Zoom(id string) float64 {
	mustID(id)
	if c, ok := s.cameras[id]; ok {
		return c.zoom
	}
	return 1
}

// SetZoom requests a zoom change; it takes effect on the camera's next
// update. Zoom must be positive.
func (s *Store) SetZoom(id string, zoom float64) {
	mustID(id)
	if zoom <= 0 {
		panic("orthocam: zoom must be positive")
	}
	s.bus.Post(Topic(id), config.ZoomTo{Zoom: zoom})
}

// WindowSize returns the window size fixed-aspect projectors see.
func (s *Store) WindowSize() (w, h float64) {
	return s.windowW, s.windowH
}

// SetWindowSize records the actual window size. The host calls this on
// resize; there is no automatic detection. Both values must be positive.
func (s *Store) SetWindowSize(w, h float64) {
	if w <= 0 || h <= 0 {
		panic("orthocam: window size must be positive")
	}
	s.windowW, s.windowH = w, h
}

// DisplaySize returns the fixed design-time resolution.
func (s *Store) DisplaySize() (w, h int) {
	return s.display.Width, s.display.Height
}

// SendViewProjection publishes the camera's current matrices to
// RenderTopic. Call it after updates, then dispatch the bus.
func (s *Store) SendViewProjection(id string) {
	c := s.mustCamera(id)
	s.bus.Post(RenderTopic, ViewProjection{Camera: id, View: c.view, Projection: c.proj})
}

func (s *Store) projEnv() projection.Env {
	return projection.Env{
		DisplayWidth:  float64(s.display.Width),
		DisplayHeight: float64(s.display.Height),
		WindowWidth:   s.windowW,
		WindowHeight:  s.windowH,
	}
}

func (s *Store) centerOffset() mgl64.Vec3 {
	return mgl64.Vec3{float64(s.display.Width) / 2, float64(s.display.Height) / 2, 0}
}

func (s *Store) mustCamera(id string) *camera {
	mustID(id)
	c, ok := s.cameras[id]
	if !ok {
		panic("orthocam: unknown camera " + id)
	}
	return c
}

func mustID(id string) {
	if id == "" {
		panic("orthocam: camera id is required")
	}
}
