package orthocam

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/notbadgun/orthocam/projection"
)

const (
	testDisplayW = 800
	testDisplayH = 600
)

func testView(pos mgl64.Vec3) mgl64.Mat4 {
	eye := pos.Sub(mgl64.Vec3{testDisplayW / 2, testDisplayH / 2, 0})
	return mgl64.LookAtV(eye, eye.Add(forward), up)
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	env := projection.Env{
		DisplayWidth:  testDisplayW,
		DisplayHeight: testDisplayH,
		WindowWidth:   1024,
		WindowHeight:  768,
	}
	reg := projection.NewRegistry()
	view := testView(mgl64.Vec3{120, -45, 0.5})

	points := []mgl64.Vec3{
		{0, 0, 0},
		{120, -45, 0.5},
		{400, 300, 0},
		{-250, 175, -0.25},
	}

	for _, id := range []string{projection.Stretch, projection.FixedAuto, projection.FixedZoom} {
		t.Run(id, func(t *testing.T) {
			proj := reg.Resolve(id)(env, -1, 1, 2)
			for _, p := range points {
				screen := Project(view, proj, p, testDisplayW, testDisplayH)
				back, err := Unproject(view, proj, screen, testDisplayW, testDisplayH)
				if err != nil {
					t.Fatalf("Unproject(%v): %v", screen, err)
				}
				if !vecNear(back, p, 1e-9) {
					t.Fatalf("round trip %v -> %v -> %v", p, screen, back)
				}
			}
		})
	}
}

func TestUnprojectProjectRoundTrip(t *testing.T) {
	reg := projection.NewRegistry()
	env := projection.Env{
		DisplayWidth:  testDisplayW,
		DisplayHeight: testDisplayH,
		WindowWidth:   testDisplayW,
		WindowHeight:  testDisplayH,
	}
	proj := reg.Resolve(projection.FixedAuto)(env, -1, 1, 1)
	view := testView(mgl64.Vec3{})

	screens := []mgl64.Vec3{
		{0, 0, 0},
		{testDisplayW, testDisplayH, 1},
		{testDisplayW / 2, testDisplayH / 2, 0.5},
		{12.5, 599, 0.25},
	}
	for _, sp := range screens {
		world, err := Unproject(view, proj, sp, testDisplayW, testDisplayH)
		if err != nil {
			t.Fatalf("Unproject(%v): %v", sp, err)
		}
		back := Project(view, proj, world, testDisplayW, testDisplayH)
		if !vecNear(back, sp, 1e-9) {
			t.Fatalf("round trip %v -> %v -> %v", sp, world, back)
		}
	}
}

func TestUnprojectSingular(t *testing.T) {
	var zero mgl64.Mat4
	if _, err := Unproject(zero, zero, mgl64.Vec3{1, 1, 0}, testDisplayW, testDisplayH); err == nil {
		t.Fatalf("Unproject with singular matrices did not fail")
	}
}

func TestWorldBoundsOf(t *testing.T) {
	reg := projection.NewRegistry()
	env := projection.Env{
		DisplayWidth:  testDisplayW,
		DisplayHeight: testDisplayH,
		WindowWidth:   testDisplayW,
		WindowHeight:  testDisplayH,
	}

	tests := []struct {
		name string
		pos  mgl64.Vec3
		zoom float64
		want Rect
	}{
		{
			name: "camera at origin zoom 1 sees one display",
			pos:  mgl64.Vec3{},
			zoom: 1,
			want: Rect{Left: -400, Bottom: -300, Right: 400, Top: 300},
		},
		{
			name: "moving the camera moves the window",
			pos:  mgl64.Vec3{1000, 250, 0},
			zoom: 1,
			want: Rect{Left: 600, Bottom: -50, Right: 1400, Top: 550},
		},
		{
			name: "zoom 2 halves the visible extent",
			pos:  mgl64.Vec3{},
			zoom: 2,
			want: Rect{Left: -200, Bottom: -150, Right: 200, Top: 150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj := reg.Resolve(projection.FixedAuto)(env, -1, 1, tt.zoom)
			got, err := WorldBoundsOf(testView(tt.pos), proj, testDisplayW, testDisplayH)
			if err != nil {
				t.Fatalf("WorldBoundsOf: %v", err)
			}
			if !rectNear(got, tt.want, 1e-9) {
				t.Fatalf("WorldBoundsOf = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRect(t *testing.T) {
	r := Rect{Left: 0, Bottom: 0, Right: 10, Top: 10}
	if r.Width() != 10 || r.Height() != 10 {
		t.Fatalf("Width/Height = %v/%v", r.Width(), r.Height())
	}
	if !r.Intersects(Rect{Left: 5, Bottom: 5, Right: 15, Top: 15}) {
		t.Fatalf("overlapping rects do not intersect")
	}
	if r.Intersects(Rect{Left: 11, Bottom: 0, Right: 20, Top: 10}) {
		t.Fatalf("disjoint rects intersect")
	}
	if !r.Contains(mgl64.Vec3{5, 5, 0}) || r.Contains(mgl64.Vec3{-1, 5, 0}) {
		t.Fatalf("Contains misclassifies")
	}
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func rectNear(a, b Rect, eps float64) bool {
	return math.Abs(a.Left-b.Left) <= eps &&
		math.Abs(a.Top-b.Top) <= eps &&
		math.Abs(a.Right-b.Right) <= eps &&
		math.Abs(a.Bottom-b.Bottom) <= eps
}
