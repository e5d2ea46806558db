package projection

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBuiltins(t *testing.T) {
	env := Env{
		DisplayWidth:  800,
		DisplayHeight: 600,
		WindowWidth:   1600,
		WindowHeight:  600,
	}

	tests := []struct {
		name string
		id   string
		zoom float64
		want mgl64.Mat4
	}{
		{
			name: "stretch ignores window and zoom",
			id:   Stretch,
			zoom: 3,
			want: mgl64.Ortho(0, 800, 0, 600, -1, 1),
		},
		{
			name: "default is stretch",
			id:   Default,
			zoom: 1,
			want: mgl64.Ortho(0, 800, 0, 600, -1, 1),
		},
		{
			name: "fixed auto fits display inside window",
			id:   FixedAuto,
			zoom: 1,
			// factor = min(1600/800, 600/600) = 1, so the volume is the
			// window size centered on the display area.
			want: mgl64.Ortho(-400, 1200, 0, 600, -1, 1),
		},
		{
			name: "fixed auto scales with zoom",
			id:   FixedAuto,
			zoom: 2,
			// factor = 2: volume halves to 800x300 centered on display.
			want: mgl64.Ortho(0, 800, 150, 450, -1, 1),
		},
		{
			name: "fixed zoom uses zoom directly",
			id:   FixedZoom,
			zoom: 2,
			// volume = 800x300 centered on display, same as above.
			want: mgl64.Ortho(0, 800, 150, 450, -1, 1),
		},
	}

	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.id)(env, -1, 1, tt.zoom)
			if !matNear(got, tt.want, 1e-9) {
				t.Fatalf("projector %q = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestFixedZoomMatchesDisplayWhenWindowDoubles(t *testing.T) {
	env := Env{
		DisplayWidth:  800,
		DisplayHeight: 600,
		WindowWidth:   1600,
		WindowHeight:  1200,
	}
	got := NewRegistry().Resolve(FixedZoom)(env, -1, 1, 2)
	want := mgl64.Ortho(0, 800, 0, 600, -1, 1)
	if !matNear(got, want, 1e-9) {
		t.Fatalf("fixed zoom 2 at doubled window = %v, want display volume %v", got, want)
	}
}

func TestResolveUnknownFallsBack(t *testing.T) {
	r := NewRegistry()
	env := Env{DisplayWidth: 320, DisplayHeight: 200, WindowWidth: 320, WindowHeight: 200}

	got := r.Resolve("NO_SUCH_PROJECTOR")(env, -1, 1, 1)
	want := r.Resolve(Default)(env, -1, 1, 1)
	if !matNear(got, want, 0) {
		t.Fatalf("unknown id resolved to %v, want default %v", got, want)
	}
	if r.Has("NO_SUCH_PROJECTOR") {
		t.Fatalf("Has reports unknown id as registered")
	}
}

func TestRegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	marker := mgl64.Ident4().Mul(2)
	r.Register("custom", func(Env, float64, float64, float64) mgl64.Mat4 {
		return mgl64.Ident4()
	})
	r.Register("custom", func(Env, float64, float64, float64) mgl64.Mat4 {
		return marker
	})

	got := r.Resolve("custom")(Env{}, -1, 1, 1)
	if !matNear(got, marker, 0) {
		t.Fatalf("second registration did not overwrite: got %v", got)
	}
}

func TestRegisterPreconditions(t *testing.T) {
	r := NewRegistry()

	t.Run("empty id", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatalf("Register with empty id did not panic")
			}
		}()
		r.Register("", stretch)
	})

	t.Run("nil func", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatalf("Register with nil func did not panic")
			}
		}()
		r.Register("x", nil)
	})
}

func matNear(a, b mgl64.Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
