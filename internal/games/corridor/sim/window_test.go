package sim

import (
	"errors"
	"math"
	"testing"
)

func TestNewWindowErrors(t *testing.T) {
	good := obstacleLayout()
	tests := []struct {
		name   string
		world  *fakeWorld
		scene  Scene
		layout Layout
		want   error
	}{
		{"no world", nil, newFakeScene(), good, ErrNoPhysics},
		{"no scene", newFakeWorld(), nil, good, ErrNoScene},
		{"zero capacity", newFakeWorld(), newFakeScene(), Layout{Spacing: 10, Kinds: []Kind{StaticObstacle}}, ErrBadLayout},
		{"zero spacing", newFakeWorld(), newFakeScene(), Layout{Capacity: 1, Kinds: []Kind{StaticObstacle}}, ErrBadLayout},
		{"no kinds", newFakeWorld(), newFakeScene(), Layout{Capacity: 1, Spacing: 1}, ErrBadLayout},
		{"unknown kind", newFakeWorld(), newFakeScene(), Layout{Capacity: 1, Spacing: 1, Kinds: []Kind{Kind(9)}}, ErrBadLayout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			if tc.world == nil {
				_, err = NewWindow(nil, tc.scene, tc.layout, seeded())
			} else {
				_, err = NewWindow(tc.world, tc.scene, tc.layout, seeded())
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func newTestWindow(t *testing.T, layout Layout) (*Window, *fakeWorld, *fakeScene) {
	t.Helper()
	world, scene := newFakeWorld(), newFakeScene()
	w, err := NewWindow(world, scene, layout, seeded())
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	return w, world, scene
}

func TestWindowFill(t *testing.T) {
	w, world, scene := newTestWindow(t, obstacleLayout())

	if w.Len() != 0 {
		t.Fatalf("new window should be empty, Len() = %d", w.Len())
	}
	w.Fill()
	w.Fill()

	if w.Len() != 5 || w.Offset() != 5 {
		t.Errorf("Len() = %d, Offset() = %d, want 5, 5", w.Len(), w.Offset())
	}
	if len(world.bodies) != 5 || len(scene.live) != 5 {
		t.Errorf("registered bodies = %d, visuals = %d, want 5 each", len(world.bodies), len(scene.live))
	}

	want := []float64{16, 27, 38, 49, 60}
	for i, e := range w.Entities() {
		if e.Offset != i || e.Position.Z() != want[i] {
			t.Errorf("entity %d: offset %d z %v, want offset %d z %v", i, e.Offset, e.Position.Z(), i, want[i])
		}
	}
}

func TestWindowAdvanceKeepsCapacityAndSpacing(t *testing.T) {
	layout := obstacleLayout()
	w, world, scene := newTestWindow(t, layout)
	w.Fill()

	lastZ := math.Inf(-1)
	lastOffset := -1
	seen := make(map[*Entity]bool)

	for tick := 0; tick < 600; tick++ {
		playerZ := float64(tick) * 0.5
		cands := w.Advance(playerZ, float64(tick)/60)

		if w.Len() != layout.Capacity {
			t.Fatalf("tick %d: Len() = %d, want %d", tick, w.Len(), layout.Capacity)
		}
		if len(world.bodies) != layout.Capacity || len(scene.live) != layout.Capacity {
			t.Fatalf("tick %d: %d bodies, %d visuals registered", tick, len(world.bodies), len(scene.live))
		}
		if len(cands) > DefaultCandidates {
			t.Fatalf("tick %d: %d candidates", tick, len(cands))
		}

		for _, e := range w.Entities() {
			if seen[e] {
				continue
			}
			seen[e] = true
			if e.Offset != lastOffset+1 {
				t.Fatalf("offset %d follows %d", e.Offset, lastOffset)
			}
			if z := e.Position.Z(); lastOffset >= 0 && math.Abs(z-lastZ-(layout.Spacing+1)) > 1e-9 {
				t.Fatalf("offset %d at z %v, previous z %v", e.Offset, z, lastZ)
			}
			lastOffset, lastZ = e.Offset, e.Position.Z()
		}
	}
	if w.Recycled() == 0 {
		t.Error("expected recycling over 300 units of travel")
	}
	if scene.added-scene.removed != layout.Capacity {
		t.Errorf("added %d removed %d", scene.added, scene.removed)
	}
}

func TestWindowRecycleReleasesHandles(t *testing.T) {
	w, world, scene := newTestWindow(t, Layout{Capacity: 2, Spacing: 10, Lead: 0, Candidates: 3, Kinds: []Kind{StaticObstacle}})
	w.Fill()
	first := w.Entities()[0] // z 0, margin 5

	w.Advance(4.9, 0)
	if !first.Live() {
		t.Fatal("entity within its margin must be retained")
	}

	w.Advance(5, 0)
	if first.Live() || world.registered(first.Body()) || scene.live[first] {
		t.Error("passed entity must release its body and visual")
	}
	if got := w.Entities(); got[len(got)-1].Offset != 2 {
		t.Errorf("replacement offset = %d, want 2", got[len(got)-1].Offset)
	}

	removed := scene.removed
	first.destroy()
	if scene.removed != removed {
		t.Error("destroy must be idempotent")
	}
}

func TestWindowCandidates(t *testing.T) {
	layout := Layout{Capacity: 6, Spacing: 2, Lead: 0, Candidates: 3, Kinds: []Kind{StaticObstacle}}
	w, _, _ := newTestWindow(t, layout)
	w.Fill()

	cands := w.Advance(0, 0)
	if len(cands) != 3 {
		t.Fatalf("got %d candidates, want 3", len(cands))
	}
	for i, e := range cands {
		if e.Offset != i {
			t.Errorf("candidate %d has offset %d, want nearest spawn order first", i, e.Offset)
		}
	}

	platforms, _, _ := newTestWindow(t, Layout{Capacity: 3, Spacing: 20, Candidates: 3, Kinds: []Kind{PlatformTile}})
	platforms.Fill()
	if got := platforms.Advance(0, 0); len(got) != 0 {
		t.Errorf("platform tiles are never candidates, got %d", len(got))
	}
}

func TestWindowRotationPhase(t *testing.T) {
	w, _, _ := newTestWindow(t, Layout{Capacity: 4, Spacing: 10, Lead: 16, Candidates: 3, Kinds: []Kind{RotatingObstacle}, SpinMax: 2})
	w.Fill()

	for _, e := range w.Entities() {
		if math.Abs(e.Spin) > 2 {
			t.Errorf("offset %d spin %v exceeds bound", e.Offset, e.Spin)
		}
		if e.Offset%2 == 0 && e.Spin < 0 || e.Offset%2 == 1 && e.Spin > 0 {
			t.Errorf("offset %d spin %v has the wrong sign", e.Offset, e.Spin)
		}
	}

	w.Advance(0, 1.5)
	for _, e := range w.Entities() {
		if math.Abs(e.Phase-1.5*e.Spin) > 1e-12 {
			t.Errorf("offset %d phase %v, want %v", e.Offset, e.Phase, 1.5*e.Spin)
		}
	}
}

func TestWindowReset(t *testing.T) {
	w, world, scene := newTestWindow(t, obstacleLayout())
	w.Fill()
	w.Advance(100, 0)
	old := w.Entities()

	w.Reset()
	if w.Len() != 0 || w.Offset() != 0 {
		t.Errorf("after Reset Len() = %d, Offset() = %d", w.Len(), w.Offset())
	}
	if len(world.bodies) != 0 || len(scene.live) != 0 {
		t.Error("Reset must release every handle")
	}
	for _, e := range old {
		if e.Live() {
			t.Error("old entity still live after Reset")
		}
	}

	w.Fill()
	if w.Entities()[0].Position.Z() != 16 {
		t.Error("refill should restart at offset zero")
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"spinner", "barrier", "platform"} {
		k, err := ParseKind(name)
		if err != nil || k.String() != name {
			t.Errorf("ParseKind(%q) = %v, %v", name, k, err)
		}
	}
	if _, err := ParseKind("lava"); !errors.Is(err, ErrBadLayout) {
		t.Errorf("unknown kind err = %v", err)
	}
}
