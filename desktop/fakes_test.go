package desktop

import (
	"github.com/waylandcore/rootcore/geometry"
	"github.com/waylandcore/rootcore/shellproto"
	"github.com/waylandcore/rootcore/signal"
)

type fakeOutputHandle struct {
	name          string
	width, height int
}

func (h *fakeOutputHandle) EffectiveResolution() (int, int) { return h.width, h.height }

// fakeLayout places every registered output at a fixed box and answers
// intersection/closest-point queries against it.
type fakeLayout struct {
	boxes  map[shellproto.OutputHandle]geometry.Box
	order  []shellproto.OutputHandle
	center shellproto.OutputHandle
}

func newFakeLayout() *fakeLayout {
	return &fakeLayout{boxes: map[shellproto.OutputHandle]geometry.Box{}}
}

func (l *fakeLayout) place(h shellproto.OutputHandle, box geometry.Box) {
	l.boxes[h] = box
	l.order = append(l.order, h)
}

func (l *fakeLayout) OutputAt(x, y float64) shellproto.OutputHandle {
	for _, h := range l.order {
		if l.boxes[h].Contains(x, y) {
			return h
		}
	}
	return nil
}

func (l *fakeLayout) ClosestPoint(output shellproto.OutputHandle, x, y float64) (float64, float64) {
	return x, y
}

func (l *fakeLayout) GetBox(output shellproto.OutputHandle) (float64, float64, float64, float64) {
	box := l.boxes[output]
	return box.X, box.Y, box.Width, box.Height
}

func (l *fakeLayout) Intersects(output shellproto.OutputHandle, box geometry.Box) bool {
	if output == nil {
		for _, h := range l.order {
			if boxesIntersect(l.boxes[h], box) {
				return true
			}
		}
		return false
	}
	return boxesIntersect(l.boxes[output], box)
}

func (l *fakeLayout) CenterOutput() shellproto.OutputHandle { return l.center }

func boxesIntersect(a, b geometry.Box) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

// fakeDamager records damage calls for assertions.
type fakeDamager struct {
	wholeCalls    int
	wholeViewBoxes []geometry.Box
	fromViewBoxes  []geometry.Box
}

func (d *fakeDamager) DamageWhole()                    { d.wholeCalls++ }
func (d *fakeDamager) DamageWholeView(box geometry.Box) { d.wholeViewBoxes = append(d.wholeViewBoxes, box) }
func (d *fakeDamager) DamageFromView(box geometry.Box)  { d.fromViewBoxes = append(d.fromViewBoxes, box) }

// fakeSurface is a minimal shellproto.Surface for desktop-level tests.
type fakeSurface struct {
	width, height uint32

	commit        signal.Signal[shellproto.Surface]
	newSubsurface signal.Signal[shellproto.Surface]
	destroy       signal.Signal[shellproto.Surface]

	entered, left []shellproto.OutputHandle
}

func (s *fakeSurface) Size() (uint32, uint32)        { return s.width, s.height }
func (s *fakeSurface) Input() shellproto.InputRegion { return acceptAllRegion{} }
func (s *fakeSurface) OnCommit(fn func(shellproto.Surface)) *signal.Listener[shellproto.Surface] {
	return s.commit.Add(fn)
}
func (s *fakeSurface) OnNewSubsurface(fn func(shellproto.Surface)) *signal.Listener[shellproto.Surface] {
	return s.newSubsurface.Add(fn)
}
func (s *fakeSurface) OnDestroy(fn func(shellproto.Surface)) *signal.Listener[shellproto.Surface] {
	return s.destroy.Add(fn)
}
func (s *fakeSurface) SubsurfaceAt(sx, sy float64) (shellproto.Surface, float64, float64, bool) {
	return nil, 0, 0, false
}
func (s *fakeSurface) Enter(h shellproto.OutputHandle) { s.entered = append(s.entered, h) }
func (s *fakeSurface) Leave(h shellproto.OutputHandle) { s.left = append(s.left, h) }

type acceptAllRegion struct{}

func (acceptAllRegion) ContainsPoint(sx, sy float64) bool { return true }

type fakeCursor struct{ x, y float64 }

func (c fakeCursor) Position() (float64, float64) { return c.x, c.y }

type fakeSeat struct {
	cursor    fakeCursor
	lastEvent shellproto.LastInputEvent
}

func (s *fakeSeat) Cursor() shellproto.Cursor           { return s.cursor }
func (s *fakeSeat) LastEvent() shellproto.LastInputEvent { return s.lastEvent }
func (s *fakeSeat) SetFocus(v any)                       {}
