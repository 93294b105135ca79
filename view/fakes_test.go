package view

import (
	"github.com/waylandcore/rootcore/geometry"
	"github.com/waylandcore/rootcore/shellproto"
	"github.com/waylandcore/rootcore/signal"
)

// fakeSurface is a minimal shellproto.Surface for tests: fixed size, an
// always-accepting input region, and real signal plumbing so child.go's
// listener wiring can be exercised end to end.
type fakeSurface struct {
	width, height uint32

	commit        signal.Signal[shellproto.Surface]
	newSubsurface signal.Signal[shellproto.Surface]
	destroy       signal.Signal[shellproto.Surface]
}

func (s *fakeSurface) Size() (uint32, uint32) { return s.width, s.height }
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
func (s *fakeSurface) Enter(shellproto.OutputHandle) {}
func (s *fakeSurface) Leave(shellproto.OutputHandle) {}

type acceptAllRegion struct{}

func (acceptAllRegion) ContainsPoint(sx, sy float64) bool { return true }

// fakeOutput is a shellproto.OutputHandle with a fixed resolution.
type fakeOutput struct {
	width, height int
}

func (o *fakeOutput) EffectiveResolution() (int, int) { return o.width, o.height }

// fakeLayout is a single-output shellproto.Layout.
type fakeLayout struct {
	output        *fakeOutput
	x, y, w, h    float64
	centerOutput  *fakeOutput
}

func (l *fakeLayout) OutputAt(x, y float64) shellproto.OutputHandle {
	if l.output == nil {
		return nil
	}
	return l.output
}
func (l *fakeLayout) ClosestPoint(output shellproto.OutputHandle, x, y float64) (float64, float64) {
	return x, y
}
func (l *fakeLayout) GetBox(output shellproto.OutputHandle) (float64, float64, float64, float64) {
	return l.x, l.y, l.w, l.h
}
func (l *fakeLayout) Intersects(output shellproto.OutputHandle, box geometry.Box) bool {
	return true
}
func (l *fakeLayout) CenterOutput() shellproto.OutputHandle {
	if l.centerOutput == nil {
		return nil
	}
	return l.centerOutput
}

// fakeCursor reports a fixed pointer position.
type fakeCursor struct{ x, y float64 }

func (c fakeCursor) Position() (float64, float64) { return c.x, c.y }

// fakeSeat is a shellproto.Seat with a fixed cursor and last-event time.
type fakeSeat struct {
	cursor     fakeCursor
	lastEvent  shellproto.LastInputEvent
	focused    any
}

func (s *fakeSeat) Cursor() shellproto.Cursor                 { return s.cursor }
func (s *fakeSeat) LastEvent() shellproto.LastInputEvent       { return s.lastEvent }
func (s *fakeSeat) SetFocus(v any)                             { s.focused = v }

// fakeFullscreenTarget is a FullscreenTarget recording its calls.
type fakeFullscreenTarget struct {
	handle      shellproto.OutputHandle
	fsView      *View
	damagedAll  int
}

func (t *fakeFullscreenTarget) Handle() shellproto.OutputHandle { return t.handle }
func (t *fakeFullscreenTarget) SetFullscreenView(v *View)       { t.fsView = v }
func (t *fakeFullscreenTarget) FullscreenView() *View           { return t.fsView }
func (t *fakeFullscreenTarget) DamageWhole()                    { t.damagedAll++ }

// fakeDesktop is a Desktop recording damage/output-update calls.
type fakeDesktop struct {
	layout shellproto.Layout
	seats  []shellproto.Seat

	damageWholeCalls int
	applyDamageCalls int
	updateOutputCalls int

	fullscreenTargets map[shellproto.OutputHandle]FullscreenTarget
}

func (d *fakeDesktop) Layout() shellproto.Layout { return d.layout }
func (d *fakeDesktop) DamageWholeView(v *View)   { d.damageWholeCalls++ }
func (d *fakeDesktop) ApplyDamage(v *View)       { d.applyDamageCalls++ }
func (d *fakeDesktop) UpdateViewOutputs(v *View, before *geometry.Box) {
	d.updateOutputCalls++
}
func (d *fakeDesktop) OutputFromHandle(h shellproto.OutputHandle) FullscreenTarget {
	if d.fullscreenTargets == nil {
		return nil
	}
	return d.fullscreenTargets[h]
}
func (d *fakeDesktop) Seats() []shellproto.Seat { return d.seats }
