// Package desktop implements the aggregate the rest of the core talks
// to: the set of mapped views and tracked outputs, the output layout,
// and the cross-cutting operations that need a view of everything at
// once — hit-testing, damage fan-out, and output-layout-change
// relocation (spec.md §3 Desktop, §4.3, §4.4, §4.5).
package desktop

import (
	"github.com/waylandcore/rootcore/geometry"
	"github.com/waylandcore/rootcore/shellproto"
	"github.com/waylandcore/rootcore/view"
)

// Desktop is the aggregate of every mapped view and tracked output,
// plus the seats known to the input layer (original_source's
// struct roots_desktop, minus the protocol-global fields that belong to
// the shell-protocol layer per §1 Out of scope).
type Desktop struct {
	layout  shellproto.Layout
	outputs []*OutputBinding
	views   []*view.View
	seats   []shellproto.Seat
}

// New constructs an empty Desktop over the given output layout
// (original_source's desktop_create, minus the protocol-global setup
// this module doesn't own).
func New(layout shellproto.Layout) *Desktop {
	return &Desktop{layout: layout}
}

// Layout returns the desktop's output layout.
func (d *Desktop) Layout() shellproto.Layout { return d.layout }

// Seats returns the seats currently known to the desktop.
func (d *Desktop) Seats() []shellproto.Seat { return d.seats }

// AddSeat registers a seat with the desktop, making it eligible for
// View.Setup's focus policy and View.Center's "most recent input" pick.
func (d *Desktop) AddSeat(s shellproto.Seat) {
	d.seats = append(d.seats, s)
}

// RemoveSeat unregisters a seat, a no-op if it was never registered.
func (d *Desktop) RemoveSeat(s shellproto.Seat) {
	for i, other := range d.seats {
		if other == s {
			d.seats = append(d.seats[:i], d.seats[i+1:]...)
			return
		}
	}
}

// AddOutput registers a new output binding with the desktop
// (original_source's handle_new_output, minus backend wiring this
// module doesn't own).
func (d *Desktop) AddOutput(o *OutputBinding) {
	d.outputs = append(d.outputs, o)
}

// RemoveOutput unregisters an output binding, a no-op if unknown.
func (d *Desktop) RemoveOutput(o *OutputBinding) {
	for i, other := range d.outputs {
		if other == o {
			d.outputs = append(d.outputs[:i], d.outputs[i+1:]...)
			return
		}
	}
}

// OutputFromHandle looks up the binding tracking layout handle h
// (original_source's desktop_output_from_wlr_output).
func (d *Desktop) OutputFromHandle(h shellproto.OutputHandle) view.FullscreenTarget {
	for _, o := range d.outputs {
		if o.Handle() == h {
			return o
		}
	}
	return nil
}

// outputBindingFromHandle is OutputFromHandle without the interface
// erasure, for callers inside this package that need the concrete type.
func (d *Desktop) outputBindingFromHandle(h shellproto.OutputHandle) *OutputBinding {
	for _, o := range d.outputs {
		if o.Handle() == h {
			return o
		}
	}
	return nil
}

// AddView maps a newly-created view into the desktop, most-recent-first
// so it hit-tests and stacks above older views.
func (d *Desktop) AddView(v *view.View) {
	d.views = append([]*view.View{v}, d.views...)
}

// RemoveView unmaps a view, a no-op if it was never mapped.
func (d *Desktop) RemoveView(v *view.View) {
	for i, other := range d.views {
		if other == v {
			d.views = append(d.views[:i], d.views[i+1:]...)
			return
		}
	}
}

// DamageWholeView marks v's current footprint dirty on every output,
// satisfying view.Desktop (original_source's view_damage_whole).
func (d *Desktop) DamageWholeView(v *view.View) {
	box := v.DecoBox()
	for _, o := range d.outputs {
		o.damageWholeView(box)
	}
}

// ApplyDamage unions v's incremental damage into every output
// (original_source's view_apply_damage).
func (d *Desktop) ApplyDamage(v *view.View) {
	box := v.DecoBox()
	for _, o := range d.outputs {
		o.damageFromView(box)
	}
}

// UpdateViewOutputs sends enter/leave notifications for every output v's
// footprint started or stopped intersecting, relative to its footprint
// before the move/resize that just happened (before == nil means "treat
// every intersection as new", used by View.Setup's initial evaluation;
// original_source's view_update_output / static view_update_output).
func (d *Desktop) UpdateViewOutputs(v *view.View, before *geometry.Box) {
	box := v.Box()
	for _, o := range d.outputs {
		wasIntersecting := before != nil && d.layout.Intersects(o.Handle(), *before)
		isIntersecting := d.layout.Intersects(o.Handle(), box)
		if wasIntersecting && !isIntersecting {
			v.Surface().Leave(o.Handle())
		}
		if !wasIntersecting && isIntersecting {
			v.Surface().Enter(o.Handle())
		}
	}
}

// ViewAt resolves layout point (lx, ly) to the topmost view under it,
// honoring per-output fullscreen shadowing: an output with a fullscreen
// view only ever hit-tests that one view, even if other views would
// otherwise be on top (original_source's desktop_view_at).
func (d *Desktop) ViewAt(lx, ly float64) (v *view.View, surface shellproto.Surface, sx, sy float64) {
	if output := d.layout.OutputAt(lx, ly); output != nil {
		if binding := d.outputBindingFromHandle(output); binding != nil && binding.FullscreenView() != nil {
			fv := binding.FullscreenView()
			if s, hx, hy, ok := fv.HitTest(lx, ly); ok {
				return fv, s, hx, hy
			}
			return nil, nil, 0, 0
		}
	}

	for _, candidate := range d.views {
		if s, hx, hy, ok := candidate.HitTest(lx, ly); ok {
			return candidate, s, hx, hy
		}
	}
	return nil, nil, 0, 0
}

// HandleLayoutChange relocates every view that no longer intersects any
// output to the center of the layout's designated center output
// (original_source's handle_layout_change). Call this whenever the
// layout's arrangement of outputs changes.
func (d *Desktop) HandleLayoutChange() {
	center := d.layout.CenterOutput()
	if center == nil {
		return
	}
	cx, cy, cw, ch := d.layout.GetBox(center)
	centerX := cx + cw/2
	centerY := cy + ch/2

	for _, v := range d.views {
		box := v.Box()
		if d.layout.Intersects(nil, box) {
			continue
		}
		v.Move(centerX-box.Width/2, centerY-box.Height/2)
	}
}
