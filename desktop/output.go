package desktop

import (
	"github.com/waylandcore/rootcore/geometry"
	"github.com/waylandcore/rootcore/shellproto"
	"github.com/waylandcore/rootcore/view"
)

// OutputBinding is a single physical or virtual output as tracked by the
// desktop aggregate: its layout handle, the damage sink the renderer
// registered for it, and the view currently occupying it fullscreen, if
// any (original_source's struct roots_output).
type OutputBinding struct {
	handle  shellproto.OutputHandle
	damager shellproto.Damager

	fullscreenView *view.View
}

// NewOutputBinding registers a binding for handle, reporting damage
// through damager.
func NewOutputBinding(handle shellproto.OutputHandle, damager shellproto.Damager) *OutputBinding {
	return &OutputBinding{handle: handle, damager: damager}
}

// Handle returns the layout handle this binding tracks.
func (o *OutputBinding) Handle() shellproto.OutputHandle { return o.handle }

// FullscreenView returns the view currently fullscreen on this output, or
// nil.
func (o *OutputBinding) FullscreenView() *view.View { return o.fullscreenView }

// SetFullscreenView records v (possibly nil) as this output's fullscreen
// view, satisfying view.FullscreenTarget (spec.md §3 invariant:
// fullscreen_output is non-null iff this view is some output's
// fullscreen_view).
func (o *OutputBinding) SetFullscreenView(v *view.View) { o.fullscreenView = v }

// DamageWhole marks the entire output dirty (original_source's
// output_damage_whole, called on fullscreen enter/leave).
func (o *OutputBinding) DamageWhole() {
	if o.damager != nil {
		o.damager.DamageWhole()
	}
}

// damageWholeView marks a view's current footprint dirty on this output
// (original_source's output_damage_whole_view).
func (o *OutputBinding) damageWholeView(box geometry.Box) {
	if o.damager != nil {
		o.damager.DamageWholeView(box)
	}
}

// damageFromView unions a view's incremental damage into this output
// (original_source's output_damage_from_view).
func (o *OutputBinding) damageFromView(box geometry.Box) {
	if o.damager != nil {
		o.damager.DamageFromView(box)
	}
}
