package view

import (
	"github.com/waylandcore/rootcore/shellproto"
	"github.com/waylandcore/rootcore/signal"
)

// ViewChild is a surface subordinate to a view's primary surface —
// currently only subsurfaces, mirroring wlroots' roots_view_child base
// (spec.md's view_child_init/view_child_finish). It exists so the commit
// and new-subsurface plumbing is shared between the root surface's
// children and every nested subsurface below them.
type ViewChild struct {
	view    *View
	surface shellproto.Surface

	commit        *signal.Listener[shellproto.Surface]
	newSubsurface *signal.Listener[shellproto.Surface]

	// destroyFn performs subtype-specific teardown before the child's
	// common listeners are removed. Subsurface sets this to also remove
	// its own destroy listener.
	destroyFn func(*ViewChild)
}

// initChild wires the commit and new-subsurface listeners common to every
// child surface (spec.md's view_child_init). The caller is responsible for
// adding the returned child to the owning view's child list.
func initChild(view *View, surface shellproto.Surface, destroyFn func(*ViewChild)) *ViewChild {
	c := &ViewChild{view: view, surface: surface, destroyFn: destroyFn}
	c.commit = surface.OnCommit(func(shellproto.Surface) {
		view.ApplyDamage()
	})
	c.newSubsurface = surface.OnNewSubsurface(func(s shellproto.Surface) {
		view.addChild(NewSubsurface(view, s))
	})
	return c
}

// finish damages the owning view's footprint and unsubscribes the common
// listeners (spec.md's view_child_finish). It does not remove c from the
// view's child list; callers that initiate teardown do that themselves.
func (c *ViewChild) finish() {
	c.view.DamageWhole()
	c.commit.Remove()
	c.newSubsurface.Remove()
}

// Destroy tears the child down: subtype-specific cleanup, then the common
// finish, then removal from the owning view's child list.
func (c *ViewChild) Destroy() {
	if c.destroyFn != nil {
		c.destroyFn(c)
	}
	c.finish()
	c.view.removeChild(c)
}

// Subsurface is a ViewChild backed by a wl_subsurface: in addition to the
// common commit/new-subsurface plumbing, it tracks the subsurface object's
// own destroy signal, distinct from its surface's (spec.md's
// struct roots_subsurface / subsurface_create / subsurface_destroy).
type Subsurface struct {
	*ViewChild
	destroy *signal.Listener[shellproto.Surface]
}

// NewSubsurface creates a subsurface child of view, wiring its destroy
// signal to tear the child down automatically (spec.md's
// subsurface_create). The caller adds the returned child to the view's
// child list.
func NewSubsurface(view *View, surface shellproto.Surface) *ViewChild {
	s := &Subsurface{}
	s.ViewChild = initChild(view, surface, func(c *ViewChild) {
		if s.destroy != nil {
			s.destroy.Remove()
		}
	})
	s.destroy = surface.OnDestroy(func(shellproto.Surface) {
		s.Destroy()
	})
	return s.ViewChild
}
