// Package view implements the per-window state machine of the desktop
// core: position, committed size, rotation, maximize/fullscreen
// transitions, and the subsurface/popup tree bound to a mapped shell
// surface (spec.md §3, §4.2).
package view

import (
	"github.com/waylandcore/rootcore/geometry"
	"github.com/waylandcore/rootcore/shellproto"
	"github.com/waylandcore/rootcore/signal"
)

// SavedGeometry captures a view's geometry prior to entering maximized or
// fullscreen state, restored exactly on exit (spec.md §3 "P2 Saved
// round-trip").
type SavedGeometry struct {
	X, Y     float64
	Rotation float64
	Width    uint32
	Height   uint32
}

// PendingMoveResize records the axes and target geometry of a move-resize
// whose position change must wait for the shell to commit a surface of
// the requested size (spec.md §3, §4.2 move_resize).
type PendingMoveResize struct {
	UpdateX, UpdateY bool
	X, Y             float64
	Width, Height    uint32
}

// Desktop is the minimal back-reference a View needs into its owning
// aggregate: the output layout and the per-output damage/enter-leave
// plumbing. Package desktop's *Desktop satisfies this.
type Desktop interface {
	Layout() shellproto.Layout
	DamageWholeView(v *View)
	ApplyDamage(v *View)
	UpdateViewOutputs(v *View, before *geometry.Box)
	// OutputFromHandle resolves a layout output handle to the binding
	// that tracks its fullscreen_view (nil if unknown to this desktop).
	OutputFromHandle(h shellproto.OutputHandle) FullscreenTarget
	Seats() []shellproto.Seat
}

// FullscreenTarget is the subset of an output binding a View needs to set
// or clear its fullscreen_view back-pointer (spec.md §3 invariant:
// "fullscreen_output is non-null iff this view is some output's
// fullscreen_view").
type FullscreenTarget interface {
	Handle() shellproto.OutputHandle
	SetFullscreenView(v *View)
	FullscreenView() *View
	DamageWhole()
}

// FocusPolicy decides which seats, if any, get focused when a view is set
// up. The default policy focuses every known seat, matching the source's
// placeholder behavior (spec.md §9 "Focus policy on setup"); callers may
// inject a different policy.
type FocusPolicy func(seats []shellproto.Seat, v *View)

// FocusAllSeats is the default FocusPolicy: every seat known to the
// desktop is focused on the newly-mapped view.
func FocusAllSeats(seats []shellproto.Seat, v *View) {
	for _, s := range seats {
		s.SetFocus(v)
	}
}

// View is a logical on-screen window: a shell-agnostic surface plus its
// geometry, decoration, and maximize/fullscreen/rotation state (spec.md
// §3).
type View struct {
	desktop Desktop
	surface shellproto.Surface
	shell   *shellproto.Shell

	X, Y          float64
	Width, Height uint32
	Rotation      float64

	Maximized bool
	Decorated bool
	Deco      geometry.Decoration

	fullscreenTarget FullscreenTarget

	Saved             SavedGeometry
	PendingMoveResize PendingMoveResize

	children []*ViewChild

	newSubsurface *signal.Listener[shellproto.Surface]
	destroy       signal.Signal[*View]
}

// New constructs a View bound to surface, backed by the given shell
// capability table (may have nil methods for unsupported verbs). Width and
// Height start at the surface's committed size.
func New(desktop Desktop, surface shellproto.Surface, shell *shellproto.Shell) *View {
	v := &View{desktop: desktop, surface: surface, shell: shell}
	if surface != nil {
		v.Width, v.Height = surface.Size()
	}
	return v
}

// Surface returns the view's primary client surface.
func (v *View) Surface() shellproto.Surface { return v.surface }

// Shell returns the view's shell capability table.
func (v *View) Shell() *shellproto.Shell { return v.shell }

// OnDestroy registers a listener for the view's one-shot destroy signal.
func (v *View) OnDestroy(fn func(*View)) *signal.Listener[*View] {
	return v.destroy.Add(fn)
}

// Box returns the view's interior box (spec.md §4.1 view_box).
func (v *View) Box() geometry.Box {
	return geometry.ViewBox(v.X, v.Y, v.Width, v.Height)
}

// DecoBox returns the view's box expanded by decorations, if decorated
// (spec.md §4.1 deco_box).
func (v *View) DecoBox() geometry.Box {
	return geometry.DecoBox(v.Box(), v.decoration())
}

func (v *View) decoration() geometry.Decoration {
	d := v.Deco
	d.Decorated = v.Decorated
	return d
}

// DecoPartAt classifies a surface-local point against the view's
// decoration regions (spec.md §4.1 deco_part).
func (v *View) DecoPartAt(sx, sy float64) geometry.DecoPart {
	return geometry.ClassifyDecoPart(v.decoration(), float64(v.Width), float64(v.Height), sx, sy)
}

// Init binds a freshly-mapped surface's existing subsurface tree and
// subscribes to new ones (spec.md §4.2 init). existingSubsurfaces is
// walked once; newSubsurfaces delivers events for subsurfaces created
// later.
func (v *View) Init(existingSubsurfaces []shellproto.Surface, newSubsurfaces *signal.Signal[shellproto.Surface]) {
	for _, s := range existingSubsurfaces {
		v.addChild(NewSubsurface(v, s))
	}
	v.newSubsurface = newSubsurfaces.Add(func(s shellproto.Surface) {
		v.addChild(NewSubsurface(v, s))
	})
	v.desktop.DamageWholeView(v)
}

func (v *View) addChild(c *ViewChild) {
	v.children = append(v.children, c)
}

func (v *View) removeChild(c *ViewChild) {
	for i, other := range v.children {
		if other == c {
			v.children = append(v.children[:i], v.children[i+1:]...)
			return
		}
	}
}

// Setup applies the post-mapping placeholder focus policy (spec.md §9),
// centers the view, and runs the initial output-intersection evaluation.
// A nil policy defaults to FocusAllSeats.
func (v *View) Setup(policy FocusPolicy) {
	if policy == nil {
		policy = FocusAllSeats
	}
	policy(v.desktop.Seats(), v)
	v.Center()
	v.desktop.UpdateViewOutputs(v, nil)
}

// Finish tears the view down: damages its whole footprint, emits the
// destroy signal, unsubscribes from new-subsurface notifications,
// destroys every child, and clears any fullscreen linkage (spec.md §4.2
// finish).
func (v *View) Finish() {
	v.desktop.DamageWholeView(v)
	v.destroy.Emit(v)

	if v.newSubsurface != nil {
		v.newSubsurface.Remove()
		v.newSubsurface = nil
	}

	for _, c := range append([]*ViewChild(nil), v.children...) {
		c.Destroy()
	}

	if v.fullscreenTarget != nil {
		v.fullscreenTarget.SetFullscreenView(nil)
		v.fullscreenTarget = nil
	}
}

// Move relocates the view to (x, y), a no-op if unchanged. Delegates to
// the shell's mover when present; otherwise updates position directly,
// damaging the old and new footprints. Either way, re-evaluates output
// intersections (spec.md §4.2 move).
func (v *View) Move(x, y float64) {
	if v.X == x && v.Y == y {
		return
	}
	before := v.Box()
	if v.shell != nil && v.shell.Move != nil {
		v.shell.Move(x, y)
	} else {
		v.updatePosition(x, y)
	}
	v.desktop.UpdateViewOutputs(v, &before)
}

// updatePosition writes the position directly, damaging the old and new
// footprint, for shells with no custom mover (spec.md's view_update_position).
func (v *View) updatePosition(x, y float64) {
	if v.X == x && v.Y == y {
		return
	}
	v.desktop.DamageWholeView(v)
	v.X, v.Y = x, y
	v.desktop.DamageWholeView(v)
}

// Activate requests the shell focus/unfocus decoration state; a no-op if
// the shell doesn't support it (spec.md §4.2 activate).
func (v *View) Activate(active bool) {
	if v.shell != nil && v.shell.Activate != nil {
		v.shell.Activate(active)
	}
}

// Resize requests a new surface size via the shell, then re-evaluates
// output intersections. The size change itself may be synchronous or
// arrive later via a commit that updates Width/Height (spec.md §4.2
// resize).
func (v *View) Resize(width, height uint32) {
	before := v.Box()
	if v.shell != nil && v.shell.Resize != nil {
		v.shell.Resize(width, height)
	}
	v.desktop.UpdateViewOutputs(v, &before)
}

// UpdateSize applies a newly-committed surface size, damaging the old and
// new footprint (spec.md's view_update_size). Called by the shell
// protocol layer when a commit reports geometry.
func (v *View) UpdateSize(width, height uint32) {
	if v.Width == width && v.Height == height {
		return
	}
	v.desktop.DamageWholeView(v)
	v.Width, v.Height = width, height
	v.desktop.DamageWholeView(v)

	if v.PendingMoveResize.Width == width && v.PendingMoveResize.Height == height {
		x, y := v.X, v.Y
		if v.PendingMoveResize.UpdateX {
			x = v.PendingMoveResize.X
		}
		if v.PendingMoveResize.UpdateY {
			y = v.PendingMoveResize.Y
		}
		v.PendingMoveResize = PendingMoveResize{}
		v.Move(x, y)
	}
}

// MoveResize requests an atomic move-and-resize. If the position is
// unchanged this reduces to Resize. If the shell supports atomic
// move-resize it's delegated directly; otherwise a pending-move-resize
// record is stored and Resize is issued alone, with the position applied
// once a commit reports the requested size (spec.md §4.2 move_resize).
func (v *View) MoveResize(x, y float64, width, height uint32) {
	updateX := x != v.X
	updateY := y != v.Y
	if !updateX && !updateY {
		v.Resize(width, height)
		return
	}

	if v.shell != nil && v.shell.MoveResize != nil {
		v.shell.MoveResize(x, y, width, height)
		return
	}

	v.PendingMoveResize = PendingMoveResize{
		UpdateX: updateX, UpdateY: updateY,
		X: x, Y: y,
		Width: width, Height: height,
	}
	v.Resize(width, height)
}

// outputForCenter locates the output under the view's center via the
// layout (spec.md's view_get_output).
func (v *View) outputForCenter() shellproto.OutputHandle {
	box := v.Box()
	cx, cy := v.desktop.Layout().ClosestPoint(nil, v.X+box.Width/2, v.Y+box.Height/2)
	return v.desktop.Layout().OutputAt(cx, cy)
}

// Maximize idempotently enters or leaves the maximized state. Entering
// saves the current geometry, fills the output containing the view's
// center, and zeroes rotation; leaving restores the saved geometry and
// rotation exactly (spec.md §4.2 maximize, §8 P2).
func (v *View) Maximize(maximized bool) {
	if v.Maximized == maximized {
		return
	}

	if v.shell != nil && v.shell.Maximize != nil {
		v.shell.Maximize(maximized)
	}

	if !v.Maximized && maximized {
		box := v.Box()
		v.Maximized = true
		v.Saved = SavedGeometry{X: v.X, Y: v.Y, Rotation: v.Rotation, Width: uint32(box.Width), Height: uint32(box.Height)}

		output := v.outputForCenter()
		ox, oy, ow, oh := v.desktop.Layout().GetBox(output)
		v.MoveResize(ox, oy, uint32(ow), uint32(oh))
		v.Rotate(0)
		return
	}

	v.Maximized = false
	v.MoveResize(v.Saved.X, v.Saved.Y, v.Saved.Width, v.Saved.Height)
	v.Rotate(v.Saved.Rotation)
}

// SetFullscreen idempotently enters or leaves fullscreen on the given
// output (nil derives the output from the view's current center).
// Changing the output of an already-fullscreen view is unsupported and is
// a no-op — the source marks this as an explicit TODO and this module
// preserves that behavior rather than reinterpreting it (spec.md §4.2,
// §9).
func (v *View) SetFullscreen(fullscreen bool, output shellproto.OutputHandle) {
	wasFullscreen := v.fullscreenTarget != nil
	if wasFullscreen == fullscreen {
		return
	}

	if v.shell != nil && v.shell.SetFullscreen != nil {
		v.shell.SetFullscreen(fullscreen)
	}

	if !wasFullscreen && fullscreen {
		if output == nil {
			output = v.outputForCenter()
		}
		target := v.desktop.OutputFromHandle(output)
		if target == nil {
			return
		}

		box := v.Box()
		v.Saved = SavedGeometry{X: v.X, Y: v.Y, Rotation: v.Rotation, Width: uint32(box.Width), Height: uint32(box.Height)}

		ox, oy, ow, oh := v.desktop.Layout().GetBox(output)
		v.MoveResize(ox, oy, uint32(ow), uint32(oh))
		v.Rotate(0)

		target.SetFullscreenView(v)
		v.fullscreenTarget = target
		target.DamageWhole()
		return
	}

	v.MoveResize(v.Saved.X, v.Saved.Y, v.Saved.Width, v.Saved.Height)
	v.Rotate(v.Saved.Rotation)

	v.fullscreenTarget.DamageWhole()
	v.fullscreenTarget.SetFullscreenView(nil)
	v.fullscreenTarget = nil
}

// FullscreenOutput returns the output this view is fullscreen on, or nil.
func (v *View) FullscreenOutput() shellproto.OutputHandle {
	if v.fullscreenTarget == nil {
		return nil
	}
	return v.fullscreenTarget.Handle()
}

// Rotate sets the view's rotation angle, a no-op if unchanged. Damages
// the view's whole footprint both before and after the angle change
// (spec.md §4.2 rotate).
func (v *View) Rotate(radians float64) {
	if v.Rotation == radians {
		return
	}
	v.desktop.DamageWholeView(v)
	v.Rotation = radians
	v.desktop.DamageWholeView(v)
}

// Close requests the shell close the view; a no-op if the shell has no
// close verb (spec.md §4.2 close).
func (v *View) Close() {
	if v.shell != nil && v.shell.Close != nil {
		v.shell.Close()
	}
}

// Center moves the view to the center of the output under the seat with
// the most recent input event. Returns false if no seat exists or the
// layout is empty (spec.md §4.2 center).
func (v *View) Center() bool {
	seats := v.desktop.Seats()
	if len(seats) == 0 {
		return false
	}

	seat := seats[0]
	for _, s := range seats[1:] {
		if seat.LastEvent().Before(s.LastEvent()) {
			seat = s
		}
	}

	cx, cy := seat.Cursor().Position()
	output := v.desktop.Layout().OutputAt(cx, cy)
	if output == nil {
		return false
	}

	width, height := output.EffectiveResolution()
	ox, oy, _, _ := v.desktop.Layout().GetBox(output)
	box := v.Box()

	viewX := (float64(width)-box.Width)/2 + ox
	viewY := (float64(height)-box.Height)/2 + oy
	v.Move(viewX, viewY)
	return true
}

// HitTest resolves layout point (lx, ly) to the surface it lands on, in
// that surface's local coordinates: first the shell's popup tree, then
// the root surface's subsurface tree, then the view's own decoration
// (surface == nil, ok == true), then the root surface's input region
// (original_source's view_at). ok is false when the point misses the
// view entirely.
func (v *View) HitTest(lx, ly float64) (surface shellproto.Surface, sx, sy float64, ok bool) {
	if v.shell != nil && v.shell.Kind() == shellproto.WlShell && v.shell.IsPopup {
		return nil, 0, 0, false
	}

	viewSX := lx - v.X
	viewSY := ly - v.Y

	if v.Rotation != 0 {
		viewSX, viewSY = geometry.RotatePoint(viewSX, viewSY, float64(v.Width), float64(v.Height), v.Rotation)
	}

	if v.shell != nil && v.shell.PopupAt != nil {
		if popup, px, py, popupOK := v.shell.PopupAt(viewSX, viewSY); popupOK {
			return popup, viewSX - px, viewSY - py, true
		}
	}

	if sub, sbx, sby, subOK := v.surface.SubsurfaceAt(viewSX, viewSY); subOK {
		return sub, viewSX - sbx, viewSY - sby, true
	}

	if v.DecoPartAt(viewSX, viewSY) != geometry.DecoNone {
		return nil, viewSX, viewSY, true
	}

	box := geometry.ViewBox(0, 0, v.Width, v.Height)
	if box.Contains(viewSX, viewSY) && v.surface.Input().ContainsPoint(viewSX, viewSY) {
		return v.surface, viewSX, viewSY, true
	}

	return nil, 0, 0, false
}

// ApplyDamage requests incremental damage be unioned into every
// intersecting output (spec.md's view_apply_damage).
func (v *View) ApplyDamage() {
	v.desktop.ApplyDamage(v)
}

// DamageWhole marks the view's full footprint dirty on every
// intersecting output (spec.md's view_damage_whole).
func (v *View) DamageWhole() {
	v.desktop.DamageWholeView(v)
}
