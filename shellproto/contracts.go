// Package shellproto defines the narrow contracts the desktop/view core
// calls into but does not implement (spec.md §1, §6): the shell protocol
// layer, the output layout/renderer, and the input/seat subsystem. Every
// concrete shell, backend, or seat implementation lives outside this
// module; it only needs to satisfy these interfaces.
package shellproto

import (
	"github.com/waylandcore/rootcore/geometry"
	"github.com/waylandcore/rootcore/signal"
)

// ShellKind discriminates the shell protocol a View's surface was mapped
// through. It is a closed set on purpose: adding a new shell means adding
// a new case everywhere a View switches on it, not silently widening this
// type.
type ShellKind int

const (
	XdgShellV6 ShellKind = iota
	WlShell
	Xwayland
)

func (k ShellKind) String() string {
	switch k {
	case XdgShellV6:
		return "xdg_shell_v6"
	case WlShell:
		return "wl_shell"
	case Xwayland:
		return "xwayland"
	default:
		return "unknown"
	}
}

// InputRegion reports whether a surface-local point lies within a
// surface's input region. Surfaces with no explicit input region accept
// every point inside their bounds.
type InputRegion interface {
	ContainsPoint(sx, sy float64) bool
}

// Surface is the minimal view onto a client's protocol-level surface that
// the core needs: its last-committed size and input region, plus the
// subset of wl_surface/wl_subsurface signals a view's child tree listens
// to (spec.md's view_child_init/subsurface_create).
type Surface interface {
	Size() (width, height uint32)
	Input() InputRegion

	// OnCommit registers a listener fired whenever this surface commits a
	// new buffer (spec.md's view_child_handle_commit drives ApplyDamage).
	OnCommit(fn func(Surface)) *signal.Listener[Surface]
	// OnNewSubsurface registers a listener fired when a new subsurface is
	// added below this surface (spec.md's view_child_handle_new_subsurface).
	OnNewSubsurface(fn func(Surface)) *signal.Listener[Surface]
	// OnDestroy registers a listener fired when this surface (or, for a
	// subsurface, the subsurface object itself) is destroyed.
	OnDestroy(fn func(Surface)) *signal.Listener[Surface]

	// SubsurfaceAt recursively hit-tests this surface's subsurface tree
	// at surface-local point (sx, sy), exactly as wlr_surface_subsurface_at
	// does. localX/localY are the hit subsurface's origin relative to this
	// surface, not the point's coordinates within it. The subsurface
	// tree's own geometry is the shell layer's concern, not the core's.
	SubsurfaceAt(sx, sy float64) (surface Surface, localX, localY float64, ok bool)

	// Enter notifies the surface it now overlaps output
	// (wlr_surface_send_enter).
	Enter(output OutputHandle)
	// Leave notifies the surface it no longer overlaps output
	// (wlr_surface_send_leave).
	Leave(output OutputHandle)
}

// SubsurfaceAt recursively hit-tests a surface's subsurface tree, as
// wlr_surface_subsurface_at does. localX/localY are the hit subsurface's
// origin relative to the queried surface. It returns ok == false when no
// subsurface is hit at (sx, sy).
type SubsurfaceAt func(sx, sy float64) (surface Surface, localX, localY float64, ok bool)

// PopupAt recursively hit-tests a shell's popup tree, as
// wlr_xdg_surface_v6_popup_at / wlr_wl_shell_surface_popup_at do.
// localX/localY are the hit popup's origin relative to the view's surface.
type PopupAt func(sx, sy float64) (surface Surface, localX, localY float64, ok bool)

// Shell is the optional per-view capability table a shell-protocol layer
// may provide (spec.md §6, §9 "Polymorphic shell dispatch"). Every field
// is optional — mirroring the teacher stack's `XxxHandlers{OnFoo: ...}`
// convention (github.com/friedelschoen/ctxmenu's `wayland.go`) rather
// than a Go interface, precisely because the core must tell "unsupported"
// (nil field, skip) apart from "supported no-op" without an error value:
// a shell that doesn't support a verb simply leaves the field nil, and
// the core treats that as "unsupported", not an error.
type Shell struct {
	ShellKind ShellKind

	// IsPopup marks this view itself as a wl_shell popup surface rather
	// than a toplevel. A wl_shell popup is only ever reachable by
	// hit-testing through its parent's PopupAt; it must never be hit
	// directly at the top level of a desktop-wide hit-test.
	IsPopup bool

	// Move relocates the underlying surface. May be nil.
	Move func(x, y float64)
	// Resize requests a new surface size. May be nil.
	Resize func(width, height uint32)
	// MoveResize atomically relocates and resizes. May be nil; when nil
	// the core falls back to Resize plus a pending-move-resize record.
	MoveResize func(x, y float64, width, height uint32)
	// Activate requests keyboard focus / "this is the active window"
	// decoration state. May be nil.
	Activate func(active bool)
	// Maximize requests the shell report a maximized state to the
	// client. May be nil.
	Maximize func(maximized bool)
	// SetFullscreen requests the shell report a fullscreen state to the
	// client. May be nil.
	SetFullscreen func(fullscreen bool)
	// Close requests the client close the view. May be nil.
	Close func()
	// PopupAt recursively hit-tests this shell's popup tree. May be nil
	// for shells with no popup concept.
	PopupAt PopupAt
}

// Kind returns the shell's protocol discriminant.
func (s *Shell) Kind() ShellKind {
	if s == nil {
		return XdgShellV6
	}
	return s.ShellKind
}

// OutputHandle is an opaque reference to a single physical or virtual
// display region, as held by the Layout.
type OutputHandle interface {
	// EffectiveResolution returns the output's usable pixel size.
	EffectiveResolution() (width, height int)
}

// Layout is the spatial arrangement of outputs: hit-tests and box
// queries, delegated to the (external) rendering backend (spec.md §6).
type Layout interface {
	// OutputAt returns the output containing layout point (x, y), or nil.
	OutputAt(x, y float64) OutputHandle
	// ClosestPoint returns the point on some output (or, if output is
	// non-nil, specifically that output) closest to (x, y).
	ClosestPoint(output OutputHandle, x, y float64) (cx, cy float64)
	// GetBox returns an output's box in layout coordinates.
	GetBox(output OutputHandle) (x, y, width, height float64)
	// Intersects reports whether box intersects output's region. A nil
	// output means "any output in the layout".
	Intersects(output OutputHandle, box geometry.Box) bool
	// CenterOutput returns the layout's designated center output, or nil
	// for an empty layout.
	CenterOutput() OutputHandle
}

// Cursor exposes the pointer position tracked by a seat.
type Cursor interface {
	Position() (x, y float64)
}

// LastInputEvent is the timestamp of the most recent input event a seat
// observed, used by View.Center to pick the "current" seat (spec.md
// §4.2).
type LastInputEvent struct {
	Sec, Nsec int64
}

// Before reports whether e occurred strictly before other.
func (e LastInputEvent) Before(other LastInputEvent) bool {
	if e.Sec != other.Sec {
		return e.Sec < other.Sec
	}
	return e.Nsec < other.Nsec
}

// Damager is the per-output damage sink the renderer provides (spec.md §6
// "To the renderer"). The core only ever tells it what moved; translating
// that into actual scanout damage regions is the renderer's job.
type Damager interface {
	// DamageWhole marks the entire output dirty, as when a fullscreen
	// view is set or cleared (original_source's output_damage_whole).
	DamageWhole()
	// DamageWholeView marks box (in layout coordinates) dirty on this
	// output in full (original_source's output_damage_whole_view).
	DamageWholeView(box geometry.Box)
	// DamageFromView unions box's incremental damage into this output
	// (original_source's output_damage_from_view).
	DamageFromView(box geometry.Box)
}

// Seat is a grouping of input devices with a cursor and a last-event
// timestamp (spec.md §6 "To the input/seat layer").
type Seat interface {
	Cursor() Cursor
	LastEvent() LastInputEvent
	// SetFocus requests keyboard focus move to view. The core never
	// inspects view beyond passing it back to this method opaquely, so
	// this takes an `any` rather than a concrete View type to avoid an
	// import cycle with package view.
	SetFocus(view any)
}
