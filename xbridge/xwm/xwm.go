// Package xwm is a concrete, optional X window manager for the bridge:
// it mirrors a View's fullscreen/maximize/move-resize transitions onto
// an Xwayland client window via EWMH (spec.md §6 "To the X window
// manager"; "xwm_create"/"xwm_set_seat"/"xwm_set_cursor" in
// original_source/xwayland/xwayland.c name the call sites this package
// answers, though the encoder itself is explicitly out of the core's
// scope).
package xwm

import (
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/waylandcore/rootcore/shellproto"
	"github.com/waylandcore/rootcore/xbridge"
)

// WM owns one X11 connection to a single Xwayland display and applies
// View state transitions to client windows over EWMH.
type WM struct {
	xu *xgbutil.XUtil

	mu   sync.Mutex
	seat shellproto.Seat
}

// New connects to the Xwayland display just brought up (":<display>")
// and returns a WM ready to receive view-state notifications.
func New(display int) (*WM, error) {
	xu, err := xgbutil.NewConnDisplay(fmt.Sprintf(":%d", display))
	if err != nil {
		return nil, fmt.Errorf("xwm: connect to display %d: %w", display, err)
	}
	return &WM{xu: xu}, nil
}

// SetSeat records the seat a SetCursor call should eventually be
// attributed to. This WM doesn't yet forward pointer/keyboard focus
// itself (that belongs to the input/seat subsystem, out of scope per
// spec.md §1); it keeps the reference so a future focus-follows-seat
// policy has somewhere to hang.
func (w *WM) SetSeat(seat shellproto.Seat) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seat = seat
}

// SetCursor is a no-op here: setting the root cursor is an Xlib/XFixes
// concern distinct from per-window EWMH state, and no pack example wires
// a cursor through xgbutil. The deferred-cursor bookkeeping itself
// already lives in package xbridge; this method exists only to satisfy
// XWindowManager.
func (w *WM) SetCursor(img xbridge.CursorImage) {}

// NotifyFullscreen mirrors View.SetFullscreen onto win's
// _NET_WM_STATE_FULLSCREEN (original's view_set_fullscreen reporting
// state to an Xwayland surface via xwm).
func (w *WM) NotifyFullscreen(win uint32, fullscreen bool) {
	var action uint32 = ewmh.StateRemove
	if fullscreen {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReq(w.xu, xproto.Window(win), action, "_NET_WM_STATE_FULLSCREEN"); err != nil {
		log.Printf("xwm: WmStateReq(FULLSCREEN) on %d failed: %v", win, err)
	}
}

// NotifyMaximize mirrors View.Maximize onto win's
// _NET_WM_STATE_MAXIMIZED_VERT/_HORZ pair.
func (w *WM) NotifyMaximize(win uint32, maximized bool) {
	var action uint32 = ewmh.StateRemove
	if maximized {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReqExtra(w.xu, xproto.Window(win), action,
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 1); err != nil {
		log.Printf("xwm: WmStateReqExtra(MAXIMIZED) on %d failed: %v", win, err)
	}
}

// NotifyMoveResize mirrors View.MoveResize onto win via EWMH's
// _NET_MOVERESIZE_WINDOW request.
func (w *WM) NotifyMoveResize(win uint32, x, y float64, width, height uint32) {
	if err := ewmh.MoveresizeWindow(w.xu, xproto.Window(win),
		int(x), int(y), int(width), int(height)); err != nil {
		log.Printf("xwm: MoveresizeWindow on %d failed: %v", win, err)
	}
}

// Destroy closes the X11 connection.
func (w *WM) Destroy() {
	w.xu.Conn().Close()
}
