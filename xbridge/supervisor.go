// Package xbridge supervises an Xwayland child process: display/socket
// allocation, the startup handshake, and restart-on-crash policy
// (spec.md §4.6). It knows nothing about X11 itself — the window-manager
// protocol is an optional collaborator (package xbridge/xwm) constructed
// once the server signals readiness.
package xbridge

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	ossignal "os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/waylandcore/rootcore/shellproto"
	"github.com/waylandcore/rootcore/signal"
)

// State is the bridge's lifecycle state (spec.md §4.6: Idle → Starting →
// Running → Terminating → (Idle | Restarting)).
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateTerminating
	StateRestarting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	case StateRestarting:
		return "restarting"
	default:
		return "unknown"
	}
}

// Client is the Wayland client object registered against wl_fd[0]. The
// bridge never inspects it beyond Destroy; the backend that actually
// speaks the Wayland wire protocol owns everything else (spec.md §1 Out
// of scope).
type Client interface {
	Destroy()
}

// CursorImage is the pixel payload for wlr_xwayland_set_cursor: a
// premultiplied buffer plus stride, size, and hotspot.
type CursorImage struct {
	Pixels             []byte
	Stride             int
	Width, Height      uint32
	HotspotX, HotspotY int32
}

// XWindowManager is the optional X11 window-manager layer the bridge
// constructs once the server is ready (spec.md §6 "To the X window
// manager"). The core never implements this itself; package xbridge/xwm
// supplies a concrete instance built on xgb/xgbutil.
type XWindowManager interface {
	SetSeat(seat shellproto.Seat)
	SetCursor(img CursorImage)

	// NotifyFullscreen, NotifyMaximize and NotifyMoveResize mirror a
	// View's state-machine transitions (package view) onto an Xwayland
	// client window, keyed by its X11 window ID.
	NotifyFullscreen(win uint32, fullscreen bool)
	NotifyMaximize(win uint32, maximized bool)
	NotifyMoveResize(win uint32, x, y float64, width, height uint32)

	Destroy()
}

// Process is the subset of *exec.Cmd the bridge depends on, narrowed so
// tests can substitute a fake X server without touching the OS.
type Process interface {
	Wait() error
}

// Deps are the bridge's external collaborators and tunables. Every func
// field has a production default installed by NewSupervisor; tests
// override them to run the handshake without a real Xwayland binary.
type Deps struct {
	// XDGRuntimeDir is forwarded to the child verbatim; every other
	// environment variable is cleared (spec.md §6 "X bridge CLI").
	XDGRuntimeDir string
	// RestartFloor is the minimum uptime before a client-destroy is
	// allowed to trigger a restart (spec.md §4.6, §7; default 5s).
	RestartFloor time.Duration

	// RegisterClient registers a Wayland client against wlFD (step 3).
	RegisterClient func(wlFD *os.File) (Client, error)
	// NewXWM constructs the window manager against wmFD once the server
	// signals readiness.
	NewXWM func(wmFD *os.File) (XWindowManager, error)
	// StartProcess execs the X server with the given argv, environment,
	// and inherited descriptors (fd 3, 4, 5, ... in child-process order).
	StartProcess func(args, env []string, extraFiles []*os.File) (Process, error)
	// NotifySIGUSR1 installs the readiness signal source and returns a
	// channel fed by it plus a func to remove the source again.
	NotifySIGUSR1 func() (ch chan os.Signal, stop func())
}

// Supervisor brings up and tears down one Xwayland bridge. spec.md §5
// models the bridge as single-threaded, driven by one event loop; the
// readiness handshake is the one place that can't honor that directly,
// since the SIGUSR1-or-exit race has to be observed off a background
// goroutine (watch) rather than the caller's own call stack. mu makes
// that goroutine's state mutation safe against a concurrent caller
// method instead of asking every caller to serialize onto a loop thread
// that this package doesn't own.
type Supervisor struct {
	deps Deps

	mu      sync.Mutex
	state   State
	display *displaySockets
	wlFD    [2]*os.File
	wmFD    [2]*os.File
	proc    Process

	serverStart time.Time
	sigusr1     chan os.Signal
	stopSignal  func()
	// settled is closed once the in-flight watch() has resolved to either
	// Running or a startup failure. Tests synchronize on it instead of
	// polling State(); production code has no need to wait on it.
	settled chan struct{}

	client         Client
	xwm            XWindowManager
	seat           shellproto.Seat
	deferredCursor *CursorImage

	// Ready fires once per successful startup, then is reinitialized
	// (spec.md §4.6 "emit ready (one-shot...)").
	Ready signal.Signal[struct{}]
}

// NewSupervisor builds a Supervisor, filling every unset Deps field with
// its production default.
func NewSupervisor(deps Deps) *Supervisor {
	if deps.RestartFloor == 0 {
		deps.RestartFloor = 5 * time.Second
	}
	if deps.StartProcess == nil {
		deps.StartProcess = defaultStartProcess
	}
	if deps.NotifySIGUSR1 == nil {
		deps.NotifySIGUSR1 = defaultNotifySIGUSR1
	}
	if deps.RegisterClient == nil {
		deps.RegisterClient = func(*os.File) (Client, error) { return noopClient{}, nil }
	}
	if deps.NewXWM == nil {
		deps.NewXWM = func(*os.File) (XWindowManager, error) { return noopXWM{}, nil }
	}
	return &Supervisor{deps: deps, state: StateIdle}
}

// State reports the bridge's current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Display returns the allocated DISPLAY number, or -1 when the bridge is
// not currently running a server.
func (s *Supervisor) Display() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.display == nil {
		return -1
	}
	return s.display.display
}

// Start runs the starting sequence: allocate a display, create the two
// socketpairs, register the Wayland client, install the SIGUSR1 source,
// and exec the X server (spec.md §4.6 steps 1-6).
//
// Go's exec.Cmd already performs a safe fork+exec without running
// arbitrary Go code between the two (syscall.ForkExec), which is exactly
// what original_source's intermediate child existed to make safe from a
// multi-threaded process. That makes the intermediate process itself
// redundant here: this Supervisor is the X server's direct OS parent, so
// it receives the server's readiness SIGUSR1 itself instead of having it
// relayed by a throwaway middle process.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start()
}

// start is Start's body; callers that already hold mu (HandleClientDestroy's
// restart path) call this directly instead of recursing into Start.
func (s *Supervisor) start() error {
	if s.state != StateIdle && s.state != StateRestarting {
		return fmt.Errorf("xbridge: Start called in state %v", s.state)
	}

	disp, err := allocateDisplay()
	if err != nil {
		return err
	}

	xFile0, xFile1, err := disp.files()
	if err != nil {
		disp.close()
		disp.unlink()
		return err
	}

	wl, err := socketpair()
	if err != nil {
		xFile0.Close()
		xFile1.Close()
		disp.close()
		disp.unlink()
		return err
	}
	wm, err := socketpair()
	if err != nil {
		xFile0.Close()
		xFile1.Close()
		wl[0].Close()
		wl[1].Close()
		disp.close()
		disp.unlink()
		return err
	}

	client, err := s.deps.RegisterClient(wl[0])
	if err != nil {
		xFile0.Close()
		xFile1.Close()
		wl[0].Close()
		wl[1].Close()
		wm[0].Close()
		wm[1].Close()
		disp.close()
		disp.unlink()
		return fmt.Errorf("xbridge: register client: %w", err)
	}

	sigCh, stop := s.deps.NotifySIGUSR1()

	args := []string{
		fmt.Sprintf(":%d", disp.display),
		"-rootless", "-terminate",
		"-listen", "3",
		"-listen", "4",
		"-wm", "5",
	}
	env := []string{"WAYLAND_SOCKET=6"}
	if s.deps.XDGRuntimeDir != "" {
		env = append(env, "XDG_RUNTIME_DIR="+s.deps.XDGRuntimeDir)
	}
	extraFiles := []*os.File{xFile0, xFile1, wm[1], wl[1]}

	proc, err := s.deps.StartProcess(args, env, extraFiles)
	if err != nil {
		stop()
		client.Destroy()
		xFile0.Close()
		xFile1.Close()
		wl[0].Close()
		wl[1].Close()
		wm[0].Close()
		wm[1].Close()
		disp.close()
		disp.unlink()
		return fmt.Errorf("xbridge: start X server: %w", err)
	}

	// Step 6: the parent's copies of the now-child-owned descriptors.
	xFile0.Close()
	xFile1.Close()
	wl[1].Close()
	wm[1].Close()

	s.display = disp
	s.wlFD = wl
	s.wmFD = wm
	s.client = client
	s.proc = proc
	s.sigusr1 = sigCh
	s.stopSignal = stop
	s.serverStart = time.Now()
	s.state = StateStarting
	s.settled = make(chan struct{})

	go s.watch(proc, sigCh, s.settled)

	return nil
}

// watch waits for whichever arrives first: the readiness signal, or the
// server exiting before it ever became ready. It runs on its own
// goroutine, so proc/sigusr1/settled are passed in rather than read off
// s: by the time this goroutine runs, a concurrent caller may already
// have mutated s.proc/s.sigusr1/s.settled (a restart, say), and reading
// them here instead of the values start() actually installed would race.
func (s *Supervisor) watch(proc Process, sigusr1 chan os.Signal, settled chan struct{}) {
	exited := make(chan error, 1)
	go func() { exited <- proc.Wait() }()

	select {
	case <-sigusr1:
		s.mu.Lock()
		s.handleReady()
		s.mu.Unlock()
	case err := <-exited:
		s.mu.Lock()
		s.handleStartupFailure(err)
		s.mu.Unlock()
	}
	close(settled)
}

// handleReady runs the supervisor side of the readiness handshake
// (spec.md §4.6 "On SIGUSR1 in the supervisor"). Assumes s.mu is held.
func (s *Supervisor) handleReady() {
	if s.stopSignal != nil {
		s.stopSignal()
		s.stopSignal = nil
	}

	xwm, err := s.deps.NewXWM(s.wmFD[0])
	if err != nil {
		log.Printf("xbridge: xwm construction failed, aborting bridge: %v", err)
		s.state = StateTerminating
		s.teardown(true)
		s.state = StateIdle
		return
	}
	s.xwm = xwm

	if s.seat != nil {
		xwm.SetSeat(s.seat)
	}
	if s.deferredCursor != nil {
		xwm.SetCursor(*s.deferredCursor)
		s.deferredCursor = nil
	}

	os.Setenv("DISPLAY", fmt.Sprintf(":%d", s.display.display))
	s.state = StateRunning

	s.Ready.Emit(struct{}{})
	s.Ready.Reinit()
}

// handleStartupFailure mirrors "X server startup failure" in spec.md §7:
// do not build the window manager, finish the bridge, and leave restart
// policy to whoever notices the client eventually goes away too (the
// bridge itself never restarts on its own initiative from this path —
// only HandleClientDestroy decides that, per spec.md's "On Wayland
// client destroy"). Assumes s.mu is held.
func (s *Supervisor) handleStartupFailure(err error) {
	log.Printf("xbridge: X server exited before signaling readiness: %v", err)
	if s.stopSignal != nil {
		s.stopSignal()
		s.stopSignal = nil
	}
	s.state = StateTerminating
	s.teardown(true)
	s.state = StateIdle
}

// SetSeat binds seat to the window manager immediately if one has been
// built, or records it for when handleReady constructs one
// (wlr_xwayland_set_seat).
func (s *Supervisor) SetSeat(seat shellproto.Seat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seat = seat
	if s.xwm != nil {
		s.xwm.SetSeat(seat)
	}
}

// SetCursor applies img to the window manager immediately, or defers it
// until handleReady if the bridge hasn't reached Running yet
// (wlr_xwayland_set_cursor).
func (s *Supervisor) SetCursor(img CursorImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.xwm != nil {
		s.xwm.SetCursor(img)
		return
	}
	s.deferredCursor = &img
}

// HandleClientDestroy tears the bridge down and, if the server has been
// up for at least RestartFloor, starts it again (spec.md §4.6 "On
// Wayland client destroy").
func (s *Supervisor) HandleClientDestroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateTerminating
	// The caller's own destroy listener already tore the client object
	// down; the bridge just drops its reference rather than destroying
	// it a second time.
	s.client = nil
	s.teardown(false)

	if time.Since(s.serverStart) >= s.deps.RestartFloor {
		s.state = StateRestarting
		if err := s.start(); err != nil {
			log.Printf("xbridge: restart after client destroy failed: %v", err)
			s.state = StateIdle
		}
		return
	}
	s.state = StateIdle
}

// HandleDisplayDestroy tears the bridge down without touching the
// already-dying Wayland client (spec.md §4.6 "On display destroy").
func (s *Supervisor) HandleDisplayDestroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTerminating
	s.teardown(false)
	s.state = StateIdle
}

// Finish tears the bridge all the way down, destroying the client too.
// The X server itself is never killed; it exits on SIGPIPE once the
// descriptors it was handed are closed (spec.md §4.6).
func (s *Supervisor) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTerminating
	s.teardown(true)
	s.state = StateIdle
}

// teardown is the shared body of handleStartupFailure, Finish,
// HandleClientDestroy and HandleDisplayDestroy: free the deferred
// cursor, destroy the xwm if built, optionally destroy the client,
// remove the SIGUSR1 source, close all six descriptors (tolerating
// already-nil ones), and unlink the DISPLAY sockets. Assumes s.mu is
// held by the caller.
func (s *Supervisor) teardown(destroyClient bool) {
	if s.display == nil && s.proc == nil {
		return
	}

	s.deferredCursor = nil

	if s.xwm != nil {
		s.xwm.Destroy()
		s.xwm = nil
	}

	if destroyClient && s.client != nil {
		s.client.Destroy()
	}
	s.client = nil

	if s.stopSignal != nil {
		s.stopSignal()
		s.stopSignal = nil
	}

	safeClose(s.wlFD[0])
	safeClose(s.wlFD[1])
	safeClose(s.wmFD[0])
	safeClose(s.wmFD[1])
	s.wlFD = [2]*os.File{}
	s.wmFD = [2]*os.File{}

	if s.display != nil {
		s.display.close()
		s.display.unlink()
		s.display = nil
	}

	os.Unsetenv("DISPLAY")
	s.proc = nil
}

func safeClose(f *os.File) {
	if f != nil {
		f.Close()
	}
}

// socketpair creates a close-on-exec AF_UNIX SOCK_STREAM pair, used for
// both the Wayland connection and the WM channel (spec.md §4.6 step 2).
func socketpair() (pair [2]*os.File, err error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return pair, fmt.Errorf("xbridge: socketpair: %w", err)
	}
	pair[0] = os.NewFile(uintptr(fds[0]), "xbridge-socket")
	pair[1] = os.NewFile(uintptr(fds[1]), "xbridge-socket")
	return pair, nil
}

const xwaylandBinary = "Xwayland"

func defaultStartProcess(args, env []string, extraFiles []*os.File) (Process, error) {
	cmd := exec.Command(xwaylandBinary, args...)
	cmd.Env = env
	cmd.ExtraFiles = extraFiles
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return execProcess{cmd}, nil
}

type execProcess struct{ cmd *exec.Cmd }

func (p execProcess) Wait() error { return p.cmd.Wait() }

func defaultNotifySIGUSR1() (chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	ossignal.Notify(ch, syscall.SIGUSR1)
	return ch, func() { ossignal.Stop(ch) }
}

type noopClient struct{}

func (noopClient) Destroy() {}

type noopXWM struct{}

func (noopXWM) SetSeat(shellproto.Seat)                            {}
func (noopXWM) SetCursor(CursorImage)                              {}
func (noopXWM) NotifyFullscreen(win uint32, fullscreen bool)       {}
func (noopXWM) NotifyMaximize(win uint32, maximized bool)          {}
func (noopXWM) NotifyMoveResize(win uint32, x, y float64, w, h uint32) {}
func (noopXWM) Destroy()                                           {}
