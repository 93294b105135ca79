package xbridge

import (
	"fmt"
	"net"
	"os"
)

// maxDisplaySearch bounds the probe for a free DISPLAY number, matching
// the range every X lock-file implementation searches in practice.
const maxDisplaySearch = 64

// displaySockets is everything Start allocates in step 1: a DISPLAY
// number, its lock file, and the two listening descriptors Xwayland
// receives via -listen (original_source's open_display_sockets — absent
// from original_source, so this is grounded directly on spec.md §4.6
// step 1 and the well-known X11 lock-file/socket-dir convention it
// describes).
type displaySockets struct {
	display int
	lockPath string
	abstract *net.UnixListener
	filesystem *net.UnixListener
}

// allocateDisplay probes /tmp/.X<n>-lock with exclusive creation and, on
// the first free number, binds the abstract and filesystem Unix sockets
// at /tmp/.X11-unix/X<n>.
func allocateDisplay() (*displaySockets, error) {
	if err := os.MkdirAll(x11UnixDir, 0o1777); err != nil {
		return nil, fmt.Errorf("xbridge: create %s: %w", x11UnixDir, err)
	}

	for n := 0; n < maxDisplaySearch; n++ {
		lockPath := fmt.Sprintf("/tmp/.X%d-lock", n)
		lock, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o444)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("xbridge: create %s: %w", lockPath, err)
		}
		fmt.Fprintf(lock, "%10d\n", os.Getpid())
		lock.Close()

		sockPath := fmt.Sprintf("%s/X%d", x11UnixDir, n)
		abstract, err := net.ListenUnix("unix", &net.UnixAddr{Name: "@" + sockPath, Net: "unix"})
		if err != nil {
			os.Remove(lockPath)
			continue
		}
		filesystem, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockPath, Net: "unix"})
		if err != nil {
			abstract.Close()
			os.Remove(lockPath)
			continue
		}

		return &displaySockets{
			display:    n,
			lockPath:   lockPath,
			abstract:   abstract,
			filesystem: filesystem,
		}, nil
	}

	return nil, fmt.Errorf("xbridge: no free X display in [0, %d)", maxDisplaySearch)
}

// x11UnixDir is the well-known socket directory X clients and servers
// rendezvous in.
const x11UnixDir = "/tmp/.X11-unix"

// files returns the two listening descriptors in the order Xwayland
// expects them on its -listen arguments, duplicated (and, per
// net.UnixListener.File's documented behavior, made blocking and
// close-on-exec-cleared) so they survive the exec.
func (d *displaySockets) files() (x0, x1 *os.File, err error) {
	x0, err = d.abstract.File()
	if err != nil {
		return nil, nil, fmt.Errorf("xbridge: dup abstract socket: %w", err)
	}
	x1, err = d.filesystem.File()
	if err != nil {
		x0.Close()
		return nil, nil, fmt.Errorf("xbridge: dup filesystem socket: %w", err)
	}
	return x0, x1, nil
}

// close releases the supervisor's own copies of the listeners. It does
// not remove the lock file or socket path; unlink does that.
func (d *displaySockets) close() {
	if d.abstract != nil {
		d.abstract.Close()
	}
	if d.filesystem != nil {
		d.filesystem.Close()
	}
}

// unlink removes the DISPLAY's persistent filesystem state
// (original_source's unlink_display_sockets).
func (d *displaySockets) unlink() {
	os.Remove(d.lockPath)
	os.Remove(fmt.Sprintf("%s/X%d", x11UnixDir, d.display))
}
