// Command rootcored wires the desktop core to a minimal single-output
// static layout and, if enabled, the X bridge supervisor. It is not a
// full compositor: the rendering backend, shell-protocol parsers, and
// input/seat subsystem are all out of this module's scope (spec.md §1)
// and are stood in here with the smallest stubs that let the core run.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waylandcore/rootcore/config"
	"github.com/waylandcore/rootcore/desktop"
	"github.com/waylandcore/rootcore/geometry"
	"github.com/waylandcore/rootcore/shellproto"
	"github.com/waylandcore/rootcore/xbridge"
	"github.com/waylandcore/rootcore/xbridge/cursor"
	"github.com/waylandcore/rootcore/xbridge/xwm"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	width := flag.Int("width", 1920, "static output width, for the demo layout")
	height := flag.Int("height", 1080, "static output height, for the demo layout")
	themeDir := flag.String("cursor-theme-dir", "", "directory containing cursor theme subdirectories")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("rootcored: load config: %v", err)
		}
		cfg = loaded
	}

	layout := newStaticLayout(*width, *height)
	core := desktop.New(layout)
	core.AddOutput(desktop.NewOutputBinding(layout.output, noopDamager{}))

	var bridge *xbridge.Supervisor
	if cfg.Xwayland {
		bridge = startXBridge(cfg, core, *themeDir)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Print("rootcored: shutting down")
	if bridge != nil {
		bridge.Finish()
	}
}

func startXBridge(cfg config.Config, core *desktop.Desktop, themeDir string) *xbridge.Supervisor {
	var bridge *xbridge.Supervisor
	deps := xbridge.Deps{
		XDGRuntimeDir: os.Getenv("XDG_RUNTIME_DIR"),
		RestartFloor:  time.Duration(cfg.RestartFloor),
		NewXWM: func(*os.File) (xbridge.XWindowManager, error) {
			return xwm.New(bridge.Display())
		},
	}
	bridge = xbridge.NewSupervisor(deps)

	if err := bridge.Start(); err != nil {
		log.Printf("rootcored: X bridge failed to start: %v", err)
		return nil
	}

	bridge.Ready.Add(func(struct{}) {
		log.Printf("rootcored: X bridge ready on display %d", bridge.Display())
		applyConfiguredCursor(cfg, bridge, themeDir)
	})

	for _, seat := range core.Seats() {
		bridge.SetSeat(seat)
	}

	return bridge
}

func applyConfiguredCursor(cfg config.Config, bridge *xbridge.Supervisor, themeDir string) {
	if themeDir == "" {
		return
	}
	cc := cfg.CursorFor(config.DefaultSeatName)
	if cc == nil {
		return
	}
	theme, err := cursor.OpenTheme(themeDir, cc.Theme)
	if err != nil {
		log.Printf("rootcored: cursor theme load failed, continuing without one: %v", err)
		return
	}
	img, err := theme.Load(cc.Default, uint32(cc.Size))
	if err != nil {
		log.Printf("rootcored: cursor image load failed, continuing without one: %v", err)
		return
	}
	bridge.SetCursor(img)
}

// staticLayout is the smallest shellproto.Layout that lets the core run
// without a real rendering backend: one fixed-size output at the
// origin.
type staticLayout struct {
	output *staticOutput
}

func newStaticLayout(width, height int) *staticLayout {
	return &staticLayout{output: &staticOutput{width: width, height: height}}
}

func (l *staticLayout) OutputAt(x, y float64) shellproto.OutputHandle {
	box := geometry.Box{X: 0, Y: 0, Width: float64(l.output.width), Height: float64(l.output.height)}
	if box.Contains(x, y) {
		return l.output
	}
	return nil
}

func (l *staticLayout) ClosestPoint(output shellproto.OutputHandle, x, y float64) (float64, float64) {
	cx := geometry.Clamp(x, 0, float64(l.output.width))
	cy := geometry.Clamp(y, 0, float64(l.output.height))
	return cx, cy
}

func (l *staticLayout) GetBox(output shellproto.OutputHandle) (x, y, width, height float64) {
	return 0, 0, float64(l.output.width), float64(l.output.height)
}

func (l *staticLayout) Intersects(output shellproto.OutputHandle, box geometry.Box) bool {
	return box.Intersects(geometry.Box{X: 0, Y: 0, Width: float64(l.output.width), Height: float64(l.output.height)})
}

func (l *staticLayout) CenterOutput() shellproto.OutputHandle { return l.output }

type staticOutput struct{ width, height int }

func (o *staticOutput) EffectiveResolution() (int, int) { return o.width, o.height }

type noopDamager struct{}

func (noopDamager) DamageWhole()                 {}
func (noopDamager) DamageWholeView(geometry.Box) {}
func (noopDamager) DamageFromView(geometry.Box)  {}
