// Package cursor loads a cursor theme image and converts it into the
// pixel format the X window manager expects (spec.md §4.6 "apply any
// deferred cursor (pixels+stride+w+h+hotspot)"; §7 "Cursor theme load
// failure ... log and continue without cursor").
//
// The real Xcursor binary format is out of the pack's reach (no parser
// for it appears in any example repo or original_source), so a theme
// here is a plain directory of decodable images (PNG, GIF, ...) plus a
// sibling "<name>.hotspot" text file holding "x y" in the image's native
// pixel space. That keeps the format concern outside this module's
// scope, the same way spec.md keeps the wire-level xcursor parser
// outside the core's.
package cursor

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KononK/resize"
	"github.com/daaku/swizzle"
	"golang.org/x/image/math/fixed"

	"github.com/waylandcore/rootcore/xbridge"
)

// Theme is a directory of cursor images rooted at dir/name.
type Theme struct {
	dir string
}

// OpenTheme resolves theme to the directory dir/theme. No other XCursor
// search roots are consulted.
func OpenTheme(dir, theme string) (*Theme, error) {
	root := filepath.Join(dir, theme)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cursor: open theme %q: %w", theme, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cursor: %q is not a theme directory", root)
	}
	return &Theme{dir: root}, nil
}

// Load decodes the named cursor image, rescales it to size×size, and
// converts it to the BGRA byte order X servers expect for ARGB8888
// cursor pixel data (original_source's cursor buffer handed to
// xwm_set_cursor started life as a wlr_xcursor_image already in this
// layout; here the conversion is explicit since Go's image.RGBA is
// R,G,B,A order).
func (t *Theme) Load(name string, size uint32) (xbridge.CursorImage, error) {
	imgPath, err := t.findImage(name)
	if err != nil {
		return xbridge.CursorImage{}, err
	}

	f, err := os.Open(imgPath)
	if err != nil {
		return xbridge.CursorImage{}, fmt.Errorf("cursor: open %s: %w", imgPath, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return xbridge.CursorImage{}, fmt.Errorf("cursor: decode %s: %w", imgPath, err)
	}

	origBounds := src.Bounds()
	scaled := resize.Resize(uint(size), uint(size), src, resize.Bilinear)

	rgba, ok := scaled.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(scaled.Bounds())
		draw.Draw(rgba, rgba.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	}
	swizzle.BGRA(rgba.Pix)

	hx, hy := t.readHotspot(name)
	sx := scaleCoordinate(hx, origBounds.Dx(), int(size))
	sy := scaleCoordinate(hy, origBounds.Dy(), int(size))

	return xbridge.CursorImage{
		Pixels:   rgba.Pix,
		Stride:   rgba.Stride,
		Width:    size,
		Height:   size,
		HotspotX: sx,
		HotspotY: sy,
	}, nil
}

func (t *Theme) findImage(name string) (string, error) {
	for _, ext := range []string{".png", ".gif"} {
		path := filepath.Join(t.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("cursor: no image found for %q in %s", name, t.dir)
}

// readHotspot reads "<name>.hotspot" as "x y"; a missing or malformed
// file degrades to (0, 0) rather than failing the whole load, matching
// §7's "log and continue" posture for cursor loading.
func (t *Theme) readHotspot(name string) (x, y int) {
	f, err := os.Open(filepath.Join(t.dir, name+".hotspot"))
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, 0
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 2 {
		return 0, 0
	}
	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	if errX != nil || errY != nil {
		return 0, 0
	}
	return x, y
}

// scaleCoordinate rescales a hotspot component from the source image's
// pixel space into the resized one, rounding with 26.6 fixed-point
// arithmetic instead of plain integer division so a hotspot near an
// edge doesn't get truncated toward the wrong side.
func scaleCoordinate(v, from, to int) int32 {
	if from <= 0 {
		return 0
	}
	ratio := fixed.Int26_6((v * to * 64) / from)
	return int32(ratio.Round())
}
