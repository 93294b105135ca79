package cursor

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestTheme(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	themeDir := filepath.Join(dir, "Adwaita")
	if err := os.Mkdir(themeDir, 0o755); err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}

	f, err := os.Create(filepath.Join(themeDir, "left_ptr.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(themeDir, "left_ptr.hotspot"), []byte("4 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	return dir
}

func TestLoadDecodesAndRescales(t *testing.T) {
	dir := writeTestTheme(t)

	theme, err := OpenTheme(dir, "Adwaita")
	if err != nil {
		t.Fatalf("OpenTheme() error = %v", err)
	}

	img, err := theme.Load("left_ptr", 16)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if img.Width != 16 || img.Height != 16 {
		t.Errorf("size = %dx%d, want 16x16", img.Width, img.Height)
	}
	if len(img.Pixels) != img.Stride*int(img.Height) {
		t.Errorf("len(Pixels) = %d, want Stride*Height = %d", len(img.Pixels), img.Stride*int(img.Height))
	}
	// Hotspot (4,4) in a 32x32 source halves to (2,2) at 16x16.
	if img.HotspotX != 2 || img.HotspotY != 2 {
		t.Errorf("hotspot = (%d,%d), want (2,2)", img.HotspotX, img.HotspotY)
	}
}

func TestLoadMissingImageErrors(t *testing.T) {
	dir := writeTestTheme(t)
	theme, err := OpenTheme(dir, "Adwaita")
	if err != nil {
		t.Fatalf("OpenTheme() error = %v", err)
	}

	if _, err := theme.Load("no-such-cursor", 16); err == nil {
		t.Error("expected an error loading a missing cursor image")
	}
}

func TestOpenThemeMissingDirErrors(t *testing.T) {
	if _, err := OpenTheme(t.TempDir(), "NoSuchTheme"); err == nil {
		t.Error("expected an error opening a missing theme directory")
	}
}

func TestMissingHotspotFileDefaultsToZero(t *testing.T) {
	dir := t.TempDir()
	themeDir := filepath.Join(dir, "Plain")
	if err := os.Mkdir(themeDir, 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	f, err := os.Create(filepath.Join(themeDir, "left_ptr.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	theme, err := OpenTheme(dir, "Plain")
	if err != nil {
		t.Fatalf("OpenTheme() error = %v", err)
	}
	got, err := theme.Load("left_ptr", 8)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.HotspotX != 0 || got.HotspotY != 0 {
		t.Errorf("hotspot = (%d,%d), want (0,0) with no .hotspot file", got.HotspotX, got.HotspotY)
	}
}
