package geometry

import "testing"

func TestDecoBoxUndecorated(t *testing.T) {
	inner := Box{X: 10, Y: 20, Width: 100, Height: 50}
	got := DecoBox(inner, Decoration{})
	if got != inner {
		t.Errorf("DecoBox() = %+v, want %+v", got, inner)
	}
}

func TestDecoBoxDecorated(t *testing.T) {
	inner := Box{X: 50, Y: 50, Width: 200, Height: 100}
	deco := Decoration{BorderWidth: 4, TitlebarHeight: 20, Decorated: true}
	got := DecoBox(inner, deco)
	want := Box{X: 46, Y: 26, Width: 208, Height: 128}
	if got != want {
		t.Errorf("DecoBox() = %+v, want %+v", got, want)
	}
}

func TestClassifyDecoPartTitlebar(t *testing.T) {
	// Scenario 4 from spec.md §8: decorated view border=4, titlebar=20,
	// surface 200x100, view at (50,50); querying (55,45) in layout space
	// maps to surface-local (5,-5), which must land in the titlebar.
	deco := Decoration{BorderWidth: 4, TitlebarHeight: 20, Decorated: true}
	part := ClassifyDecoPart(deco, 200, 100, 5, -5)
	if part != DecoTitlebar {
		t.Errorf("ClassifyDecoPart(5,-5) = %v, want DecoTitlebar", part)
	}
}

func TestClassifyDecoPartNone(t *testing.T) {
	deco := Decoration{BorderWidth: 4, TitlebarHeight: 20, Decorated: true}
	// Strictly inside the client surface.
	if part := ClassifyDecoPart(deco, 200, 100, 100, 50); part != DecoNone {
		t.Errorf("ClassifyDecoPart(inside) = %v, want DecoNone", part)
	}
	// Far outside the deco box entirely.
	if part := ClassifyDecoPart(deco, 200, 100, 1000, 1000); part != DecoNone {
		t.Errorf("ClassifyDecoPart(far outside) = %v, want DecoNone", part)
	}
}

func TestClassifyDecoPartUndecorated(t *testing.T) {
	if part := ClassifyDecoPart(Decoration{}, 200, 100, 5, -5); part != DecoNone {
		t.Errorf("ClassifyDecoPart(undecorated) = %v, want DecoNone", part)
	}
}

func TestRotatePointInverse(t *testing.T) {
	// P6: rotating a surface-local point forward then hit-testing with the
	// same convention recovers the original point.
	sx, sy := 30.0, 70.0
	w, h := 200.0, 100.0
	rotation := 0.78539816 // ~pi/4

	fx, fy := RotatePoint(sx, sy, w, h, rotation)
	bx, by := RotatePoint(fx, fy, w, h, -rotation)
	if diff := (bx-sx)*(bx-sx) + (by-sy)*(by-sy); diff > 1e-6 {
		t.Errorf("round trip = (%v,%v), want (%v,%v)", bx, by, sx, sy)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %d, want 5", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1,0,10) = %d, want 0", got)
	}
	if got := Clamp(99, 0, 10); got != 10 {
		t.Errorf("Clamp(99,0,10) = %d, want 10", got)
	}
}
