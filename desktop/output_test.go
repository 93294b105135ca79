package desktop

import (
	"testing"

	"github.com/waylandcore/rootcore/geometry"
	"github.com/waylandcore/rootcore/view"
)

func TestOutputBindingSetAndClearFullscreenView(t *testing.T) {
	layout := newFakeLayout()
	handle := &fakeOutputHandle{width: 1920, height: 1080}
	layout.place(handle, geometry.Box{X: 0, Y: 0, Width: 1920, Height: 1080})
	d := New(layout)
	damager := &fakeDamager{}
	binding := NewOutputBinding(handle, damager)
	d.AddOutput(binding)

	v := view.New(d, &fakeSurface{width: 200, height: 100}, nil)

	if binding.FullscreenView() != nil {
		t.Fatal("expected no fullscreen view initially")
	}
	binding.SetFullscreenView(v)
	if binding.FullscreenView() != v {
		t.Fatal("expected FullscreenView to return the view just set")
	}
	binding.DamageWhole()
	if damager.wholeCalls != 1 {
		t.Errorf("wholeCalls = %d, want 1", damager.wholeCalls)
	}

	binding.SetFullscreenView(nil)
	if binding.FullscreenView() != nil {
		t.Error("expected FullscreenView to be cleared")
	}
}

func TestOutputFromHandleFindsRegisteredBinding(t *testing.T) {
	layout := newFakeLayout()
	handle := &fakeOutputHandle{width: 800, height: 600}
	d := New(layout)
	binding := NewOutputBinding(handle, &fakeDamager{})
	d.AddOutput(binding)

	if got := d.OutputFromHandle(handle); got != view.FullscreenTarget(binding) {
		t.Error("expected OutputFromHandle to return the registered binding")
	}

	other := &fakeOutputHandle{width: 1, height: 1}
	if got := d.OutputFromHandle(other); got != nil {
		t.Error("expected OutputFromHandle to return nil for an unknown handle")
	}
}
