package signal

import "testing"

func TestSignalEmitDeliversToAllListeners(t *testing.T) {
	var s Signal[int]
	var got []int
	l1 := s.Add(func(v int) { got = append(got, v*1) })
	l2 := s.Add(func(v int) { got = append(got, v*10) })
	defer l1.Remove()
	defer l2.Remove()

	s.Emit(3)

	if len(got) != 2 || got[0] != 3 || got[1] != 30 {
		t.Errorf("got %v, want [3 30]", got)
	}
}

func TestListenerRemoveStopsDelivery(t *testing.T) {
	var s Signal[int]
	var count int
	l := s.Add(func(int) { count++ })
	l.Remove()
	s.Emit(1)

	if count != 0 {
		t.Errorf("count = %d, want 0 after Remove", count)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestListenerRemoveIsIdempotent(t *testing.T) {
	var s Signal[int]
	l := s.Add(func(int) {})
	l.Remove()
	l.Remove() // must not panic
}

func TestReinitClearsListeners(t *testing.T) {
	var s Signal[struct{}]
	s.Add(func(struct{}) {})
	s.Add(func(struct{}) {})
	s.Reinit()
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Reinit, want 0", s.Len())
	}
}
