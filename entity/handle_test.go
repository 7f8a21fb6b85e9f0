package entity

import "testing"

func TestStoreAddGetDelete(t *testing.T) {
	var s Store[string]

	h1 := s.Add("alice")
	h2 := s.Add("bob")

	if v, ok := s.Get(h1); !ok || v != "alice" {
		t.Fatalf("Get(h1) = %q, %v", v, ok)
	}
	if v, ok := s.Get(h2); !ok || v != "bob" {
		t.Fatalf("Get(h2) = %q, %v", v, ok)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	if !s.Delete(h1) {
		t.Fatal("Delete(h1) should succeed")
	}
	if _, ok := s.Get(h1); ok {
		t.Fatal("Get(h1) should fail after Delete")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestStoreReusesSlotWithNewGeneration(t *testing.T) {
	var s Store[string]

	h1 := s.Add("alice")
	s.Delete(h1)
	h2 := s.Add("carol")

	if h1.idx != h2.idx {
		t.Fatalf("expected slot reuse: h1.idx=%d h2.idx=%d", h1.idx, h2.idx)
	}
	if h1.gen == h2.gen {
		t.Fatal("expected a new generation on slot reuse")
	}
	if _, ok := s.Get(h1); ok {
		t.Fatal("stale handle h1 should not resolve after slot reuse")
	}
	if v, ok := s.Get(h2); !ok || v != "carol" {
		t.Fatalf("Get(h2) = %q, %v", v, ok)
	}
}

func TestStoreSetRequiresValidHandle(t *testing.T) {
	var s Store[string]

	h := s.Add("alice")
	if !s.Set(h, "alicia") {
		t.Fatal("Set on a live handle should succeed")
	}
	if v, _ := s.Get(h); v != "alicia" {
		t.Fatalf("Get(h) = %q, want alicia", v)
	}

	s.Delete(h)
	if s.Set(h, "x") {
		t.Fatal("Set on a deleted handle should fail")
	}
}

func TestStoreRangeVisitsLiveValuesOnly(t *testing.T) {
	var s Store[string]

	h1 := s.Add("a")
	s.Add("b")
	s.Delete(h1)
	s.Add("c")

	var got []string
	s.Range(func(_ Handle[string], v string) bool {
		got = append(got, v)
		return true
	})

	// "c" reuses the slot "a" freed, so it comes first in slot order.
	if len(got) != 2 || got[0] != "c" || got[1] != "b" {
		t.Fatalf("Range visited %v, want [c b]", got)
	}
}

func TestStoreRangeStopsEarly(t *testing.T) {
	var s Store[string]
	s.Add("a")
	s.Add("b")
	s.Add("c")

	count := 0
	s.Range(func(_ Handle[string], _ string) bool {
		count++
		return count < 2
	})

	if count != 2 {
		t.Fatalf("Range visited %d entries, want 2 (stopped early)", count)
	}
}

func TestZeroHandleNeverResolves(t *testing.T) {
	var s Store[string]
	s.Add("a")

	var zero Handle[string]
	if !zero.Zero() {
		t.Fatal("zero value Handle should report Zero() == true")
	}
	if _, ok := s.Get(zero); ok {
		t.Fatal("zero Handle should never resolve")
	}
}
