package entity

import (
	"testing"

	"github.com/rirc-go/rirc/casefold"
)

func keys(m *OrderedMap[int]) []string {
	var out []string
	m.Range(func(k string, _ int) bool {
		out = append(out, k)
		return true
	})
	return out
}

func TestOrderedMapAddMaintainsSortedOrder(t *testing.T) {
	m := NewOrderedMap[int](casefold.RFC1459)

	m.Add("charlie", 3)
	m.Add("alice", 1)
	m.Add("bob", 2)

	got := keys(m)
	want := []string{"alice", "bob", "charlie"}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}

func TestOrderedMapAddRejectsDuplicate(t *testing.T) {
	m := NewOrderedMap[int](casefold.RFC1459)
	m.Add("alice", 1)

	if m.Add("alice", 2) {
		t.Fatal("Add should reject a duplicate key")
	}
	if v, _ := m.Get("alice"); v != 1 {
		t.Fatalf("Get(alice) = %d, want unchanged 1", v)
	}
}

func TestOrderedMapCasefoldedLookup(t *testing.T) {
	m := NewOrderedMap[int](casefold.RFC1459)
	m.Add("Alice", 1)

	if _, ok := m.Get("alice"); !ok {
		t.Fatal("Get should find a casefold-equivalent key")
	}
	if _, ok := m.Get("ALICE"); !ok {
		t.Fatal("Get should find a casefold-equivalent key")
	}
}

func TestOrderedMapDelete(t *testing.T) {
	m := NewOrderedMap[int](casefold.RFC1459)
	m.Add("alice", 1)
	m.Add("bob", 2)

	if !m.Delete("alice") {
		t.Fatal("Delete should succeed for a present key")
	}
	if m.Delete("alice") {
		t.Fatal("Delete should fail for an absent key")
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

func TestOrderedMapRename(t *testing.T) {
	m := NewOrderedMap[int](casefold.RFC1459)
	m.Add("alice", 1)
	m.Add("bob", 2)

	if !m.Rename("alice", "carol") {
		t.Fatal("Rename should succeed")
	}
	if _, ok := m.Get("alice"); ok {
		t.Fatal("old key should no longer resolve after Rename")
	}
	if v, ok := m.Get("carol"); !ok || v != 1 {
		t.Fatalf("Get(carol) = %d, %v, want 1, true", v, ok)
	}

	if m.Rename("missing", "dave") {
		t.Fatal("Rename should fail when oldKey is absent")
	}
	if m.Rename("carol", "bob") {
		t.Fatal("Rename should fail when newKey is already taken")
	}
}
