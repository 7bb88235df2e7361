package cache

import "testing"

type rec struct {
	ID   int64
	Name string
}

func newRecList() *List[rec] {
	return NewList(func(r rec) int64 { return r.ID })
}

func TestListReplaceAndItems(t *testing.T) {
	l := newRecList()
	if l.Len() != 0 {
		t.Fatalf("new list should be empty, got %d", l.Len())
	}

	l.Replace([]rec{{1, "a"}, {2, "b"}})
	if l.Len() != 2 {
		t.Fatalf("expected 2, got %d", l.Len())
	}

	// Items must be a copy: mutating it must not leak into the snapshot.
	items := l.Items()
	items[0].Name = "mutated"
	if l.Items()[0].Name != "a" {
		t.Fatal("Items returned a live reference to the snapshot")
	}

	l.Replace(nil)
	if l.Len() != 0 {
		t.Fatalf("replace with empty should clear, got %d", l.Len())
	}
}

func TestListAppend(t *testing.T) {
	l := newRecList()
	l.Append(rec{1, "a"})
	l.Append(rec{2, "b"})

	items := l.Items()
	if len(items) != 2 || items[1].Name != "b" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestListUpdate(t *testing.T) {
	l := newRecList()
	l.Replace([]rec{{1, "a"}, {2, "b"}})

	if !l.Update(rec{2, "beta"}) {
		t.Fatal("expected update to find id 2")
	}
	if l.Items()[1].Name != "beta" {
		t.Fatalf("update did not replace: %+v", l.Items())
	}
	if l.Update(rec{9, "ghost"}) {
		t.Fatal("update of missing id should report false")
	}
	if l.Len() != 2 {
		t.Fatalf("update must not change length, got %d", l.Len())
	}
}

func TestListRemove(t *testing.T) {
	l := newRecList()
	l.Replace([]rec{{1, "a"}, {2, "b"}, {3, "c"}})

	if !l.Remove(2) {
		t.Fatal("expected remove to find id 2")
	}
	items := l.Items()
	if len(items) != 2 || items[0].ID != 1 || items[1].ID != 3 {
		t.Fatalf("unexpected items after remove: %+v", items)
	}
	if l.Remove(2) {
		t.Fatal("second remove should report false")
	}
}
