package ast

import "testing"

func TestAllocReturnsStableHandles(t *testing.T) {
	a := NewArena()
	h1 := a.Alloc(&Number{Type: NumI32, Text: "1"})
	h2 := a.Alloc(&Number{Type: NumI32, Text: "2"})

	if h1 == h2 {
		t.Fatal("Alloc returned the same handle twice")
	}
	n1 := a.At(h1).(*Number)
	n2 := a.At(h2).(*Number)
	if n1.Text != "1" || n2.Text != "2" {
		t.Errorf("At returned the wrong node: %q, %q", n1.Text, n2.Text)
	}
}

func TestPopLastRemovesFromFlatAndRoots(t *testing.T) {
	a := NewArena()
	n := &Number{Type: NumI32, Text: "7"}
	a.Alloc(n)
	a.AddRoot(n)

	popped, ok := a.PopLast()
	if !ok {
		t.Fatal("PopLast reported empty arena")
	}
	if popped != Node(n) {
		t.Error("PopLast returned the wrong node")
	}
	if len(a.Flat()) != 0 {
		t.Errorf("Flat() has %d entries after pop, want 0", len(a.Flat()))
	}
	if len(a.Roots()) != 0 {
		t.Errorf("Roots() has %d entries after pop, want 0", len(a.Roots()))
	}
}

func TestPopLastLeavesUnrelatedRootsAlone(t *testing.T) {
	a := NewArena()
	root := &Number{Type: NumI32, Text: "1"}
	a.Alloc(root)
	a.AddRoot(root)

	// a node allocated but not (yet) promoted to root, e.g. a Binary's
	// right-hand side being parsed.
	a.Alloc(&Number{Type: NumI32, Text: "2"})

	if _, ok := a.PopLast(); !ok {
		t.Fatal("PopLast reported empty arena")
	}
	if len(a.Roots()) != 1 {
		t.Fatalf("Roots() has %d entries, want 1 (root must survive)", len(a.Roots()))
	}
}
