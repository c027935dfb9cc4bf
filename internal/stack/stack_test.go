package stack

import "testing"

func TestPushPopOrder(t *testing.T) {
	s := New[int]()

	s.Push(1)
	s.Push(2, 3)

	if got := s.Size(); got != 3 {
		t.Fatalf("Size() = %d, want 3", got)
	}

	for _, want := range []int{3, 2, 1} {
		got, ok := s.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = %d, %t, want %d, true", got, ok, want)
		}
	}

	if _, ok := s.Pop(); ok {
		t.Fatal("Pop() on empty stack should report false")
	}
	if !s.IsEmpty() {
		t.Fatal("stack should be empty after draining")
	}
}

func TestPeekLeavesTop(t *testing.T) {
	s := NewWithCapacity[string](4)

	if _, ok := s.Peek(); ok {
		t.Fatal("Peek() on empty stack should report false")
	}

	s.Push("a", "b")

	got, ok := s.Peek()
	if !ok || got != "b" {
		t.Fatalf("Peek() = %q, %t, want \"b\", true", got, ok)
	}
	if s.Size() != 2 {
		t.Fatalf("Peek() must not remove elements, size = %d", s.Size())
	}
}
