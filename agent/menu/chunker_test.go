package menu

import (
	"strings"
	"testing"
)

func TestSplitChunksOverlappingWindows(t *testing.T) {
	t.Parallel()

	got := splitChunks("abcdefghij", 4, 1)
	want := []string{"abcd", "defg", "ghij"}
	if len(got) != len(want) {
		t.Fatalf("splitChunks() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunk[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitChunksShortText(t *testing.T) {
	t.Parallel()

	got := splitChunks("abc", 10, 2)
	if len(got) != 1 || got[0] != "abc" {
		t.Fatalf("splitChunks() = %v, want single chunk", got)
	}
}

func TestSplitChunksDeterministic(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("menu text ", 100)
	a := splitChunks(text, 50, 10)
	b := splitChunks(text, 50, 10)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk[%d] differs between runs", i)
		}
	}
}

func TestSplitChunksEdgeInputs(t *testing.T) {
	t.Parallel()

	if got := splitChunks("", 10, 2); got != nil {
		t.Fatalf("splitChunks(empty) = %v, want nil", got)
	}
	if got := splitChunks("abc", 0, 0); got != nil {
		t.Fatalf("splitChunks(size=0) = %v, want nil", got)
	}
}
