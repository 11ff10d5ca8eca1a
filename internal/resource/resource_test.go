package resource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "sub", "a.txt")
	if err := os.MkdirAll(filepath.Dir(b), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, ok := Locate([]string{a, b})
	if !ok || got != b {
		t.Errorf("Locate = %q, %v; want %q, true", got, ok, b)
	}

	got, ok = Locate([]string{a})
	if ok || got != a {
		t.Errorf("Locate = %q, %v; want %q, false", got, ok, a)
	}

	if got, ok := Locate(nil); ok || got != "" {
		t.Errorf("Locate(nil) = %q, %v", got, ok)
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates("studentMarks.txt", "resources")
	if got[0] != "studentMarks.txt" {
		t.Errorf("first candidate should be the bare name, got %q", got[0])
	}
	found := false
	for _, p := range got {
		if p == filepath.Join("resources", "studentMarks.txt") {
			found = true
		}
	}
	if !found {
		t.Errorf("resources candidate missing from %v", got)
	}
}

func TestResolveOverride(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "custom.txt")
	got, ok := Resolve(p, "ignored.txt")
	if got != p || ok {
		t.Errorf("Resolve = %q, %v; want %q, false", got, ok, p)
	}
	_ = os.WriteFile(p, nil, 0o644)
	if _, ok := Resolve(p, "ignored.txt"); !ok {
		t.Error("expected override to exist")
	}
}
