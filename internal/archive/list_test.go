package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestList_FiltersAndSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()

	now := time.Now()
	write := func(name string, mtime time.Time) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
	write("a.zip", now.Add(-2*time.Hour))
	write("b.zip", now.Add(-time.Minute))
	write("c.txt", now)

	got := List(dir, ".zip")
	if len(got) != 2 {
		t.Fatalf("List() returned %d candidates, want 2", len(got))
	}
	if got[0].Name != "b.zip" {
		t.Errorf("got[0] = %q, want b.zip (newest first)", got[0].Name)
	}
	if got[1].Name != "a.zip" {
		t.Errorf("got[1] = %q, want a.zip", got[1].Name)
	}
}

func TestList_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "nested.zip"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := List(dir, ".zip"); len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
}

func TestList_ExtensionIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "FW.ZIP"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := List(dir, ".zip"); len(got) != 1 {
		t.Fatalf("List() returned %d candidates, want 1", len(got))
	}
}

func TestList_UnreadableDirYieldsEmpty(t *testing.T) {
	if got := List(filepath.Join(t.TempDir(), "missing"), ".zip"); got != nil {
		t.Errorf("List() = %v, want nil", got)
	}
}

func TestCandidateAge(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		mod  time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "just now"},
		{"minutes", now.Add(-3 * time.Minute), "3m ago"},
		{"hours", now.Add(-2 * time.Hour), "2h ago"},
		{"days", now.Add(-5 * 24 * time.Hour), "5d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Candidate{ModTime: tt.mod}
			if got := c.Age(now); got != tt.want {
				t.Errorf("Age() = %q, want %q", got, tt.want)
			}
		})
	}
}
