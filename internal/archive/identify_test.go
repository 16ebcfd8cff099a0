package archive

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

var (
	leftRe  = regexp.MustCompile(`(?i)sofle_left.*\.uf2`)
	rightRe = regexp.MustCompile(`(?i)sofle_right.*\.uf2`)
)

func TestIdentify_FindsBothRolesCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "build"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SOFLE_LEFT_V2.UF2"), []byte("l"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "build", "sofle_right_v2.uf2"), []byte("r"), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := Identify(dir, leftRe, rightRe)
	if err != nil {
		t.Fatalf("Identify() failed: %v", err)
	}
	if set.Left.Role != RoleLeft || set.Left.Base() != "SOFLE_LEFT_V2.UF2" {
		t.Errorf("left = %+v", set.Left)
	}
	if set.Right.Role != RoleRight || set.Right.Base() != "sofle_right_v2.uf2" {
		t.Errorf("right = %+v", set.Right)
	}
}

func TestIdentify_MissingRoleFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sofle_left_v2.uf2"), []byte("l"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Identify(dir, leftRe, rightRe)
	if err == nil {
		t.Fatal("Identify() should fail when the right image is missing")
	}
	if !strings.Contains(err.Error(), "right firmware") {
		t.Errorf("error %q should name the missing role", err)
	}
}

func TestIdentify_NewestMatchWins(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	old := filepath.Join(dir, "sofle_left_old.uf2")
	newer := filepath.Join(dir, "sofle_left_new.uf2")
	for path, age := range map[string]time.Duration{old: 2 * time.Hour, newer: time.Minute} {
		if err := os.WriteFile(path, []byte("l"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, now.Add(-age), now.Add(-age)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "sofle_right_v2.uf2"), []byte("r"), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := Identify(dir, leftRe, rightRe)
	if err != nil {
		t.Fatalf("Identify() failed: %v", err)
	}
	if set.Left.Base() != "sofle_left_new.uf2" {
		t.Errorf("left = %q, want the newest match", set.Left.Base())
	}
}
