package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Candidate is a firmware archive found in the archive directory.
type Candidate struct {
	Path    string
	Name    string
	ModTime time.Time
}

// Age renders a relative-age label for the candidate, e.g. "3m ago".
func (c Candidate) Age(now time.Time) string {
	d := now.Sub(c.ModTime)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// List scans dir for regular files whose name ends in ext (case-insensitive)
// and returns them sorted newest-first by modification time. An unreadable
// directory yields an empty list, not an error: to the operator it is the
// same situation as no archives being present.
func List(dir, ext string) []Candidate {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []Candidate
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Candidate{
			Path:    filepath.Join(dir, name),
			Name:    name,
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out
}
