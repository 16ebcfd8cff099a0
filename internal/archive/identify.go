package archive

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"time"
)

// Role tags a firmware image with the keyboard half it belongs to.
type Role string

const (
	RoleLeft  Role = "left"
	RoleRight Role = "right"
)

// FirmwareAsset is one extracted firmware image, bound to a role.
type FirmwareAsset struct {
	Role Role
	Path string
}

// Base returns the image's base filename, the name it keeps on the device.
func (a FirmwareAsset) Base() string {
	return filepath.Base(a.Path)
}

// FirmwareSet holds the pair of images a complete archive provides.
type FirmwareSet struct {
	Left  FirmwareAsset
	Right FirmwareAsset
}

// Identify walks the extracted tree under dir and locates the left and right
// firmware images by matching base filenames against the role patterns. Both
// roles must match or an error naming the missing role is returned; no
// partial set is ever produced. If a pattern matches several files the one
// with the newest modification time wins, which tolerates stray older copies
// in re-zipped archives.
func Identify(dir string, left, right *regexp.Regexp) (FirmwareSet, error) {
	leftPath, err := findNewest(dir, left)
	if err != nil {
		return FirmwareSet{}, fmt.Errorf("left firmware (pattern %q): %w", left, err)
	}
	rightPath, err := findNewest(dir, right)
	if err != nil {
		return FirmwareSet{}, fmt.Errorf("right firmware (pattern %q): %w", right, err)
	}
	return FirmwareSet{
		Left:  FirmwareAsset{Role: RoleLeft, Path: leftPath},
		Right: FirmwareAsset{Role: RoleRight, Path: rightPath},
	}, nil
}

func findNewest(dir string, re *regexp.Regexp) (string, error) {
	var best string
	var bestTime time.Time

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !re.MatchString(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if best == "" || info.ModTime().After(bestTime) {
			best = path
			bestTime = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if best == "" {
		return "", fmt.Errorf("no matching file under %s", dir)
	}
	return best, nil
}
