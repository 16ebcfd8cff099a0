package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip extracts src into a fresh scratch directory and returns its
// path. Only regular files are extracted; entry paths are confined to the
// scratch root. On any failure the scratch directory is removed before the
// error is returned, so a partial extraction never leaks.
func ExtractZip(src string) (string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", src, err)
	}
	defer r.Close()

	dir, err := os.MkdirTemp("", "splitflash-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}

	for _, f := range r.File {
		if err := extractFile(dir, f); err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return dir, nil
}

func extractFile(root string, f *zip.File) error {
	if f.FileInfo().IsDir() {
		return nil
	}
	if !f.Mode().IsRegular() {
		return nil
	}

	dst, err := securePath(root, f.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// securePath resolves an archive entry name below root, rejecting entries
// that would escape it.
func securePath(root, name string) (string, error) {
	p := filepath.Join(root, filepath.FromSlash(name))
	if p != root && !strings.HasPrefix(p, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes extraction root", name)
	}
	return p, nil
}
