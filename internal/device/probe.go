package device

import "os"

// ProbeFunc reports whether the volume at a mount path is ready to receive a
// firmware image. Implementations must never block for long and never error;
// not-ready is the answer to every failure.
type ProbeFunc func(path string) bool

// Ready reports whether the volume at path is fully mounted: the path exists
// and is a directory, its contents can be listed, and a file can be created
// inside it. A USB mass-storage volume can be visible while still mid-mount,
// listable but not yet writable, so all three checks are required.
func Ready(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return false
	}
	if _, err := os.ReadDir(path); err != nil {
		return false
	}
	f, err := os.CreateTemp(path, ".splitflash-probe-")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
