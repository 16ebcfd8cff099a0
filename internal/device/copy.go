package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// ErrRetriesExhausted is returned by Copier.Copy when every attempt failed.
// The last underlying error is wrapped alongside it.
var ErrRetriesExhausted = errors.New("copy retries exhausted")

// Copier transfers a firmware image onto a mounted bootloader volume with a
// bounded number of attempts. The volume's writability is re-probed before
// every attempt: the device can disconnect between the wait step and the
// copy. Backoff between attempts is constant; the operator uses the gap to
// reseat the cable.
type Copier struct {
	Attempts int
	Backoff  time.Duration
	Settle   time.Duration
	Probe    ProbeFunc // defaults to Ready
	Logger   zerolog.Logger
}

// Copy writes src onto mount under its base filename, overwriting any
// existing file of that name. On success it sleeps Settle so the device's
// own flash/reboot sequence can begin before the caller moves on.
func (c *Copier) Copy(ctx context.Context, src, mount string) error {
	probe := c.Probe
	if probe == nil {
		probe = Ready
	}

	name := filepath.Base(src)
	dst := filepath.Join(mount, name)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= c.Attempts; attempt++ {
		if !probe(mount) {
			lastErr = fmt.Errorf("volume %s is not writable", mount)
		} else if err := copyFile(src, dst); err != nil {
			lastErr = err
		} else {
			c.Logger.Info().
				Str("file", name).
				Str("mount", mount).
				Int("attempt", attempt).
				Dur("elapsed", time.Since(start)).
				Msg("firmware copied")
			return c.settle(ctx)
		}

		if attempt == c.Attempts {
			break
		}
		c.Logger.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Int("max", c.Attempts).
			Dur("elapsed", time.Since(start)).
			Dur("retry_in", c.Backoff).
			Msg("copy failed, retrying; check the cable")

		select {
		case <-ctx.Done():
			return fmt.Errorf("copy %s: %w", name, ctx.Err())
		case <-time.After(c.Backoff):
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, c.Attempts, lastErr)
}

// copyFile copies the full contents of src to dst, truncating dst if it
// already exists, and syncs before closing. A zero-length source yields a
// zero-length destination.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (c *Copier) settle(ctx context.Context) error {
	if c.Settle <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.Settle):
		return nil
	}
}
