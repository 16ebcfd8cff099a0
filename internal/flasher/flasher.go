package flasher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bft-labs/splitflash/internal/archive"
	"github.com/bft-labs/splitflash/internal/cliconfig"
	"github.com/bft-labs/splitflash/internal/device"
)

// ErrNoCandidates is returned when the archive directory contains no
// firmware archives.
var ErrNoCandidates = errors.New("no firmware archives found")

// Flasher runs one end-to-end flash of both keyboard halves: resolve the
// source archive, extract it, identify the per-half images, then for left and
// right in turn wait for the bootloader volume and copy the image onto it.
// The two halves share one mount path; only one device is connected at a
// time, and the operator is trusted to plug in the half being asked for.
type Flasher struct {
	cfg  cliconfig.Config
	opts options
}

// New creates a Flasher for the given validated configuration.
func New(cfg cliconfig.Config, opt ...Option) (*Flasher, error) {
	if cfg.LeftRe == nil || cfg.RightRe == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	o := defaultOptions()
	for _, fn := range opt {
		fn(&o)
	}
	return &Flasher{cfg: cfg, opts: o}, nil
}

// Run performs one complete flash. The left half is flashed first; a failure
// there stops the run before the right half is attempted. After full success
// the operator is offered deletion of the source archive; declining, or a
// deletion error, never fails the run.
func (f *Flasher) Run(ctx context.Context) error {
	log := f.opts.logger
	start := time.Now()

	src, err := f.resolveArchive()
	if err != nil {
		return err
	}

	scratch, err := archive.ExtractZip(src)
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	set, err := archive.Identify(scratch, f.cfg.LeftRe, f.cfg.RightRe)
	if err != nil {
		return err
	}
	log.Info().
		Str("archive", src).
		Str("left", set.Left.Base()).
		Str("right", set.Right.Base()).
		Msg("firmware images identified")

	for _, asset := range []archive.FirmwareAsset{set.Left, set.Right} {
		if err := f.flashHalf(ctx, asset); err != nil {
			return fmt.Errorf("%s half: %w", asset.Role, err)
		}
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("both halves flashed")

	f.offerDelete(src)
	return nil
}

// resolveArchive picks the source archive: the configured path if given,
// otherwise an interactive selection over the candidates, newest first.
func (f *Flasher) resolveArchive() (string, error) {
	if f.cfg.Archive != "" {
		if _, err := os.Stat(f.cfg.Archive); err != nil {
			return "", fmt.Errorf("archive: %w", err)
		}
		return f.cfg.Archive, nil
	}

	cands := archive.List(f.cfg.ArchiveDir, f.cfg.ArchiveExt)
	if len(cands) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoCandidates, f.cfg.ArchiveDir)
	}

	now := time.Now()
	items := make([]string, len(cands))
	for i, c := range cands {
		items[i] = fmt.Sprintf("%s  (%s)", c.Name, c.Age(now))
	}
	idx, err := f.opts.prompt.Select("Select firmware archive:", items)
	if err != nil {
		return "", err
	}
	return cands[idx].Path, nil
}

func (f *Flasher) flashHalf(ctx context.Context, asset archive.FirmwareAsset) error {
	log := f.opts.logger.With().Str("half", string(asset.Role)).Logger()

	w := &device.Waiter{
		Mount:   f.cfg.MountPath,
		Poll:    f.cfg.PollInterval,
		Settle:  f.cfg.MountSettle,
		Timeout: f.cfg.WaitTimeout,
		Probe:   f.opts.probe,
		Logger:  log,
	}
	if err := w.Wait(ctx); err != nil {
		return err
	}

	c := &device.Copier{
		Attempts: f.cfg.CopyAttempts,
		Backoff:  f.cfg.CopyBackoff,
		Settle:   f.cfg.FlashSettle,
		Probe:    f.opts.probe,
		Logger:   log,
	}
	return c.Copy(ctx, asset.Path, f.cfg.MountPath)
}

// offerDelete asks whether to remove the source archive after a successful
// run. Any outcome here is advisory only.
func (f *Flasher) offerDelete(src string) {
	log := f.opts.logger
	if f.cfg.KeepArchive {
		return
	}
	ok, err := f.opts.prompt.Confirm(fmt.Sprintf("Delete %s", src), false)
	if err != nil || !ok {
		return
	}
	if err := os.Remove(src); err != nil {
		log.Warn().Err(err).Str("archive", src).Msg("could not delete archive")
		return
	}
	log.Info().Str("archive", src).Msg("archive deleted")
}
