package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/splitflash/internal/cliconfig"
	"github.com/bft-labs/splitflash/internal/flasher"
)

const helpDescription = `
Flash both halves of a split keyboard from a firmware archive.

Highlights:
  - Lists firmware archives newest-first and lets you pick one.
  - Waits for each half's bootloader volume and copies its image with retries.
  - Configure via file ($HOME/.splitflash/config.toml), env (SPLITFLASH_*), or flags.

Put the left half into bootloader mode when asked, then the right half.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  splitflash
  splitflash --archive ~/Downloads/firmware.zip --mount /media/usb/RPI-RP2
  splitflash --wait-timeout 2m --keep
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "splitflash",
		Short:   "Flash both halves of a split keyboard from a firmware archive",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.splitflash/config.toml), then apply flag overrides
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment variables (SPLITFLASH_*) override file config but
			// are overridden by flags (checked via changed map)
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log.Info().
				Str("archiveDir", cfg.ArchiveDir).
				Str("mount", cfg.MountPath).
				Msg("configuration")

			fl, err := flasher.New(cfg, flasher.WithLogger(log))
			if err != nil {
				return fmt.Errorf("create flasher: %w", err)
			}

			// SIGINT/SIGTERM cancels the run context, which aborts the
			// wait and retry loops cleanly.
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				select {
				case <-sigCh:
					log.Warn().Msg("received signal, aborting...")
					cancel()
				case <-ctx.Done():
				}
			}()

			return fl.Run(ctx)
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.splitflash/config.toml)")
	root.Flags().StringVar(&cfg.ArchiveDir, "archive-dir", cfg.ArchiveDir, "directory scanned for firmware archives")
	root.Flags().StringVar(&cfg.ArchiveExt, "archive-ext", cfg.ArchiveExt, "archive filename extension")
	root.Flags().StringVar(&cfg.Archive, "archive", cfg.Archive, "flash this archive directly, skipping the picker")
	root.Flags().StringVar(&cfg.MountPath, "mount", cfg.MountPath, "bootloader volume mount path")

	root.Flags().StringVar(&cfg.LeftPattern, "left-pattern", cfg.LeftPattern, "left firmware filename pattern (case-insensitive)")
	root.Flags().StringVar(&cfg.RightPattern, "right-pattern", cfg.RightPattern, "right firmware filename pattern (case-insensitive)")

	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "mount poll interval while waiting")
	root.Flags().DurationVar(&cfg.MountSettle, "mount-settle", cfg.MountSettle, "settle delay after the volume appears")
	root.Flags().DurationVar(&cfg.FlashSettle, "flash-settle", cfg.FlashSettle, "settle delay after a successful copy")
	root.Flags().DurationVar(&cfg.CopyBackoff, "backoff", cfg.CopyBackoff, "delay between copy attempts")
	root.Flags().DurationVar(&cfg.WaitTimeout, "wait-timeout", cfg.WaitTimeout, "max wait for the bootloader volume (0 = wait forever)")
	root.Flags().IntVar(&cfg.CopyAttempts, "attempts", cfg.CopyAttempts, "max copy attempts per half")

	root.Flags().BoolVar(&cfg.KeepArchive, "keep", cfg.KeepArchive, "never offer to delete the source archive")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("splitflash")
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
