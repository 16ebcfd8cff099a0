package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (SPLITFLASH_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("archive-dir", os.Getenv("SPLITFLASH_ARCHIVE_DIR"), &cfg.ArchiveDir)
	s.setString("archive-ext", os.Getenv("SPLITFLASH_ARCHIVE_EXT"), &cfg.ArchiveExt)
	s.setString("archive", os.Getenv("SPLITFLASH_ARCHIVE"), &cfg.Archive)
	s.setString("mount", os.Getenv("SPLITFLASH_MOUNT_PATH"), &cfg.MountPath)
	s.setString("left-pattern", os.Getenv("SPLITFLASH_LEFT_PATTERN"), &cfg.LeftPattern)
	s.setString("right-pattern", os.Getenv("SPLITFLASH_RIGHT_PATTERN"), &cfg.RightPattern)

	if err := s.setDuration("poll", os.Getenv("SPLITFLASH_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("mount-settle", os.Getenv("SPLITFLASH_MOUNT_SETTLE"), &cfg.MountSettle); err != nil {
		return err
	}
	if err := s.setDuration("flash-settle", os.Getenv("SPLITFLASH_FLASH_SETTLE"), &cfg.FlashSettle); err != nil {
		return err
	}
	if err := s.setDuration("backoff", os.Getenv("SPLITFLASH_COPY_BACKOFF"), &cfg.CopyBackoff); err != nil {
		return err
	}
	if err := s.setDuration("wait-timeout", os.Getenv("SPLITFLASH_WAIT_TIMEOUT"), &cfg.WaitTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("attempts", os.Getenv("SPLITFLASH_COPY_ATTEMPTS"), &cfg.CopyAttempts); err != nil {
		return err
	}

	s.setBoolFromString("keep", os.Getenv("SPLITFLASH_KEEP_ARCHIVE"), &cfg.KeepArchive)

	return nil
}
