package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ArchiveDir   string `toml:"archive_dir"`
	ArchiveExt   string `toml:"archive_ext"`
	Archive      string `toml:"archive"`
	MountPath    string `toml:"mount_path"`
	LeftPattern  string `toml:"left_pattern"`
	RightPattern string `toml:"right_pattern"`
	PollInterval string `toml:"poll_interval"`
	MountSettle  string `toml:"mount_settle"`
	FlashSettle  string `toml:"flash_settle"`
	CopyBackoff  string `toml:"copy_backoff"`
	WaitTimeout  string `toml:"wait_timeout"`
	CopyAttempts int    `toml:"copy_attempts"`
	KeepArchive  *bool  `toml:"keep_archive"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.splitflash/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".splitflash", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("archive-dir", fc.ArchiveDir, &cfg.ArchiveDir)
	s.setString("archive-ext", fc.ArchiveExt, &cfg.ArchiveExt)
	s.setString("archive", fc.Archive, &cfg.Archive)
	s.setString("mount", fc.MountPath, &cfg.MountPath)
	s.setString("left-pattern", fc.LeftPattern, &cfg.LeftPattern)
	s.setString("right-pattern", fc.RightPattern, &cfg.RightPattern)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("mount-settle", fc.MountSettle, &cfg.MountSettle); err != nil {
		return err
	}
	if err := s.setDuration("flash-settle", fc.FlashSettle, &cfg.FlashSettle); err != nil {
		return err
	}
	if err := s.setDuration("backoff", fc.CopyBackoff, &cfg.CopyBackoff); err != nil {
		return err
	}
	if err := s.setDuration("wait-timeout", fc.WaitTimeout, &cfg.WaitTimeout); err != nil {
		return err
	}

	s.setInt("attempts", fc.CopyAttempts, &cfg.CopyAttempts)

	s.setBool("keep", fc.KeepArchive, &cfg.KeepArchive)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
