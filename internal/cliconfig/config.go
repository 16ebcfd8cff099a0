package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// Defaults for the firmware filename patterns. The bootloader volume name and
// the image extension are fixed by the controller (RP2040 UF2); the archive
// contents vary per build, hence the wildcard suffix.
const (
	DefaultLeftPattern  = `sofle_left.*\.uf2`
	DefaultRightPattern = `sofle_right.*\.uf2`
	DefaultArchiveExt   = ".zip"
	DefaultMountPath    = "/Volumes/RPI-RP2"
)

// Config holds CLI configuration for splitflash.
type Config struct {
	ArchiveDir string
	ArchiveExt string
	Archive    string

	MountPath string

	LeftPattern  string
	RightPattern string

	PollInterval time.Duration
	MountSettle  time.Duration
	FlashSettle  time.Duration
	CopyBackoff  time.Duration
	WaitTimeout  time.Duration
	CopyAttempts int

	KeepArchive bool

	// Compiled during Validate.
	LeftRe  *regexp.Regexp
	RightRe *regexp.Regexp
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	archiveDir := ""
	if h, err := os.UserHomeDir(); err == nil {
		archiveDir = filepath.Join(h, "Downloads")
	}
	return Config{
		ArchiveDir:   archiveDir,
		ArchiveExt:   DefaultArchiveExt,
		MountPath:    DefaultMountPath,
		LeftPattern:  DefaultLeftPattern,
		RightPattern: DefaultRightPattern,
		PollInterval: time.Second,
		MountSettle:  1500 * time.Millisecond,
		FlashSettle:  time.Second,
		CopyBackoff:  time.Second,
		CopyAttempts: 5,
	}
}

// Validate checks the configuration for errors and compiles the firmware
// filename patterns.
func (c *Config) Validate() error {
	if c.ArchiveDir == "" {
		return fmt.Errorf("archive-dir is required")
	}
	if c.MountPath == "" {
		return fmt.Errorf("mount is required")
	}
	if c.ArchiveExt == "" {
		c.ArchiveExt = DefaultArchiveExt
	}
	if c.ArchiveExt[0] != '.' {
		c.ArchiveExt = "." + c.ArchiveExt
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.MountSettle < 0 || c.FlashSettle < 0 {
		return fmt.Errorf("settle delays must not be negative")
	}
	if c.CopyBackoff <= 0 {
		return fmt.Errorf("copy backoff must be positive")
	}
	if c.CopyAttempts <= 0 {
		return fmt.Errorf("copy attempts must be positive")
	}
	if c.WaitTimeout < 0 {
		return fmt.Errorf("wait timeout must not be negative")
	}

	var err error
	if c.LeftRe, err = compilePattern(c.LeftPattern); err != nil {
		return fmt.Errorf("left-pattern: %w", err)
	}
	if c.RightRe, err = compilePattern(c.RightPattern); err != nil {
		return fmt.Errorf("right-pattern: %w", err)
	}
	return nil
}

// compilePattern compiles a firmware filename pattern case-insensitively.
func compilePattern(p string) (*regexp.Regexp, error) {
	if p == "" {
		return nil, fmt.Errorf("pattern is empty")
	}
	return regexp.Compile("(?i)" + p)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
