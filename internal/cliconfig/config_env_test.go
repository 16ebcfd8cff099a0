package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"SPLITFLASH_ARCHIVE_DIR":   "/env/firmware",
				"SPLITFLASH_MOUNT_PATH":    "/env/mount",
				"SPLITFLASH_POLL_INTERVAL": "3s",
				"SPLITFLASH_COPY_ATTEMPTS": "8",
				"SPLITFLASH_KEEP_ARCHIVE":  "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				ArchiveDir:   "/env/firmware",
				MountPath:    "/env/mount",
				PollInterval: 3 * time.Second,
				CopyAttempts: 8,
				KeepArchive:  true,
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"SPLITFLASH_ARCHIVE_DIR": "/env/firmware",
				"SPLITFLASH_MOUNT_PATH":  "/env/mount",
			},
			changed: map[string]bool{"archive-dir": true},
			initial: Config{
				ArchiveDir: "/flag/firmware",
			},
			expected: Config{
				ArchiveDir: "/flag/firmware",
				MountPath:  "/env/mount",
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"SPLITFLASH_POLL_INTERVAL": "not-a-duration",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"SPLITFLASH_COPY_ATTEMPTS": "not-a-number",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
		{
			name: "handles bool '1' as true",
			envVars: map[string]string{
				"SPLITFLASH_KEEP_ARCHIVE": "1",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				KeepArchive: true,
			},
			wantErr: false,
		},
		{
			name: "ignores non-positive attempts",
			envVars: map[string]string{
				"SPLITFLASH_COPY_ATTEMPTS": "0",
			},
			changed: map[string]bool{},
			initial: Config{
				CopyAttempts: 5,
			},
			expected: Config{
				CopyAttempts: 5,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}
