package flasher

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/splitflash/internal/device"
	"github.com/bft-labs/splitflash/internal/prompt"
)

// Option configures optional behavior of a Flasher.
type Option func(*options)

type options struct {
	logger zerolog.Logger
	prompt prompt.Prompt
	probe  device.ProbeFunc
}

func defaultOptions() options {
	return options{
		logger: zerolog.Nop(),
		prompt: prompt.Stdio(os.Stdin, os.Stderr),
		probe:  nil, // device.Ready
	}
}

// WithLogger sets the logger used for progress and status output.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPrompt sets the interactive prompt implementation.
func WithPrompt(p prompt.Prompt) Option {
	return func(o *options) { o.prompt = p }
}

// WithProbe overrides the device readiness probe.
func WithProbe(p device.ProbeFunc) Option {
	return func(o *options) { o.probe = p }
}
