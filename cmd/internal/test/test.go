// Package test provides helpers for executing domaingen commands in tests.
package test

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindings/go/domainmodel/cmd"
	"ocm.software/open-component-model/bindings/go/domainmodel/internal/flags/log"
)

type Options struct {
	args   []string
	out    io.Writer
	errOut io.Writer
	format string
}

type Option func(*Options)

// WithArgs sets the command line arguments.
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.args = args
	}
}

// WithOutput captures the command output.
func WithOutput(out io.Writer) Option {
	return func(o *Options) {
		o.out = out
	}
}

// WithErrorOutput captures logs and diagnostics written to stderr.
func WithErrorOutput(out io.Writer) Option {
	return func(o *Options) {
		o.errOut = out
	}
}

// WithLogFormat sets the log format, json by default.
func WithLogFormat(format string) Option {
	return func(o *Options) {
		o.format = format
	}
}

// Domaingen executes a fresh root command. Output that is not captured is discarded.
func Domaingen(tb testing.TB, opts ...Option) (*cobra.Command, error) {
	tb.Helper()

	opt := Options{
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
		format: log.FormatJSON,
	}
	for _, o := range opts {
		o(&opt)
	}
	if len(opt.args) == 0 {
		opt.args = []string{"help"}
	}

	instance := cmd.New()
	instance.SetOut(opt.out)
	instance.SetErr(opt.errOut)

	f := instance.PersistentFlags().Lookup(log.FormatFlagName)
	if err := f.Value.Set(opt.format); err != nil {
		return nil, fmt.Errorf("failed to set format: %w", err)
	}

	instance.SetArgs(opt.args)
	return instance.ExecuteContextC(tb.Context())
}
