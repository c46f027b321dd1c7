// Package enum provides a pflag.Value that only accepts one of a fixed set of values.
package enum

import (
	"fmt"
	"slices"

	"github.com/spf13/pflag"
)

const Type = "enum"

// Flag accepts exactly one of its options. The first option is the default.
type Flag struct {
	value   string
	options []string
}

var _ pflag.Value = (*Flag)(nil)

// New creates a Flag defaulting to the first of options. It panics without options.
func New(options ...string) *Flag {
	if len(options) == 0 {
		panic("enum flag requires at least one option")
	}
	return &Flag{value: options[0], options: slices.Clone(options)}
}

func (f *Flag) Type() string {
	return Type
}

func (f *Flag) String() string {
	return f.value
}

// Options returns the accepted values in registration order.
func (f *Flag) Options() []string {
	return slices.Clone(f.options)
}

func (f *Flag) Set(value string) error {
	if !slices.Contains(f.options, value) {
		return fmt.Errorf("invalid value %q, expected one of %q", value, f.options)
	}
	f.value = value
	return nil
}

// Var registers an enum flag on the flag set.
// The usage text is extended with the sorted list of accepted values.
func Var(f *pflag.FlagSet, name string, options []string, usage string) {
	flag := New(options...)
	sorted := flag.Options()
	slices.Sort(sorted)
	f.Var(flag, name, fmt.Sprintf("%s\n(must be one of %v)", usage, sorted))
}

// VarP is like Var, but accepts a shorthand letter.
func VarP(f *pflag.FlagSet, name, shorthand string, options []string, usage string) {
	flag := New(options...)
	sorted := flag.Options()
	slices.Sort(sorted)
	f.VarP(flag, name, shorthand, fmt.Sprintf("%s\n(must be one of %v)", usage, sorted))
}

// Get returns the current value of the enum flag registered under name.
func Get(f *pflag.FlagSet, name string) (string, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return "", fmt.Errorf("flag accessed but not defined: %s", name)
	}
	if typ := flag.Value.Type(); typ != Type {
		return "", fmt.Errorf("trying to get %s value of flag of type %s", Type, typ)
	}
	return flag.Value.String(), nil
}
