package capi

import "fmt"

// PositionalKey is the reserved options key holding all non-flag arguments,
// in order.  It is exempt from unknown-option validation.
const PositionalKey = "_"

// Global option names recognized for every command, on top of whatever the
// command itself declares.
const (
	OptionOutput  = "output"
	OptionQuery   = "query"
	OptionHelp    = "help"
	OptionDebug   = "debug"
	OptionVerbose = "verbose"
)

// Invocation is a parsed argument vector: a mapping from option name to
// value.  Values are strings, bools, or float64s depending on declaration
// type hints (or inference, pre-resolution); the positional catch-all lives
// under PositionalKey as a []string.
type Invocation struct {
	Options map[string]interface{}
}

func NewInvocation() *Invocation {
	return &Invocation{Options: map[string]interface{}{
		PositionalKey: []string{},
	}}
}

// Positional returns the catch-all positional arguments, in order.
func (inv *Invocation) Positional() []string {
	p, _ := inv.Options[PositionalKey].([]string)
	return p
}

// Has reports whether the option has any defined value.
func (inv *Invocation) Has(name string) bool {
	v, ok := inv.Options[name]
	return ok && v != nil
}

// String returns the option's value as a string, or "" when absent.
// Non-string values (from pre-resolution inference) format naturally.
func (inv *Invocation) String(name string) string {
	switch v := inv.Options[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return stringify(v)
	}
}

// Bool returns the option's value as a bool; absent is false and a string
// value is true unless it spells "false".
func (inv *Invocation) Bool(name string) bool {
	switch v := inv.Options[name].(type) {
	case bool:
		return v
	case string:
		return v != "false" && v != ""
	case nil:
		return false
	default:
		return true
	}
}

// Output returns the requested output format; anything other than "json"
// is treated as text.
func (inv *Invocation) Output() string {
	if inv.String(OptionOutput) == "json" {
		return "json"
	}
	return "text"
}

func stringify(v interface{}) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}

func (inv *Invocation) Query() string { return inv.String(OptionQuery) }
func (inv *Invocation) Help() bool    { return inv.Bool(OptionHelp) }
func (inv *Invocation) Debug() bool   { return inv.Bool(OptionDebug) }
func (inv *Invocation) Verbose() bool { return inv.Bool(OptionVerbose) }
