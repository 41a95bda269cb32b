package capi

import (
	"context"
)

// TypeHints carries a command's declared option types, used to rebuild the
// argv parse once the command is known.  Options named under String keep
// their raw spelling even when a value looks numeric or boolean; options
// named under Boolean never consume a following positional token.
type TypeHints struct {
	String  []string `json:"string,omitempty"`
	Boolean []string `json:"boolean,omitempty"`
}

// OptionSpec is the normalized form of one option declaration.
// Short and Long are stored without their dash prefixes.
type OptionSpec struct {
	// Name is the canonical identifier.  Always non-empty once constructed.
	// When a declaration carries both spellings, the long form is
	// authoritative for Name regardless of token order.
	Name         string
	Short        string
	Long         string
	Required     bool
	Autocomplete []string
}

// Matches reports whether a parsed option key refers to this option,
// by canonical name or either spelling.
func (o OptionSpec) Matches(key string) bool {
	if key == o.Name {
		return true
	}
	if o.Short != "" && key == o.Short {
		return true
	}
	if o.Long != "" && key == o.Long {
		return true
	}
	return false
}

// ValidateFunc is a command's own semantic validation hook.
// A false return carries a failure message which surfaces verbatim.
type ValidateFunc func(inv *Invocation) (bool, string)

// ActionFunc is a command's executable body.  The completion callback of
// the wire contract is modeled as the returned error: nil means success,
// anything else terminates the process with ExitCode(err).
type ActionFunc func(ctx context.Context, rc *RunContext, inv *Invocation) error

// Command is the capability every command artifact must expose to the core.
// Discovery checks this interface, not runtime shape.
type Command interface {
	// Name returns the canonical space-joined command path, e.g. "sites list".
	Name() string
	Aliases() []string
	Description() string
	// Options returns the raw option declaration strings, e.g.
	// "-u, --url <url>".  See ParseOption.
	Options() []string
	// Types returns optional hints for schema-aware parsing; may be nil.
	Types() *TypeHints
	AllowUnknownOptions() bool
	// Validate returns the command's own validation hook; may be nil.
	Validate() ValidateFunc
	Action() ActionFunc
}

// CommandInfo is the wrapper descriptor handed to a running command,
// for self-referential help and diagnostics.
type CommandInfo struct {
	Name string
}

// Prompter is the scoped interactive-prompt capability.  A single pending
// prompt at a time is assumed; implementations serialize, they do not queue.
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}

// RunContext is the execution context built by the dispatcher.  It exposes
// exactly the capabilities a command body may use: a logging sink which
// renders and prints one value per call, the prompt capability, and the
// wrapper descriptor.  CommandNames carries the full catalog's names when
// it was loaded (the completion command needs it; empty otherwise).
type RunContext struct {
	Log          func(value interface{})
	Prompter     Prompter
	Command      CommandInfo
	CommandNames []string
}

// Manifest is the decoded body of a command manifest file.
type Manifest struct {
	Name                string              `json:"name,omitempty"`
	Aliases             []string            `json:"aliases,omitempty"`
	Description         string              `json:"description"`
	Options             []string            `json:"options,omitempty"`
	Types               *TypeHints          `json:"types,omitempty"`
	AllowUnknownOptions bool                `json:"allowUnknownOptions,omitempty"`
	Autocomplete        map[string][]string `json:"autocomplete,omitempty"`
	Action              string              `json:"action"`
}

// CommandCapsule is the envelope a manifest file must carry to be
// recognized as a command at all.
type CommandCapsule struct {
	Command *Manifest `json:"cloudglass.command.v1"`
}
