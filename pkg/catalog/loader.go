// Package catalog resolves command words to loadable command artifacts.
//
// The catalog is a tree of JSON manifest files; resolution computes a
// candidate path from the invocation's positional words and loads just that
// one file when it can, falling back to walking the whole tree whenever the
// naming convention doesn't match reality (aliases, typos, help browsing,
// shell completion).  Cold start therefore costs one file read in the
// common fully-qualified case.
package catalog

import (
	"io/fs"
	"strconv"
	"strings"

	"github.com/cloudglass-tools/cloudglass/capi"
)

// Action is a registered command implementation: the executable body plus
// an optional semantic validation hook.
type Action struct {
	Run      capi.ActionFunc
	Validate capi.ValidateFunc
}

// ActionSet maps stable action ids (the "action" key of a manifest) to
// implementations.  A manifest naming an unregistered id fails to load.
type ActionSet map[string]Action

// Loader resolves and loads command descriptors from a manifest tree.
type Loader struct {
	FS      fs.FS
	Actions ActionSet
}

// CompletionWord in an argument vector forces full-catalog loading:
// shell-completion generation needs every command name.
const CompletionWord = "completion"

// Load resolves the given positional words to at most one command,
// returning the registry of everything that got loaded along the way and
// the resolved descriptor (nil when nothing matched).
//
// With a fully-qualified command path this loads exactly one manifest.
// Zero words, a "completion" token, a missing artifact, or an artifact that
// fails to load as a command all degrade to full discovery.
//
// Errors:
//
//    - cloudglass-error-searching-catalog -- when full discovery fails; fatal, no fallback left
func (l *Loader) Load(words []string) (*Registry, *Descriptor, error) {
	name := strings.Join(words, " ")
	if len(words) == 0 || containsWord(words, CompletionWord) {
		return l.loadAllAndResolve(name)
	}

	candidate := PathForWords(words)
	if fi, err := fs.Stat(l.FS, candidate); err != nil || !fi.Mode().IsRegular() {
		return l.loadAllAndResolve(name)
	}
	desc, err := l.loadDescriptor(candidate)
	if err != nil {
		// The artifact exists but is not a valid command; expected and
		// recoverable at this stage.
		return l.loadAllAndResolve(name)
	}
	reg := NewRegistry()
	if err := reg.Add(desc); err != nil {
		return nil, nil, err
	}
	return reg, desc, nil
}

func (l *Loader) loadAllAndResolve(name string) (*Registry, *Descriptor, error) {
	reg, err := l.LoadAll()
	if err != nil {
		return nil, nil, err
	}
	desc, _ := reg.Get(name)
	return reg, desc, nil
}

// LoadAll walks the whole manifest tree and registers every command
// artifact: regular files inside a "commands" path segment, excluding test
// artifacts.  Unlike targeted loading, any individual load failure here is
// fatal; full discovery is an internal-consistency operation, not a
// user-facing lookup.
//
// Errors:
//
//    - cloudglass-error-searching-catalog -- on any walk or load failure
func (l *Loader) LoadAll() (*Registry, error) {
	reg := NewRegistry()
	walkErr := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return capi.ErrorSearchingCatalog(p, err)
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !insideCommandsSegment(p) || isTestArtifact(p) {
			return nil
		}
		desc, lerr := l.loadDescriptor(p)
		if lerr != nil {
			return capi.ErrorSearchingCatalog(p, lerr)
		}
		return reg.Add(desc)
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return reg, nil
}

// loadDescriptor loads one manifest file and binds it into a descriptor.
//
// Errors:
//
//    - cloudglass-error-missing, cloudglass-error-io, cloudglass-error-serialization,
//      cloudglass-error-not-a-command -- per ManifestFromFile
//    - cloudglass-error-manifest-invalid -- for a malformed option declaration
//      or an action id with no registered implementation
func (l *Loader) loadDescriptor(p string) (*Descriptor, error) {
	m, err := ManifestFromFile(l.FS, p)
	if err != nil {
		return nil, err
	}
	action, ok := l.Actions[m.Action]
	if !ok {
		return nil, capi.ErrorManifestInvalid(p, "no registered implementation for action id "+strconv.Quote(m.Action))
	}
	specs, err := capi.ParseOptions(m.Options)
	if err != nil {
		return nil, err
	}
	for i := range specs {
		if vals, ok := m.Autocomplete[specs[i].Name]; ok {
			specs[i].Autocomplete = vals
		}
	}
	name := m.Name
	if name == "" {
		name = nameForPath(p)
	}
	return &Descriptor{
		Name:    name,
		Aliases: m.Aliases,
		Options: specs,
		Command: &loadedCommand{manifest: *m, name: name, action: action},
	}, nil
}

func containsWord(words []string, w string) bool {
	for _, word := range words {
		if word == w {
			return true
		}
	}
	return false
}
