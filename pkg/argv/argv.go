// Package argv converts raw argument vectors into structured invocations.
//
// Parsing happens twice per run: once generically, before any command is
// resolved (flag types are inferred), and once more after resolution, using
// the resolved command's declared type hints and short/long alias table.
// Both parses preserve the positional catch-all verbatim.
package argv

import (
	"strconv"
	"strings"

	"github.com/cloudglass-tools/cloudglass/capi"
)

// Schema carries everything the post-resolution re-parse needs to know
// about the resolved command's options.
type Schema struct {
	// StringKeys are option names whose values always stay raw strings,
	// even when they look numeric or boolean.
	StringKeys []string
	// BoolKeys are option names which never consume a following token.
	BoolKeys []string
	// Aliases maps alternate spellings (typically short forms) to the
	// canonical option name, so either spelling populates the same key.
	Aliases map[string]string
}

// ForCommand builds a Schema from a command's option specs and type hints,
// with the globally recognized options folded in.
func ForCommand(specs []capi.OptionSpec, hints *capi.TypeHints) Schema {
	sc := Schema{Aliases: map[string]string{"h": capi.OptionHelp}}
	for _, spec := range specs {
		if spec.Short != "" && spec.Short != spec.Name {
			sc.Aliases[spec.Short] = spec.Name
		}
		if spec.Long != "" && spec.Long != spec.Name {
			sc.Aliases[spec.Long] = spec.Name
		}
	}
	if hints != nil {
		sc.StringKeys = append(sc.StringKeys, hints.String...)
		sc.BoolKeys = append(sc.BoolKeys, hints.Boolean...)
	}
	sc.StringKeys = append(sc.StringKeys, capi.OptionOutput, capi.OptionQuery)
	sc.BoolKeys = append(sc.BoolKeys, capi.OptionHelp, capi.OptionDebug, capi.OptionVerbose)
	return sc
}

// Parse converts argv into an invocation with no type hints: every flag
// value is inferred (string, boolean, or number).  The global boolean
// flags are still seeded so they never swallow a command word.
func Parse(args []string) *capi.Invocation {
	return ParseWithSchema(args, Schema{
		BoolKeys: []string{capi.OptionHelp, capi.OptionDebug, capi.OptionVerbose},
		Aliases:  map[string]string{"h": capi.OptionHelp},
	})
}

// ParseWithSchema converts argv into an invocation using declared option
// types and aliasing.  Positional arguments land under capi.PositionalKey
// in order; a bare "--" sends everything after it there.
func ParseWithSchema(args []string, sc Schema) *capi.Invocation {
	idx := newSchemaIndex(sc)
	inv := capi.NewInvocation()
	pos := []string{}

	i := 0
	for i < len(args) {
		tok := args[i]
		switch {
		case tok == "--":
			pos = append(pos, args[i+1:]...)
			i = len(args)

		case strings.HasPrefix(tok, "--"):
			key, val, hasVal := cut(tok[2:], "=")
			key = idx.canon(key)
			i += idx.set(inv, key, val, hasVal, args[i+1:])

		case isShortFlag(tok):
			key, val, hasVal := cut(tok[1:], "=")
			if !hasVal && len(key) > 1 {
				// A short cluster: all but the last are presence booleans.
				for _, r := range key[:len(key)-1] {
					inv.Options[idx.canon(string(r))] = true
				}
				key = string(key[len(key)-1])
			}
			key = idx.canon(key)
			i += idx.set(inv, key, val, hasVal, args[i+1:])

		default:
			pos = append(pos, tok)
			i++
		}
	}
	inv.Options[capi.PositionalKey] = pos
	return inv
}

type schemaIndex struct {
	strings map[string]bool
	bools   map[string]bool
	aliases map[string]string
}

func newSchemaIndex(sc Schema) schemaIndex {
	idx := schemaIndex{
		strings: map[string]bool{},
		bools:   map[string]bool{},
		aliases: sc.Aliases,
	}
	for _, k := range sc.StringKeys {
		idx.strings[k] = true
	}
	for _, k := range sc.BoolKeys {
		idx.bools[k] = true
	}
	return idx
}

func (idx schemaIndex) canon(key string) string {
	if idx.aliases == nil {
		return key
	}
	if c, ok := idx.aliases[key]; ok {
		return c
	}
	return key
}

// set stores one flag's value on the invocation and reports how many argv
// tokens were consumed (1 for the flag itself, 2 when it took a lookahead
// value).
func (idx schemaIndex) set(inv *capi.Invocation, key, val string, hasVal bool, rest []string) int {
	if hasVal {
		inv.Options[key] = idx.coerce(key, val)
		return 1
	}
	if idx.bools[key] {
		inv.Options[key] = true
		return 1
	}
	if len(rest) > 0 && !looksLikeFlag(rest[0]) {
		inv.Options[key] = idx.coerce(key, rest[0])
		return 2
	}
	inv.Options[key] = true
	return 1
}

func (idx schemaIndex) coerce(key, raw string) interface{} {
	if idx.strings[key] {
		return raw
	}
	if idx.bools[key] {
		return raw != "false"
	}
	// No hint: infer, the way the pre-resolution parse does for everything.
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

func isShortFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' || tok[1] == '-' {
		return false
	}
	// A leading dash on a number is a negative value, not a flag.
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}

func looksLikeFlag(tok string) bool {
	return strings.HasPrefix(tok, "-") && !isNumeric(tok)
}

func isNumeric(tok string) bool {
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
