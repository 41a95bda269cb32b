package exec

import (
	"sort"

	"github.com/cloudglass-tools/cloudglass/capi"
)

// globalKeys are recognized on every invocation regardless of what the
// resolved command declares.
var globalKeys = map[string]bool{
	capi.PositionalKey:    true,
	capi.OptionOutput:     true,
	capi.OptionQuery:      true,
	capi.OptionHelp:       true,
	capi.OptionDebug:      true,
	capi.OptionVerbose:    true,
	"trace.file":          true,
	"trace.http.enable":   true,
	"trace.http.insecure": true,
	"trace.http.endpoint": true,
}

// Validate applies the three pre-dispatch checks to a resolved command's
// invocation, failing fast on the first violation:
//
//  1. every parsed key must match a declared option (skipped when the
//     command accepts unknown options),
//  2. every required option must have a value under its canonical name,
//  3. the command's own validation hook, when present, must pass.
//
// Errors:
//
//    - cloudglass-error-option-unknown --
//    - cloudglass-error-option-missing --
//    - cloudglass-error-validation -- the hook's message, verbatim
func Validate(cmd capi.Command, specs []capi.OptionSpec, inv *capi.Invocation) error {
	if !cmd.AllowUnknownOptions() {
		// Sorted so the error always names the same flag when several
		// are unknown.
		keys := make([]string, 0, len(inv.Options))
		for key := range inv.Options {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if globalKeys[key] {
				continue
			}
			if !declared(specs, key) {
				return capi.ErrorOptionUnknown(key)
			}
		}
	}

	for _, spec := range specs {
		if spec.Required && !inv.Has(spec.Name) {
			return capi.ErrorOptionMissing(spec.Name)
		}
	}

	if validate := cmd.Validate(); validate != nil {
		if ok, msg := validate(inv); !ok {
			return capi.ErrorValidation(msg)
		}
	}
	return nil
}

func declared(specs []capi.OptionSpec, key string) bool {
	for _, spec := range specs {
		if spec.Matches(key) {
			return true
		}
	}
	return false
}
