package capi

import (
	"strings"

	"github.com/serum-errors/go-serum"
)

// ParseOption normalizes one option declaration string into an OptionSpec.
//
// The declaration splits on space, comma, and pipe.  A token beginning with
// "--" sets the long spelling; a token beginning with a single "-" sets the
// short spelling.  The long form is authoritative for Name whenever both
// spellings are present (explicitly, not by token order).  A "<...>"
// placeholder anywhere in the declaration marks the option required;
// "[...]" placeholders (or none) leave it optional.
//
// Examples:
//
//	"-u, --url <url>"  ->  {Name: "url", Short: "u", Long: "url", Required: true}
//	"--filter [filter]" -> {Name: "filter", Long: "filter"}
//
// Errors:
//
//    - cloudglass-error-manifest-invalid -- when the declaration has neither spelling
func ParseOption(decl string) (OptionSpec, error) {
	spec := OptionSpec{}
	tokens := strings.FieldsFunc(decl, func(r rune) bool {
		return r == ' ' || r == ',' || r == '|'
	})
	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "--"):
			spec.Long = strings.TrimPrefix(tok, "--")
		case strings.HasPrefix(tok, "-"):
			spec.Short = strings.TrimPrefix(tok, "-")
		}
	}
	if spec.Long != "" {
		spec.Name = spec.Long
	} else if spec.Short != "" {
		spec.Name = spec.Short
	} else {
		return spec, serum.Error(CodeManifestInvalid,
			serum.WithMessageTemplate("option declaration {{decl|q}} has neither a short nor a long form"),
			serum.WithDetail("decl", decl),
		)
	}
	spec.Required = strings.Contains(decl, "<")
	return spec, nil
}

// ParseOptions maps ParseOption over a command's declaration list.
//
// Errors:
//
//    - cloudglass-error-manifest-invalid -- when any declaration is malformed
func ParseOptions(decls []string) ([]OptionSpec, error) {
	specs := make([]OptionSpec, 0, len(decls))
	for _, d := range decls {
		spec, err := ParseOption(d)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
