// Package docs embeds the markdown help bodies for the built-in commands.
// The tree mirrors the manifest path convention, minus the "commands"
// directory segment, with a ".md" suffix.
package docs

import "embed"

//go:embed *.md sites report jobs
var FS embed.FS
