/*
Package help generates the application's help text.

Templates emit plain text through a tabwriter for column alignment;
markdown documentation bodies are post-processed into terminal rendering
separately, so plain output remains available when the writer is not a
terminal.
*/
package help

import (
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/glamour"
	"github.com/facette/natsort"
	"golang.org/x/term"

	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/pkg/catalog"
)

// Presenter renders help screens from the loaded command set and the
// documentation tree.  Docs may be nil; command help then shows only the
// usage and option listing.
type Presenter struct {
	AppName string
	Version string
	Docs    fs.FS
	Width   int
}

// DetectWidth probes the writer for a terminal width, clamping narrow
// terminals so tables stay legible.  Non-terminal writers get 80.
func DetectWidth(wr io.Writer) int {
	if fd, ok := wr.(interface{ Fd() uintptr }); ok {
		if w, _, err := term.GetSize(int(fd.Fd())); err == nil && w > 0 {
			if w < 60 {
				return 60
			}
			return w
		}
	}
	return 80
}

// DocPath computes the documentation path for a command's words.  It
// mirrors the manifest path convention, minus the "commands" directory
// segment, with a markdown suffix:
//
//	["status"]               -> status.md
//	["sites", "list"]        -> sites/sites-list.md
//	["spo", "site", "list"]  -> spo/site/site-list.md
func DocPath(words []string) string {
	p := catalog.PathForWords(words)
	if p == "" {
		return ""
	}
	p = strings.Replace(p, "commands/", "", 1)
	return strings.TrimSuffix(p, catalog.ManifestSuffix) + ".md"
}

const appHelpTemplate = `{{.Header}}
USAGE
  {{.AppName}} <command> [options]

COMMANDS
{{range .Groups}}
  {{.Name}}
{{- range .Commands}}
    {{.Name}}{{"\t"}}{{.Description}}
{{- end}}
{{end}}
Run '{{.AppName}} <command> --help' for help with a specific command.
`

const groupHelpTemplate = `{{.Group}} commands:

{{range .Commands}}  {{.Name}}{{"\t"}}{{.Description}}
{{end}}
Run '{{.AppName}} <command> --help' for help with a specific command.
`

type commandRow struct {
	Name        string
	Description string
}

type groupListing struct {
	Name     string
	Commands []commandRow
}

// AppHelp renders the full command listing, grouped by the first command
// word, groups and members in natural sort order.
func (p *Presenter) AppHelp(descriptors []*catalog.Descriptor) string {
	groups := map[string][]commandRow{}
	for _, d := range descriptors {
		g := strings.Fields(d.Name)[0]
		groups[g] = append(groups[g], commandRow{d.Name, d.Command.Description()})
	}
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	natsort.Sort(names)
	listing := make([]groupListing, 0, len(names))
	for _, g := range names {
		rows := groups[g]
		sort.Slice(rows, func(i, j int) bool { return natsort.Compare(rows[i].Name, rows[j].Name) })
		listing = append(listing, groupListing{Name: g, Commands: rows})
	}

	header := heredoc.Docf(`
		%s %s
		A command line client for the Cloudglass collaboration platform.
	`, p.AppName, p.Version)
	return p.execute(appHelpTemplate, map[string]interface{}{
		"Header":  strings.TrimRight(header, "\n"),
		"AppName": p.AppName,
		"Groups":  listing,
	})
}

// GroupHelp renders the listing of one command group.  An unknown group
// renders an empty listing; the caller decides whether that is an error.
func (p *Presenter) GroupHelp(group string, descriptors []*catalog.Descriptor) string {
	rows := []commandRow{}
	for _, d := range descriptors {
		if strings.Fields(d.Name)[0] == group {
			rows = append(rows, commandRow{d.Name, d.Command.Description()})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return natsort.Compare(rows[i].Name, rows[j].Name) })
	return p.execute(groupHelpTemplate, map[string]interface{}{
		"Group":    group,
		"AppName":  p.AppName,
		"Commands": rows,
	})
}

// CommandHelp renders one command's help: a usage synopsis, the option
// listing with required options marked, and the markdown documentation
// body when the docs tree has one.
//
// Errors:
//
//    - cloudglass-error-internal -- when the markdown body cannot be rendered
func (p *Presenter) CommandHelp(d *catalog.Descriptor) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "USAGE\n  %s %s [options]\n", p.AppName, d.Name)
	if desc := d.Command.Description(); desc != "" {
		fmt.Fprintf(&b, "\n%s\n", desc)
	}
	if len(d.Options) > 0 {
		fmt.Fprintf(&b, "\nOPTIONS\n")
		w := tabwriter.NewWriter(&b, 1, 8, 4, ' ', 0)
		for _, opt := range d.Options {
			fmt.Fprintf(w, "  %s\t%s\n", optionSynopsis(opt), optionNote(opt))
		}
		w.Flush()
	}

	body, err := p.docBody(d.Name)
	if err != nil {
		return "", err
	}
	if body != "" {
		fmt.Fprintf(&b, "\n%s", body)
	}
	return b.String(), nil
}

func optionSynopsis(opt capi.OptionSpec) string {
	parts := []string{}
	if opt.Short != "" {
		parts = append(parts, "-"+opt.Short)
	}
	if opt.Long != "" {
		parts = append(parts, "--"+opt.Long)
	}
	return strings.Join(parts, ", ")
}

func optionNote(opt capi.OptionSpec) string {
	if opt.Required {
		return "(required)"
	}
	return ""
}

// docBody loads and renders the markdown documentation for a command name,
// or returns "" when the docs tree has no entry for it.
func (p *Presenter) docBody(name string) (string, error) {
	if p.Docs == nil {
		return "", nil
	}
	raw, err := fs.ReadFile(p.Docs, DocPath(strings.Fields(name)))
	if err != nil {
		return "", nil
	}
	width := p.Width
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("ascii"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", capi.ErrorInternal("initializing the help renderer", err)
	}
	out, err := renderer.Render(string(raw))
	if err != nil {
		return "", capi.ErrorInternal("rendering command documentation", err)
	}
	return out, nil
}

func (p *Presenter) execute(tmpl string, data interface{}) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 1, 8, 4, ' ', 0)
	t := template.Must(template.New("help").Parse(tmpl))
	if err := t.Execute(w, data); err != nil {
		panic(err)
	}
	w.Flush()
	return b.String()
}
