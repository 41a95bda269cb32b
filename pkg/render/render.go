// Package render converts a command's logged values into display text:
// JSON, an aligned key/value block, a text table, or a plain line list,
// optionally filtered by a JMESPath query first.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmespath/go-jmespath"
	"github.com/olekukonko/tablewriter"

	"github.com/cloudglass-tools/cloudglass/capi"
)

// Options steers one render call.  Format "json" serializes; anything else
// is text formatting.  Query, when set and help is not forced, filters the
// value before any formatting.
type Options struct {
	Format string
	Query  string
	Help   bool
}

// FromInvocation picks render options off a parsed invocation.
func FromInvocation(inv *capi.Invocation) Options {
	return Options{
		Format: inv.Output(),
		Query:  inv.Query(),
		Help:   inv.Help(),
	}
}

// Render converts one logged value to display text.  A nil value renders
// as the empty string; callers skip printing it.
//
// Errors:
//
//    - cloudglass-error-query -- when the query expression cannot be evaluated
//    - cloudglass-error-serialization -- when the value cannot be serialized
func Render(value interface{}, opts Options) (string, error) {
	if value == nil {
		return "", nil
	}
	if t, ok := value.(time.Time); ok {
		value = t.String()
	}

	// The query applies to the JSON shape of the value, so normalize first.
	normalized, err := normalize(value)
	if err != nil {
		return "", err
	}
	if opts.Query != "" && !opts.Help {
		normalized, err = jmespath.Search(opts.Query, normalized)
		if err != nil {
			return "", capi.ErrorQuery(opts.Query, err)
		}
		if normalized == nil {
			return "", nil
		}
	}

	if opts.Format == "json" {
		out, err := json.MarshalIndent(normalized, "", "  ")
		if err != nil {
			return "", capi.ErrorSerialization("rendering json output", err)
		}
		return string(out) + "\n", nil
	}
	return renderText(normalized)
}

// normalize round-trips the value through JSON so the text formatters only
// ever see maps, slices, and primitives.
func normalize(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, capi.ErrorSerialization("normalizing output value", err)
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, capi.ErrorSerialization("normalizing output value", err)
	}
	return out, nil
}

func renderText(value interface{}) (string, error) {
	arr, ok := value.([]interface{})
	if !ok {
		arr = []interface{}{value}
	}
	if len(arr) == 0 {
		return "", nil
	}

	// The array's first defined element decides how the whole thing formats.
	var first interface{}
	for _, el := range arr {
		if el != nil {
			first = el
			break
		}
	}
	if _, isObject := first.(map[string]interface{}); !isObject {
		return renderLines(arr), nil
	}
	if len(arr) == 1 {
		return renderBlock(arr[0].(map[string]interface{})), nil
	}
	return renderTable(arr), nil
}

// renderLines joins primitive elements one per line.
func renderLines(arr []interface{}) string {
	lines := make([]string, 0, len(arr))
	for _, el := range arr {
		lines = append(lines, cell(el))
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderBlock renders a single object as an aligned "key: value" block,
// keys sorted, padded to the widest key.
func renderBlock(obj map[string]interface{}) string {
	keys := sortedKeys(obj)
	// Width in runes; fmt pads %-*s by runes too.
	width := 0
	for _, k := range keys {
		if n := utf8.RuneCountInString(k); n > width {
			width = n
		}
	}
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%-*s: %s\n", width, k, cell(obj[k]))
	}
	return b.String()
}

// renderTable renders an object array as a text table with one column per
// distinct key across all rows.  Ragged objects leave empty cells;
// non-object elements are skipped.
func renderTable(arr []interface{}) string {
	seen := map[string]bool{}
	columns := []string{}
	rows := []map[string]interface{}{}
	for _, el := range arr {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		rows = append(rows, obj)
		for _, k := range sortedKeys(obj) {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	var b strings.Builder
	table := tablewriter.NewWriter(&b)
	table.SetHeader(columns)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	for _, row := range rows {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			v, ok := row[col]
			if !ok {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, cell(v))
		}
		table.Append(cells)
	}
	table.Render()
	return b.String()
}

// cell formats one value for a line, block, or table cell.  Nested objects
// and arrays are JSON-stringified inline.
func cell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return fmt.Sprintf("%t", val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}

func sortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
