package render

import (
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/cloudglass-tools/cloudglass/capi"
)

func TestRenderNilIsEmpty(t *testing.T) {
	out, err := Render(nil, Options{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out, qt.Equals, "")
}

func TestRenderJson(t *testing.T) {
	out, err := Render(map[string]interface{}{"title": "Radiant", "id": 7}, Options{Format: "json"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out, qt.Equals, "{\n  \"id\": 7,\n  \"title\": \"Radiant\"\n}\n")
}

func TestRenderScalar(t *testing.T) {
	out, err := Render("all good", Options{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out, qt.Equals, "all good\n")
}

func TestRenderScalarArrayOnePerLine(t *testing.T) {
	out, err := Render([]interface{}{"alpha", "beta", 3}, Options{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out, qt.Equals, "alpha\nbeta\n3\n")
}

func TestRenderSingleObjectBlock(t *testing.T) {
	out, err := Render(map[string]interface{}{
		"title":    "Radiant",
		"id":       42,
		"archived": false,
	}, Options{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out, qt.Equals, "archived: false\nid      : 42\ntitle   : Radiant\n")
}

func TestRenderBlockAlignsMultibyteKeys(t *testing.T) {
	out, err := Render(map[string]interface{}{
		"a":   1,
		"ürl": "https://x.example.com",
	}, Options{})
	qt.Assert(t, err, qt.IsNil)
	// Padding counts runes, so the multibyte key lines up with the rest.
	qt.Assert(t, out, qt.Equals, "a  : 1\nürl: https://x.example.com\n")
}

func TestRenderBlockInlinesNestedValues(t *testing.T) {
	out, err := Render(map[string]interface{}{
		"title": "Radiant",
		"owner": map[string]interface{}{"name": "pat"},
	}, Options{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, strings.Contains(out, `owner: {"name":"pat"}`), qt.IsTrue)
}

func TestRenderObjectArrayTable(t *testing.T) {
	out, err := Render([]interface{}{
		map[string]interface{}{"title": "Radiant", "visits": 12},
		map[string]interface{}{"title": "Dusty", "owner": "pat"},
	}, Options{})
	qt.Assert(t, err, qt.IsNil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	qt.Assert(t, len(lines), qt.Equals, 3)
	// Union of keys across ragged rows, sorted, becomes the header.
	qt.Assert(t, strings.Fields(lines[0]), qt.DeepEquals, []string{"owner", "title", "visits"})
	qt.Assert(t, strings.Fields(lines[1]), qt.DeepEquals, []string{"Radiant", "12"})
	qt.Assert(t, strings.Fields(lines[2]), qt.DeepEquals, []string{"pat", "Dusty"})
}

func TestRenderQueryFiltersBeforeFormatting(t *testing.T) {
	value := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"title": "Radiant"},
			map[string]interface{}{"title": "Dusty"},
		},
	}
	out, err := Render(value, Options{Query: "items[].title"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out, qt.Equals, "Radiant\nDusty\n")
}

func TestRenderJsonQueryProjection(t *testing.T) {
	value := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"n": 1},
			map[string]interface{}{"n": 2},
		},
	}
	out, err := Render(value, Options{Format: "json", Query: "items[?n==`1`]"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out, qt.Equals, "[\n  {\n    \"n\": 1\n  }\n]\n")
}

func TestRenderQueryIgnoredInHelpMode(t *testing.T) {
	out, err := Render("usage text", Options{Query: "items", Help: true})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out, qt.Equals, "usage text\n")
}

func TestRenderQueryInvalidExpression(t *testing.T) {
	_, err := Render(map[string]interface{}{"a": 1}, Options{Query: "items[."})
	qt.Assert(t, serum.Code(err), qt.Equals, capi.CodeQuery)
}

func TestRenderTime(t *testing.T) {
	stamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	out, err := Render(stamp, Options{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, out, qt.Equals, stamp.String()+"\n")
}

func TestFromInvocation(t *testing.T) {
	inv := capi.NewInvocation()
	inv.Options[capi.OptionOutput] = "json"
	inv.Options[capi.OptionQuery] = "items"
	opts := FromInvocation(inv)
	qt.Assert(t, opts, qt.DeepEquals, Options{Format: "json", Query: "items"})
}
