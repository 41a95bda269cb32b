package catalog

import (
	"context"
	"testing"
	"testing/fstest"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/cloudglass-tools/cloudglass/capi"
)

func noopAction() Action {
	return Action{Run: func(ctx context.Context, rc *capi.RunContext, inv *capi.Invocation) error {
		return nil
	}}
}

func testActions() ActionSet {
	return ActionSet{
		"status.show":       noopAction(),
		"sites.list":        noopAction(),
		"sites.get":         noopAction(),
		"report.userdetail": noopAction(),
		"completion.list":   noopAction(),
	}
}

const testDefaultMode = 0444

func manifest(body string) *fstest.MapFile {
	return &fstest.MapFile{Mode: testDefaultMode, Data: []byte(body)}
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"commands/status.json": manifest(`{"cloudglass.command.v1": {
			"description": "Shows sign-in status",
			"action": "status.show"
		}}`),
		"commands/completion.json": manifest(`{"cloudglass.command.v1": {
			"description": "Prints all command names for shell completion tooling",
			"action": "completion.list"
		}}`),
		"sites/commands/sites-list.json": manifest(`{"cloudglass.command.v1": {
			"aliases": ["sites ls"],
			"description": "Lists sites",
			"options": ["-t, --type [type]"],
			"types": {"string": ["type"]},
			"action": "sites.list"
		}}`),
		"sites/commands/sites-get.json": manifest(`{"cloudglass.command.v1": {
			"description": "Gets one site",
			"options": ["-u, --webUrl <webUrl>"],
			"types": {"string": ["webUrl"]},
			"action": "sites.get"
		}}`),
		"report/commands/report-user-detail.json": manifest(`{"cloudglass.command.v1": {
			"name": "report user-detail",
			"description": "Per-user activity report",
			"options": ["-p, --period <period>"],
			"types": {"string": ["period"]},
			"autocomplete": {"period": ["D7", "D30", "D90", "D180"]},
			"action": "report.userdetail"
		}}`),
		// Files outside a commands segment and test artifacts are invisible
		// to discovery.
		"README.md":                           manifest(`not json`),
		"sites/commands/sites-list_test.json": manifest(`broken {`),
	}
}

func newTestLoader(fsys fstest.MapFS) *Loader {
	return &Loader{FS: fsys, Actions: testActions()}
}

func TestLoadResolvesExactlyOne(t *testing.T) {
	l := newTestLoader(testFS())
	reg, desc, err := l.Load([]string{"sites", "list"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, desc, qt.IsNotNil)
	qt.Assert(t, desc.Name, qt.Equals, "sites list")
	qt.Assert(t, reg.Len(), qt.Equals, 1)
}

func TestLoadSingleWordCommand(t *testing.T) {
	l := newTestLoader(testFS())
	reg, desc, err := l.Load([]string{"status"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, desc.Name, qt.Equals, "status")
	qt.Assert(t, reg.Len(), qt.Equals, 1)
}

func TestLoadFallbackIsCompleteCatalog(t *testing.T) {
	l := newTestLoader(testFS())
	reg, desc, err := l.Load([]string{"no", "such", "command"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, desc, qt.IsNil)
	// Every valid command file becomes a descriptor; the test artifact and
	// the stray README do not.
	qt.Assert(t, reg.Len(), qt.Equals, 5)
}

func TestLoadByAliasYieldsSameDescriptor(t *testing.T) {
	l := newTestLoader(testFS())
	// The alias doesn't match the path convention, so this goes through
	// full discovery.
	reg, byAlias, err := l.Load([]string{"sites", "ls"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, byAlias, qt.IsNotNil)
	byName, ok := reg.Get("sites list")
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, byAlias, qt.Equals, byName)
}

func TestLoadCompletionWordForcesFullCatalog(t *testing.T) {
	l := newTestLoader(testFS())
	reg, desc, err := l.Load([]string{"completion"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, desc.Name, qt.Equals, "completion")
	qt.Assert(t, reg.Len(), qt.Equals, 5)
}

func TestLoadZeroWordsLoadsEverything(t *testing.T) {
	l := newTestLoader(testFS())
	reg, desc, err := l.Load(nil)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, desc, qt.IsNil)
	qt.Assert(t, reg.Len(), qt.Equals, 5)
}

func TestLoadInvalidTargetedArtifactDegradesToDiscovery(t *testing.T) {
	fsys := testFS()
	// The path convention matches, but the artifact is not a command.
	fsys["tools/commands/tools-frob.json"] = manifest(`{"some.other.document": {}}`)
	l := newTestLoader(fsys)
	reg, desc, err := l.Load([]string{"tools", "frob"})
	// Targeted load failure is recoverable; discovery then fails hard on
	// the same invalid artifact, because during full discovery every load
	// failure is fatal.
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, serum.Code(err), qt.Equals, capi.CodeSearchingCatalog)
	qt.Assert(t, reg, qt.IsNil)
	qt.Assert(t, desc, qt.IsNil)
}

func TestLoadMissingArtifactFallsBackCleanly(t *testing.T) {
	l := newTestLoader(testFS())
	reg, desc, err := l.Load([]string{"sites", "remove"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, desc, qt.IsNil)
	qt.Assert(t, reg.Len(), qt.Equals, 5)
}

func TestLoadAllFailsOnBrokenManifest(t *testing.T) {
	fsys := testFS()
	fsys["jobs/commands/jobs-copy.json"] = manifest(`{"cloudglass.command.v1": {`)
	l := newTestLoader(fsys)
	_, err := l.LoadAll()
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, serum.Code(err), qt.Equals, capi.CodeSearchingCatalog)
}

func TestLoadAllFailsOnUnregisteredAction(t *testing.T) {
	fsys := testFS()
	fsys["jobs/commands/jobs-copy.json"] = manifest(`{"cloudglass.command.v1": {
		"description": "x",
		"action": "jobs.copy"
	}}`)
	l := newTestLoader(fsys)
	_, err := l.LoadAll()
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, serum.Code(err), qt.Equals, capi.CodeSearchingCatalog)
}

func TestManifestFromFileRejectsMissingEnvelope(t *testing.T) {
	fsys := fstest.MapFS{
		"commands/x.json": manifest(`{"nope": true}`),
	}
	_, err := ManifestFromFile(fsys, "commands/x.json")
	qt.Assert(t, serum.Code(err), qt.Equals, capi.CodeNotACommand)
}

func TestDescriptorCarriesParsedOptions(t *testing.T) {
	l := newTestLoader(testFS())
	_, desc, err := l.Load([]string{"report", "user-detail"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, desc, qt.IsNotNil)
	qt.Assert(t, desc.Options, qt.HasLen, 1)
	qt.Assert(t, desc.Options[0].Name, qt.Equals, "period")
	qt.Assert(t, desc.Options[0].Required, qt.IsTrue)
	qt.Assert(t, desc.Options[0].Autocomplete, qt.DeepEquals, []string{"D7", "D30", "D90", "D180"})
}

func TestPathForWords(t *testing.T) {
	for _, tt := range []struct {
		words  []string
		expect string
	}{
		{words: nil, expect: ""},
		{words: []string{"status"}, expect: "commands/status.json"},
		{words: []string{"sites", "list"}, expect: "sites/commands/sites-list.json"},
		{words: []string{"spo", "site", "list"}, expect: "spo/commands/site/site-list.json"},
		{words: []string{"spo", "site", "admin", "add"}, expect: "spo/commands/site/site-admin-add.json"},
	} {
		qt.Assert(t, PathForWords(tt.words), qt.Equals, tt.expect)
	}
}
