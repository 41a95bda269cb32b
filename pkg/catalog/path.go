package catalog

import (
	"path"
	"strings"
)

// ManifestSuffix is the file extension of command manifest artifacts.
const ManifestSuffix = ".json"

// PathForWords computes the candidate manifest path for a command's
// positional words.  The convention mirrors the hierarchical namespace
// group/subgroup/command:
//
//	["status"]                 -> commands/status.json
//	["sites", "list"]          -> sites/commands/sites-list.json
//	["spo", "site", "list"]    -> spo/commands/site/site-list.json
//
// An empty word list yields "".
func PathForWords(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return path.Join("commands", words[0]+ManifestSuffix)
	case 2:
		return path.Join(words[0], "commands", words[0]+"-"+words[1]+ManifestSuffix)
	default:
		return path.Join(words[0], "commands", words[1], strings.Join(words[1:], "-")+ManifestSuffix)
	}
}

// nameForPath derives a command name from its artifact path, for manifests
// which don't declare one.  Hyphens in the file base become spaces, so a
// command whose words themselves contain hyphens (e.g. "report user-detail")
// must declare its name explicitly.
func nameForPath(p string) string {
	base := strings.TrimSuffix(path.Base(p), ManifestSuffix)
	dir := path.Dir(p)
	segments := strings.Split(dir, "/")
	name := strings.ReplaceAll(base, "-", " ")
	if len(segments) >= 1 && segments[0] != "commands" && segments[0] != "." {
		group := segments[0]
		if !strings.HasPrefix(name, group+" ") && name != group {
			name = group + " " + name
		}
	}
	return name
}

// insideCommandsSegment reports whether the path has a "commands" directory
// segment, which is what marks a file as a command artifact during full
// discovery.
func insideCommandsSegment(p string) bool {
	dir := path.Dir(p)
	for _, seg := range strings.Split(dir, "/") {
		if seg == "commands" {
			return true
		}
	}
	return false
}

// isTestArtifact filters out test/spec files during full discovery.
func isTestArtifact(p string) bool {
	base := path.Base(p)
	return strings.Contains(base, "_test") || strings.Contains(base, ".spec.")
}
