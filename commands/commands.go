// Package commands holds the built-in command set: the embedded manifest
// tree and the action implementations the manifests bind to.
package commands

import (
	"embed"
	"io/fs"

	"github.com/cloudglass-tools/cloudglass/pkg/catalog"
	"github.com/cloudglass-tools/cloudglass/pkg/client"
)

//go:embed manifests
var manifestTree embed.FS

// FS returns the embedded manifest tree, rooted so that the path convention
// applies directly (e.g. "commands/status.json").
func FS() fs.FS {
	sub, err := fs.Sub(manifestTree, "manifests")
	if err != nil {
		panic(err)
	}
	return sub
}

// Actions binds every built-in action id to its implementation.
//
// NOTE: keep this in sync with the "action" keys in the manifest tree;
// an id named there but missing here makes the manifest fail to load.
func Actions(api *client.Client) catalog.ActionSet {
	return catalog.ActionSet{
		"status.show":       {Run: statusShow(api)},
		"sites.list":        {Run: sitesList(api)},
		"sites.get":         {Run: sitesGet(api)},
		"report.userdetail": {Run: reportUserDetail(api), Validate: validateReportPeriod},
		"jobs.copy":         {Run: jobsCopy(api)},
		"completion.list":   {Run: completionList},
	}
}
