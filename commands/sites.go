package commands

import (
	"context"
	"net/url"

	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/pkg/client"
)

type site struct {
	Id      string `json:"id"`
	Title   string `json:"title"`
	WebUrl  string `json:"webUrl"`
	Type    string `json:"type,omitempty"`
	Created string `json:"created,omitempty"`
}

// sitesList lists sites reachable by the signed-in account, optionally
// narrowed by --type and --filter.
func sitesList(api *client.Client) capi.ActionFunc {
	return func(ctx context.Context, rc *capi.RunContext, inv *capi.Invocation) error {
		q := url.Values{}
		if inv.Has("type") {
			q.Set("type", inv.String("type"))
		}
		if inv.Has("filter") {
			q.Set("filter", inv.String("filter"))
		}
		path := "/v1/sites"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
		var resp struct {
			Items []site `json:"items"`
		}
		if err := api.Get(ctx, path, &resp); err != nil {
			return err
		}
		rc.Log(resp.Items)
		return nil
	}
}

// sitesGet fetches one site by its web url.
func sitesGet(api *client.Client) capi.ActionFunc {
	return func(ctx context.Context, rc *capi.RunContext, inv *capi.Invocation) error {
		var out site
		path := "/v1/sites/lookup?webUrl=" + url.QueryEscape(inv.String("webUrl"))
		if err := api.Get(ctx, path, &out); err != nil {
			return err
		}
		rc.Log(out)
		return nil
	}
}
