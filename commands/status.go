package commands

import (
	"context"

	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/pkg/client"
)

// statusShow reports the platform's service health summary.
func statusShow(api *client.Client) capi.ActionFunc {
	return func(ctx context.Context, rc *capi.RunContext, inv *capi.Invocation) error {
		var status struct {
			Service   string `json:"service"`
			Status    string `json:"status"`
			Region    string `json:"region"`
			UpdatedAt string `json:"updatedAt"`
		}
		if err := api.Get(ctx, "/v1/status", &status); err != nil {
			return err
		}
		rc.Log(status)
		return nil
	}
}
