package commands

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/pkg/client"
)

// reportPeriods are the reporting windows the platform accepts.  The
// manifest declares the same list as autocomplete values for --period.
var reportPeriods = []string{"D7", "D30", "D90", "D180"}

func validateReportPeriod(inv *capi.Invocation) (bool, string) {
	period := inv.String("period")
	for _, p := range reportPeriods {
		if period == p {
			return true, ""
		}
	}
	return false, fmt.Sprintf("%s is not a valid period. Allowed values are %s",
		period, strings.Join(reportPeriods, ", "))
}

// reportUserDetail fetches the per-user activity report for one period.
func reportUserDetail(api *client.Client) capi.ActionFunc {
	return func(ctx context.Context, rc *capi.RunContext, inv *capi.Invocation) error {
		path := "/v1/reports/user-detail?period=" + url.QueryEscape(inv.String("period"))
		var resp struct {
			Items []map[string]interface{} `json:"items"`
		}
		if err := api.Get(ctx, path, &resp); err != nil {
			return err
		}
		rc.Log(resp.Items)
		return nil
	}
}
