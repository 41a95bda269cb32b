package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/pkg/client"
)

type copyJob struct {
	Id      string `json:"id"`
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

// jobsCopy starts a server-side folder copy and waits for the job to reach
// a terminal state, polling at a fixed cadence.  Without --confirm the user
// is prompted before anything is submitted.
func jobsCopy(api *client.Client) capi.ActionFunc {
	return func(ctx context.Context, rc *capi.RunContext, inv *capi.Invocation) error {
		source := inv.String("sourceUrl")
		target := inv.String("targetUrl")
		if !inv.Bool("confirm") {
			answer, err := rc.Prompter.Prompt(ctx, fmt.Sprintf("Copy %s to %s? (y/N)", source, target))
			if err != nil {
				return err
			}
			if !strings.EqualFold(strings.TrimSpace(answer), "y") {
				rc.Log("Aborted.")
				return nil
			}
		}

		var job copyJob
		err := api.Post(ctx, "/v1/jobs/copy", map[string]string{
			"sourceUrl": source,
			"targetUrl": target,
		}, &job)
		if err != nil {
			return err
		}

		err = client.Poll(ctx, client.DefaultPollConfig, "waiting for the copy job", func(ctx context.Context) (bool, error) {
			var current copyJob
			if err := api.Get(ctx, "/v1/jobs/"+job.Id, &current); err != nil {
				return false, err
			}
			switch current.State {
			case "completed":
				return true, nil
			case "failed":
				return false, capi.ErrorJobFailed(current.Message)
			default:
				return false, nil
			}
		})
		if err != nil {
			return err
		}
		rc.Log(map[string]interface{}{"id": job.Id, "state": "completed"})
		return nil
	}
}
