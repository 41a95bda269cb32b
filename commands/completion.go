package commands

import (
	"context"

	"github.com/facette/natsort"

	"github.com/cloudglass-tools/cloudglass/capi"
)

// completionList emits every command name, one per line, for shell
// completion tooling.  Resolution always loads the full catalog for this
// command, so the name list is complete.
func completionList(ctx context.Context, rc *capi.RunContext, inv *capi.Invocation) error {
	names := append([]string{}, rc.CommandNames...)
	natsort.Sort(names)
	rc.Log(names)
	return nil
}
