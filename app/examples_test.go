package app_test

import (
	"testing"

	"github.com/cloudglass-tools/cloudglass/app/testutil"
)

func TestExampleDirCLI(t *testing.T) {
	testutil.TestFileContainingTestmarkexec(t, "../examples/cli/cli.md")
}
