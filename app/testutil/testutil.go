// Package testutil drives whole-app doctests: markdown files with
// testmark/testexec hunks naming a command line and its expected output.
package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"
	"github.com/warpfork/go-testmark"
	"github.com/warpfork/go-testmark/testexec"

	"github.com/cloudglass-tools/cloudglass/app"
	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/commands"
	"github.com/cloudglass-tools/cloudglass/docs"
	"github.com/cloudglass-tools/cloudglass/pkg/client"
	"github.com/cloudglass-tools/cloudglass/pkg/config"
)

// TestFileContainingTestmarkexec runs every top-level directory of hunks in
// the named testmark file as one subtest.
func TestFileContainingTestmarkexec(t *testing.T, fileName string) {
	t.Logf("loading test file: %q", fileName)
	doc, err := testmark.ReadFile(fileName)
	if err != nil {
		t.Fatalf("spec file parse failed?!: %s", err)
	}

	doc.BuildDirIndex()
	patches := testmark.PatchAccumulator{}
	defer func() {
		if *testmark.Regen {
			patches.WriteFileWithPatches(doc, fileName)
		}
	}()
	for _, dir := range doc.DirEnt.ChildrenList {
		t.Run(dir.Name, func(t *testing.T) {
			test := testexec.Tester{
				ExecFn:   buildExecFn(t),
				Patches:  &patches,
				AssertFn: assertFn,
			}
			test.Test(t, dir)
		})
	}
}

// buildExecFn wires one App instance per command, against the embedded
// manifest tree and an API endpoint no doctest should ever reach.
func buildExecFn(t *testing.T) func([]string, io.Reader, io.Writer, io.Writer) (int, error) {
	return func(args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
		bufout, buferr := &bytes.Buffer{}, &bytes.Buffer{}
		var testout io.Writer = bufout
		if stdout != nil {
			testout = io.MultiWriter(stdout, bufout)
		}
		var testerr io.Writer = buferr
		if stderr != nil {
			testerr = io.MultiWriter(stderr, buferr)
		}

		// args[0] is the binary name by shell convention.
		if len(args) > 0 && args[0] == "cloudglass" {
			args = args[1:]
		}

		api := client.New("http://127.0.0.1:1", "")
		a := &app.App{
			Stdin:    stdin,
			Stdout:   testout,
			Stderr:   testerr,
			Commands: commands.FS(),
			Docs:     docs.FS,
			Actions:  commands.Actions(api),
			Config:   config.Config{ApiEndpoint: "http://127.0.0.1:1"},
		}
		err := a.Run(context.Background(), args)
		exitCode := capi.ExitCode(err)

		t.Logf("Args: %v", args)
		for err != nil {
			t.Logf("Code: %s", serum.Code(err))
			t.Logf("Message: %s", serum.Message(err))
			t.Logf("Details: %v", serum.Details(err))
			err = errors.Unwrap(err)
			if err != nil {
				t.Logf("caused by:")
			}
		}
		t.Logf("==============")
		t.Logf("stdout:\n%s", bufout.String())
		t.Logf("stderr:\n%s", buferr.String())
		return exitCode, nil
	}
}

func assertFn(t *testing.T, actual, expect string) {
	qt.Assert(t, strings.TrimSpace(actual), qt.Equals, strings.TrimSpace(expect))
}
