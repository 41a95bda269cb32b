package app_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/cloudglass-tools/cloudglass/app"
	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/commands"
	"github.com/cloudglass-tools/cloudglass/docs"
	"github.com/cloudglass-tools/cloudglass/pkg/client"
)

type run struct {
	out, err bytes.Buffer
	stdin    strings.Reader
	app      *app.App
}

func newRun(endpoint string, stdin string) *run {
	r := &run{}
	r.stdin.Reset(stdin)
	api := client.New(endpoint, "test-token")
	r.app = &app.App{
		Stdin:    &r.stdin,
		Stdout:   &r.out,
		Stderr:   &r.err,
		Commands: commands.FS(),
		Docs:     docs.FS,
		Actions:  commands.Actions(api),
	}
	return r
}

func (r *run) run(args ...string) error {
	return r.app.Run(context.Background(), args)
}

func TestReportCommandSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		qt.Assert(t, req.URL.Path, qt.Equals, "/v1/reports/user-detail")
		qt.Assert(t, req.URL.Query().Get("period"), qt.Equals, "D7")
		w.Write([]byte(`{"items":[{"user":"pat","visits":12},{"user":"sam","visits":3}]}`))
	}))
	defer srv.Close()

	r := newRun(srv.URL, "")
	err := r.run("report", "user-detail", "--period", "D7")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, capi.ExitCode(err), qt.Equals, 0)
	qt.Assert(t, r.out.String(), qt.Contains, "pat")
	qt.Assert(t, r.out.String(), qt.Contains, "sam")
}

func TestRemoteFailureExitsNonZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"service unavailable, try again later"}}`))
	}))
	defer srv.Close()

	r := newRun(srv.URL, "")
	err := r.run("report", "user-detail", "--period", "D7")
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, capi.ExitCode(err), qt.Equals, 1)
	qt.Assert(t, r.err.String(), qt.Contains, "service unavailable, try again later")
}

func TestValidationFailurePrintsMessageAndHelp(t *testing.T) {
	r := newRun("http://127.0.0.1:1", "")
	err := r.run("report", "user-detail", "--period", "D14")
	qt.Assert(t, serum.Code(err), qt.Equals, capi.CodeValidation)
	qt.Assert(t, r.err.String(), qt.Contains, "D14 is not a valid period")
	qt.Assert(t, r.out.String(), qt.Contains, "cloudglass report user-detail [options]")
}

func TestUnknownOptionRejected(t *testing.T) {
	r := newRun("http://127.0.0.1:1", "")
	err := r.run("sites", "list", "--mystery", "7")
	qt.Assert(t, serum.Code(err), qt.Equals, capi.CodeOptionUnknown)
	qt.Assert(t, r.err.String(), qt.Contains, "mystery")
}

func TestRequiredOptionMissing(t *testing.T) {
	r := newRun("http://127.0.0.1:1", "")
	err := r.run("sites", "get")
	qt.Assert(t, serum.Code(err), qt.Equals, capi.CodeOptionMissing)
	qt.Assert(t, r.err.String(), qt.Contains, "webUrl")
}

func TestHelpTokenShowsCommandHelp(t *testing.T) {
	r := newRun("http://127.0.0.1:1", "")
	err := r.run("help", "sites", "get")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, r.out.String(), qt.Contains, "cloudglass sites get [options]")
	qt.Assert(t, r.out.String(), qt.Contains, "--webUrl")
}

func TestHelpFlagBeatsValidation(t *testing.T) {
	// --help must show help even though required options are absent.
	r := newRun("http://127.0.0.1:1", "")
	err := r.run("sites", "get", "--help")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, r.out.String(), qt.Contains, "cloudglass sites get [options]")
}

func TestZeroArgsShowsAppHelp(t *testing.T) {
	r := newRun("http://127.0.0.1:1", "")
	err := r.run()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, r.out.String(), qt.Contains, "sites list")
	qt.Assert(t, r.out.String(), qt.Contains, "report user-detail")
}

func TestUnresolvedWordsInKnownGroupShowGroupHelp(t *testing.T) {
	r := newRun("http://127.0.0.1:1", "")
	err := r.run("sites", "destroy")
	qt.Assert(t, serum.Code(err), qt.Equals, capi.CodeUnknown)
	qt.Assert(t, r.out.String(), qt.Contains, "sites list")
	qt.Assert(t, r.out.String(), qt.Not(qt.Contains), "report user-detail")
}

func TestAliasResolves(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	r := newRun(srv.URL, "")
	err := r.run("sites", "ls")
	qt.Assert(t, err, qt.IsNil)
}

func TestJsonOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"service":"cloudglass","status":"healthy","region":"eu-1","updatedAt":"2026-02-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	r := newRun(srv.URL, "")
	err := r.run("status", "--output", "json")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, r.out.String(), qt.Contains, "\"status\": \"healthy\"")
}

func TestQueryFiltersOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"items":[{"id":"1","title":"Radiant","webUrl":"https://x/a"},{"id":"2","title":"Dusty","webUrl":"https://x/b"}]}`))
	}))
	defer srv.Close()

	r := newRun(srv.URL, "")
	err := r.run("sites", "list", "--query", "[].title")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, r.out.String(), qt.Equals, "Radiant\nDusty\n")
}

func TestJobsCopyPromptAborts(t *testing.T) {
	r := newRun("http://127.0.0.1:1", "n\n")
	err := r.run("jobs", "copy", "--sourceUrl", "/a", "--targetUrl", "/b")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, r.out.String(), qt.Contains, "Aborted.")
	qt.Assert(t, r.err.String(), qt.Contains, "Copy /a to /b?")
}

func TestJobsCopyFailedJobSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodPost {
			w.Write([]byte(`{"id":"j-1","state":"running"}`))
			return
		}
		w.Write([]byte(`{"id":"j-1","state":"failed","message":"target folder already exists"}`))
	}))
	defer srv.Close()

	r := newRun(srv.URL, "")
	err := r.run("jobs", "copy", "--sourceUrl", "/a", "--targetUrl", "/b", "--confirm")
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, r.err.String(), qt.Contains, "target folder already exists")
}

func TestVersionFlag(t *testing.T) {
	r := newRun("http://127.0.0.1:1", "")
	err := r.run("--version")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, r.out.String(), qt.Equals, app.VERSION+"\n")
}
