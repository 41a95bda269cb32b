// Package app wires the whole invocation pipeline together: parse argv,
// resolve a command, validate, dispatch, render.  It owns no policy of its
// own; everything it does is delegation between the pkg/ layers.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/serum-errors/go-serum"

	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/pkg/argv"
	"github.com/cloudglass-tools/cloudglass/pkg/catalog"
	"github.com/cloudglass-tools/cloudglass/pkg/config"
	"github.com/cloudglass-tools/cloudglass/pkg/exec"
	"github.com/cloudglass-tools/cloudglass/pkg/help"
	"github.com/cloudglass-tools/cloudglass/pkg/logging"
	"github.com/cloudglass-tools/cloudglass/pkg/render"
	"github.com/cloudglass-tools/cloudglass/pkg/tracing"
)

const VERSION = "v0.4.0"

const appName = "cloudglass"

// App is one configured instance of the CLI.  Streams are injectable so
// tests can run the whole pipeline against buffers.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Commands fs.FS
	Docs     fs.FS
	Actions  catalog.ActionSet
	Config   config.Config
	Prompter capi.Prompter
	Version  string
}

// Run executes one invocation.  The args slice excludes the program name.
// A nil return is process exit 0; anything else exits with
// capi.ExitCode of the error, after the error has been printed.
func (a *App) Run(ctx context.Context, args []string) error {
	if a.Version == "" {
		a.Version = VERSION
	}

	inv := argv.Parse(args)
	if inv.Bool("version") {
		fmt.Fprintf(a.Stdout, "%s\n", a.Version)
		return nil
	}

	words := inv.Positional()
	helpRequested := false
	if len(words) > 0 && words[0] == "help" {
		helpRequested = true
		words = words[1:]
		args = dropFirst(args, "help")
	}

	logger := logging.NewLogger(a.Stdout, a.Stderr, false, inv.Verbose() || inv.Debug() || a.Config.Debug)
	ctx = logger.WithContext(ctx)

	provider, err := newTracingProvider(ctx, a.Version, traceOptionsFrom(inv))
	if err != nil {
		return a.fail(inv, capi.ErrorInternal("could not initialize tracing", err))
	}
	if provider != nil {
		defer func() {
			if err := provider.Shutdown(ctx); err != nil {
				logger.Debug("", "tracing shutdown error: %s", err.Error())
			}
		}()
		ctx = tracing.SetTracer(ctx, provider.Tracer(Module))
	}

	loader := &catalog.Loader{FS: a.Commands, Actions: a.Actions}
	reg, desc, err := loader.Load(words)
	if err != nil {
		return a.fail(inv, err)
	}

	presenter := &help.Presenter{
		AppName: appName,
		Version: a.Version,
		Docs:    a.Docs,
		Width:   help.DetectWidth(a.Stdout),
	}

	if len(words) == 0 {
		fmt.Fprint(a.Stdout, presenter.AppHelp(reg.All()))
		return nil
	}
	if desc == nil {
		a.printListingHelp(presenter, reg, words)
		if helpRequested {
			return nil
		}
		return a.fail(inv, serum.Error(capi.CodeUnknown,
			serum.WithMessageTemplate("unknown command {{command|q}}"),
			serum.WithDetail("command", strings.Join(words, " ")),
		))
	}

	// The command is known now; parse again with its schema so option
	// values get their declared types and aliases collapse.
	inv = argv.ParseWithSchema(args, argv.ForCommand(desc.Options, desc.Command.Types()))

	if helpRequested || inv.Help() {
		return a.printCommandHelp(presenter, desc)
	}

	if err := exec.Validate(desc.Command, desc.Options, inv); err != nil {
		fmt.Fprintf(a.Stderr, "error: %s\n", serumMessage(err))
		a.printCommandHelp(presenter, desc)
		return err
	}

	rc := &capi.RunContext{
		Log:          a.logSink(inv),
		Prompter:     a.prompter(),
		Command:      capi.CommandInfo{Name: desc.Name},
		CommandNames: reg.Names(),
	}
	err = exec.Dispatch(ctx, desc.Command, rc, inv,
		exec.MiddlewareLogging(logger),
		exec.MiddlewareTracingSpan(),
	)
	if err != nil {
		return a.fail(inv, err)
	}
	return nil
}

// logSink renders one logged value per call and prints it to stdout;
// render failures go to stderr and do not stop the command.
func (a *App) logSink(inv *capi.Invocation) func(interface{}) {
	opts := render.FromInvocation(inv)
	return func(value interface{}) {
		out, err := render.Render(value, opts)
		if err != nil {
			fmt.Fprintf(a.Stderr, "error: %s\n", serumMessage(err))
			return
		}
		fmt.Fprint(a.Stdout, out)
	}
}

func (a *App) prompter() capi.Prompter {
	if a.Prompter != nil {
		return a.Prompter
	}
	return exec.NewStreamPrompter(a.Stdin, a.Stderr)
}

func (a *App) printCommandHelp(presenter *help.Presenter, desc *catalog.Descriptor) error {
	out, err := presenter.CommandHelp(desc)
	if err != nil {
		return err
	}
	fmt.Fprint(a.Stdout, out)
	return nil
}

// printListingHelp shows the group listing when the first unresolved word
// names a known group, the full listing otherwise.
func (a *App) printListingHelp(presenter *help.Presenter, reg *catalog.Registry, words []string) {
	group := words[0]
	for _, d := range reg.All() {
		if strings.Fields(d.Name)[0] == group {
			fmt.Fprint(a.Stdout, presenter.GroupHelp(group, reg.All()))
			return
		}
	}
	fmt.Fprint(a.Stdout, presenter.AppHelp(reg.All()))
}

// fail prints the error the way the output mode asks for, then returns it
// so main can exit with its code.
func (a *App) fail(inv *capi.Invocation, err error) error {
	if inv.Output() == "json" {
		raw, merr := json.Marshal(err)
		if merr != nil {
			panic("error marshaling json")
		}
		fmt.Fprintf(a.Stderr, "%s\n", raw)
		return err
	}
	fmt.Fprintf(a.Stderr, "error: %s\n", serumMessage(err))
	return err
}

// serumMessage prefers the serum message over Error(), which prepends the
// code and reads poorly on a terminal.
func serumMessage(err error) string {
	if m := serum.Message(err); m != "" {
		return m
	}
	return err.Error()
}

// dropFirst removes the first occurrence of tok from args.
func dropFirst(args []string, tok string) []string {
	out := make([]string, 0, len(args))
	dropped := false
	for _, a := range args {
		if !dropped && a == tok {
			dropped = true
			continue
		}
		out = append(out, a)
	}
	return out
}
