package main

import (
	"context"
	"io/fs"
	"os"

	"github.com/warpfork/go-fsx/osfs"

	"github.com/cloudglass-tools/cloudglass/app"
	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/commands"
	"github.com/cloudglass-tools/cloudglass/docs"
	"github.com/cloudglass-tools/cloudglass/pkg/client"
	"github.com/cloudglass-tools/cloudglass/pkg/config"
)

func main() {
	cfg := config.FromEnvironment()

	var manifests fs.FS = commands.FS()
	if cfg.CommandsPath != "" {
		manifests = osfs.DirFS(cfg.CommandsPath)
	}

	api := client.New(cfg.ApiEndpoint, cfg.ApiToken)
	a := &app.App{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Commands: manifests,
		Docs:     docs.FS,
		Actions:  commands.Actions(api),
		Config:   cfg,
		Version:  app.VERSION,
	}
	if err := a.Run(context.Background(), os.Args[1:]); err != nil {
		os.Exit(capi.ExitCode(err))
	}
}
