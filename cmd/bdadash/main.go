package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type globals struct {
	Config  string   `short:"c" type:"path" default:"bdadash.yaml" help:"Path to the YAML configuration file (optional)."`
	EnvFile []string `name:"env-file" help:"Env files loaded before BDA_* overrides (defaults to .env)."`
	Data    string   `help:"Override the data base directory or URL."`
}

type cli struct {
	globals

	Serve  serveCmd  `cmd:"" help:"Serve the dashboard over HTTP."`
	Check  checkCmd  `cmd:"" help:"Fetch and validate every data source."`
	Export exportCmd `cmd:"" help:"Write an export file."`
	Layout layoutCmd `cmd:"" help:"Inspect the page layout manifest."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app cli
	kctx := kong.Parse(&app,
		kong.Name("bdadash"),
		kong.Description("BDA urban planning dashboard."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&app.globals)
	kctx.FatalIfErrorf(err)
}
