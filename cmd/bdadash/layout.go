package main

import (
	"context"
	"io"
	"os"

	"github.com/goliatone/go-bda-dashboard/components/dashboard"
	"github.com/goliatone/go-bda-dashboard/pkg/config"
)

type layoutCmd struct {
	Dump layoutDumpCmd `cmd:"" help:"Print the effective page manifest as YAML."`
}

type layoutDumpCmd struct{}

func (cmd *layoutDumpCmd) Run(_ context.Context, g *globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	return dumpLayout(cfg, os.Stdout)
}

func dumpLayout(cfg config.Config, out io.Writer) error {
	manifest, err := cfg.Manifest()
	if err != nil {
		return err
	}
	return dashboard.EncodeManifest(out, manifest)
}
