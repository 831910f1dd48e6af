package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-bda-dashboard/components/dashboard"
	"github.com/goliatone/go-bda-dashboard/pkg/config"
)

type exportCmd struct {
	Layouts exportLayoutsCmd `cmd:"" help:"Export every layout as CSV."`
	Sources exportSourcesCmd `cmd:"" help:"Export the sources document as indented JSON."`
}

type exportTarget struct {
	Out string `short:"o" type:"path" help:"Output file or directory (defaults to stdout)."`
}

type exportLayoutsCmd struct {
	exportTarget
}

type exportSourcesCmd struct {
	exportTarget
}

func (cmd *exportLayoutsCmd) Run(ctx context.Context, g *globals) error {
	return runExport(ctx, g, dashboard.SourceLayouts, cmd.Out, func(store *dashboard.Store) (dashboard.Export, error) {
		doc, ok := dashboard.Lookup[*dashboard.LayoutsDocument](store, dashboard.SourceLayouts)
		if !ok || doc == nil {
			return dashboard.Export{}, dashboard.ErrNothingToExport
		}
		return dashboard.ExportLayoutsCSV(doc.Layouts)
	})
}

func (cmd *exportSourcesCmd) Run(ctx context.Context, g *globals) error {
	return runExport(ctx, g, dashboard.SourceCitations, cmd.Out, func(store *dashboard.Store) (dashboard.Export, error) {
		raw, _ := store.Raw(dashboard.SourceCitations)
		return dashboard.ExportSourcesJSON(raw)
	})
}

func runExport(ctx context.Context, g *globals, id dashboard.SourceID, out string, build func(*dashboard.Store) (dashboard.Export, error)) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	return exportTo(ctx, cfg, id, out, os.Stdout, build)
}

func exportTo(ctx context.Context, cfg config.Config, id dashboard.SourceID, out string, stdout io.Writer, build func(*dashboard.Store) (dashboard.Export, error)) error {
	logger, closer, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	loader, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}
	if err := loader.Load(ctx, id); err != nil {
		return err
	}
	export, err := build(loader.Store())
	if err != nil {
		return err
	}
	if out == "" {
		_, err = stdout.Write(export.Body)
		return err
	}
	if info, statErr := os.Stat(out); statErr == nil && info.IsDir() {
		out = filepath.Join(out, export.Filename)
	}
	if err := os.WriteFile(out, export.Body, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", out, err)
	}
	fmt.Fprintf(stdout, "✓ Wrote %s\n", out)
	return nil
}
