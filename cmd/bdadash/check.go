package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-bda-dashboard/components/dashboard"
	"github.com/goliatone/go-bda-dashboard/pkg/config"
	"github.com/goliatone/go-bda-dashboard/pkg/fetch"
)

type checkCmd struct {
	Source []string `arg:"" optional:"" help:"Sources to check (defaults to all)."`
}

func (cmd *checkCmd) Run(ctx context.Context, g *globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()
	return runCheck(ctx, cfg, logger, cmd.Source, os.Stdout)
}

func runCheck(ctx context.Context, cfg config.Config, logger logrus.FieldLogger, ids []string, out io.Writer) error {
	loader, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}
	targets := loader.Catalog().IDs()
	if len(ids) > 0 {
		targets = targets[:0:0]
		for _, id := range ids {
			targets = append(targets, dashboard.SourceID(id))
		}
	}

	failed := 0
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tPATH\tSTATE\tDETAIL")
	for _, id := range targets {
		def, _ := loader.Catalog().Definition(id)
		loadErr := loader.Load(ctx, id)
		status := loader.Store().Status(id)
		detail := ""
		if loadErr != nil {
			failed++
			detail = loadErr.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, def.Path, status.State, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(targets))
	}
	return nil
}

func newLoader(cfg config.Config, logger logrus.FieldLogger) (*dashboard.Loader, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	fetcher, err := fetch.New(cfg.Data.Base, cfg.Data.APIKey)
	if err != nil {
		return nil, err
	}
	return dashboard.NewLoader(dashboard.LoaderOptions{
		Catalog:   catalog,
		Fetcher:   fetcher,
		Validator: dashboard.NewJSONSchemaValidator(),
		Logger:    logger,
	}), nil
}
