package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-bda-dashboard/components/dashboard/gorouter"
	dashboardpkg "github.com/goliatone/go-bda-dashboard/pkg/dashboard"
)

type serveCmd struct {
	Addr  string `help:"Listen address (overrides http.addr)."`
	Watch bool   `help:"Reload sources when files in the data directory change."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.HTTP.Addr = cmd.Addr
	}
	if cmd.Watch {
		cfg.Data.Watch = true
	}
	logger, closer, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	app, err := dashboardpkg.New(cfg, logger)
	if err != nil {
		return err
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: app.Controller,
		API:        app.Executor,
		Broadcast:  app.Broadcast,
		BasePath:   cfg.HTTP.BasePath,
		AssetsDir:  cfg.HTTP.AssetsDir,
	}); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"addr":  cfg.HTTP.Addr,
		"data":  cfg.Data.Base,
		"watch": app.Watching(),
	}).Info("dashboard ready")

	return app.Run(ctx, func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() { errCh <- server.Serve(cfg.HTTP.Addr) }()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		}
	})
}
