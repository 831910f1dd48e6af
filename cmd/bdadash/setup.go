package main

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-bda-dashboard/pkg/config"
	"github.com/goliatone/go-bda-dashboard/pkg/logging"
)

func (g *globals) load() (config.Config, error) {
	cfg, err := config.Load(g.Config, g.EnvFile...)
	if err != nil {
		return cfg, err
	}
	if g.Data != "" {
		cfg.Data.Base = g.Data
	}
	return cfg, nil
}

func newLogger(cfg config.Config, out io.Writer) (*logrus.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		JSON:   cfg.Log.JSON,
		Output: out,
	})
}
