package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellblend/pkg/config"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/server"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var flags diagramFlags
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd, &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	addDiagramFlags(cmd, &flags)
	cmd.Flags().StringVar(&addr, "addr", config.DefaultServerAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	g, err := c.newGame(cfg)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	cancel := g.store.Subscribe(func(st diagram.State) {
		logger.Info("state changed", "version", st.Version, "cells", st.Len())
	})
	defer cancel()

	printKeyValue("Listening", StyleLink.Render(displayURL(cfg.Server.Addr)))
	printKeyValue("Cells", fmt.Sprint(g.store.Snapshot().Len()))
	printKeyValue("Cache", cfg.Cache.Backend)

	srv := server.New(server.Config{
		Store:      g.store,
		Controller: g.ctrl,
		Runner:     runner,
		Logger:     logger,
		Points:     cfg.Points,
	})
	err = srv.ListenAndServe(ctx, cfg.Server.Addr)
	if errors.Is(ctx.Err(), context.Canceled) {
		printInfo("Server stopped")
		return nil
	}
	return err
}

// displayURL turns a listen address into a browsable URL.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
